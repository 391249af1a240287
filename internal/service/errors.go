package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrEmptyArchiveRequest = errors.New("no file keys provided")
	ErrClassCodeTaken      = errors.New("class code is already taken")

	// ErrFileRequired — задание требует файлы, отметка "выполнено" без них запрещена.
	ErrFileRequired = errors.New("assignment requires file submission")

	// ErrBlobDelete — блоб не удалён, зависимая запись должна остаться.
	ErrBlobDelete = errors.New("failed to delete stored file")
)

// PartialFetchError — хотя бы один блоб не скачался; частичный архив не отдаём.
type PartialFetchError struct {
	Keys []string
}

func (e *PartialFetchError) Error() string {
	return fmt.Sprintf("failed to fetch %d file(s): %s", len(e.Keys), strings.Join(e.Keys, ", "))
}

const (
	TeardownStepResolveSubmissions = "resolve_submissions"
	TeardownStepResolveFiles       = "resolve_files"
	TeardownStepDeleteBlobs        = "delete_blobs"
	TeardownStepDeleteRecords      = "delete_records"
)

// TeardownError — каскадное удаление остановлено на конкретном шаге;
// запись задания не тронута, операцию можно повторить.
type TeardownError struct {
	Step string
	Err  error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("teardown failed at step %s: %v", e.Step, e.Err)
}

func (e *TeardownError) Unwrap() error {
	return e.Err
}
