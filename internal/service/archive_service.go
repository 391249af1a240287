package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/classboard/classwork-service/internal/repository"
	"github.com/rs/zerolog"
)

type ArchiveService interface {
	BuildArchive(ctx context.Context, keys []string, outputName string) (*models.ArchiveResponse, error)
	BuildSubmissionArchive(ctx context.Context, submissionID string) (*models.ArchiveResponse, error)
	BuildAssignmentArchive(ctx context.Context, assignmentID string) (*models.ArchiveResponse, error)
}

type archiveService struct {
	submissionRepo repository.SubmissionRepository
	fileRepo       repository.SubmissionFileRepository
	assignmentRepo repository.AssignmentRepository
	storageRepo    repository.StorageRepository
	logger         zerolog.Logger
	bucketName     string
}

func NewArchiveService(
	submissionRepo repository.SubmissionRepository,
	fileRepo repository.SubmissionFileRepository,
	assignmentRepo repository.AssignmentRepository,
	storageRepo repository.StorageRepository,
	logger zerolog.Logger,
	bucketName string,
) ArchiveService {
	return &archiveService{
		submissionRepo: submissionRepo,
		fileRepo:       fileRepo,
		assignmentRepo: assignmentRepo,
		storageRepo:    storageRepo,
		logger:         logger,
		bucketName:     bucketName,
	}
}

type fetchOutcome struct {
	key     string
	content []byte
	err     error
}

// BuildArchive собирает zip из блобов по ключам. Архив атомарен: если хотя бы
// один блоб не скачался, наружу уходит PartialFetchError со списком ключей,
// а не урезанный архив.
func (s *archiveService) BuildArchive(ctx context.Context, keys []string, outputName string) (*models.ArchiveResponse, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyArchiveRequest
	}

	outcomes := make([]fetchOutcome, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			outcomes[i] = s.fetchOne(ctx, key)
		}(i, key)
	}
	wg.Wait()

	var failed []string
	for _, outcome := range outcomes {
		if outcome.err != nil {
			s.logger.Error().
				Err(outcome.err).
				Str("key", outcome.key).
				Msg("Failed to fetch file for archive")
			failed = append(failed, outcome.key)
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		return nil, &PartialFetchError{Keys: failed}
	}

	// Имена в архиве — базовые имена ключей. При совпадении имён остаётся
	// содержимое последнего по порядку запроса.
	entryOrder := make([]string, 0, len(outcomes))
	entryContent := make(map[string][]byte, len(outcomes))
	for _, outcome := range outcomes {
		name := path.Base(outcome.key)
		if _, seen := entryContent[name]; !seen {
			entryOrder = append(entryOrder, name)
		}
		entryContent[name] = outcome.content
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range entryOrder {
		entry, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry: %w", err)
		}
		if _, err := entry.Write(entryContent[name]); err != nil {
			return nil, fmt.Errorf("failed to write archive entry: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	fileName := sanitizeArchiveName(outputName)

	s.logger.Info().
		Str("file_name", fileName).
		Int("entries", len(entryOrder)).
		Int("size", buf.Len()).
		Msg("Archive built")

	return &models.ArchiveResponse{
		Content:     buf.Bytes(),
		FileName:    fileName,
		ContentType: "application/zip",
	}, nil
}

func (s *archiveService) BuildSubmissionArchive(ctx context.Context, submissionID string) (*models.ArchiveResponse, error) {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, ErrNotFound
	}

	files, err := s.fileRepo.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission files: %w", err)
	}

	keys := make([]string, 0, len(files))
	for _, file := range files {
		keys = append(keys, file.FilePath)
	}

	return s.BuildArchive(ctx, keys, fmt.Sprintf("submission-%s", submission.ProfileID))
}

func (s *archiveService) BuildAssignmentArchive(ctx context.Context, assignmentID string) (*models.ArchiveResponse, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, ErrNotFound
	}

	files, err := s.fileRepo.GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment files: %w", err)
	}

	keys := make([]string, 0, len(files))
	for _, file := range files {
		keys = append(keys, file.FilePath)
	}

	return s.BuildArchive(ctx, keys, assignment.Title)
}

func (s *archiveService) fetchOne(ctx context.Context, key string) fetchOutcome {
	object, _, err := s.storageRepo.DownloadFile(ctx, s.bucketName, key)
	if err != nil {
		return fetchOutcome{key: key, err: err}
	}
	defer object.Close()

	content, err := io.ReadAll(object)
	if err != nil {
		return fetchOutcome{key: key, err: fmt.Errorf("failed to read file content: %w", err)}
	}

	return fetchOutcome{key: key, content: content}
}

func sanitizeArchiveName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".zip")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	name = strings.Trim(name, "- ")
	if name == "" {
		name = "archive"
	}

	return name + ".zip"
}
