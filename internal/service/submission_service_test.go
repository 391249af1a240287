package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/rs/zerolog"
)

func newTestSubmissionService(submissions *fakeSubmissionRepo, files *fakeFileRepo, assignments *fakeAssignmentRepo, storage *fakeStorage) SubmissionService {
	return NewSubmissionService(submissions, files, assignments, storage, nil, zerolog.Nop(), "submissions")
}

func seedAssignment(t *testing.T, assignments *fakeAssignmentRepo, id string, requiresFiles bool) {
	t.Helper()
	err := assignments.Create(context.Background(), &models.Assignment{
		ID:                     id,
		ClassID:                "class-1",
		Title:                  "Lab report",
		DueDate:                time.Now().Add(24 * time.Hour),
		RequiresFileSubmission: requiresFiles,
		CreatedBy:              "cr-1",
		CreatedAt:              time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to seed assignment: %v", err)
	}
}

func TestEnsureSubmissionIdempotent(t *testing.T) {
	submissions := newFakeSubmissionRepo()
	svc := newTestSubmissionService(submissions, newFakeFileRepo(), newFakeAssignmentRepo(), newFakeStorage())

	first, err := svc.EnsureSubmission(context.Background(), "hw-1", "student-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.EnsureSubmission(context.Background(), "hw-1", "student-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected same submission, got %s and %s", first.ID, second.ID)
	}
}

func TestEnsureSubmissionConcurrent(t *testing.T) {
	submissions := newFakeSubmissionRepo()
	svc := newTestSubmissionService(submissions, newFakeFileRepo(), newFakeAssignmentRepo(), newFakeStorage())

	const workers = 10
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			submission, err := svc.EnsureSubmission(context.Background(), "hw-1", "student-1")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			ids[i] = submission.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("concurrent calls diverged: %s vs %s", ids[i], ids[0])
		}
	}
}

func TestAttachFilesSuccess(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	seedAssignment(t, assignments, "hw-1", true)
	storage := newFakeStorage()
	files := newFakeFileRepo()
	svc := newTestSubmissionService(newFakeSubmissionRepo(), files, assignments, storage)

	result, err := svc.AttachFiles(context.Background(), "hw-1", "student-1", []models.FileUpload{
		{FileName: "report.pdf", MimeType: "application/pdf", Content: []byte("pdf body")},
		{FileName: "code.go", MimeType: "text/plain", Content: []byte("package main")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Attached) != 2 {
		t.Fatalf("expected 2 attached files, got %d", len(result.Attached))
	}
	if len(result.Failed) != 0 {
		t.Fatalf("expected no failures, got %v", result.Failed)
	}
	if len(storage.objects) != 2 {
		t.Errorf("expected 2 blobs in storage, got %d", len(storage.objects))
	}
	for _, attached := range result.Attached {
		if attached.SubmissionID != result.SubmissionID {
			t.Errorf("file %s bound to wrong submission", attached.FileName)
		}
		if _, ok := storage.objects[attached.FilePath]; !ok {
			t.Errorf("record %s points at missing blob %s", attached.ID, attached.FilePath)
		}
	}
}

func TestAttachFilesAssignmentNotFound(t *testing.T) {
	svc := newTestSubmissionService(newFakeSubmissionRepo(), newFakeFileRepo(), newFakeAssignmentRepo(), newFakeStorage())

	_, err := svc.AttachFiles(context.Background(), "missing", "student-1", []models.FileUpload{
		{FileName: "report.pdf", Content: []byte("body")},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAttachFilesUploadFailureReported(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	seedAssignment(t, assignments, "hw-1", true)
	storage := newFakeStorage()
	storage.failUploads = true
	files := newFakeFileRepo()
	svc := newTestSubmissionService(newFakeSubmissionRepo(), files, assignments, storage)

	result, err := svc.AttachFiles(context.Background(), "hw-1", "student-1", []models.FileUpload{
		{FileName: "report.pdf", Content: []byte("body")},
		{FileName: "notes.txt", Content: []byte("notes")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Attached) != 0 {
		t.Errorf("expected no attached files, got %d", len(result.Attached))
	}
	if len(result.Failed) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(result.Failed))
	}
	// Блоб не загрузился — записей быть не должно.
	if files.createCalls != 0 {
		t.Errorf("expected no record creation attempts, got %d", files.createCalls)
	}
}

func TestAttachFilesRecordFailureCleansUpBlob(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	seedAssignment(t, assignments, "hw-1", true)
	storage := newFakeStorage()
	files := newFakeFileRepo()
	files.createErr = errors.New("db down")
	svc := newTestSubmissionService(newFakeSubmissionRepo(), files, assignments, storage)

	result, err := svc.AttachFiles(context.Background(), "hw-1", "student-1", []models.FileUpload{
		{FileName: "report.pdf", Content: []byte("body")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Failed) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failed))
	}
	// Компенсация: загруженный блоб удалён вслед за несостоявшейся записью.
	if len(storage.objects) != 0 {
		t.Errorf("expected orphaned blob to be removed, %d left", len(storage.objects))
	}
	if len(storage.deletedKeys) != 1 {
		t.Errorf("expected 1 compensating delete, got %d", len(storage.deletedKeys))
	}
}

func TestRemoveFileNotFound(t *testing.T) {
	svc := newTestSubmissionService(newFakeSubmissionRepo(), newFakeFileRepo(), newFakeAssignmentRepo(), newFakeStorage())

	err := svc.RemoveFile(context.Background(), "missing", "student-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveFileWrongOwner(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	seedAssignment(t, assignments, "hw-1", true)
	storage := newFakeStorage()
	files := newFakeFileRepo()
	svc := newTestSubmissionService(newFakeSubmissionRepo(), files, assignments, storage)

	result, err := svc.AttachFiles(context.Background(), "hw-1", "student-1", []models.FileUpload{
		{FileName: "report.pdf", Content: []byte("body")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.RemoveFile(context.Background(), result.Attached[0].ID, "student-2")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRemoveFileBlobFailureKeepsRecord(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	seedAssignment(t, assignments, "hw-1", true)
	storage := newFakeStorage()
	files := newFakeFileRepo()
	svc := newTestSubmissionService(newFakeSubmissionRepo(), files, assignments, storage)

	result, err := svc.AttachFiles(context.Background(), "hw-1", "student-1", []models.FileUpload{
		{FileName: "report.pdf", Content: []byte("body")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	storage.failDelete = true
	err = svc.RemoveFile(context.Background(), result.Attached[0].ID, "student-1")
	if !errors.Is(err, ErrBlobDelete) {
		t.Fatalf("expected ErrBlobDelete, got %v", err)
	}

	// Запись пережила отказ хранилища и остаётся видимой.
	kept, err := files.GetByID(context.Background(), result.Attached[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kept == nil {
		t.Error("expected file record to survive blob delete failure")
	}
}

func TestRemoveFileSuccess(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	seedAssignment(t, assignments, "hw-1", true)
	storage := newFakeStorage()
	files := newFakeFileRepo()
	svc := newTestSubmissionService(newFakeSubmissionRepo(), files, assignments, storage)

	result, err := svc.AttachFiles(context.Background(), "hw-1", "student-1", []models.FileUpload{
		{FileName: "report.pdf", Content: []byte("body")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RemoveFile(context.Background(), result.Attached[0].ID, "student-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(storage.objects) != 0 {
		t.Errorf("expected blob to be deleted, %d left", len(storage.objects))
	}
	kept, _ := files.GetByID(context.Background(), result.Attached[0].ID)
	if kept != nil {
		t.Error("expected file record to be deleted")
	}
}

func TestMarkCompleteRejectsFileRequired(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	seedAssignment(t, assignments, "hw-1", true)
	svc := newTestSubmissionService(newFakeSubmissionRepo(), newFakeFileRepo(), assignments, newFakeStorage())

	_, err := svc.MarkComplete(context.Background(), "hw-1", "student-1")
	if !errors.Is(err, ErrFileRequired) {
		t.Fatalf("expected ErrFileRequired, got %v", err)
	}
}

func TestMarkCompleteCreatesSubmission(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	seedAssignment(t, assignments, "hw-1", false)
	svc := newTestSubmissionService(newFakeSubmissionRepo(), newFakeFileRepo(), assignments, newFakeStorage())

	first, err := svc.MarkComplete(context.Background(), "hw-1", "student-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.MarkComplete(context.Background(), "hw-1", "student-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("repeated mark complete created a new submission: %s vs %s", first.ID, second.ID)
	}
}

func TestGetForStudentNotFound(t *testing.T) {
	svc := newTestSubmissionService(newFakeSubmissionRepo(), newFakeFileRepo(), newFakeAssignmentRepo(), newFakeStorage())

	_, err := svc.GetForStudent(context.Background(), "hw-1", "student-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
