package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/classboard/classwork-service/internal/repository"
	"github.com/classboard/classwork-service/internal/service/integration"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type SubmissionService interface {
	EnsureSubmission(ctx context.Context, assignmentID, profileID string) (*models.Submission, error)
	AttachFiles(ctx context.Context, assignmentID, profileID string, uploads []models.FileUpload) (*models.AttachResult, error)
	RemoveFile(ctx context.Context, fileID, profileID string) error
	MarkComplete(ctx context.Context, assignmentID, profileID string) (*models.Submission, error)
	GetForStudent(ctx context.Context, assignmentID, profileID string) (*models.SubmissionWithFiles, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.SubmissionWithFiles, error)
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	fileRepo       repository.SubmissionFileRepository
	assignmentRepo repository.AssignmentRepository
	storageRepo    repository.StorageRepository
	events         integration.EventPublisher
	logger         zerolog.Logger
	bucketName     string
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	fileRepo repository.SubmissionFileRepository,
	assignmentRepo repository.AssignmentRepository,
	storageRepo repository.StorageRepository,
	events integration.EventPublisher,
	logger zerolog.Logger,
	bucketName string,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		fileRepo:       fileRepo,
		assignmentRepo: assignmentRepo,
		storageRepo:    storageRepo,
		events:         events,
		logger:         logger,
		bucketName:     bucketName,
	}
}

// EnsureSubmission — идемпотентный get-or-create. Двойной тап с одного
// устройства или две реплики сервиса сходятся на одной записи: авторитет —
// уникальное ограничение (assignment_id, profile_id) в БД, а не блокировки
// в процессе.
func (s *submissionService) EnsureSubmission(ctx context.Context, assignmentID, profileID string) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetOrCreate(ctx, &models.Submission{
		ID:           uuid.New().String(),
		AssignmentID: assignmentID,
		ProfileID:    profileID,
		SubmittedAt:  time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure submission: %w", err)
	}

	return submission, nil
}

type uploadOutcome struct {
	file *models.SubmissionFile
	err  error
}

func (s *submissionService) AttachFiles(ctx context.Context, assignmentID, profileID string, uploads []models.FileUpload) (*models.AttachResult, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, ErrNotFound
	}

	submission, err := s.EnsureSubmission(ctx, assignmentID, profileID)
	if err != nil {
		return nil, err
	}

	// Каждый файл грузится независимо: блоб, затем запись. Ошибка одного
	// файла не откатывает и не блокирует соседей.
	outcomes := make([]uploadOutcome, len(uploads))
	var wg sync.WaitGroup
	for i, upload := range uploads {
		wg.Add(1)
		go func(i int, upload models.FileUpload) {
			defer wg.Done()
			outcomes[i] = s.attachOne(ctx, submission.ID, assignmentID, profileID, upload)
		}(i, upload)
	}
	wg.Wait()

	result := &models.AttachResult{SubmissionID: submission.ID}
	for i, outcome := range outcomes {
		if outcome.err != nil {
			s.logger.Error().
				Err(outcome.err).
				Str("submission_id", submission.ID).
				Str("file_name", uploads[i].FileName).
				Msg("Failed to attach file")
			result.Failed = append(result.Failed, models.FileFailure{
				FileName: uploads[i].FileName,
				Message:  outcome.err.Error(),
			})
			continue
		}
		result.Attached = append(result.Attached, *outcome.file)
	}

	if s.events != nil && len(result.Attached) > 0 {
		event := &models.SubmissionReceivedEvent{
			SubmissionID:  submission.ID,
			AssignmentID:  assignmentID,
			ProfileID:     profileID,
			AttachedFiles: len(result.Attached),
			Timestamp:     time.Now().Unix(),
		}
		if err := s.events.PublishSubmissionReceived(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish submission received event")
		}
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("assignment_id", assignmentID).
		Str("profile_id", profileID).
		Int("attached", len(result.Attached)).
		Int("failed", len(result.Failed)).
		Msg("Files attached to submission")

	return result, nil
}

func (s *submissionService) attachOne(ctx context.Context, submissionID, assignmentID, profileID string, upload models.FileUpload) uploadOutcome {
	// Ключ уникален даже для одинаковых имён за счёт наносекундной метки.
	key := fmt.Sprintf("%s/%s/%d-%s", profileID, assignmentID, time.Now().UnixNano(), upload.FileName)

	// Сначала блоб, потом запись: запись никогда не указывает в пустоту.
	err := s.storageRepo.UploadFile(
		ctx,
		s.bucketName,
		key,
		bytes.NewReader(upload.Content),
		int64(len(upload.Content)),
		upload.MimeType,
	)
	if err != nil {
		return uploadOutcome{err: fmt.Errorf("failed to upload file to storage: %w", err)}
	}

	file := &models.SubmissionFile{
		ID:           uuid.New().String(),
		SubmissionID: submissionID,
		FilePath:     key,
		FileName:     upload.FileName,
		CreatedAt:    time.Now(),
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Запись не создалась — убираем блоб, чтобы не копить мусор.
		if delErr := s.storageRepo.DeleteFile(ctx, s.bucketName, key); delErr != nil {
			s.logger.Error().Err(delErr).Str("key", key).Msg("Failed to clean up orphaned blob")
		}
		return uploadOutcome{err: fmt.Errorf("failed to save file record: %w", err)}
	}

	return uploadOutcome{file: file}
}

func (s *submissionService) RemoveFile(ctx context.Context, fileID, profileID string) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to get file record: %w", err)
	}
	if file == nil {
		return ErrNotFound
	}

	submission, err := s.submissionRepo.GetByID(ctx, file.SubmissionID)
	if err != nil {
		return fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return ErrNotFound
	}
	if submission.ProfileID != profileID {
		return ErrForbidden
	}

	// Блоб удаляется первым. Если он не удалился — запись остаётся:
	// запись, указывающая на отсутствующий блоб, недопустима, осиротевший
	// блоб — терпимая утечка.
	if err := s.storageRepo.DeleteFile(ctx, s.bucketName, file.FilePath); err != nil {
		return fmt.Errorf("%w: %v", ErrBlobDelete, err)
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		s.logger.Error().
			Err(err).
			Str("file_id", fileID).
			Str("key", file.FilePath).
			Msg("Blob deleted but record removal failed")
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	s.logger.Info().
		Str("file_id", fileID).
		Str("key", file.FilePath).
		Msg("Submission file removed")

	return nil
}

func (s *submissionService) MarkComplete(ctx context.Context, assignmentID, profileID string) (*models.Submission, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, ErrNotFound
	}
	if assignment.RequiresFileSubmission {
		return nil, ErrFileRequired
	}

	submission, err := s.EnsureSubmission(ctx, assignmentID, profileID)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		event := &models.SubmissionReceivedEvent{
			SubmissionID: submission.ID,
			AssignmentID: assignmentID,
			ProfileID:    profileID,
			Timestamp:    time.Now().Unix(),
		}
		if err := s.events.PublishSubmissionReceived(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish submission received event")
		}
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("assignment_id", assignmentID).
		Str("profile_id", profileID).
		Msg("Assignment marked as complete")

	return submission, nil
}

func (s *submissionService) GetForStudent(ctx context.Context, assignmentID, profileID string) (*models.SubmissionWithFiles, error) {
	submission, err := s.submissionRepo.GetByAssignmentAndProfile(ctx, assignmentID, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, ErrNotFound
	}

	files, err := s.fileRepo.GetBySubmissionID(ctx, submission.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission files: %w", err)
	}

	return &models.SubmissionWithFiles{
		Submission: *submission,
		Files:      files,
	}, nil
}

func (s *submissionService) ListByAssignment(ctx context.Context, assignmentID string) ([]models.SubmissionWithFiles, error) {
	submissions, err := s.submissionRepo.GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	files, err := s.fileRepo.GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submission files: %w", err)
	}

	filesBySubmission := make(map[string][]models.SubmissionFile)
	for _, file := range files {
		filesBySubmission[file.SubmissionID] = append(filesBySubmission[file.SubmissionID], file)
	}

	result := make([]models.SubmissionWithFiles, 0, len(submissions))
	for _, submission := range submissions {
		result = append(result, models.SubmissionWithFiles{
			Submission: submission,
			Files:      filesBySubmission[submission.ID],
		})
	}

	return result, nil
}
