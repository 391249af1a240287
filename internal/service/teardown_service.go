package service

import (
	"context"
	"fmt"
	"time"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/classboard/classwork-service/internal/repository"
	"github.com/classboard/classwork-service/internal/service/integration"
	"github.com/rs/zerolog"
)

type TeardownService interface {
	DeleteAssignment(ctx context.Context, assignmentID string) error
}

type teardownService struct {
	assignmentRepo repository.AssignmentRepository
	submissionRepo repository.SubmissionRepository
	fileRepo       repository.SubmissionFileRepository
	storageRepo    repository.StorageRepository
	events         integration.EventPublisher
	logger         zerolog.Logger
	bucketName     string
}

func NewTeardownService(
	assignmentRepo repository.AssignmentRepository,
	submissionRepo repository.SubmissionRepository,
	fileRepo repository.SubmissionFileRepository,
	storageRepo repository.StorageRepository,
	events integration.EventPublisher,
	logger zerolog.Logger,
	bucketName string,
) TeardownService {
	return &teardownService{
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		fileRepo:       fileRepo,
		storageRepo:    storageRepo,
		events:         events,
		logger:         logger,
		bucketName:     bucketName,
	}
}

// DeleteAssignment сносит задание вместе со всеми сдачами и их файлами.
// Порядок жёсткий: сначала блобы, затем записи файлов, сдачи и само задание.
// Если блобы не удалились, записи не трогаем — задание остаётся видимым
// и операцию можно повторить.
func (s *teardownService) DeleteAssignment(ctx context.Context, assignmentID string) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return ErrNotFound
	}

	submissions, err := s.submissionRepo.GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		return &TeardownError{Step: TeardownStepResolveSubmissions, Err: err}
	}

	files, err := s.fileRepo.GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		return &TeardownError{Step: TeardownStepResolveFiles, Err: err}
	}

	keys := make([]string, 0, len(files))
	for _, file := range files {
		keys = append(keys, file.FilePath)
	}

	if err := s.storageRepo.DeleteFiles(ctx, s.bucketName, keys); err != nil {
		return &TeardownError{Step: TeardownStepDeleteBlobs, Err: err}
	}

	// Записи удаляем явно от листьев к корню, не полагаясь на каскад схемы.
	if err := s.fileRepo.DeleteByAssignmentID(ctx, assignmentID); err != nil {
		return &TeardownError{Step: TeardownStepDeleteRecords, Err: err}
	}
	if err := s.submissionRepo.DeleteByAssignmentID(ctx, assignmentID); err != nil {
		return &TeardownError{Step: TeardownStepDeleteRecords, Err: err}
	}
	if err := s.assignmentRepo.Delete(ctx, assignmentID); err != nil {
		return &TeardownError{Step: TeardownStepDeleteRecords, Err: err}
	}

	if s.events != nil {
		event := &models.AssignmentDeletedEvent{
			AssignmentID: assignmentID,
			ClassID:      assignment.ClassID,
			DeletedBlobs: len(keys),
			Timestamp:    time.Now().Unix(),
		}
		if err := s.events.PublishAssignmentDeleted(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish assignment deleted event")
		}
	}

	s.logger.Info().
		Str("assignment_id", assignmentID).
		Int("submissions", len(submissions)).
		Int("blobs", len(keys)).
		Msg("Assignment deleted with all submissions")

	return nil
}
