package service

import (
	"context"
	"fmt"
	"time"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/classboard/classwork-service/internal/repository"
	"github.com/classboard/classwork-service/internal/service/integration"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type AssignmentService interface {
	Create(ctx context.Context, classID, createdBy string, req *models.CreateAssignmentRequest) (*models.Assignment, error)
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	GetByClassID(ctx context.Context, classID string) ([]models.AssignmentWithStats, error)
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	classRepo      repository.ClassRepository
	events         integration.EventPublisher
	logger         zerolog.Logger
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	classRepo repository.ClassRepository,
	events integration.EventPublisher,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		classRepo:      classRepo,
		events:         events,
		logger:         logger,
	}
}

func (s *assignmentService) Create(ctx context.Context, classID, createdBy string, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	exists, err := s.classRepo.Exists(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to check class: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	assignment := &models.Assignment{
		ID:                     uuid.New().String(),
		ClassID:                classID,
		Title:                  req.Title,
		Description:            req.Description,
		DueDate:                req.DueDate,
		RequiresFileSubmission: req.RequiresFileSubmission,
		CreatedBy:              createdBy,
		CreatedAt:              time.Now(),
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	if s.events != nil {
		event := &models.AssignmentCreatedEvent{
			AssignmentID: assignment.ID,
			ClassID:      classID,
			Title:        assignment.Title,
			DueDate:      assignment.DueDate.Unix(),
			Timestamp:    time.Now().Unix(),
		}
		if err := s.events.PublishAssignmentCreated(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish assignment created event")
		}
	}

	s.logger.Info().
		Str("assignment_id", assignment.ID).
		Str("class_id", classID).
		Str("title", assignment.Title).
		Msg("Assignment created")

	return assignment, nil
}

func (s *assignmentService) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, ErrNotFound
	}

	return assignment, nil
}

func (s *assignmentService) GetByClassID(ctx context.Context, classID string) ([]models.AssignmentWithStats, error) {
	return s.assignmentRepo.GetByClassID(ctx, classID)
}
