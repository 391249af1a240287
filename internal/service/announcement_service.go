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

type AnnouncementService interface {
	Create(ctx context.Context, classID, profileID string, req *models.CreateAnnouncementRequest) (*models.Announcement, error)
	GetByClassID(ctx context.Context, classID string) ([]models.Announcement, error)
	Delete(ctx context.Context, id, profileID string) error
}

type announcementService struct {
	announcementRepo repository.AnnouncementRepository
	classRepo        repository.ClassRepository
	events           integration.EventPublisher
	logger           zerolog.Logger
}

func NewAnnouncementService(
	announcementRepo repository.AnnouncementRepository,
	classRepo repository.ClassRepository,
	events integration.EventPublisher,
	logger zerolog.Logger,
) AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		classRepo:        classRepo,
		events:           events,
		logger:           logger,
	}
}

func (s *announcementService) Create(ctx context.Context, classID, profileID string, req *models.CreateAnnouncementRequest) (*models.Announcement, error) {
	exists, err := s.classRepo.Exists(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to check class: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	announcement := &models.Announcement{
		ID:        uuid.New().String(),
		ClassID:   classID,
		ProfileID: profileID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	if s.events != nil {
		event := &models.AnnouncementCreatedEvent{
			AnnouncementID: announcement.ID,
			ClassID:        classID,
			ProfileID:      profileID,
			Timestamp:      time.Now().Unix(),
		}
		if err := s.events.PublishAnnouncementCreated(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish announcement created event")
		}
	}

	s.logger.Info().
		Str("announcement_id", announcement.ID).
		Str("class_id", classID).
		Msg("Announcement created")

	return announcement, nil
}

func (s *announcementService) GetByClassID(ctx context.Context, classID string) ([]models.Announcement, error) {
	return s.announcementRepo.GetByClassID(ctx, classID)
}

func (s *announcementService) Delete(ctx context.Context, id, profileID string) error {
	announcement, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get announcement: %w", err)
	}
	if announcement == nil {
		return ErrNotFound
	}
	if announcement.ProfileID != profileID {
		return ErrForbidden
	}

	if err := s.announcementRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	s.logger.Info().
		Str("announcement_id", id).
		Msg("Announcement deleted")

	return nil
}
