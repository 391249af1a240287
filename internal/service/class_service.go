package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/classboard/classwork-service/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ClassService interface {
	Create(ctx context.Context, req *models.CreateClassRequest, createdBy string) (*models.Class, error)
	GetByID(ctx context.Context, id string) (*models.Class, error)
	GetByCode(ctx context.Context, code string) (*models.Class, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.Class, int, error)
}

type classService struct {
	classRepo repository.ClassRepository
	logger    zerolog.Logger
}

func NewClassService(classRepo repository.ClassRepository, logger zerolog.Logger) ClassService {
	return &classService{
		classRepo: classRepo,
		logger:    logger,
	}
}

func (s *classService) Create(ctx context.Context, req *models.CreateClassRequest, createdBy string) (*models.Class, error) {
	existing, err := s.classRepo.GetByCode(ctx, req.ClassCode)
	if err != nil {
		return nil, fmt.Errorf("failed to check class code: %w", err)
	}
	if existing != nil {
		return nil, ErrClassCodeTaken
	}

	class := &models.Class{
		ID:        uuid.New().String(),
		Name:      req.Name,
		ClassCode: req.ClassCode,
		Section:   req.Section,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}

	// Предварительная проверка кода — лишь ранний ответ; гонку двух
	// одновременных созданий разрешает уникальное ограничение в БД.
	if err := s.classRepo.Create(ctx, class); err != nil {
		if errors.Is(err, repository.ErrDuplicateClassCode) {
			return nil, ErrClassCodeTaken
		}
		return nil, fmt.Errorf("failed to create class: %w", err)
	}

	s.logger.Info().
		Str("class_id", class.ID).
		Str("class_code", class.ClassCode).
		Msg("Class created")

	return class, nil
}

func (s *classService) GetByID(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	if class == nil {
		return nil, ErrNotFound
	}

	return class, nil
}

func (s *classService) GetByCode(ctx context.Context, code string) (*models.Class, error) {
	class, err := s.classRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get class by code: %w", err)
	}
	if class == nil {
		return nil, ErrNotFound
	}

	return class, nil
}

func (s *classService) GetAll(ctx context.Context, limit, offset int) ([]models.Class, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.classRepo.GetAll(ctx, limit, offset)
}
