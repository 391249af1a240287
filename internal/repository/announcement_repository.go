package repository

import (
	"context"
	"database/sql"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/rs/zerolog"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	GetByClassID(ctx context.Context, classID string) ([]models.Announcement, error)
	Delete(ctx context.Context, id string) error
}

type announcementRepository struct {
	*PostgresRepository
}

func NewAnnouncementRepository(db *sql.DB, logger zerolog.Logger) AnnouncementRepository {
	return &announcementRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	query := `
		INSERT INTO announcements (id, class_id, profile_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		announcement.ID,
		announcement.ClassID,
		announcement.ProfileID,
		announcement.Content,
		announcement.CreatedAt,
	)

	return err
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := `
		SELECT id, class_id, profile_id, content, created_at
		FROM announcements
		WHERE id = $1
	`

	announcement := &models.Announcement{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&announcement.ID,
		&announcement.ClassID,
		&announcement.ProfileID,
		&announcement.Content,
		&announcement.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return announcement, err
}

func (r *announcementRepository) GetByClassID(ctx context.Context, classID string) ([]models.Announcement, error) {
	query := `
		SELECT id, class_id, profile_id, content, created_at
		FROM announcements
		WHERE class_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []models.Announcement
	for rows.Next() {
		var announcement models.Announcement
		err := rows.Scan(
			&announcement.ID,
			&announcement.ClassID,
			&announcement.ProfileID,
			&announcement.Content,
			&announcement.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, announcement)
	}

	return announcements, nil
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM announcements WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
