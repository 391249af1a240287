package repository

import (
	"context"
	"database/sql"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/rs/zerolog"
)

type SubmissionFileRepository interface {
	Create(ctx context.Context, file *models.SubmissionFile) error
	GetByID(ctx context.Context, id string) (*models.SubmissionFile, error)
	GetBySubmissionID(ctx context.Context, submissionID string) ([]models.SubmissionFile, error)
	GetByAssignmentID(ctx context.Context, assignmentID string) ([]models.SubmissionFile, error)
	Delete(ctx context.Context, id string) error
	DeleteByAssignmentID(ctx context.Context, assignmentID string) error
}

type submissionFileRepository struct {
	*PostgresRepository
}

func NewSubmissionFileRepository(db *sql.DB, logger zerolog.Logger) SubmissionFileRepository {
	return &submissionFileRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *submissionFileRepository) Create(ctx context.Context, file *models.SubmissionFile) error {
	query := `
		INSERT INTO submission_files (id, submission_id, file_path, file_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.SubmissionID,
		file.FilePath,
		file.FileName,
		file.CreatedAt,
	)

	return err
}

func (r *submissionFileRepository) GetByID(ctx context.Context, id string) (*models.SubmissionFile, error) {
	query := `
		SELECT id, submission_id, file_path, file_name, created_at
		FROM submission_files
		WHERE id = $1
	`

	file := &models.SubmissionFile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&file.ID,
		&file.SubmissionID,
		&file.FilePath,
		&file.FileName,
		&file.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return file, err
}

func (r *submissionFileRepository) GetBySubmissionID(ctx context.Context, submissionID string) ([]models.SubmissionFile, error) {
	query := `
		SELECT id, submission_id, file_path, file_name, created_at
		FROM submission_files
		WHERE submission_id = $1
		ORDER BY created_at ASC
	`

	return r.queryFiles(ctx, query, submissionID)
}

func (r *submissionFileRepository) GetByAssignmentID(ctx context.Context, assignmentID string) ([]models.SubmissionFile, error) {
	query := `
		SELECT f.id, f.submission_id, f.file_path, f.file_name, f.created_at
		FROM submission_files f
		JOIN submissions s ON f.submission_id = s.id
		WHERE s.assignment_id = $1
		ORDER BY f.created_at ASC
	`

	return r.queryFiles(ctx, query, assignmentID)
}

func (r *submissionFileRepository) queryFiles(ctx context.Context, query string, args ...interface{}) ([]models.SubmissionFile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.SubmissionFile
	for rows.Next() {
		var file models.SubmissionFile
		err := rows.Scan(
			&file.ID,
			&file.SubmissionID,
			&file.FilePath,
			&file.FileName,
			&file.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}

func (r *submissionFileRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM submission_files WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *submissionFileRepository) DeleteByAssignmentID(ctx context.Context, assignmentID string) error {
	query := `
		DELETE FROM submission_files
		WHERE submission_id IN (SELECT id FROM submissions WHERE assignment_id = $1)
	`
	_, err := r.db.ExecContext(ctx, query, assignmentID)
	return err
}
