package repository

import (
	"context"
	"database/sql"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/rs/zerolog"
)

type SubmissionRepository interface {
	// GetOrCreate — идемпотентное создание: гонка двух одновременных вставок
	// разрешается уникальным ограничением (assignment_id, profile_id) в БД,
	// проигравший получает id победителя.
	GetOrCreate(ctx context.Context, submission *models.Submission) (*models.Submission, error)
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	GetByAssignmentAndProfile(ctx context.Context, assignmentID, profileID string) (*models.Submission, error)
	GetByAssignmentID(ctx context.Context, assignmentID string) ([]models.Submission, error)
	DeleteByAssignmentID(ctx context.Context, assignmentID string) error
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *submissionRepository) GetOrCreate(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	insertQuery := `
		INSERT INTO submissions (id, assignment_id, profile_id, submitted_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (assignment_id, profile_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, insertQuery,
		submission.ID,
		submission.AssignmentID,
		submission.ProfileID,
		submission.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}

	return r.GetByAssignmentAndProfile(ctx, submission.AssignmentID, submission.ProfileID)
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `
		SELECT id, assignment_id, profile_id, submitted_at
		FROM submissions
		WHERE id = $1
	`

	submission := &models.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&submission.ID,
		&submission.AssignmentID,
		&submission.ProfileID,
		&submission.SubmittedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return submission, err
}

func (r *submissionRepository) GetByAssignmentAndProfile(ctx context.Context, assignmentID, profileID string) (*models.Submission, error) {
	query := `
		SELECT id, assignment_id, profile_id, submitted_at
		FROM submissions
		WHERE assignment_id = $1 AND profile_id = $2
	`

	submission := &models.Submission{}
	err := r.db.QueryRowContext(ctx, query, assignmentID, profileID).Scan(
		&submission.ID,
		&submission.AssignmentID,
		&submission.ProfileID,
		&submission.SubmittedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return submission, err
}

func (r *submissionRepository) GetByAssignmentID(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	query := `
		SELECT id, assignment_id, profile_id, submitted_at
		FROM submissions
		WHERE assignment_id = $1
		ORDER BY submitted_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var submission models.Submission
		err := rows.Scan(
			&submission.ID,
			&submission.AssignmentID,
			&submission.ProfileID,
			&submission.SubmittedAt,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}

	return submissions, nil
}

func (r *submissionRepository) DeleteByAssignmentID(ctx context.Context, assignmentID string) error {
	query := `DELETE FROM submissions WHERE assignment_id = $1`
	_, err := r.db.ExecContext(ctx, query, assignmentID)
	return err
}
