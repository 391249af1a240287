package repository

import (
	"context"
	"database/sql"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/rs/zerolog"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	GetByClassID(ctx context.Context, classID string) ([]models.AssignmentWithStats, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type assignmentRepository struct {
	*PostgresRepository
}

func NewAssignmentRepository(db *sql.DB, logger zerolog.Logger) AssignmentRepository {
	return &assignmentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	query := `
		INSERT INTO assignments (id, class_id, title, description, due_date, requires_file_submission, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		assignment.ID,
		assignment.ClassID,
		assignment.Title,
		assignment.Description,
		assignment.DueDate,
		assignment.RequiresFileSubmission,
		assignment.CreatedBy,
		assignment.CreatedAt,
	)

	return err
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := `
		SELECT id, class_id, title, description, due_date, requires_file_submission, created_by, created_at
		FROM assignments
		WHERE id = $1
	`

	assignment := &models.Assignment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&assignment.ID,
		&assignment.ClassID,
		&assignment.Title,
		&assignment.Description,
		&assignment.DueDate,
		&assignment.RequiresFileSubmission,
		&assignment.CreatedBy,
		&assignment.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return assignment, err
}

func (r *assignmentRepository) GetByClassID(ctx context.Context, classID string) ([]models.AssignmentWithStats, error) {
	query := `
		SELECT
			a.id, a.class_id, a.title, a.description, a.due_date, a.requires_file_submission, a.created_by, a.created_at,
			COUNT(s.id) as total_submissions
		FROM assignments a
		LEFT JOIN submissions s ON a.id = s.assignment_id
		WHERE a.class_id = $1
		GROUP BY a.id
		ORDER BY a.due_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.AssignmentWithStats
	for rows.Next() {
		var assignment models.AssignmentWithStats
		err := rows.Scan(
			&assignment.ID,
			&assignment.ClassID,
			&assignment.Title,
			&assignment.Description,
			&assignment.DueDate,
			&assignment.RequiresFileSubmission,
			&assignment.CreatedBy,
			&assignment.CreatedAt,
			&assignment.TotalSubmissions,
		)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	return assignments, nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM assignments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *assignmentRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM assignments WHERE id = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}
