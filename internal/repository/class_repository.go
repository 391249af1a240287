package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/rs/zerolog"
)

// ErrDuplicateClassCode — код класса уже занят; арбитр — уникальное
// ограничение в БД, а не предварительная проверка.
var ErrDuplicateClassCode = errors.New("class code already exists")

type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id string) (*models.Class, error)
	GetByCode(ctx context.Context, code string) (*models.Class, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.Class, int, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type classRepository struct {
	*PostgresRepository
}

func NewClassRepository(db *sql.DB, logger zerolog.Logger) ClassRepository {
	return &classRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	query := `
		INSERT INTO classes (id, name, class_code, section, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		class.ID,
		class.Name,
		class.ClassCode,
		class.Section,
		class.CreatedBy,
		class.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateClassCode
	}

	return err
}

func (r *classRepository) GetByID(ctx context.Context, id string) (*models.Class, error) {
	query := `
		SELECT id, name, class_code, section, created_by, created_at
		FROM classes
		WHERE id = $1
	`

	class := &models.Class{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&class.ID,
		&class.Name,
		&class.ClassCode,
		&class.Section,
		&class.CreatedBy,
		&class.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return class, err
}

func (r *classRepository) GetByCode(ctx context.Context, code string) (*models.Class, error) {
	query := `
		SELECT id, name, class_code, section, created_by, created_at
		FROM classes
		WHERE class_code = $1
	`

	class := &models.Class{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&class.ID,
		&class.Name,
		&class.ClassCode,
		&class.Section,
		&class.CreatedBy,
		&class.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return class, err
}

func (r *classRepository) GetAll(ctx context.Context, limit, offset int) ([]models.Class, int, error) {
	countQuery := `SELECT COUNT(*) FROM classes`
	var total int
	err := r.db.QueryRowContext(ctx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, class_code, section, created_by, created_at
		FROM classes
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var classes []models.Class
	for rows.Next() {
		var class models.Class
		err := rows.Scan(
			&class.ID,
			&class.Name,
			&class.ClassCode,
			&class.Section,
			&class.CreatedBy,
			&class.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		classes = append(classes, class)
	}

	return classes, total, nil
}

func (r *classRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM classes WHERE id = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}
