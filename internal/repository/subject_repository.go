package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/edustage/backend/internal/models"
)

type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id string) (*models.Subject, error)
	GetAll(ctx context.Context) ([]models.Subject, error)
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
	IsReferenced(ctx context.Context, id string) (bool, error)
}

type subjectRepository struct {
	*PostgresRepository
}

func NewSubjectRepository(db *sql.DB, logger zerolog.Logger) SubjectRepository {
	return &subjectRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	query := `
		INSERT INTO subjects (id, name, image_url, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		subject.ID,
		subject.Name,
		subject.ImageURL,
		subject.CreatedAt,
	)

	return err
}

func (r *subjectRepository) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	query := `SELECT id, name, image_url, created_at FROM subjects WHERE id = $1`

	subject := &models.Subject{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&subject.ID,
		&subject.Name,
		&subject.ImageURL,
		&subject.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return subject, err
}

func (r *subjectRepository) GetAll(ctx context.Context) ([]models.Subject, error) {
	query := `SELECT id, name, image_url, created_at FROM subjects ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var subject models.Subject
		err := rows.Scan(
			&subject.ID,
			&subject.Name,
			&subject.ImageURL,
			&subject.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}

	return subjects, rows.Err()
}

func (r *subjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	query := `UPDATE subjects SET name = $1, image_url = $2 WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query,
		subject.Name,
		subject.ImageURL,
		subject.ID,
	)

	return err
}

func (r *subjectRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM subjects WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// IsReferenced reports whether any test or student group still points at
// the subject.
func (r *subjectRepository) IsReferenced(ctx context.Context, id string) (bool, error) {
	query := `
		SELECT EXISTS(SELECT 1 FROM tests WHERE subject_id = $1)
			OR EXISTS(SELECT 1 FROM student_groups WHERE subject_id = $1)
	`

	var referenced bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&referenced)
	return referenced, err
}
