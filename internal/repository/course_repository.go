package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/edustage/backend/internal/models"
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetByGroup(ctx context.Context, groupID string) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseRepository struct {
	*PostgresRepository
}

func NewCourseRepository(db *sql.DB, logger zerolog.Logger) CourseRepository {
	return &courseRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (id, group_id, title, type, file_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		course.ID,
		course.GroupID,
		course.Title,
		course.Type,
		course.FilePath,
		course.CreatedAt,
	)

	return err
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := `
		SELECT id, group_id, title, type, file_path, created_at
		FROM courses
		WHERE id = $1
	`

	course := &models.Course{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.GroupID,
		&course.Title,
		&course.Type,
		&course.FilePath,
		&course.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return course, err
}

func (r *courseRepository) GetByGroup(ctx context.Context, groupID string) ([]models.Course, error) {
	query := `
		SELECT id, group_id, title, type, file_path, created_at
		FROM courses
		WHERE group_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		err := rows.Scan(
			&course.ID,
			&course.GroupID,
			&course.Title,
			&course.Type,
			&course.FilePath,
			&course.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = $1, type = $2, file_path = $3
		WHERE id = $4
	`

	_, err := r.db.ExecContext(ctx, query,
		course.Title,
		course.Type,
		course.FilePath,
		course.ID,
	)

	return err
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM courses WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
