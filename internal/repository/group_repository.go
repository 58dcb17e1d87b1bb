package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/edustage/backend/internal/models"
)

type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*models.StudentGroupWithDetails, error)
	GetByTutor(ctx context.Context, tutorID string) ([]models.StudentGroupWithDetails, error)
	GetByStudent(ctx context.Context, studentID string) ([]models.StudentGroupWithDetails, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type groupRepository struct {
	*PostgresRepository
}

func NewGroupRepository(db *sql.DB, logger zerolog.Logger) GroupRepository {
	return &groupRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const groupDetailsQuery = `
	SELECT g.id, g.name, g.level, g.subject_id, g.created_at, s.name,
		(SELECT COUNT(*) FROM group_members m WHERE m.group_id = g.id) AS member_count
	FROM student_groups g
	JOIN subjects s ON s.id = g.subject_id
`

func (r *groupRepository) GetByID(ctx context.Context, id string) (*models.StudentGroupWithDetails, error) {
	query := groupDetailsQuery + ` WHERE g.id = $1`

	group := &models.StudentGroupWithDetails{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.Level,
		&group.SubjectID,
		&group.CreatedAt,
		&group.SubjectName,
		&group.MemberCount,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return group, err
}

// GetByTutor returns the distinct groups whose subject matches a subject
// the tutor has authored a test for. Tutors own no groups directly; this
// is a join, not an ownership relation.
func (r *groupRepository) GetByTutor(ctx context.Context, tutorID string) ([]models.StudentGroupWithDetails, error) {
	query := groupDetailsQuery + `
		WHERE g.subject_id IN (SELECT DISTINCT subject_id FROM tests WHERE tutor_id = $1)
		ORDER BY s.name, g.level
	`

	return r.queryGroups(ctx, query, tutorID)
}

func (r *groupRepository) GetByStudent(ctx context.Context, studentID string) ([]models.StudentGroupWithDetails, error) {
	query := groupDetailsQuery + `
		WHERE g.id IN (SELECT group_id FROM group_members WHERE user_id = $1)
		ORDER BY g.created_at
	`

	return r.queryGroups(ctx, query, studentID)
}

func (r *groupRepository) queryGroups(ctx context.Context, query string, args ...interface{}) ([]models.StudentGroupWithDetails, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.StudentGroupWithDetails
	for rows.Next() {
		var group models.StudentGroupWithDetails
		err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.Level,
			&group.SubjectID,
			&group.CreatedAt,
			&group.SubjectName,
			&group.MemberCount,
		)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

func (r *groupRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM student_groups WHERE id = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}
