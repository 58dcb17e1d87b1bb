package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edustage/backend/internal/models"
)

type SubmissionRepository interface {
	// RecordSubmission persists a graded attempt and places the student in
	// the (subject, level) cohort in a single transaction: the attempt row,
	// the group (created on first use) and the membership either all become
	// visible together or not at all.
	RecordSubmission(ctx context.Context, attempt *models.StudentTest, group *models.StudentGroup) (*models.StudentGroupWithDetails, error)
	GetCompletedTests(ctx context.Context, studentID string) ([]models.CompletedTest, error)
	GetLatestScores(ctx context.Context, studentID string) (map[string]*int, error)
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *submissionRepository) RecordSubmission(ctx context.Context, attempt *models.StudentTest, group *models.StudentGroup) (*models.StudentGroupWithDetails, error) {
	var placed models.StudentGroupWithDetails

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		insertAttempt := `
			INSERT INTO student_tests (id, student_id, test_id, score, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`

		_, err := tx.ExecContext(ctx, insertAttempt,
			attempt.ID,
			attempt.StudentID,
			attempt.TestID,
			attempt.Score,
			attempt.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert attempt: %w", err)
		}

		// Find-or-create the cohort. The unique constraint on
		// (subject_id, level) makes concurrent first-time submissions
		// converge on a single group instead of racing read-then-write.
		upsertGroup := `
			INSERT INTO student_groups (id, name, level, subject_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (subject_id, level) DO NOTHING
			RETURNING id
		`

		var groupID string
		err = tx.QueryRowContext(ctx, upsertGroup,
			group.ID,
			group.Name,
			group.Level,
			group.SubjectID,
			group.CreatedAt,
		).Scan(&groupID)
		if err == sql.ErrNoRows {
			selectGroup := `SELECT id FROM student_groups WHERE subject_id = $1 AND level = $2`
			if err := tx.QueryRowContext(ctx, selectGroup, group.SubjectID, group.Level).Scan(&groupID); err != nil {
				return fmt.Errorf("failed to load existing group: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to upsert group: %w", err)
		}

		// Membership is a set; re-submissions are a no-op here.
		attachMember := `
			INSERT INTO group_members (group_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (group_id, user_id) DO NOTHING
		`

		if _, err := tx.ExecContext(ctx, attachMember, groupID, attempt.StudentID); err != nil {
			return fmt.Errorf("failed to attach member: %w", err)
		}

		details := groupDetailsQuery + ` WHERE g.id = $1`
		err = tx.QueryRowContext(ctx, details, groupID).Scan(
			&placed.ID,
			&placed.Name,
			&placed.Level,
			&placed.SubjectID,
			&placed.CreatedAt,
			&placed.SubjectName,
			&placed.MemberCount,
		)
		if err != nil {
			return fmt.Errorf("failed to load placed group: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &placed, nil
}

func (r *submissionRepository) GetCompletedTests(ctx context.Context, studentID string) ([]models.CompletedTest, error) {
	query := `
		SELECT st.test_id, s.name, st.score
		FROM student_tests st
		JOIN tests t ON t.id = st.test_id
		JOIN subjects s ON s.id = t.subject_id
		WHERE st.student_id = $1
		ORDER BY st.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completed []models.CompletedTest
	for rows.Next() {
		var ct models.CompletedTest
		if err := rows.Scan(&ct.TestID, &ct.SubjectName, &ct.Score); err != nil {
			return nil, err
		}
		completed = append(completed, ct)
	}

	return completed, rows.Err()
}

// GetLatestScores maps test id to the score of the student's most recent
// attempt, used to derive the passed/score fields on the test list.
func (r *submissionRepository) GetLatestScores(ctx context.Context, studentID string) (map[string]*int, error) {
	query := `
		SELECT DISTINCT ON (test_id) test_id, score
		FROM student_tests
		WHERE student_id = $1
		ORDER BY test_id, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[string]*int)
	for rows.Next() {
		var testID string
		var score *int
		if err := rows.Scan(&testID, &score); err != nil {
			return nil, err
		}
		scores[testID] = score
	}

	return scores, rows.Err()
}
