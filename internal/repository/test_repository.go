package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/edustage/backend/internal/models"
)

type TestRepository interface {
	Create(ctx context.Context, test *models.Test, questions []models.Question) error
	GetByID(ctx context.Context, id string) (*models.TestWithQuestions, error)
	GetAll(ctx context.Context) ([]models.TestWithQuestions, error)
	GetByTutor(ctx context.Context, tutorID string) ([]models.TestWithQuestions, error)
	Replace(ctx context.Context, test *models.Test, questions []models.Question) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type testRepository struct {
	*PostgresRepository
}

func NewTestRepository(db *sql.DB, logger zerolog.Logger) TestRepository {
	return &testRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

// Create writes the test and all its questions in one transaction; readers
// never observe a test with a partial question set.
func (r *testRepository) Create(ctx context.Context, test *models.Test, questions []models.Question) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO tests (id, subject_id, tutor_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`

		_, err := tx.ExecContext(ctx, query,
			test.ID,
			test.SubjectID,
			test.TutorID,
			test.CreatedAt,
			test.UpdatedAt,
		)
		if err != nil {
			return err
		}

		return insertQuestions(ctx, tx, questions)
	})
}

// Replace updates the test row and swaps the full question set, mirroring
// how tutors edit tests: the new set replaces the old one wholesale.
func (r *testRepository) Replace(ctx context.Context, test *models.Test, questions []models.Question) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE tests SET subject_id = $1, updated_at = $2 WHERE id = $3`
		if _, err := tx.ExecContext(ctx, query, test.SubjectID, test.UpdatedAt, test.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE test_id = $1`, test.ID); err != nil {
			return err
		}

		return insertQuestions(ctx, tx, questions)
	})
}

func insertQuestions(ctx context.Context, tx *sql.Tx, questions []models.Question) error {
	query := `
		INSERT INTO questions (id, test_id, content, position)
		VALUES ($1, $2, $3, $4)
	`

	for _, q := range questions {
		if _, err := tx.ExecContext(ctx, query, q.ID, q.TestID, q.Content, q.Position); err != nil {
			return err
		}
	}

	return nil
}

func (r *testRepository) GetByID(ctx context.Context, id string) (*models.TestWithQuestions, error) {
	query := `
		SELECT t.id, t.subject_id, t.tutor_id, t.created_at, t.updated_at, s.name
		FROM tests t
		JOIN subjects s ON s.id = t.subject_id
		WHERE t.id = $1
	`

	test := &models.TestWithQuestions{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&test.ID,
		&test.SubjectID,
		&test.TutorID,
		&test.CreatedAt,
		&test.UpdatedAt,
		&test.SubjectName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	test.Questions, err = r.questionsForTest(ctx, id)
	return test, err
}

func (r *testRepository) GetAll(ctx context.Context) ([]models.TestWithQuestions, error) {
	query := `
		SELECT t.id, t.subject_id, t.tutor_id, t.created_at, t.updated_at, s.name
		FROM tests t
		JOIN subjects s ON s.id = t.subject_id
		ORDER BY t.created_at DESC
	`

	return r.queryTests(ctx, query)
}

func (r *testRepository) GetByTutor(ctx context.Context, tutorID string) ([]models.TestWithQuestions, error) {
	query := `
		SELECT t.id, t.subject_id, t.tutor_id, t.created_at, t.updated_at, s.name
		FROM tests t
		JOIN subjects s ON s.id = t.subject_id
		WHERE t.tutor_id = $1
		ORDER BY t.created_at DESC
	`

	return r.queryTests(ctx, query, tutorID)
}

func (r *testRepository) queryTests(ctx context.Context, query string, args ...interface{}) ([]models.TestWithQuestions, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []models.TestWithQuestions
	for rows.Next() {
		var test models.TestWithQuestions
		err := rows.Scan(
			&test.ID,
			&test.SubjectID,
			&test.TutorID,
			&test.CreatedAt,
			&test.UpdatedAt,
			&test.SubjectName,
		)
		if err != nil {
			return nil, err
		}
		tests = append(tests, test)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tests {
		tests[i].Questions, err = r.questionsForTest(ctx, tests[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return tests, nil
}

func (r *testRepository) questionsForTest(ctx context.Context, testID string) ([]models.Question, error) {
	query := `
		SELECT id, test_id, content, position
		FROM questions
		WHERE test_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.TestID, &q.Content, &q.Position); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// Delete removes the test; questions and attempts go with it via the
// ON DELETE CASCADE constraints.
func (r *testRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tests WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *testRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tests WHERE id = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}
