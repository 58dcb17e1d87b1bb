package models

import (
	"time"
)

type Test struct {
	ID        string    `json:"id" db:"id"`
	SubjectID string    `json:"subject_id" db:"subject_id"`
	TutorID   string    `json:"tutor_id" db:"tutor_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Question struct {
	ID       string `json:"id" db:"id"`
	TestID   string `json:"test_id" db:"test_id"`
	Content  string `json:"content" db:"content"`
	Position int    `json:"position" db:"position"`
}

// TestWithQuestions is the authored test as tutors and students see it:
// the test row plus its subject's display name and the ordered questions.
type TestWithQuestions struct {
	Test
	SubjectName string     `json:"subject" db:"subject_name"`
	Questions   []Question `json:"questions"`
}

// StudentTest is one graded attempt. Attempts are append-only: a student
// may accumulate several rows for the same test.
type StudentTest struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	TestID    string    `json:"test_id" db:"test_id"`
	Score     *int      `json:"score" db:"score"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CompletedTest struct {
	TestID      string `json:"test_id" db:"test_id"`
	SubjectName string `json:"subject" db:"subject_name"`
	Score       *int   `json:"score" db:"score"`
}
