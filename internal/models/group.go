package models

import (
	"fmt"
	"time"
)

// StudentGroup is a (subject, level) cohort. Groups are created lazily on
// first placement and at most one exists per (subject, level) pair; the
// database enforces that with a unique constraint.
type StudentGroup struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Level     string    `json:"level" db:"level"`
	SubjectID string    `json:"subject_id" db:"subject_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type StudentGroupWithDetails struct {
	StudentGroup
	SubjectName string `json:"subject" db:"subject_name"`
	MemberCount int    `json:"members" db:"member_count"`
}

// GroupName is the display name persisted on a cohort, e.g. "Math - Advanced".
func GroupName(subjectName, level string) string {
	return fmt.Sprintf("%s - %s", subjectName, level)
}
