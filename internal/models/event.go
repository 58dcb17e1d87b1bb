package models

type SubmissionGradedEvent struct {
	SubmissionID string  `json:"submission_id"`
	TestID       string  `json:"test_id"`
	StudentID    string  `json:"student_id"`
	SubjectID    string  `json:"subject_id"`
	Score        int     `json:"score"`
	Percentage   float64 `json:"percentage"`
	Level        string  `json:"level"`
	GroupID      string  `json:"group_id"`
	Timestamp    int64   `json:"timestamp"`
}
