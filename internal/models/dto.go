package models

import "time"

// Data Transfer Objects

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=student tutor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	Token string   `json:"token"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=student tutor admin"`
}

type UpdateUserRequest struct {
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=student tutor admin"`
}

type CreateSubjectRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	ImageURL string `json:"image_url" validate:"omitempty,url,max=2048"`
}

type CreateTestRequest struct {
	SubjectID string   `json:"subject_id" validate:"required,uuid"`
	Questions []string `json:"questions" validate:"dive,required,max=2000"`
}

type SubmitTestRequest struct {
	Answers []SubmittedAnswer `json:"answers" validate:"dive"`
}

type SubmittedAnswer struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Answer     string `json:"answer"`
}

type SubmissionResult struct {
	SubmissionID string                  `json:"submission_id"`
	Score        int                     `json:"score"`
	Percentage   float64                 `json:"percentage"`
	Group        StudentGroupWithDetails `json:"group"`
}

type CourseResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	FilePath  string    `json:"filePath"`
	CreatedAt time.Time `json:"createdAt"`
}

// StudentTestView is a test as shown on the student dashboard; Passed is
// derived from the existence of an attempt row, never stored.
type StudentTestView struct {
	TestWithQuestions
	Passed bool `json:"passed"`
	Score  *int `json:"score"`
}
