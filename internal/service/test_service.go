package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edustage/backend/internal/models"
	"github.com/edustage/backend/internal/repository"
)

type TestService interface {
	CreateTest(ctx context.Context, tutorID string, req *models.CreateTestRequest) (*models.TestWithQuestions, error)
	UpdateTest(ctx context.Context, id string, req *models.CreateTestRequest) (*models.TestWithQuestions, error)
	DeleteTest(ctx context.Context, id string) error
	GetTestByID(ctx context.Context, id string) (*models.TestWithQuestions, error)
	ListTutorTests(ctx context.Context, tutorID string) ([]models.TestWithQuestions, error)
	ListTestsForStudent(ctx context.Context, studentID string) ([]models.StudentTestView, error)
}

type testService struct {
	testRepo       repository.TestRepository
	subjectRepo    repository.SubjectRepository
	userRepo       repository.UserRepository
	submissionRepo repository.SubmissionRepository
	logger         zerolog.Logger
}

func NewTestService(
	testRepo repository.TestRepository,
	subjectRepo repository.SubjectRepository,
	userRepo repository.UserRepository,
	submissionRepo repository.SubmissionRepository,
	logger zerolog.Logger,
) TestService {
	return &testService{
		testRepo:       testRepo,
		subjectRepo:    subjectRepo,
		userRepo:       userRepo,
		submissionRepo: submissionRepo,
		logger:         logger,
	}
}

func (s *testService) CreateTest(ctx context.Context, tutorID string, req *models.CreateTestRequest) (*models.TestWithQuestions, error) {
	if tutorID == "" {
		return nil, NewValidationError("tutor is required", FieldError{Field: "tutor_id", Error: "required"})
	}

	subject, err := s.subjectRepo.GetByID(ctx, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	if subject == nil {
		return nil, NewNotFoundError("subject", req.SubjectID)
	}

	tutor, err := s.userRepo.GetByID(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tutor: %w", err)
	}
	if tutor == nil {
		return nil, NewNotFoundError("tutor", tutorID)
	}

	now := time.Now().UTC()
	test := &models.Test{
		ID:        uuid.New().String(),
		SubjectID: subject.ID,
		TutorID:   tutorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	questions := buildQuestions(test.ID, req.Questions)

	if err := s.testRepo.Create(ctx, test, questions); err != nil {
		return nil, fmt.Errorf("failed to create test: %w", err)
	}

	s.logger.Info().
		Str("test_id", test.ID).
		Str("subject_id", subject.ID).
		Str("tutor_id", tutorID).
		Int("questions", len(questions)).
		Msg("Test created")

	return &models.TestWithQuestions{
		Test:        *test,
		SubjectName: subject.Name,
		Questions:   questions,
	}, nil
}

// UpdateTest replaces the question set wholesale, matching how tutors edit
// a test in the authoring UI.
func (s *testService) UpdateTest(ctx context.Context, id string, req *models.CreateTestRequest) (*models.TestWithQuestions, error) {
	existing, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	if existing == nil {
		return nil, NewNotFoundError("test", id)
	}

	subject, err := s.subjectRepo.GetByID(ctx, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	if subject == nil {
		return nil, NewNotFoundError("subject", req.SubjectID)
	}

	test := &models.Test{
		ID:        id,
		SubjectID: subject.ID,
		TutorID:   existing.TutorID,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}

	questions := buildQuestions(id, req.Questions)

	if err := s.testRepo.Replace(ctx, test, questions); err != nil {
		return nil, fmt.Errorf("failed to update test: %w", err)
	}

	s.logger.Info().
		Str("test_id", id).
		Int("questions", len(questions)).
		Msg("Test updated")

	return &models.TestWithQuestions{
		Test:        *test,
		SubjectName: subject.Name,
		Questions:   questions,
	}, nil
}

func (s *testService) DeleteTest(ctx context.Context, id string) error {
	exists, err := s.testRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check test: %w", err)
	}
	if !exists {
		return NewNotFoundError("test", id)
	}

	if err := s.testRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete test: %w", err)
	}

	s.logger.Info().Str("test_id", id).Msg("Test deleted")

	return nil
}

func (s *testService) GetTestByID(ctx context.Context, id string) (*models.TestWithQuestions, error) {
	test, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	if test == nil {
		return nil, NewNotFoundError("test", id)
	}

	return test, nil
}

func (s *testService) ListTutorTests(ctx context.Context, tutorID string) ([]models.TestWithQuestions, error) {
	tests, err := s.testRepo.GetByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tutor tests: %w", err)
	}

	return tests, nil
}

// ListTestsForStudent lists every test with the student's derived state:
// passed is true when an attempt row exists, score is the latest attempt's.
func (s *testService) ListTestsForStudent(ctx context.Context, studentID string) ([]models.StudentTestView, error) {
	tests, err := s.testRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tests: %w", err)
	}

	scores := map[string]*int{}
	if studentID != "" {
		scores, err = s.submissionRepo.GetLatestScores(ctx, studentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get attempt scores: %w", err)
		}
	}

	views := make([]models.StudentTestView, 0, len(tests))
	for _, test := range tests {
		score, passed := scores[test.ID]
		views = append(views, models.StudentTestView{
			TestWithQuestions: test,
			Passed:            passed,
			Score:             score,
		})
	}

	return views, nil
}

func buildQuestions(testID string, contents []string) []models.Question {
	questions := make([]models.Question, 0, len(contents))
	for i, content := range contents {
		questions = append(questions, models.Question{
			ID:       uuid.New().String(),
			TestID:   testID,
			Content:  content,
			Position: i,
		})
	}
	return questions
}
