package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edustage/backend/internal/models"
	"github.com/edustage/backend/internal/repository"
	"github.com/edustage/backend/internal/service/grading"
	"github.com/edustage/backend/internal/service/integration"
)

// SubmissionService grades a submitted test and places the student into the
// (subject, level) cohort. Placement is idempotent: submitting the same test
// again leaves the student a member of exactly one matching group.
type SubmissionService interface {
	SubmitTest(ctx context.Context, testID, studentID string, req *models.SubmitTestRequest) (*models.SubmissionResult, error)
	ListCompletedTests(ctx context.Context, studentID string) ([]models.CompletedTest, error)
}

type submissionService struct {
	testRepo       repository.TestRepository
	userRepo       repository.UserRepository
	submissionRepo repository.SubmissionRepository
	levels         grading.LevelPolicy
	publisher      integration.EventPublisher
	logger         zerolog.Logger
}

func NewSubmissionService(
	testRepo repository.TestRepository,
	userRepo repository.UserRepository,
	submissionRepo repository.SubmissionRepository,
	levels grading.LevelPolicy,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		testRepo:       testRepo,
		userRepo:       userRepo,
		submissionRepo: submissionRepo,
		levels:         levels,
		publisher:      publisher,
		logger:         logger,
	}
}

func (s *submissionService) SubmitTest(ctx context.Context, testID, studentID string, req *models.SubmitTestRequest) (*models.SubmissionResult, error) {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	if test == nil {
		return nil, NewNotFoundError("test", testID)
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, NewNotFoundError("student", studentID)
	}

	score := grading.Score(test.Questions, req.Answers)
	percentage := grading.Percentage(score, len(test.Questions))
	level := s.levels.Classify(percentage)

	now := time.Now().UTC()
	attempt := &models.StudentTest{
		ID:        uuid.New().String(),
		StudentID: studentID,
		TestID:    testID,
		Score:     &score,
		CreatedAt: now,
	}

	group := &models.StudentGroup{
		ID:        uuid.New().String(),
		Name:      models.GroupName(test.SubjectName, level),
		Level:     level,
		SubjectID: test.SubjectID,
		CreatedAt: now,
	}

	placed, err := s.submissionRepo.RecordSubmission(ctx, attempt, group)
	if err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	s.logger.Info().
		Str("submission_id", attempt.ID).
		Str("test_id", testID).
		Str("student_id", studentID).
		Int("score", score).
		Float64("percentage", percentage).
		Str("level", level).
		Str("group_id", placed.ID).
		Msg("Test submission graded")

	if s.publisher != nil {
		event := &models.SubmissionGradedEvent{
			SubmissionID: attempt.ID,
			TestID:       testID,
			StudentID:    studentID,
			SubjectID:    test.SubjectID,
			Score:        score,
			Percentage:   percentage,
			Level:        level,
			GroupID:      placed.ID,
			Timestamp:    now.Unix(),
		}
		if err := s.publisher.PublishSubmissionGraded(ctx, event); err != nil {
			// The submission is already committed; a broker outage must
			// not fail the request.
			s.logger.Error().Err(err).Str("submission_id", attempt.ID).Msg("Failed to publish graded event")
		}
	}

	return &models.SubmissionResult{
		SubmissionID: attempt.ID,
		Score:        score,
		Percentage:   percentage,
		Group:        *placed,
	}, nil
}

func (s *submissionService) ListCompletedTests(ctx context.Context, studentID string) ([]models.CompletedTest, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, NewNotFoundError("student", studentID)
	}

	completed, err := s.submissionRepo.GetCompletedTests(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed tests: %w", err)
	}

	return completed, nil
}
