package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edustage/backend/internal/models"
	"github.com/edustage/backend/internal/repository"
)

// GroupService serves the read-only cohort projections for the dashboards.
type GroupService interface {
	GetGroupByID(ctx context.Context, id string) (*models.StudentGroupWithDetails, error)
	ListTutorGroups(ctx context.Context, tutorID string) ([]models.StudentGroupWithDetails, error)
	ListStudentGroups(ctx context.Context, studentID string) ([]models.StudentGroupWithDetails, error)
}

type groupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	logger    zerolog.Logger
}

func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository, logger zerolog.Logger) GroupService {
	return &groupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

func (s *groupService) GetGroupByID(ctx context.Context, id string) (*models.StudentGroupWithDetails, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, NewNotFoundError("group", id)
	}

	return group, nil
}

func (s *groupService) ListTutorGroups(ctx context.Context, tutorID string) ([]models.StudentGroupWithDetails, error) {
	groups, err := s.groupRepo.GetByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tutor groups: %w", err)
	}

	return groups, nil
}

func (s *groupService) ListStudentGroups(ctx context.Context, studentID string) ([]models.StudentGroupWithDetails, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, NewNotFoundError("student", studentID)
	}

	groups, err := s.groupRepo.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student groups: %w", err)
	}

	return groups, nil
}
