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

type SubjectService interface {
	CreateSubject(ctx context.Context, req *models.CreateSubjectRequest) (*models.Subject, error)
	GetAllSubjects(ctx context.Context) ([]models.Subject, error)
	UpdateSubject(ctx context.Context, id string, req *models.CreateSubjectRequest) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id string) error
}

type subjectService struct {
	subjectRepo repository.SubjectRepository
	logger      zerolog.Logger
}

func NewSubjectService(subjectRepo repository.SubjectRepository, logger zerolog.Logger) SubjectService {
	return &subjectService{
		subjectRepo: subjectRepo,
		logger:      logger,
	}
}

func (s *subjectService) CreateSubject(ctx context.Context, req *models.CreateSubjectRequest) (*models.Subject, error) {
	subject := &models.Subject{
		ID:        uuid.New().String(),
		Name:      req.Name,
		ImageURL:  req.ImageURL,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	s.logger.Info().
		Str("subject_id", subject.ID).
		Str("name", subject.Name).
		Msg("Subject created")

	return subject, nil
}

func (s *subjectService) GetAllSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.subjectRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get subjects: %w", err)
	}

	return subjects, nil
}

func (s *subjectService) UpdateSubject(ctx context.Context, id string, req *models.CreateSubjectRequest) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	if subject == nil {
		return nil, NewNotFoundError("subject", id)
	}

	if req.Name != "" {
		subject.Name = req.Name
	}
	if req.ImageURL != "" {
		subject.ImageURL = req.ImageURL
	}

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to update subject: %w", err)
	}

	return subject, nil
}

// DeleteSubject rejects the delete while any test or group still references
// the subject; the subject and its referrers stay untouched.
func (s *subjectService) DeleteSubject(ctx context.Context, id string) error {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get subject: %w", err)
	}
	if subject == nil {
		return NewNotFoundError("subject", id)
	}

	referenced, err := s.subjectRepo.IsReferenced(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check subject references: %w", err)
	}
	if referenced {
		return NewConflictError("cannot delete subject with existing tests or groups")
	}

	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}

	s.logger.Info().Str("subject_id", id).Msg("Subject deleted")

	return nil
}
