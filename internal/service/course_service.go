package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edustage/backend/internal/models"
	"github.com/edustage/backend/internal/repository"
	"github.com/edustage/backend/internal/service/storage"
)

// CourseUpload carries an uploaded material file into the service.
type CourseUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        io.Reader
}

type CourseService interface {
	CreateCourse(ctx context.Context, groupID, title, courseType string, upload *CourseUpload) (*models.Course, error)
	UpdateCourse(ctx context.Context, id, title, courseType string, upload *CourseUpload) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	ListGroupCourses(ctx context.Context, groupID string) ([]models.Course, error)
	DownloadCourseFile(ctx context.Context, id string) (io.ReadCloser, int64, string, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
	groupRepo  repository.GroupRepository
	storage    storage.ObjectStorage
	logger     zerolog.Logger
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	groupRepo repository.GroupRepository,
	objectStorage storage.ObjectStorage,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		groupRepo:  groupRepo,
		storage:    objectStorage,
		logger:     logger,
	}
}

func (s *courseService) CreateCourse(ctx context.Context, groupID, title, courseType string, upload *CourseUpload) (*models.Course, error) {
	var fields []FieldError
	if title == "" {
		fields = append(fields, FieldError{Field: "title", Error: "required"})
	}
	if courseType == "" {
		fields = append(fields, FieldError{Field: "type", Error: "required"})
	}
	if upload == nil {
		fields = append(fields, FieldError{Field: "file", Error: "required"})
	}
	if len(fields) > 0 {
		return nil, NewValidationError("title, type and file are required", fields...)
	}

	exists, err := s.groupRepo.Exists(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to check group: %w", err)
	}
	if !exists {
		return nil, NewNotFoundError("group", groupID)
	}

	key := objectKey(groupID, upload.FileName)
	if err := s.storage.Upload(ctx, key, upload.Data, upload.Size, upload.ContentType); err != nil {
		return nil, fmt.Errorf("failed to upload course file: %w", err)
	}

	course := &models.Course{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		Title:     title,
		Type:      courseType,
		FilePath:  key,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		// The row failed; don't leave an orphaned object behind.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Error().Err(delErr).Str("key", key).Msg("Failed to clean up uploaded object")
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info().
		Str("course_id", course.ID).
		Str("group_id", groupID).
		Str("file_path", key).
		Msg("Course created")

	return course, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, id, title, courseType string, upload *CourseUpload) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, NewNotFoundError("course", id)
	}

	if title != "" {
		course.Title = title
	}
	if courseType != "" {
		course.Type = courseType
	}

	oldKey := ""
	if upload != nil {
		key := objectKey(course.GroupID, upload.FileName)
		if err := s.storage.Upload(ctx, key, upload.Data, upload.Size, upload.ContentType); err != nil {
			return nil, fmt.Errorf("failed to upload course file: %w", err)
		}
		oldKey = course.FilePath
		course.FilePath = key
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	if oldKey != "" {
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			s.logger.Error().Err(err).Str("key", oldKey).Msg("Failed to delete replaced object")
		}
	}

	s.logger.Info().Str("course_id", id).Msg("Course updated")

	return course, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, id string) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return NewNotFoundError("course", id)
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if err := s.storage.Delete(ctx, course.FilePath); err != nil {
		s.logger.Error().Err(err).Str("key", course.FilePath).Msg("Failed to delete course object")
	}

	s.logger.Info().Str("course_id", id).Msg("Course deleted")

	return nil
}

func (s *courseService) ListGroupCourses(ctx context.Context, groupID string) ([]models.Course, error) {
	exists, err := s.groupRepo.Exists(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to check group: %w", err)
	}
	if !exists {
		return nil, NewNotFoundError("group", groupID)
	}

	courses, err := s.courseRepo.GetByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group courses: %w", err)
	}

	return courses, nil
}

func (s *courseService) DownloadCourseFile(ctx context.Context, id string) (io.ReadCloser, int64, string, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, "", fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, 0, "", NewNotFoundError("course", id)
	}

	reader, size, err := s.storage.Download(ctx, course.FilePath)
	if err != nil {
		return nil, 0, "", fmt.Errorf("failed to download course file: %w", err)
	}

	return reader, size, filepath.Base(course.FilePath), nil
}

func objectKey(groupID, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("courses/%s/%s%s", groupID, uuid.New().String(), ext)
}
