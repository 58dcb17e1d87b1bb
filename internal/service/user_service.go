package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edustage/backend/internal/identity"
	"github.com/edustage/backend/internal/models"
	"github.com/edustage/backend/internal/repository"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	userRepo repository.UserRepository
	idm      *identity.Manager
	logger   zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, idm *identity.Manager, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		idm:      idm,
		logger:   logger,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	return s.create(ctx, req.Email, req.Password, strings.ToLower(req.Role))
}

func (s *userService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	return s.create(ctx, req.Email, req.Password, strings.ToLower(req.Role))
}

func (s *userService) create(ctx context.Context, email, password, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, NewConflictError("a user with this email already exists")
	}

	hash, err := s.idm.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{role},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Str("role", role).
		Msg("User created")

	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil {
		return nil, NewNotFoundError("user", "")
	}

	if !s.idm.CheckPassword(user.PasswordHash, password) {
		return nil, NewValidationError("wrong password")
	}

	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, NewNotFoundError("user", id)
	}

	return user, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}

	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, NewNotFoundError("user", id)
	}

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email != user.Email {
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email availability: %w", err)
			}
			if existing != nil {
				return nil, NewConflictError("email already in use by another user")
			}
			user.Email = email
		}
	}

	if req.Role != "" {
		user.Roles = []string{strings.ToLower(req.Role)}
	}

	if req.Password != "" {
		hash, err := s.idm.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return NewNotFoundError("user", id)
	}

	referenced, err := s.userRepo.IsReferenced(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check user references: %w", err)
	}
	if referenced {
		return NewConflictError("cannot delete user with existing tests, attempts or group memberships")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info().Str("user_id", id).Msg("User deleted")

	return nil
}
