package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bxiit/selmag/internal/domain"
	"github.com/bxiit/selmag/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

// ErrInvalidCredentials is returned for an unknown username or a wrong password
var ErrInvalidCredentials = domain.ErrInvalidCredentials

// UserService authenticates manager UI users
type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.ManagerUser, error)
	EnsureUser(ctx context.Context, username, password string) (*domain.ManagerUser, error)
}

type userService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Authenticate checks username and password against the stored bcrypt hash
func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.ManagerUser, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.verifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// EnsureUser creates the manager account unless one with username already exists.
// An existing account keeps its password.
func (s *userService) EnsureUser(ctx context.Context, username, password string) (*domain.ManagerUser, error) {
	if username == "" || password == "" {
		return nil, errors.New("manager username and password must not be empty")
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := s.hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.ManagerUser{
		Username:     username,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Another instance created it first
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return s.userRepo.FindByUsername(ctx, username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Manager user created", zap.String("username", username), zap.Int("user_id", user.ID))

	return user, nil
}

// hashPassword hashes a password using bcrypt with cost factor 10
func (s *userService) hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// verifyPassword verifies a password against a bcrypt hash
func (s *userService) verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
