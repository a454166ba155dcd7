package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bxiit/selmag/internal/domain"
	"github.com/bxiit/selmag/internal/repository"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Mock repository for testing
type mockUserRepository struct {
	users  map[string]*domain.ManagerUser
	nextID int
	err    error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.ManagerUser),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.ManagerUser) error {
	if m.err != nil {
		return m.err
	}
	if _, exists := m.users[user.Username]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.ManagerUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, exists := m.users[username]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func TestProperty_EnsuredUsersHaveHashedPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(username string, password string) bool {
			userRepo := newMockUserRepository()
			service := NewUserService(userRepo, zap.NewNop())
			ctx := context.Background()

			user, err := service.EnsureUser(ctx, username, password)
			if err != nil {
				t.Logf("FAIL: EnsureUser failed: %v", err)
				return false
			}

			stored := userRepo.users[username]
			if stored == nil || stored.PasswordHash != user.PasswordHash || stored.PasswordHash == password {
				return false
			}

			cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
			if err != nil || cost != BcryptCost {
				return false
			}

			return bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)) == nil
		},
		gen.RegexMatch(`[a-z]{3,12}`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_AuthenticateAcceptsOnlyMatchingPassword(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("authentication succeeds iff the password matches", prop.ForAll(
		func(password string, attempt string) bool {
			userRepo := newMockUserRepository()
			service := NewUserService(userRepo, zap.NewNop())
			ctx := context.Background()

			if _, err := service.EnsureUser(ctx, "manager", password); err != nil {
				return false
			}

			user, err := service.Authenticate(ctx, "manager", attempt)
			if attempt == password {
				return err == nil && user.Username == "manager"
			}
			return errors.Is(err, ErrInvalidCredentials) && user == nil
		},
		gen.RegexMatch(`[a-z]{8,10}`),
		gen.RegexMatch(`[a-z]{8,10}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	service := NewUserService(newMockUserRepository(), zap.NewNop())

	_, err := service.Authenticate(context.Background(), "ghost", "password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	userRepo := newMockUserRepository()
	userRepo.err = errors.New("connection reset")
	service := NewUserService(userRepo, zap.NewNop())

	_, err := service.Authenticate(context.Background(), "manager", "password")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestEnsureUser_KeepsExistingPassword(t *testing.T) {
	userRepo := newMockUserRepository()
	service := NewUserService(userRepo, zap.NewNop())
	ctx := context.Background()

	first, err := service.EnsureUser(ctx, "manager", "original-password")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	second, err := service.EnsureUser(ctx, "manager", "another-password")
	if err != nil {
		t.Fatalf("second EnsureUser failed: %v", err)
	}

	if second.ID != first.ID || len(userRepo.users) != 1 {
		t.Errorf("expected the existing user to be returned")
	}
	if _, err := service.Authenticate(ctx, "manager", "original-password"); err != nil {
		t.Errorf("original password must still work: %v", err)
	}
}

func TestEnsureUser_RejectsEmptyCredentials(t *testing.T) {
	service := NewUserService(newMockUserRepository(), zap.NewNop())

	if _, err := service.EnsureUser(context.Background(), "manager", ""); err == nil {
		t.Error("expected error for empty password")
	}
}
