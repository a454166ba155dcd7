package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bxiit/selmag/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this username already exists")
)

const uniqueViolation = "23505"

// UserRepository defines the interface for manager user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.ManagerUser) error
	FindByUsername(ctx context.Context, username string) (*domain.ManagerUser, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new manager user and fills in the generated id and creation time
func (r *userRepository) Create(ctx context.Context, user *domain.ManagerUser) error {
	query := `
		INSERT INTO manager.t_user (c_username, c_password)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByUsername retrieves a manager user by username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.ManagerUser, error) {
	query := `
		SELECT id, c_username, c_password, created_at
		FROM manager.t_user
		WHERE c_username = $1
	`

	user := &domain.ManagerUser{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	return user, nil
}
