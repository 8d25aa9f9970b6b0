package repository

import (
	"context"
	"errors"
	"fmt"

	"invoice_generator/internal/model"

	"github.com/jackc/pgx/v5"
)

const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already registered")
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. A lost race on username or email surfaces as
// ErrDuplicateUsername / ErrDuplicateEmail.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (full_name, username, email, phone, password_hash)
            VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql, user.FullName, user.Username, user.Email, user.Phone, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		switch uniqueConstraint(err) {
		case usernameConstraint:
			return ErrDuplicateUsername
		case emailConstraint:
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByUsername retrieves a user by username. Returns nil, nil when absent.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	sql := `SELECT id, full_name, username, email, phone, password_hash, created_at FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, username))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves a user by email. Returns nil, nil when absent.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT id, full_name, username, email, phone, password_hash, created_at FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.FullName, &user.Username, &user.Email, &user.Phone, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is not an error for this contract, service layer handles it
		}
		return nil, err
	}
	return user, nil
}
