package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"invoice_generator/internal/metrics"
	"invoice_generator/internal/model"
	"invoice_generator/internal/repository"
	"invoice_generator/internal/utils"

	"github.com/sirupsen/logrus"
)

// Signup validation errors, reported verbatim to the caller
var (
	ErrMissingFields    = errors.New("All fields are required")
	ErrPasswordMismatch = errors.New("Passwords do not match")
	ErrUsernameTaken    = errors.New("Username already exists")
	ErrEmailTaken       = errors.New("Email already registered")
	ErrInvalidEmail     = errors.New("Invalid email format")
	ErrInvalidPhone     = errors.New("Phone must be 10 digits")
	ErrWeakPassword     = errors.New("Password must have 8 chars, 1 capital letter & 1 number")
	ErrPasswordTooLong  = errors.New("Password must be 72 characters or fewer")
	ErrUserNotFound     = errors.New("User not found")
	ErrInvalidPassword  = errors.New("Invalid password")
	ErrUnauthorized     = errors.New("unauthorized")
)

// IsSignupValidationError reports whether err is one of the caller-facing signup rejections
func IsSignupValidationError(err error) bool {
	for _, target := range []error{
		ErrMissingFields, ErrPasswordMismatch, ErrUsernameTaken, ErrEmailTaken,
		ErrInvalidEmail, ErrInvalidPhone, ErrWeakPassword, ErrPasswordTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// AuthService provides authentication related services
type AuthService interface {
	Signup(ctx context.Context, in model.SignupInput) (*model.User, error)
	Login(ctx context.Context, identifier, password string) (*model.User, string, error)
	VerifyToken(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	hasher   *utils.PasswordHasher
	log      logrus.FieldLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, hasher *utils.PasswordHasher, log logrus.FieldLogger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		hasher:   hasher,
		log:      log,
	}
}

// Signup validates the form and creates a new user account
func (s *authService) Signup(ctx context.Context, in model.SignupInput) (*model.User, error) {
	user, err := s.signup(ctx, in)
	switch {
	case err == nil:
		metrics.ObserveSignup("success")
	case IsSignupValidationError(err):
		metrics.ObserveSignup("rejected")
	default:
		metrics.ObserveSignup("error")
	}
	return user, err
}

func (s *authService) signup(ctx context.Context, in model.SignupInput) (*model.User, error) {
	in = normalizeSignup(in)

	if !signupFieldsPresent(in) {
		return nil, ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	existing, err := s.userRepo.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	if err := checkSignupFormat(in); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FullName:     in.FullName,
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hashedPassword,
	}

	// The pre-checks above can race with a concurrent signup; the unique
	// constraints decide the winner.
	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User signed up")
	return user, nil
}

// Login authenticates a user by username or email and returns a signed token
func (s *authService) Login(ctx context.Context, identifier, password string) (*model.User, string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		metrics.ObserveLogin("rejected")
		return nil, "", ErrMissingFields
	}

	var user *model.User
	var err error
	if IsEmail(identifier) {
		user, err = s.userRepo.FindByEmail(ctx, identifier)
	} else {
		user, err = s.userRepo.FindByUsername(ctx, identifier)
	}
	if err != nil {
		metrics.ObserveLogin("error")
		return nil, "", fmt.Errorf("error finding user: %w", err)
	}
	if user == nil {
		metrics.ObserveLogin("unknown_user")
		s.log.WithField("identifier", identifier).Warn("Login for unknown user")
		return nil, "", ErrUserNotFound
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		metrics.ObserveLogin("bad_password")
		s.log.WithField("user_id", user.ID).Warn("Login with invalid password")
		return nil, "", ErrInvalidPassword
	}

	token, err := s.jwtUtil.GenerateToken(user.Username)
	if err != nil {
		metrics.ObserveLogin("error")
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.ObserveLogin("success")
	return user, token, nil
}

// VerifyToken resolves a bearer token to its user. Every failure is ErrUnauthorized
// so callers cannot tell a forged token from an expired one.
func (s *authService) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.jwtUtil.ValidateToken(token)
	if err != nil {
		s.log.WithError(err).Debug("Rejected bearer token")
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.FindByUsername(ctx, claims.Username())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}
