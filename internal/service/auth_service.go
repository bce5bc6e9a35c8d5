package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/repository"
	"github.com/avrentops/rentalctl/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountDisabled    = errors.New("account disabled")
)

// dummyHash is a well-formed bcrypt hash of a throwaway value, compared
// against when the email is unknown so timing does not leak existence.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type AuthService struct {
	users  repository.UserRepository
	tokens *TokenService
	logger *slog.Logger
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthSession, error) {
	user, err := s.users.FindByEmail(creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			security.VerifyPassword(dummyHash, creds.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !security.VerifyPassword(user.PasswordHash, creds.Password) {
		s.logger.Info("failed login attempt", "email", creds.Email)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &domain.AuthSession{User: user, Tokens: pair}, nil
}

func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (*domain.AuthSession, error) {
	if reg.Email == "" || reg.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if _, err := s.users.FindByEmail(reg.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	hash, err := security.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}
	role := reg.Role
	if role == "" {
		role = domain.RoleTechnician
	}
	user := &domain.User{
		Email:        reg.Email,
		FullName:     reg.FullName,
		Phone:        reg.Phone,
		Role:         role,
		IsActive:     true,
		PasswordHash: hash,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &domain.AuthSession{User: user, Tokens: pair}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthSession, error) {
	pair, user, err := s.tokens.Rotate(ctx, refreshToken, s.users.FindByID)
	if err != nil {
		return nil, err
	}
	return &domain.AuthSession{User: user, Tokens: pair}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.tokens.RevokeAll(ctx, userID)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(userID)
}

// SeedAdmin creates the bootstrap admin account when the user table is
// empty, so a fresh rentald is immediately usable.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	n, err := s.users.Count()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Email:        email,
		FullName:     "Administrator",
		Role:         domain.RoleAdmin,
		IsActive:     true,
		PasswordHash: hash,
	}
	if err := s.users.Create(admin); err != nil {
		return err
	}
	s.logger.Info("seeded admin account", "email", email)
	return nil
}
