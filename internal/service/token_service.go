package service

import (
	"context"
	"errors"
	"time"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/security"
)

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// TokenService mints access/refresh pairs and rotates them. Every refresh
// token is single-use: rotation consumes the old session and registers a
// new one, so a replayed refresh token fails cleanly.
type TokenService struct {
	jwtMgr     *security.JWTManager
	sessions   RefreshSessionStore
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(jwtMgr *security.JWTManager, sessions RefreshSessionStore, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{jwtMgr: jwtMgr, sessions: sessions, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (s *TokenService) Issue(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	access, err := s.jwtMgr.SignAccessToken(user.ID, user.Role, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, jti, err := s.jwtMgr.SignRefreshToken(user.ID, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, jti, user.ID, s.refreshTTL); err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate validates the presented refresh token, consumes its session, and
// issues a fresh pair for the user the fetcher resolves.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string, fetch func(userID string) (*domain.User, error)) (*domain.TokenPair, *domain.User, error) {
	claims, err := s.jwtMgr.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, ErrInvalidRefreshToken
	}
	userID, err := s.sessions.Consume(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrRefreshSessionNotFound) {
			return nil, nil, ErrInvalidRefreshToken
		}
		return nil, nil, err
	}
	if userID != claims.Subject {
		return nil, nil, ErrInvalidRefreshToken
	}
	user, err := fetch(userID)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrInvalidRefreshToken
	}
	pair, err := s.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// RevokeAll drops every live refresh session for the user (logout).
func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	return s.sessions.RevokeUser(ctx, userID)
}
