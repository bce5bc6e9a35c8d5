package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/security"
)

func newTokenServiceForTest(t *testing.T) (*TokenService, *security.JWTManager) {
	t.Helper()
	_, client := newRedisClientForTest(t)
	jwtMgr := security.NewJWTManager("rentald", "rental-api", "access-secret", "refresh-secret")
	return NewTokenService(jwtMgr, NewRedisRefreshSessionStore(client), time.Minute, time.Hour), jwtMgr
}

func activeUser() *domain.User {
	return &domain.User{ID: "u-1", Email: "a@b.com", Role: domain.RoleAdmin, IsActive: true}
}

func TestIssueProducesValidPair(t *testing.T) {
	svc, jwtMgr := newTokenServiceForTest(t)

	pair, err := svc.Issue(context.Background(), activeUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := jwtMgr.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.Subject != "u-1" || claims.Role != domain.RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}
	if _, err := jwtMgr.ParseRefreshToken(pair.RefreshToken); err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
}

func TestRotateIssuesNewPairAndBurnsOldToken(t *testing.T) {
	svc, _ := newTokenServiceForTest(t)
	ctx := context.Background()
	user := activeUser()

	pair, err := svc.Issue(ctx, user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	fetch := func(id string) (*domain.User, error) {
		if id != "u-1" {
			t.Fatalf("fetch called with %q", id)
		}
		return user, nil
	}

	rotated, gotUser, err := svc.Rotate(ctx, pair.RefreshToken, fetch)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if gotUser.ID != "u-1" {
		t.Fatalf("user = %+v", gotUser)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatal("rotation must mint a new refresh token")
	}

	// The old refresh token is spent.
	if _, _, err := svc.Rotate(ctx, pair.RefreshToken, fetch); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("replayed refresh token must fail, got %v", err)
	}

	// The new one still works.
	if _, _, err := svc.Rotate(ctx, rotated.RefreshToken, fetch); err != nil {
		t.Fatalf("rotate new token: %v", err)
	}
}

func TestRotateRejectsGarbageAndAccessTokens(t *testing.T) {
	svc, jwtMgr := newTokenServiceForTest(t)
	ctx := context.Background()
	fetch := func(string) (*domain.User, error) { return activeUser(), nil }

	if _, _, err := svc.Rotate(ctx, "not-a-token", fetch); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("garbage token: %v", err)
	}
	access, err := jwtMgr.SignAccessToken("u-1", domain.RoleAdmin, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, _, err := svc.Rotate(ctx, access, fetch); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("access token used as refresh: %v", err)
	}
}

func TestRotateRejectsDeactivatedUser(t *testing.T) {
	svc, _ := newTokenServiceForTest(t)
	ctx := context.Background()

	pair, err := svc.Issue(ctx, activeUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	disabled := activeUser()
	disabled.IsActive = false
	_, _, err = svc.Rotate(ctx, pair.RefreshToken, func(string) (*domain.User, error) { return disabled, nil })
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("deactivated user must not refresh, got %v", err)
	}
}

func TestRevokeAllInvalidatesRefreshTokens(t *testing.T) {
	svc, _ := newTokenServiceForTest(t)
	ctx := context.Background()
	user := activeUser()

	pair, err := svc.Issue(ctx, user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := svc.RevokeAll(ctx, user.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	fetch := func(string) (*domain.User, error) { return user, nil }
	if _, _, err := svc.Rotate(ctx, pair.RefreshToken, fetch); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("revoked token must fail, got %v", err)
	}
}
