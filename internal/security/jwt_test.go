package security

import (
	"strings"
	"testing"
	"time"

	"github.com/avrentops/rentalctl/internal/domain"
)

func newTestManager() *JWTManager {
	return NewJWTManager("rentald", "rental-api", "access-secret", "refresh-secret")
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	raw, err := m.SignAccessToken("u-1", domain.RoleAdmin, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := m.ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "u-1" || claims.Role != domain.RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("access token must carry a jti")
	}
}

func TestRefreshTokenCarriesSessionID(t *testing.T) {
	m := newTestManager()
	raw, jti, err := m.SignRefreshToken("u-1", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := m.ParseRefreshToken(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID != jti {
		t.Fatalf("returned jti %q does not match claims jti %q", jti, claims.ID)
	}
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	m := newTestManager()
	access, err := m.SignAccessToken("u-1", domain.RoleTechnician, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseRefreshToken(access); err == nil {
		t.Fatal("access token must not validate as refresh token")
	}
	refresh, _, err := m.SignRefreshToken("u-1", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseAccessToken(refresh); err == nil {
		t.Fatal("refresh token must not validate as access token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := newTestManager()
	raw, err := m.SignAccessToken("u-1", domain.RoleAdmin, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseAccessToken(raw); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestForeignIssuerRejected(t *testing.T) {
	other := NewJWTManager("someone-else", "rental-api", "access-secret", "refresh-secret")
	raw, err := other.SignAccessToken("u-1", domain.RoleAdmin, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := newTestManager().ParseAccessToken(raw); err == nil {
		t.Fatal("token from another issuer must be rejected")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if strings.Contains(hash, "correct horse") {
		t.Fatal("hash must not contain the plaintext")
	}
	if !VerifyPassword(hash, "correct horse") {
		t.Fatal("valid password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("invalid password accepted")
	}
}
