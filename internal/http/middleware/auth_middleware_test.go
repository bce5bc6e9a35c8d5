package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/security"
)

func newJWTManagerForTest() *security.JWTManager {
	return security.NewJWTManager(
		"rentald",
		"rental-api",
		"abcdefghijklmnopqrstuvwxyz123456",
		"abcdefghijklmnopqrstuvwxyz654321",
	)
}

func TestAuthMiddlewareMissingTokenReturnsUnauthorized(t *testing.T) {
	h := AuthMiddleware(newJWTManagerForTest())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing token, got %d", rr.Code)
	}
}

func TestAuthMiddlewareValidBearerTokenPasses(t *testing.T) {
	jwtMgr := newJWTManagerForTest()
	token, err := jwtMgr.SignAccessToken("u-42", domain.RoleAdmin, 15*time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	var gotUserID string
	h := AuthMiddleware(jwtMgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for valid token, got %d", rr.Code)
	}
	if gotUserID != "u-42" {
		t.Fatalf("user id in context = %q", gotUserID)
	}
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	jwtMgr := newJWTManagerForTest()
	refresh, _, err := jwtMgr.SignRefreshToken("u-42", time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	h := AuthMiddleware(jwtMgr)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token must not authenticate a request, got %d", rr.Code)
	}
}
