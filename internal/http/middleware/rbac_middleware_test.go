package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avrentops/rentalctl/internal/domain"
)

func protectedChain(t *testing.T, role domain.UserRole, required ...domain.UserRole) *httptest.ResponseRecorder {
	t.Helper()
	jwtMgr := newJWTManagerForTest()
	token, err := jwtMgr.SignAccessToken("u-1", role, 15*time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h = RequireRole(required...)(h)
	h = AuthMiddleware(jwtMgr)(h)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/u-2", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	rr := protectedChain(t, domain.RoleAdmin, domain.RoleAdmin)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("admin should pass, got %d", rr.Code)
	}
}

func TestRequireRoleAllowsAnyListedRole(t *testing.T) {
	rr := protectedChain(t, domain.RoleMaintenance, domain.RoleAdmin, domain.RoleMaintenance)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("maintenance should pass, got %d", rr.Code)
	}
}

func TestRequireRoleForbidsOthers(t *testing.T) {
	rr := protectedChain(t, domain.RoleTechnician, domain.RoleAdmin)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("technician should be forbidden, got %d", rr.Code)
	}
}

func TestRequireRoleWithoutAuthContext(t *testing.T) {
	h := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth context, got %d", rr.Code)
	}
}
