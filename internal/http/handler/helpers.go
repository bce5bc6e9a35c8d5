// Package handler implements rentald's HTTP endpoints on top of the
// service and repository layers.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/http/middleware"
	"github.com/avrentops/rentalctl/internal/http/response"
	"github.com/avrentops/rentalctl/internal/repository"
	"github.com/avrentops/rentalctl/internal/service"
)

// decodeJSON reads the request body into dst, answering 400 itself on
// malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, r, http.StatusBadRequest, "INVALID_BODY", "malformed request body", nil)
		return false
	}
	return true
}

func pageRequest(r *http.Request) repository.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return repository.PageRequest{Page: page, PageSize: limit}
}

func toPage[T any](res repository.PageResult[T]) domain.Page[T] {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return domain.Page[T]{
		Items:      items,
		Total:      int(res.Total),
		Page:       res.Page,
		Limit:      res.PageSize,
		TotalPages: res.TotalPages,
	}
}

// writeError translates service and repository errors into the envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrReservationNotFound),
		errors.Is(err, repository.ErrAssignmentNotFound),
		errors.Is(err, repository.ErrEquipmentNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrSubcategoryNotFound),
		errors.Is(err, repository.ErrMaintenanceNotFound),
		errors.Is(err, repository.ErrVehicleNotFound),
		errors.Is(err, repository.ErrTransportNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
	case errors.Is(err, service.ErrInvalidRefreshToken):
		response.Error(w, r, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "refresh token is invalid or expired", nil)
	case errors.Is(err, service.ErrAccountDisabled):
		response.Error(w, r, http.StatusForbidden, "ACCOUNT_DISABLED", "account is disabled", nil)
	case errors.Is(err, service.ErrEmailTaken):
		response.Error(w, r, http.StatusConflict, "EMAIL_TAKEN", "email already registered", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

// audit records a best-effort activity entry for the authenticated user.
// Failures are swallowed: audit trails never break the request.
func audit(activity repository.ActivityRepository, r *http.Request, action, entityType, entityID, description string) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" || activity == nil {
		return
	}
	_ = activity.Append(&domain.ActivityLog{
		UserID:      userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		IPAddress:   r.RemoteAddr,
		UserAgent:   r.UserAgent(),
	})
}
