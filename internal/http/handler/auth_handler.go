package handler

import (
	"net/http"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/http/middleware"
	"github.com/avrentops/rentalctl/internal/http/response"
	"github.com/avrentops/rentalctl/internal/repository"
	"github.com/avrentops/rentalctl/internal/service"
)

type AuthHandler struct {
	auth     *service.AuthService
	activity repository.ActivityRepository
}

func NewAuthHandler(auth *service.AuthService, activity repository.ActivityRepository) *AuthHandler {
	return &AuthHandler{auth: auth, activity: activity}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}
	session, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = h.activity.Append(&domain.ActivityLog{
		UserID:     session.User.ID,
		Action:     "LOGIN",
		EntityType: "user",
		EntityID:   session.User.ID,
		IPAddress:  r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	})
	response.JSON(w, r, http.StatusOK, session)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if !decodeJSON(w, r, &reg) {
		return
	}
	session, err := h.auth.Register(r.Context(), reg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, session)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.RefreshToken == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "refresh_token is required", nil)
		return
	}
	session, err := h.auth.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, session)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if err := h.auth.Logout(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "LOGOUT", "user", userID, "")
	response.Message(w, r, http.StatusOK, "logged out")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Me(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"user": user})
}
