package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/http/middleware"
	"github.com/avrentops/rentalctl/internal/http/response"
	"github.com/avrentops/rentalctl/internal/repository"
	"github.com/avrentops/rentalctl/internal/service"
)

type UserHandler struct {
	users    repository.UserRepository
	auth     *service.AuthService
	activity repository.ActivityRepository
}

func NewUserHandler(users repository.UserRepository, auth *service.AuthService, activity repository.ActivityRepository) *UserHandler {
	return &UserHandler{users: users, auth: auth, activity: activity}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := repository.UserListQuery{
		PageRequest: pageRequest(r),
		Search:      q.Get("search"),
		Role:        q.Get("role"),
	}
	if raw := q.Get("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			query.IsActive = &active
		}
	}
	res, err := h.users.ListPaged(query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toPage(res))
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

// Create provisions an account through the admin surface. Unlike
// /auth/register it does not log the new user in.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if !decodeJSON(w, r, &reg) {
		return
	}
	session, err := h.auth.Register(r.Context(), reg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "CREATE", "user", session.User.ID, reg.Email)
	response.JSON(w, r, http.StatusCreated, session.User)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, err := h.users.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var user domain.User
	if !decodeJSON(w, r, &user) {
		return
	}
	user.ID = existing.ID
	user.PasswordHash = existing.PasswordHash
	user.CreatedAt = existing.CreatedAt
	if user.Email == "" {
		user.Email = existing.Email
	}
	if user.Role == "" {
		user.Role = existing.Role
	}
	if err := h.users.Update(&user); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "UPDATE", "user", user.ID, user.Email)
	response.JSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == middleware.UserIDFromContext(r.Context()) {
		response.Error(w, r, http.StatusConflict, "SELF_DELETE", "cannot delete the account you are signed in with", nil)
		return
	}
	if err := h.users.Delete(id); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "DELETE", "user", id, "")
	response.Message(w, r, http.StatusOK, "user deleted")
}
