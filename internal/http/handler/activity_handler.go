package handler

import (
	"net/http"

	"github.com/avrentops/rentalctl/internal/http/response"
	"github.com/avrentops/rentalctl/internal/repository"
)

type ActivityHandler struct {
	activity repository.ActivityRepository
}

func NewActivityHandler(activity repository.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.activity.ListPaged(repository.ActivityListQuery{
		PageRequest: pageRequest(r),
		UserID:      q.Get("user_id"),
		Action:      q.Get("action"),
		EntityType:  q.Get("entity_type"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toPage(res))
}
