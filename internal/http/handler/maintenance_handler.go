package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/http/middleware"
	"github.com/avrentops/rentalctl/internal/http/response"
	"github.com/avrentops/rentalctl/internal/repository"
)

const maxUploadMemory = 8 << 20

type MaintenanceHandler struct {
	maintenance repository.MaintenanceRepository
	equipment   repository.EquipmentRepository
	activity    repository.ActivityRepository
}

func NewMaintenanceHandler(maintenance repository.MaintenanceRepository, equipment repository.EquipmentRepository, activity repository.ActivityRepository) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance, equipment: equipment, activity: activity}
}

func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.maintenance.ListPaged(repository.MaintenanceListQuery{
		PageRequest:  pageRequest(r),
		Status:       q.Get("status"),
		Priority:     q.Get("priority"),
		EquipmentID:  q.Get("equipment_id"),
		TechnicianID: q.Get("technician_id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toPage(res))
}

func (h *MaintenanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.maintenance.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, ticket)
}

func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var ticket domain.Maintenance
	if !decodeJSON(w, r, &ticket) {
		return
	}
	if ticket.EquipmentID == "" || ticket.ProblemDescription == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "equipment_id and problem_description are required", nil)
		return
	}
	item, err := h.equipment.FindByID(ticket.EquipmentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ticket.StartDate.IsZero() {
		ticket.StartDate = time.Now().UTC()
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.PriorityMedium
	}
	ticket.Equipment = nil
	ticket.Technician = nil
	if err := h.maintenance.Create(&ticket); err != nil {
		writeError(w, r, err)
		return
	}
	// Opening a ticket parks the item in maintenance.
	item.Status = domain.EquipmentMaintenance
	if err := h.equipment.Update(item); err != nil {
		writeError(w, r, err)
		return
	}
	_ = h.equipment.AppendHistory(&domain.EquipmentStatusHistory{
		EquipmentID:   item.ID,
		Status:        domain.EquipmentMaintenance,
		Quantity:      item.QuantityAvailable,
		MaintenanceID: ticket.ID,
		ChangedBy:     middleware.UserIDFromContext(r.Context()),
	})
	audit(h.activity, r, "CREATE", "maintenance", ticket.ID, ticket.ProblemDescription)
	response.JSON(w, r, http.StatusCreated, ticket)
}

func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, err := h.maintenance.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var ticket domain.Maintenance
	if !decodeJSON(w, r, &ticket) {
		return
	}
	ticket.ID = existing.ID
	ticket.EquipmentID = existing.EquipmentID
	ticket.CreatedAt = existing.CreatedAt
	ticket.Equipment = nil
	ticket.Technician = nil
	ticket.Logs = nil
	if ticket.Status != "" && ticket.Status != existing.Status {
		_ = h.maintenance.AppendLog(&domain.MaintenanceLog{
			MaintenanceID: existing.ID,
			UserID:        middleware.UserIDFromContext(r.Context()),
			Content:       fmt.Sprintf("%s → %s", existing.Status, ticket.Status),
			Type:          domain.LogStatusChange,
		})
	}
	if err := h.maintenance.Update(&ticket); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "UPDATE", "maintenance", ticket.ID, "")
	response.JSON(w, r, http.StatusOK, ticket)
}

// Complete closes a ticket and returns the equipment to service. The body
// is JSON, or multipart when repair photos are attached.
func (h *MaintenanceHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.maintenance.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var solution string
	var cost float64
	var photoNames []string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			response.Error(w, r, http.StatusBadRequest, "INVALID_BODY", "malformed multipart body", nil)
			return
		}
		solution = r.FormValue("solution_description")
		cost, _ = strconv.ParseFloat(r.FormValue("cost"), 64)
		if r.MultipartForm != nil {
			for _, fh := range r.MultipartForm.File["photos"] {
				photoNames = append(photoNames, fh.Filename)
			}
		}
	} else {
		var body struct {
			SolutionDescription string  `json:"solution_description"`
			Cost                float64 `json:"cost"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		solution = body.SolutionDescription
		cost = body.Cost
	}
	if solution == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "solution_description is required", nil)
		return
	}

	now := time.Now().UTC()
	ticket.Status = domain.MaintenanceFinished
	ticket.SolutionDescription = solution
	ticket.Cost = cost
	ticket.ActualEndDate = &now
	ticket.Equipment = nil
	ticket.Technician = nil
	ticket.Logs = nil
	if err := h.maintenance.Update(ticket); err != nil {
		writeError(w, r, err)
		return
	}

	content := "completed: " + solution
	if len(photoNames) > 0 {
		content += " (photos: " + strings.Join(photoNames, ", ") + ")"
	}
	_ = h.maintenance.AppendLog(&domain.MaintenanceLog{
		MaintenanceID: ticket.ID,
		UserID:        middleware.UserIDFromContext(r.Context()),
		Content:       content,
		Type:          domain.LogStatusChange,
	})

	if item, err := h.equipment.FindByID(ticket.EquipmentID); err == nil {
		item.Status = domain.EquipmentAvailable
		if err := h.equipment.Update(item); err == nil {
			_ = h.equipment.AppendHistory(&domain.EquipmentStatusHistory{
				EquipmentID:   item.ID,
				Status:        domain.EquipmentAvailable,
				Quantity:      item.QuantityAvailable,
				MaintenanceID: ticket.ID,
				ChangedBy:     middleware.UserIDFromContext(r.Context()),
			})
		}
	}
	audit(h.activity, r, "COMPLETE", "maintenance", ticket.ID, solution)
	response.JSON(w, r, http.StatusOK, ticket)
}

func (h *MaintenanceHandler) AddLog(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.maintenance.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var content string
	var photoNames []string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			response.Error(w, r, http.StatusBadRequest, "INVALID_BODY", "malformed multipart body", nil)
			return
		}
		content = r.FormValue("content")
		if r.MultipartForm != nil {
			for _, fh := range r.MultipartForm.File["photos"] {
				photoNames = append(photoNames, fh.Filename)
			}
		}
	} else {
		var body struct {
			Content string `json:"content"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		content = body.Content
	}
	if content == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "content is required", nil)
		return
	}
	if len(photoNames) > 0 {
		content += " (photos: " + strings.Join(photoNames, ", ") + ")"
	}

	entry := domain.MaintenanceLog{
		MaintenanceID: ticket.ID,
		UserID:        middleware.UserIDFromContext(r.Context()),
		Content:       content,
		Type:          domain.LogComment,
	}
	if err := h.maintenance.AppendLog(&entry); err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, entry)
}
