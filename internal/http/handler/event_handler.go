package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/http/middleware"
	"github.com/avrentops/rentalctl/internal/http/response"
	"github.com/avrentops/rentalctl/internal/repository"
)

type EventHandler struct {
	events    repository.EventRepository
	equipment repository.EquipmentRepository
	users     repository.UserRepository
	activity  repository.ActivityRepository
}

func NewEventHandler(events repository.EventRepository, equipment repository.EquipmentRepository, users repository.UserRepository, activity repository.ActivityRepository) *EventHandler {
	return &EventHandler{events: events, equipment: equipment, users: users, activity: activity}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := repository.EventListQuery{
		PageRequest: pageRequest(r),
		Status:      q.Get("status"),
		Category:    q.Get("category"),
	}
	if t, err := time.Parse("2006-01-02", q.Get("start_date")); err == nil {
		query.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", q.Get("end_date")); err == nil {
		query.EndDate = &t
	}
	res, err := h.events.ListPaged(query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toPage(res))
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, event)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var event domain.Event
	if !decodeJSON(w, r, &event) {
		return
	}
	if event.EventName == "" || event.ClientName == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "event_name and client_name are required", nil)
		return
	}
	if event.DismantlingDate.Before(event.InstallationDate) {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "dismantling_date must not precede installation_date", nil)
		return
	}
	event.CreatedBy = middleware.UserIDFromContext(r.Context())
	if err := h.events.Create(&event); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "CREATE", "event", event.ID, event.EventName)
	response.JSON(w, r, http.StatusCreated, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, err := h.events.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var event domain.Event
	if !decodeJSON(w, r, &event) {
		return
	}
	event.ID = existing.ID
	event.CreatedBy = existing.CreatedBy
	event.CreatedAt = existing.CreatedAt
	if err := h.events.Update(&event); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "UPDATE", "event", event.ID, event.EventName)
	response.JSON(w, r, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.events.Delete(id); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "DELETE", "event", id, "")
	response.Message(w, r, http.StatusOK, "event deleted")
}

func (h *EventHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if _, err := h.events.FindByID(eventID); err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.events.ListEquipment(eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, items)
}

// checkStock verifies that the requested quantity fits inside the item's
// total stock net of reservations overlapping the event's rental window.
// excludeQty is the quantity already held by the line being updated.
func (h *EventHandler) checkStock(w http.ResponseWriter, r *http.Request, event *domain.Event, equipmentID string, requested, excludeQty int) bool {
	item, err := h.equipment.FindByID(equipmentID)
	if err != nil {
		writeError(w, r, err)
		return false
	}
	reserved, err := h.equipment.ReservedBetween(equipmentID, event.InstallationDate, event.DismantlingDate)
	if err != nil {
		writeError(w, r, err)
		return false
	}
	free := item.QuantityTotal - (reserved - excludeQty)
	if requested > free {
		response.Error(w, r, http.StatusConflict, "INSUFFICIENT_STOCK",
			fmt.Sprintf("only %d unit(s) of %s free over the event window", free, item.Name),
			map[string]any{"equipment_id": equipmentID, "requested": requested, "available": free})
		return false
	}
	return true
}

func (h *EventHandler) AddEquipment(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var item domain.EventEquipment
	if !decodeJSON(w, r, &item) {
		return
	}
	if item.EquipmentID == "" || item.QuantityReserved <= 0 {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "equipment_id and a positive quantity_reserved are required", nil)
		return
	}
	if !h.checkStock(w, r, event, item.EquipmentID, item.QuantityReserved, 0) {
		return
	}
	item.ID = ""
	item.EventID = event.ID
	item.Equipment = nil
	if err := h.events.AddEquipment(&item); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "CREATE", "event_equipment", item.ID, "")
	response.JSON(w, r, http.StatusCreated, item)
}

func (h *EventHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	existing, err := h.events.FindReservation(event.ID, chi.URLParam(r, "reservationID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var item domain.EventEquipment
	if !decodeJSON(w, r, &item) {
		return
	}
	if item.QuantityReserved <= 0 {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "quantity_reserved must be positive", nil)
		return
	}
	if item.QuantityReserved > existing.QuantityReserved {
		if !h.checkStock(w, r, event, existing.EquipmentID, item.QuantityReserved, existing.QuantityReserved) {
			return
		}
	}
	existing.QuantityReserved = item.QuantityReserved
	existing.QuantityReturned = item.QuantityReturned
	if item.Status != "" {
		existing.Status = item.Status
	}
	existing.Notes = item.Notes
	if err := h.events.UpdateReservation(existing); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "UPDATE", "event_equipment", existing.ID, "")
	response.JSON(w, r, http.StatusOK, existing)
}

func (h *EventHandler) RemoveEquipment(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	reservationID := chi.URLParam(r, "reservationID")
	if err := h.events.RemoveEquipment(eventID, reservationID); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "DELETE", "event_equipment", reservationID, "")
	response.Message(w, r, http.StatusOK, "reservation removed")
}

func (h *EventHandler) ListTechnicians(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if _, err := h.events.FindByID(eventID); err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.events.ListTechnicians(eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, items)
}

func (h *EventHandler) AssignTechnician(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		TechnicianID string `json:"technician_id"`
		Role         string `json:"role"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.TechnicianID == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "technician_id is required", nil)
		return
	}
	if _, err := h.users.FindByID(body.TechnicianID); err != nil {
		writeError(w, r, err)
		return
	}
	item := domain.EventTechnician{
		EventID:      event.ID,
		TechnicianID: body.TechnicianID,
		Role:         body.Role,
	}
	if err := h.events.AssignTechnician(&item); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "CREATE", "event_technician", item.ID, body.Role)
	response.JSON(w, r, http.StatusCreated, item)
}

func (h *EventHandler) RemoveTechnician(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	assignmentID := chi.URLParam(r, "assignmentID")
	if err := h.events.RemoveTechnician(eventID, assignmentID); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "DELETE", "event_technician", assignmentID, "")
	response.Message(w, r, http.StatusOK, "technician removed")
}

// Document renders a printable summary for an event. Quote and delivery
// note share a layout; the type only changes the heading.
func (h *EventHandler) Document(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	docType := chi.URLParam(r, "docType")
	items, err := h.events.ListEquipment(event.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s\n", strings.ToUpper(docType), event.EventName)
	fmt.Fprintf(&b, "Client: %s (%s)\n", event.ClientName, event.ContactPerson)
	fmt.Fprintf(&b, "Address: %s\n", event.Address)
	fmt.Fprintf(&b, "Window: %s → %s\n\n",
		event.InstallationDate.Format("2006-01-02"),
		event.DismantlingDate.Format("2006-01-02"))
	total := 0.0
	for _, line := range items {
		name := line.EquipmentID
		price := 0.0
		if line.Equipment != nil {
			name = line.Equipment.Name
			price = line.Equipment.DailyRentalPrice
		}
		lineTotal := price * float64(line.QuantityReserved)
		total += lineTotal
		fmt.Fprintf(&b, "%3d x %-40s %10.2f\n", line.QuantityReserved, name, lineTotal)
	}
	if docType == "quote" {
		fmt.Fprintf(&b, "\nTotal per day: %.2f\n", total)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s-%s.txt", docType, event.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}
