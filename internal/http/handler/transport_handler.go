package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/http/response"
	"github.com/avrentops/rentalctl/internal/repository"
)

type TransportHandler struct {
	transports repository.TransportRepository
	events     repository.EventRepository
	activity   repository.ActivityRepository
}

func NewTransportHandler(transports repository.TransportRepository, events repository.EventRepository, activity repository.ActivityRepository) *TransportHandler {
	return &TransportHandler{transports: transports, events: events, activity: activity}
}

func (h *TransportHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.transports.ListVehicles()
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	status, vType := q.Get("status"), q.Get("type")
	filtered := make([]domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if status != "" && string(v.Status) != status {
			continue
		}
		if vType != "" && string(v.Type) != vType {
			continue
		}
		filtered = append(filtered, v)
	}
	response.JSON(w, r, http.StatusOK, filtered)
}

func (h *TransportHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.transports.FindVehicle(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, vehicle)
}

func (h *TransportHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle domain.Vehicle
	if !decodeJSON(w, r, &vehicle) {
		return
	}
	if vehicle.RegistrationNumber == "" || vehicle.Type == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "registration_number and type are required", nil)
		return
	}
	if err := h.transports.CreateVehicle(&vehicle); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "CREATE", "vehicle", vehicle.ID, vehicle.RegistrationNumber)
	response.JSON(w, r, http.StatusCreated, vehicle)
}

func (h *TransportHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	existing, err := h.transports.FindVehicle(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var vehicle domain.Vehicle
	if !decodeJSON(w, r, &vehicle) {
		return
	}
	vehicle.ID = existing.ID
	vehicle.CreatedAt = existing.CreatedAt
	if err := h.transports.UpdateVehicle(&vehicle); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "UPDATE", "vehicle", vehicle.ID, vehicle.RegistrationNumber)
	response.JSON(w, r, http.StatusOK, vehicle)
}

func (h *TransportHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.transports.DeleteVehicle(id); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "DELETE", "vehicle", id, "")
	response.Message(w, r, http.StatusOK, "vehicle deleted")
}

func (h *TransportHandler) ListTransports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.transports.ListTransportsPaged(repository.TransportListQuery{
		PageRequest: pageRequest(r),
		Status:      q.Get("status"),
		EventID:     q.Get("event_id"),
		VehicleID:   q.Get("vehicle_id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	items := res.Items
	if items == nil {
		items = []domain.Transport{}
	}
	response.JSON(w, r, http.StatusOK, items)
}

func (h *TransportHandler) GetTransport(w http.ResponseWriter, r *http.Request) {
	transport, err := h.transports.FindTransport(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, transport)
}

func (h *TransportHandler) CreateTransport(w http.ResponseWriter, r *http.Request) {
	var transport domain.Transport
	if !decodeJSON(w, r, &transport) {
		return
	}
	if transport.EventID == "" || transport.VehicleID == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "event_id and vehicle_id are required", nil)
		return
	}
	if _, err := h.events.FindByID(transport.EventID); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.transports.FindVehicle(transport.VehicleID); err != nil {
		writeError(w, r, err)
		return
	}
	transport.Event = nil
	transport.Vehicle = nil
	transport.Driver = nil
	if err := h.transports.CreateTransport(&transport); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "CREATE", "transport", transport.ID, "")
	response.JSON(w, r, http.StatusCreated, transport)
}

func (h *TransportHandler) UpdateTransport(w http.ResponseWriter, r *http.Request) {
	existing, err := h.transports.FindTransport(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var transport domain.Transport
	if !decodeJSON(w, r, &transport) {
		return
	}
	transport.ID = existing.ID
	transport.EventID = existing.EventID
	transport.CreatedAt = existing.CreatedAt
	transport.Event = nil
	transport.Vehicle = nil
	transport.Driver = nil
	if err := h.transports.UpdateTransport(&transport); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "UPDATE", "transport", transport.ID, "")
	response.JSON(w, r, http.StatusOK, transport)
}

var transportStatuses = map[domain.TransportStatus]bool{
	domain.TransportPlanned:   true,
	domain.TransportEnRoute:   true,
	domain.TransportDelivered: true,
	domain.TransportReturning: true,
	domain.TransportFinished:  true,
}

// UpdateStatus moves a transport through its lifecycle and keeps the
// vehicle's own status in step.
func (h *TransportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	transport, err := h.transports.FindTransport(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Status domain.TransportStatus `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if !transportStatuses[body.Status] {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "unknown transport status", map[string]any{"status": body.Status})
		return
	}
	transport.Status = body.Status
	if body.Status == domain.TransportFinished && transport.ReturnDate == nil {
		now := time.Now().UTC()
		transport.ReturnDate = &now
	}
	transport.Event = nil
	transport.Vehicle = nil
	transport.Driver = nil
	if err := h.transports.UpdateTransport(transport); err != nil {
		writeError(w, r, err)
		return
	}

	if vehicle, err := h.transports.FindVehicle(transport.VehicleID); err == nil {
		switch body.Status {
		case domain.TransportEnRoute, domain.TransportReturning:
			vehicle.Status = domain.VehicleInService
		case domain.TransportFinished:
			vehicle.Status = domain.VehicleAvailable
		}
		_ = h.transports.UpdateVehicle(vehicle)
	}
	audit(h.activity, r, "UPDATE", "transport", transport.ID, string(body.Status))
	response.JSON(w, r, http.StatusOK, transport)
}
