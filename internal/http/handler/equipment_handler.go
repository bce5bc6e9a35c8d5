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

// qrPrefix tags QR payloads so a scan of an unrelated code is rejected
// instead of being treated as a reference lookup.
const qrPrefix = "rental-equipment:"

type EquipmentHandler struct {
	equipment repository.EquipmentRepository
	activity  repository.ActivityRepository
}

func NewEquipmentHandler(equipment repository.EquipmentRepository, activity repository.ActivityRepository) *EquipmentHandler {
	return &EquipmentHandler{equipment: equipment, activity: activity}
}

func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.equipment.ListPaged(repository.EquipmentListQuery{
		PageRequest:   pageRequest(r),
		Search:        q.Get("search"),
		CategoryID:    q.Get("category_id"),
		SubcategoryID: q.Get("subcategory_id"),
		Status:        q.Get("status"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toPage(res))
}

func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.equipment.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, item)
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var item domain.Equipment
	if !decodeJSON(w, r, &item) {
		return
	}
	if item.Name == "" || item.CategoryID == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "name and category_id are required", nil)
		return
	}
	if item.QuantityTotal <= 0 {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "quantity_total must be positive", nil)
		return
	}
	if err := h.equipment.Create(&item); err != nil {
		writeError(w, r, err)
		return
	}
	if item.QRCodeURL == "" {
		item.QRCodeURL = qrPrefix + item.Reference
		if err := h.equipment.Update(&item); err != nil {
			writeError(w, r, err)
			return
		}
	}
	audit(h.activity, r, "CREATE", "equipment", item.ID, item.Name)
	response.JSON(w, r, http.StatusCreated, item)
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, err := h.equipment.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var item domain.Equipment
	if !decodeJSON(w, r, &item) {
		return
	}
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	item.Category = nil
	item.Subcategory = nil
	if item.Status != "" && item.Status != existing.Status {
		_ = h.equipment.AppendHistory(&domain.EquipmentStatusHistory{
			EquipmentID: existing.ID,
			Status:      item.Status,
			Quantity:    item.QuantityAvailable,
			ChangedBy:   middleware.UserIDFromContext(r.Context()),
		})
	}
	if err := h.equipment.Update(&item); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "UPDATE", "equipment", item.ID, item.Name)
	response.JSON(w, r, http.StatusOK, item)
}

func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.equipment.Delete(id); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "DELETE", "equipment", id, "")
	response.Message(w, r, http.StatusOK, "equipment deleted")
}

func (h *EquipmentHandler) Availability(w http.ResponseWriter, r *http.Request) {
	item, err := h.equipment.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	start, err := time.Parse("2006-01-02", q.Get("start_date"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "start_date must be YYYY-MM-DD", nil)
		return
	}
	end, err := time.Parse("2006-01-02", q.Get("end_date"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "end_date must be YYYY-MM-DD", nil)
		return
	}
	if end.Before(start) {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "end_date precedes start_date", nil)
		return
	}
	reserved, err := h.equipment.ReservedBetween(item.ID, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	free := item.QuantityTotal - reserved
	if free < 0 {
		free = 0
	}
	response.JSON(w, r, http.StatusOK, domain.AvailabilityWindow{
		EquipmentID:       item.ID,
		StartDate:         start,
		EndDate:           end,
		QuantityAvailable: free,
		QuantityReserved:  reserved,
	})
}

func (h *EquipmentHandler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.equipment.FindByID(id); err != nil {
		writeError(w, r, err)
		return
	}
	entries, err := h.equipment.History(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, entries)
}

func (h *EquipmentHandler) ScanQR(w http.ResponseWriter, r *http.Request) {
	var body struct {
		QRData string `json:"qr_data"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	// Accept both tagged payloads and a bare reference typed by hand.
	reference := strings.TrimPrefix(body.QRData, qrPrefix)
	if reference == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "qr_data is required", nil)
		return
	}
	item, err := h.equipment.FindByReference(reference)
	if err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "SCAN", "equipment", item.ID, item.Reference)
	response.JSON(w, r, http.StatusOK, item)
}

func (h *EquipmentHandler) BulkQRExport(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EquipmentIDs []string `json:"equipment_ids"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if len(body.EquipmentIDs) == 0 {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "equipment_ids is required", nil)
		return
	}
	type export struct {
		EquipmentID string `json:"equipment_id"`
		QRCodeURL   string `json:"qr_code_url"`
	}
	exports := make([]export, 0, len(body.EquipmentIDs))
	for _, id := range body.EquipmentIDs {
		item, err := h.equipment.FindByID(id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		url := item.QRCodeURL
		if url == "" {
			url = fmt.Sprintf("%s%s", qrPrefix, item.Reference)
		}
		exports = append(exports, export{EquipmentID: item.ID, QRCodeURL: url})
	}
	response.JSON(w, r, http.StatusOK, exports)
}
