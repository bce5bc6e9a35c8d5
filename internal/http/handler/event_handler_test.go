package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/repository"
)

type eventTestEnv struct {
	router    http.Handler
	events    repository.EventRepository
	equipment repository.EquipmentRepository
}

func newEventTestEnv(t *testing.T) *eventTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	events := repository.NewEventRepository(db)
	equipment := repository.NewEquipmentRepository(db)
	users := repository.NewUserRepository(db)
	activity := repository.NewActivityRepository(db)
	h := NewEventHandler(events, equipment, users, activity)

	r := chi.NewRouter()
	r.Post("/events/{id}/equipment", h.AddEquipment)
	r.Put("/events/{id}/equipment/{reservationID}", h.UpdateReservation)
	r.Get("/events/{id}/documents/{docType}", h.Document)

	return &eventTestEnv{router: r, events: events, equipment: equipment}
}

func (env *eventTestEnv) seedEvent(t *testing.T, start, end time.Time) *domain.Event {
	t.Helper()
	event := &domain.Event{
		EventName:        "Gala",
		ClientName:       "Acme",
		ContactPerson:    "J. Doe",
		Phone:            "+33600000000",
		Address:          "1 rue des Fêtes",
		InstallationDate: start,
		EventDate:        start,
		DismantlingDate:  end,
		Category:         domain.EventSound,
	}
	if err := env.events.Create(event); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}

func (env *eventTestEnv) seedEquipment(t *testing.T, total int) *domain.Equipment {
	t.Helper()
	item := &domain.Equipment{
		Name:             "Enceinte active",
		Reference:        "SON-" + t.Name(),
		CategoryID:       "cat-son",
		QuantityTotal:    total,
		DailyRentalPrice: 40,
	}
	if err := env.equipment.Create(item); err != nil {
		t.Fatalf("seed equipment: %v", err)
	}
	return item
}

func postJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAddEquipmentRejectsOverbooking(t *testing.T) {
	env := newEventTestEnv(t)
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	first := env.seedEvent(t, start, end)
	item := env.seedEquipment(t, 10)

	rr := postJSON(t, env.router, http.MethodPost, "/events/"+first.ID+"/equipment",
		fmt.Sprintf(`{"equipment_id":%q,"quantity_reserved":8}`, item.ID))
	if rr.Code != http.StatusCreated {
		t.Fatalf("first reservation: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	// A second event over the same window only has 2 units left.
	second := env.seedEvent(t, start.AddDate(0, 0, 1), end.AddDate(0, 0, 1))
	rr = postJSON(t, env.router, http.MethodPost, "/events/"+second.ID+"/equipment",
		fmt.Sprintf(`{"equipment_id":%q,"quantity_reserved":3}`, item.ID))
	if rr.Code != http.StatusConflict {
		t.Fatalf("overbooking: expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	var env409 struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env409); err != nil {
		t.Fatalf("decode conflict envelope: %v", err)
	}
	if env409.Error.Code != "INSUFFICIENT_STOCK" {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %q", env409.Error.Code)
	}
	if got := env409.Error.Details["available"]; got != float64(2) {
		t.Fatalf("expected 2 units available in details, got %v", got)
	}

	rr = postJSON(t, env.router, http.MethodPost, "/events/"+second.ID+"/equipment",
		fmt.Sprintf(`{"equipment_id":%q,"quantity_reserved":2}`, item.ID))
	if rr.Code != http.StatusCreated {
		t.Fatalf("reservation within stock: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUpdateReservationExcludesItsOwnQuantity(t *testing.T) {
	env := newEventTestEnv(t)
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	event := env.seedEvent(t, start, start.AddDate(0, 0, 1))
	item := env.seedEquipment(t, 10)

	rr := postJSON(t, env.router, http.MethodPost, "/events/"+event.ID+"/equipment",
		fmt.Sprintf(`{"equipment_id":%q,"quantity_reserved":10}`, item.ID))
	if rr.Code != http.StatusCreated {
		t.Fatalf("reservation: expected 201, got %d", rr.Code)
	}
	var created struct {
		Data domain.EventEquipment `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Re-saving the full stock on the same line must not conflict with
	// itself.
	rr = postJSON(t, env.router, http.MethodPut,
		"/events/"+event.ID+"/equipment/"+created.Data.ID,
		`{"quantity_reserved":10}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("same-line update: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = postJSON(t, env.router, http.MethodPut,
		"/events/"+event.ID+"/equipment/"+created.Data.ID,
		`{"quantity_reserved":11}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("raising above stock: expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestEventDocumentListsReservedLines(t *testing.T) {
	env := newEventTestEnv(t)
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	event := env.seedEvent(t, start, start.AddDate(0, 0, 1))
	item := env.seedEquipment(t, 5)

	rr := postJSON(t, env.router, http.MethodPost, "/events/"+event.ID+"/equipment",
		fmt.Sprintf(`{"equipment_id":%q,"quantity_reserved":3}`, item.ID))
	if rr.Code != http.StatusCreated {
		t.Fatalf("reservation: %d", rr.Code)
	}

	rr = postJSON(t, env.router, http.MethodGet, "/events/"+event.ID+"/documents/quote", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("document: expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "QUOTE") || !strings.Contains(body, "Enceinte active") {
		t.Fatalf("document missing heading or line item:\n%s", body)
	}
	if !strings.Contains(body, "120.00") {
		t.Fatalf("expected 3 x 40.00 line total in quote:\n%s", body)
	}
}
