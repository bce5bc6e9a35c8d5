// End-to-end tests that drive a real rentald router through the
// rentalctl API client, covering login, transparent token refresh and
// the event save reconciliation flow.
package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/avrentops/rentalctl/internal/api"
	"github.com/avrentops/rentalctl/internal/credstore"
	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/eventsync"
	"github.com/avrentops/rentalctl/internal/http/handler"
	"github.com/avrentops/rentalctl/internal/http/router"
	"github.com/avrentops/rentalctl/internal/observability"
	"github.com/avrentops/rentalctl/internal/repository"
	"github.com/avrentops/rentalctl/internal/security"
	"github.com/avrentops/rentalctl/internal/service"
	"github.com/avrentops/rentalctl/internal/session"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-secret"
)

type stack struct {
	server  *httptest.Server
	client  *api.Client
	session *session.Manager
	syncer  *eventsync.Syncer
	store   credstore.Store
}

func newStack(t *testing.T) *stack {
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

	redisClient, closeRedis, err := service.NewRedisClient("")
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(closeRedis)

	jwtMgr := security.NewJWTManager(
		"rentald",
		"rental-api",
		"abcdefghijklmnopqrstuvwxyz123456",
		"abcdefghijklmnopqrstuvwxyz654321",
	)
	sessions := service.NewRedisRefreshSessionStore(redisClient)
	tokens := service.NewTokenService(jwtMgr, sessions, 15*time.Minute, 7*24*time.Hour)

	users := repository.NewUserRepository(db)
	events := repository.NewEventRepository(db)
	equipment := repository.NewEquipmentRepository(db)
	catalog := repository.NewCatalogRepository(db)
	maintenance := repository.NewMaintenanceRepository(db)
	transports := repository.NewTransportRepository(db)
	messages := repository.NewWhatsAppRepository(db)
	activity := repository.NewActivityRepository(db)

	auth := service.NewAuthService(users, tokens, nil)
	if err := auth.SeedAdmin(context.Background(), adminEmail, adminPassword); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	r := router.NewRouter(router.Dependencies{
		AuthHandler:        handler.NewAuthHandler(auth, activity),
		UserHandler:        handler.NewUserHandler(users, auth, activity),
		EventHandler:       handler.NewEventHandler(events, equipment, users, activity),
		EquipmentHandler:   handler.NewEquipmentHandler(equipment, activity),
		CatalogHandler:     handler.NewCatalogHandler(catalog, activity),
		MaintenanceHandler: handler.NewMaintenanceHandler(maintenance, equipment, activity),
		TransportHandler:   handler.NewTransportHandler(transports, events, activity),
		WhatsAppHandler:    handler.NewWhatsAppHandler(messages, events, activity),
		ActivityHandler:    handler.NewActivityHandler(activity),
		JWTManager:         jwtMgr,
		AuthRateLimitRPM:   1000,
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	logger := observability.NewLogger("error", "text")
	store := credstore.NewMemoryStore()
	client := api.New(srv.URL+"/api", store,
		api.WithTimeout(10*time.Second),
		api.WithLogger(logger),
	)

	return &stack{
		server:  srv,
		client:  client,
		session: session.NewManager(store, client, session.WithLogger(logger)),
		syncer:  eventsync.NewSyncer(client, logger),
		store:   store,
	}
}

func login(t *testing.T, s *stack) {
	t.Helper()
	user, err := s.session.Login(context.Background(), adminEmail, adminPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", user.Role)
	}
}

func TestLoginThenProtectedCall(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	if _, err := s.client.Me(ctx); err == nil {
		t.Fatal("expected /auth/me to fail before login")
	}

	login(t, s)
	if !s.session.IsAuthenticated() {
		t.Fatal("session should be authenticated after login")
	}

	me, err := s.client.Me(ctx)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Email != adminEmail {
		t.Fatalf("expected %s, got %s", adminEmail, me.Email)
	}
}

func TestExpiredAccessTokenIsRefreshedTransparently(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	login(t, s)

	// Invalidate the access token while keeping the refresh token. The
	// next call gets a 401 and must recover with one refresh and replay.
	pair, err := s.store.Tokens()
	if err != nil || pair == nil {
		t.Fatalf("tokens: %v", err)
	}
	pair.AccessToken = "not-a-valid-token"
	if err := s.store.SetTokens(pair); err != nil {
		t.Fatalf("set tokens: %v", err)
	}

	me, err := s.client.Me(ctx)
	if err != nil {
		t.Fatalf("me after token invalidation: %v", err)
	}
	if me.Email != adminEmail {
		t.Fatalf("expected %s, got %s", adminEmail, me.Email)
	}

	rotated, err := s.store.Tokens()
	if err != nil || rotated == nil {
		t.Fatalf("tokens after refresh: %v", err)
	}
	if rotated.AccessToken == "not-a-valid-token" {
		t.Fatal("access token was not replaced by the refresh")
	}
}

func TestSessionRehydratesFromStoredCredentials(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	login(t, s)

	// A fresh manager over the same store simulates a new process.
	fresh := session.NewManager(s.store, s.client)
	if err := fresh.Rehydrate(ctx); err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if !fresh.IsAuthenticated() {
		t.Fatal("expected rehydrated session to be authenticated")
	}
	if user := fresh.User(); user == nil || user.Email != adminEmail {
		t.Fatalf("unexpected rehydrated user: %+v", user)
	}
}

func TestEventSaveReconcilesChildLists(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	login(t, s)

	category, err := s.client.CreateCategory(ctx, &domain.Category{Name: "Son"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	newItem := func(name, ref string) *domain.Equipment {
		item, err := s.client.CreateEquipment(ctx, &domain.Equipment{
			Name:              name,
			Reference:         ref,
			CategoryID:        category.ID,
			QuantityTotal:     10,
			QuantityAvailable: 10,
		})
		if err != nil {
			t.Fatalf("create equipment %s: %v", name, err)
		}
		return item
	}
	speakers := newItem("Enceinte active", "SON-001")
	mixer := newItem("Console de mixage", "SON-002")
	lights := newItem("Projecteur LED", "LUM-001")

	tech, err := s.client.CreateUser(ctx, domain.Registration{
		Email:    "tech@example.com",
		Password: "tech-secret",
		FullName: "Technicien Son",
		Role:     domain.RoleTechnician,
	})
	if err != nil {
		t.Fatalf("create technician: %v", err)
	}

	start := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	event, err := s.client.CreateEvent(ctx, &domain.Event{
		EventName:        "Concert de rentrée",
		ClientName:       "Mairie",
		ContactPerson:    "J. Dupont",
		Phone:            "+33600000000",
		Address:          "1 place de la Mairie",
		InstallationDate: start,
		EventDate:        start.Add(24 * time.Hour),
		DismantlingDate:  start.Add(48 * time.Hour),
		Category:         domain.EventSound,
		Status:           domain.EventPlanned,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	// Editor baseline: two reservations and one assignment.
	if _, err := s.client.AddEventEquipment(ctx, event.ID, &domain.EventEquipment{
		EquipmentID: speakers.ID, QuantityReserved: 4,
	}); err != nil {
		t.Fatalf("add speakers: %v", err)
	}
	if _, err := s.client.AddEventEquipment(ctx, event.ID, &domain.EventEquipment{
		EquipmentID: mixer.ID, QuantityReserved: 1,
	}); err != nil {
		t.Fatalf("add mixer: %v", err)
	}
	if _, err := s.client.AssignTechnician(ctx, event.ID, tech.ID, "régie son"); err != nil {
		t.Fatalf("assign technician: %v", err)
	}

	original, err := s.client.ListEventEquipment(ctx, event.ID)
	if err != nil {
		t.Fatalf("list equipment: %v", err)
	}
	originalTechs, err := s.client.ListEventTechnicians(ctx, event.ID)
	if err != nil {
		t.Fatalf("list technicians: %v", err)
	}

	// The save: raise the speaker quantity, drop the mixer, add lights,
	// and remove the technician.
	current := make([]domain.EventEquipment, 0, 2)
	for _, line := range original {
		if line.EquipmentID == speakers.ID {
			line.QuantityReserved = 6
			current = append(current, line)
		}
	}
	current = append(current, domain.EventEquipment{
		EventID: event.ID, EquipmentID: lights.ID, QuantityReserved: 2,
	})

	event.Notes = "ajouté l'éclairage"
	result, err := s.syncer.Save(ctx, eventsync.Input{
		EventID:             event.ID,
		Event:               event,
		OriginalEquipment:   original,
		CurrentEquipment:    current,
		OriginalTechnicians: originalTechs,
		CurrentTechnicians:  nil,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := result.Err(); err != nil {
		t.Fatalf("save reported child failures: %v", err)
	}

	after, err := s.client.ListEventEquipment(ctx, event.ID)
	if err != nil {
		t.Fatalf("list equipment after save: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected 2 reservations after save, got %d", len(after))
	}
	byEquipment := map[string]int{}
	for _, line := range after {
		byEquipment[line.EquipmentID] = line.QuantityReserved
	}
	if byEquipment[speakers.ID] != 6 {
		t.Fatalf("speaker quantity not updated: %v", byEquipment)
	}
	if byEquipment[lights.ID] != 2 {
		t.Fatalf("lights not added: %v", byEquipment)
	}
	if _, stillThere := byEquipment[mixer.ID]; stillThere {
		t.Fatal("mixer reservation should have been removed")
	}

	afterTechs, err := s.client.ListEventTechnicians(ctx, event.ID)
	if err != nil {
		t.Fatalf("list technicians after save: %v", err)
	}
	if len(afterTechs) != 0 {
		t.Fatalf("expected no technicians after save, got %d", len(afterTechs))
	}

	saved, err := s.client.GetEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if saved.Notes != "ajouté l'éclairage" {
		t.Fatalf("parent update lost: %q", saved.Notes)
	}
}
