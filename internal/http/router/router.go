package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/http/handler"
	"github.com/avrentops/rentalctl/internal/http/middleware"
	"github.com/avrentops/rentalctl/internal/http/response"
	"github.com/avrentops/rentalctl/internal/security"
)

// ReadinessCheck probes one backing dependency. Name is reported in the
// /health/ready payload.
type ReadinessCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	EventHandler       *handler.EventHandler
	EquipmentHandler   *handler.EquipmentHandler
	CatalogHandler     *handler.CatalogHandler
	MaintenanceHandler *handler.MaintenanceHandler
	TransportHandler   *handler.TransportHandler
	WhatsAppHandler    *handler.WhatsAppHandler
	ActivityHandler    *handler.ActivityHandler

	JWTManager *security.JWTManager
	Logger     *slog.Logger

	AuthRateLimitRPM int
	APIRateLimitRPM  int
	Readiness        []ReadinessCheck
	EnableOTelHTTP   bool
}

func NewRouter(dep Dependencies) http.Handler {
	logger := dep.Logger
	if logger == nil {
		logger = slog.Default()
	}
	apiRPM := dep.APIRateLimitRPM
	if apiRPM <= 0 {
		apiRPM = 600
	}
	authRPM := dep.AuthRateLimitRPM
	if authRPM <= 0 {
		authRPM = 20
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.StructuredRequestLogger(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.BodyLimit(8 << 20))
	r.Use(middleware.NewRateLimiter(apiRPM, time.Minute).Middleware())

	authLimiter := middleware.NewRateLimiter(authRPM, time.Minute).Middleware()
	requireAuth := middleware.AuthMiddleware(dep.JWTManager)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	maintainer := middleware.RequireRole(domain.RoleAdmin, domain.RoleMaintenance)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		type checkResult struct {
			Name  string `json:"name"`
			OK    bool   `json:"ok"`
			Error string `json:"error,omitempty"`
		}
		results := make([]checkResult, 0, len(dep.Readiness))
		ready := true
		for _, check := range dep.Readiness {
			res := checkResult{Name: check.Name, OK: true}
			if err := check.Probe(r.Context()); err != nil {
				res.OK = false
				res.Error = err.Error()
				ready = false
			}
			results = append(results, res)
		}
		if !ready {
			response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
			return
		}
		response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(authLimiter).Post("/register", dep.AuthHandler.Register)
			r.With(authLimiter).Post("/refresh", dep.AuthHandler.Refresh)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", dep.AuthHandler.Logout)
				r.Get("/me", dep.AuthHandler.Me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", dep.EventHandler.List)
				r.Post("/", dep.EventHandler.Create)
				r.Get("/{id}", dep.EventHandler.Get)
				r.Put("/{id}", dep.EventHandler.Update)
				r.With(adminOnly).Delete("/{id}", dep.EventHandler.Delete)
				r.Get("/{id}/equipment", dep.EventHandler.ListEquipment)
				r.Post("/{id}/equipment", dep.EventHandler.AddEquipment)
				r.Put("/{id}/equipment/{reservationID}", dep.EventHandler.UpdateReservation)
				r.Delete("/{id}/equipment/{reservationID}", dep.EventHandler.RemoveEquipment)
				r.Get("/{id}/technicians", dep.EventHandler.ListTechnicians)
				r.Post("/{id}/technicians", dep.EventHandler.AssignTechnician)
				r.Delete("/{id}/technicians/{assignmentID}", dep.EventHandler.RemoveTechnician)
				r.Get("/{id}/documents/{docType}", dep.EventHandler.Document)
			})

			r.Route("/equipment", func(r chi.Router) {
				r.Get("/", dep.EquipmentHandler.List)
				r.Post("/", dep.EquipmentHandler.Create)
				r.Post("/scan-qr", dep.EquipmentHandler.ScanQR)
				r.Post("/bulk-qr-export", dep.EquipmentHandler.BulkQRExport)
				r.Get("/{id}", dep.EquipmentHandler.Get)
				r.Put("/{id}", dep.EquipmentHandler.Update)
				r.With(adminOnly).Delete("/{id}", dep.EquipmentHandler.Delete)
				r.Get("/{id}/availability", dep.EquipmentHandler.Availability)
				r.Get("/{id}/history", dep.EquipmentHandler.History)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", dep.CatalogHandler.ListCategories)
				r.Post("/", dep.CatalogHandler.CreateCategory)
				r.Get("/{id}", dep.CatalogHandler.GetCategory)
				r.Put("/{id}", dep.CatalogHandler.UpdateCategory)
				r.With(adminOnly).Delete("/{id}", dep.CatalogHandler.DeleteCategory)
			})
			r.Route("/subcategories", func(r chi.Router) {
				r.Post("/", dep.CatalogHandler.CreateSubcategory)
				r.Put("/{id}", dep.CatalogHandler.UpdateSubcategory)
				r.With(adminOnly).Delete("/{id}", dep.CatalogHandler.DeleteSubcategory)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", dep.UserHandler.List)
				r.Post("/", dep.UserHandler.Create)
				r.Get("/{id}", dep.UserHandler.Get)
				r.Put("/{id}", dep.UserHandler.Update)
				r.Delete("/{id}", dep.UserHandler.Delete)
			})

			r.Route("/maintenances", func(r chi.Router) {
				r.Get("/", dep.MaintenanceHandler.List)
				r.With(maintainer).Post("/", dep.MaintenanceHandler.Create)
				r.Get("/{id}", dep.MaintenanceHandler.Get)
				r.With(maintainer).Put("/{id}", dep.MaintenanceHandler.Update)
				r.With(maintainer).Post("/{id}/complete", dep.MaintenanceHandler.Complete)
				r.Post("/{id}/logs", dep.MaintenanceHandler.AddLog)
			})

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", dep.TransportHandler.ListVehicles)
				r.Post("/", dep.TransportHandler.CreateVehicle)
				r.Get("/{id}", dep.TransportHandler.GetVehicle)
				r.Put("/{id}", dep.TransportHandler.UpdateVehicle)
				r.With(adminOnly).Delete("/{id}", dep.TransportHandler.DeleteVehicle)
			})
			r.Route("/transports", func(r chi.Router) {
				r.Get("/", dep.TransportHandler.ListTransports)
				r.Post("/", dep.TransportHandler.CreateTransport)
				r.Get("/{id}", dep.TransportHandler.GetTransport)
				r.Put("/{id}", dep.TransportHandler.UpdateTransport)
				r.Put("/{id}/status", dep.TransportHandler.UpdateStatus)
			})

			r.Route("/whatsapp-messages", func(r chi.Router) {
				r.Get("/", dep.WhatsAppHandler.History)
				r.Post("/send", dep.WhatsAppHandler.Send)
				r.Post("/event-invitation", dep.WhatsAppHandler.EventInvitation)
			})

			r.With(adminOnly).Get("/activity-logs", dep.ActivityHandler.List)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
