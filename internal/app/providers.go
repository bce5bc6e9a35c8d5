package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/avrentops/rentalctl/internal/config"
	"github.com/avrentops/rentalctl/internal/http/handler"
	"github.com/avrentops/rentalctl/internal/http/router"
	"github.com/avrentops/rentalctl/internal/observability"
	"github.com/avrentops/rentalctl/internal/repository"
	"github.com/avrentops/rentalctl/internal/security"
	"github.com/avrentops/rentalctl/internal/service"
)

func provideLogger(cfg *config.ServerConfig) *slog.Logger {
	return observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

func provideDB(cfg *config.ServerConfig) (*gorm.DB, error) {
	db, err := repository.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedis(cfg *config.ServerConfig) (*redis.Client, func(), error) {
	return service.NewRedisClient(cfg.RedisAddr)
}

func provideJWTManager(cfg *config.ServerConfig) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
}

func provideTokenService(cfg *config.ServerConfig, jwtMgr *security.JWTManager, client *redis.Client) *service.TokenService {
	sessions := service.NewRedisRefreshSessionStore(client)
	return service.NewTokenService(jwtMgr, sessions, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

func provideAuthService(cfg *config.ServerConfig, users repository.UserRepository, tokens *service.TokenService, logger *slog.Logger) (*service.AuthService, error) {
	auth := service.NewAuthService(users, tokens, logger)
	if err := auth.SeedAdmin(context.Background(), cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return nil, err
	}
	return auth, nil
}

func provideRouter(
	cfg *config.ServerConfig,
	logger *slog.Logger,
	jwtMgr *security.JWTManager,
	db *gorm.DB,
	client *redis.Client,
	auth *service.AuthService,
	users repository.UserRepository,
	events repository.EventRepository,
	equipment repository.EquipmentRepository,
	catalog repository.CatalogRepository,
	maintenance repository.MaintenanceRepository,
	transports repository.TransportRepository,
	messages repository.WhatsAppRepository,
	activity repository.ActivityRepository,
) http.Handler {
	return router.NewRouter(router.Dependencies{
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
		Logger:             logger,
		Readiness: []router.ReadinessCheck{
			{Name: "database", Probe: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}},
			{Name: "redis", Probe: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}},
		},
	})
}

func provideServer(cfg *config.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
