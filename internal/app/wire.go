//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/avrentops/rentalctl/internal/config"
	"github.com/avrentops/rentalctl/internal/repository"
)

func InitializeApp(cfg *config.ServerConfig) (*App, func(), error) {
	wire.Build(
		provideLogger,
		provideDB,
		provideRedis,
		provideJWTManager,
		provideTokenService,
		provideAuthService,
		repository.NewUserRepository,
		repository.NewEventRepository,
		repository.NewEquipmentRepository,
		repository.NewCatalogRepository,
		repository.NewMaintenanceRepository,
		repository.NewTransportRepository,
		repository.NewWhatsAppRepository,
		repository.NewActivityRepository,
		provideRouter,
		provideServer,
		New,
	)
	return nil, nil, nil
}
