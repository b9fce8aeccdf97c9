package service

import (
	"github.com/MKhiriev/munch-sync/internal/config"
	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/store"
	"github.com/MKhiriev/munch-sync/models"
)

// Services are the development API's services.
type Services struct {
	AuthService    AuthService
	CatalogService CatalogService
	AppInfoService AppInfoService
}

func NewServices(storages *store.ServerStorages, cfg *config.ServerConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) *Services {
	catalog := NewCatalogValidationService().Wrap(NewCatalogService(storages.Catalog, logger))

	return &Services{
		AuthService:    NewAuthService(cfg.Auth, logger),
		CatalogService: catalog,
		AppInfoService: NewAppInfoService(buildInfo, logger),
	}
}
