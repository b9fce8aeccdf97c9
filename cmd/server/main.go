package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/munch-sync/internal/config"
	"github.com/MKhiriev/munch-sync/internal/handler"
	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/server"
	"github.com/MKhiriev/munch-sync/internal/service"
	"github.com/MKhiriev/munch-sync/internal/store"
	"github.com/MKhiriev/munch-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(buildInfo)

	log := logger.NewLogger("munch-dev-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Str("address", cfg.Server.HTTPAddress).Str("catalog_file", cfg.Storage.CatalogFile).Msg("received configs")

	storages, err := store.NewServerStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services := service.NewServices(storages, cfg, buildInfo, log)

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
