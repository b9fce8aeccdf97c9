package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/munch-sync/internal/client"
	"github.com/MKhiriev/munch-sync/internal/config"
	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	// the terminal belongs to the viewer, logs go to a file
	log := logger.NewClientLogger("munch-client", cfg.App.LogFile, cfg.App.LogLevel)
	log.Info().Str("build", buildInfo.BuildVersion).Msg("starting client")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	app, err := client.NewApp(ctx, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "client error: %v\n", err)
		log.Fatal().Err(err).Msg("client run error")
	}
}
