package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/munch-sync/internal/adapter"
	"github.com/MKhiriev/munch-sync/internal/analytics"
	"github.com/MKhiriev/munch-sync/internal/config"
	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/service"
	"github.com/MKhiriev/munch-sync/internal/session"
	"github.com/MKhiriev/munch-sync/internal/store"
	"github.com/MKhiriev/munch-sync/internal/tui"
	"github.com/MKhiriev/munch-sync/internal/utils"
	"github.com/MKhiriev/munch-sync/internal/workers"
	"github.com/MKhiriev/munch-sync/models"
)

type App struct {
	cfg       *config.ClientConfig
	buildInfo models.AppBuildInfo

	storages *store.ClientStorages
	session  *session.Session
	api      adapter.RemoteAPI
	tracker  *analytics.LogTracker
	services *service.ClientServices
	ids      utils.IDGenerator

	// newViewer builds the front end once the session is known.
	newViewer func(a *App) Viewer

	logger *logger.Logger
}

// NewApp opens the local cache and wires the client services. Nothing touches
// the network until Run.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	sess := session.New(storages.Session, logger)
	ids := utils.NewUUIDGenerator()

	api, err := adapter.NewHTTPRemoteAPI(cfg.Adapter, sess, ids, logger)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create remote adapter: %w", err)
	}

	tracker := analytics.NewLogTracker(cfg.Sync.AnalyticsBuffer, logger)

	return &App{
		cfg:       cfg,
		buildInfo: buildInfo,
		storages:  storages,
		session:   sess,
		api:       api,
		tracker:   tracker,
		services:  service.NewClientServices(storages, api, tracker, cfg, logger),
		ids:       ids,
		newViewer: newTUI,
		logger:    logger,
	}, nil
}

func newTUI(a *App) Viewer {
	var origin *models.LatLng
	if ll, ok := a.session.Location(); ok {
		origin = &ll
	}
	return tui.New(a.services, a.buildInfo, origin, a.logger)
}

// Services exposes the synced data to callers embedding the client.
func (a *App) Services() *service.ClientServices {
	return a.services
}

// Session exposes the signed-in user's state.
func (a *App) Session() *session.Session {
	return a.session
}

// Run signs in, then runs the viewer next to the background workers until the
// viewer exits or ctx is cancelled. Managers and the local cache are closed
// before Run returns. A cancellation during sign-in is a clean exit.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.SignIn(ctx); err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			a.logger.Info().Str("func", "App.Run").Msg("cancelled during sign-in")
			return nil
		}
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ws := workers.NewWorkers(a.logger, a.services.RefreshJob, a.tracker)
	workersDone := make(chan error, 1)
	go func() {
		workersDone <- ws.Run(ctx)
	}()

	viewErr := a.newViewer(a).Run(ctx)
	cancel()
	workersErr := <-workersDone

	if viewErr != nil {
		a.logger.Err(viewErr).Str("func", "App.Run").Msg("viewer failed")
	}
	return errors.Join(viewErr, workersErr)
}

// SignIn makes sure the session carries a token. A configured token wins,
// then a stored session; otherwise a development token is issued for a fresh
// user id.
func (a *App) SignIn(ctx context.Context) error {
	if token := a.cfg.Adapter.Token; token != "" {
		if err := a.session.SignIn(ctx, token, ""); err != nil {
			return fmt.Errorf("%w: configured token: %w", ErrSignIn, err)
		}
		return nil
	}

	restored, err := a.session.Restore(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSignIn, err)
	}
	if restored {
		a.logger.Info().Str("user_id", a.session.UserID()).Msg("session restored")
		return nil
	}

	issued, err := a.api.IssueToken(ctx, a.ids.Generate())
	if err != nil {
		return fmt.Errorf("%w: issue token: %w", ErrSignIn, err)
	}
	if err = a.session.SignIn(ctx, issued.Token, ""); err != nil {
		return fmt.Errorf("%w: %w", ErrSignIn, err)
	}
	return nil
}

// Close stops every manager and closes the local cache.
func (a *App) Close() {
	a.services.Close()
	if err := a.storages.Close(); err != nil {
		a.logger.Err(err).Str("func", "App.Close").Msg("closing local storage")
	}
}
