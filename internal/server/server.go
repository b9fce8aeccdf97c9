package server

import (
	"context"
	"net"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/MKhiriev/munch-sync/internal/config"
	"github.com/MKhiriev/munch-sync/internal/handler"
	"github.com/MKhiriev/munch-sync/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	httpServer *httpServer
	logger     *logger.Logger

	// ready receives the bound address once listening.
	ready   chan net.Addr
	running atomic.Bool
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		logger:     logger,
		ready:      make(chan net.Addr, 1),
	}, nil
}

// RunServer serves until ctx is cancelled or the process receives SIGINT,
// SIGTERM or SIGQUIT.
func (s *server) RunServer(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errServerAlreadyRunning
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	ln, err := s.httpServer.listen()
	if err != nil {
		return err
	}
	s.ready <- ln.Addr()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.serve(ln)
	}()

	select {
	case err = <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = s.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err = <-serveErr; err != nil {
		return err
	}
	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
