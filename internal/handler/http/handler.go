package http

import (
	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/service"
)

const defaultMaxBodyBytes = 1 << 20

type Handler struct {
	services *service.Services

	// maxBodyBytes caps create and patch bodies.
	maxBodyBytes int64

	logger *logger.Logger
}

// Option tunes a [Handler].
type Option func(*Handler)

// WithMaxBodyBytes limits request bodies to n bytes. Larger bodies are
// rejected with 413.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

func NewHandler(services *service.Services, logger *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services:     services,
		maxBodyBytes: defaultMaxBodyBytes,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	logger.Info().Int64("max_body_bytes", h.maxBodyBytes).Msg("http handler created")
	return h
}
