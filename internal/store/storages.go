package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/munch-sync/internal/config"
	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/utils"
)

// ClientStorages groups the client-side repositories, all backed by one
// local SQLite database.
type ClientStorages struct {
	Entities LocalEntityRepository
	Session  SessionRepository

	db *DB
}

// NewClientStorages opens the SQLite database at cfg.DB.DSN (creating the
// file if needed), applies pending migrations and wires the repositories.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Entities: NewLocalEntityRepository(db, logger),
		Session:  NewSessionRepository(db, logger),
		db:       db,
	}, nil
}

func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ServerStorages groups the development API's storage.
type ServerStorages struct {
	Catalog Catalog
}

func NewServerStorages(cfg config.ServerStorage, logger *logger.Logger) (*ServerStorages, error) {
	catalog, err := NewCatalog(cfg.CatalogFile, utils.NewUUIDGenerator())
	if err != nil {
		return nil, fmt.Errorf("catalog open error: %w", err)
	}

	logger.Info().Str("catalog_file", cfg.CatalogFile).Msg("catalog opened")

	return &ServerStorages{Catalog: catalog}, nil
}
