package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/store"
	"github.com/MKhiriev/munch-sync/models"
)

const defaultPageSize = 20

type catalogService struct {
	catalog store.Catalog

	logger *logger.Logger
}

func NewCatalogService(catalog store.Catalog, logger *logger.Logger) CatalogService {
	return &catalogService{
		catalog: catalog,
		logger:  logger,
	}
}

// List returns one page; a zero size asks for the default page size.
func (c *catalogService) List(ctx context.Context, userID string, scope models.Scope, req models.PageRequest) (models.Page, error) {
	size := req.Size
	if size == 0 {
		size = defaultPageSize
	}
	return c.catalog.List(ctx, userID, scope, size, req.Cursor)
}

func (c *catalogService) Get(ctx context.Context, userID string, scope models.Scope, id string) (models.Entity, error) {
	return c.catalog.Get(ctx, userID, scope, id)
}

func (c *catalogService) Add(ctx context.Context, userID string, e models.Entity) (models.Entity, error) {
	added, err := c.catalog.Add(ctx, userID, e)
	if err != nil {
		return models.Entity{}, err
	}

	logger.FromContext(ctx).Info().
		Str("user_id", userID).
		Stringer("scope", added.Scope).
		Str("id", added.ID).
		Msg("entity added")
	return added, nil
}

func (c *catalogService) Patch(ctx context.Context, userID string, scope models.Scope, id string, patch json.RawMessage) (models.Entity, error) {
	return c.catalog.Patch(ctx, userID, scope, id, patch)
}

func (c *catalogService) Delete(ctx context.Context, userID string, scope models.Scope, id string) error {
	return c.catalog.Delete(ctx, userID, scope, id)
}
