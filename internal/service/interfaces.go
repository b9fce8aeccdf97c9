package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/munch-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// CatalogService serves the development API's entity routes for one
// authenticated user.
type CatalogService interface {
	List(ctx context.Context, userID string, scope models.Scope, req models.PageRequest) (models.Page, error)
	Get(ctx context.Context, userID string, scope models.Scope, id string) (models.Entity, error)
	// Add stores e. An empty e.ID gets a generated id; a taken id fails with
	// store.ErrAlreadyExists.
	Add(ctx context.Context, userID string, e models.Entity) (models.Entity, error)
	Patch(ctx context.Context, userID string, scope models.Scope, id string, patch json.RawMessage) (models.Entity, error)
	Delete(ctx context.Context, userID string, scope models.Scope, id string) error
}

type AuthService interface {
	CreateToken(ctx context.Context, userID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) models.AppBuildInfo
}

// CatalogServiceWrapper decorates a CatalogService, e.g. with validation.
type CatalogServiceWrapper interface {
	Wrap(CatalogService) CatalogService
}
