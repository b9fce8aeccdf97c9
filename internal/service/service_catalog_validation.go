package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/munch-sync/internal/validators"
	"github.com/MKhiriev/munch-sync/models"
)

// CatalogValidationService rejects malformed requests before they reach the
// wrapped CatalogService.
type CatalogValidationService struct {
	inner     CatalogService
	validator validators.Validator
}

func NewCatalogValidationService() CatalogServiceWrapper {
	return &CatalogValidationService{
		validator: validators.NewEntityValidator(),
	}
}

func (v *CatalogValidationService) List(ctx context.Context, userID string, scope models.Scope, req models.PageRequest) (models.Page, error) {
	if err := v.checkScope(ctx, scope); err != nil {
		return models.Page{}, err
	}
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.Page{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return v.inner.List(ctx, userID, scope, req)
}

func (v *CatalogValidationService) Get(ctx context.Context, userID string, scope models.Scope, id string) (models.Entity, error) {
	if err := v.checkScope(ctx, scope); err != nil {
		return models.Entity{}, err
	}

	return v.inner.Get(ctx, userID, scope, id)
}

func (v *CatalogValidationService) Add(ctx context.Context, userID string, e models.Entity) (models.Entity, error) {
	if err := v.validator.Validate(ctx, e); err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return v.inner.Add(ctx, userID, e)
}

// Patch checks the scope and the patch shape only; the merged entity is not
// re-validated.
func (v *CatalogValidationService) Patch(ctx context.Context, userID string, scope models.Scope, id string, patch json.RawMessage) (models.Entity, error) {
	probe := models.Entity{Scope: scope, Payload: patch}
	if err := v.validator.Validate(ctx, probe, validators.FieldScope); err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if scope.Kind == models.KindFeedItem {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidRequest, validators.ErrReadOnlyKind)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(patch, &obj); err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidRequest, models.ErrPayloadNotObject)
	}

	return v.inner.Patch(ctx, userID, scope, id, patch)
}

func (v *CatalogValidationService) Delete(ctx context.Context, userID string, scope models.Scope, id string) error {
	if err := v.checkScope(ctx, scope); err != nil {
		return err
	}
	if scope.Kind == models.KindFeedItem {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, validators.ErrReadOnlyKind)
	}

	return v.inner.Delete(ctx, userID, scope, id)
}

func (v *CatalogValidationService) Wrap(inner CatalogService) CatalogService {
	v.inner = inner
	return v
}

func (v *CatalogValidationService) checkScope(ctx context.Context, scope models.Scope) error {
	if err := v.validator.Validate(ctx, models.Entity{Scope: scope}, validators.FieldScope); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}
