package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/munch-sync/internal/adapter"
	"github.com/MKhiriev/munch-sync/internal/analytics"
	"github.com/MKhiriev/munch-sync/internal/config"
	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/store"
	"github.com/MKhiriev/munch-sync/internal/validators"
	"github.com/MKhiriev/munch-sync/models"
)

// ClientServices is the client's entry point to the synced data: one manager
// per scope, typed helpers for the common writes and the periodic refresh job.
type ClientServices struct {
	Registry   *Registry
	RefreshJob *RefreshJob

	feedKey   string
	validator validators.Validator
}

func NewClientServices(
	storages *store.ClientStorages,
	api adapter.RemoteAPI,
	tracker analytics.Tracker,
	cfg *config.ClientConfig,
	logger *logger.Logger,
) *ClientServices {
	registry := NewRegistry(func(scope models.Scope) *Manager {
		return NewManager(scope, storages.Entities, api, tracker, cfg.Sync, logger)
	})

	return &ClientServices{
		Registry:   registry,
		RefreshJob: NewRefreshJob(registry, cfg.Sync.RefreshInterval, logger),
		feedKey:    cfg.App.FeedKey,
		validator:  validators.NewEntityValidator(),
	}
}

// Collections returns the manager of the user's collections.
func (s *ClientServices) Collections() (*Manager, error) {
	return s.Registry.Get(models.Scope{Kind: models.KindCollection})
}

// Locations returns the manager of the user's saved locations.
func (s *ClientServices) Locations() (*Manager, error) {
	return s.Registry.Get(models.Scope{Kind: models.KindLocation})
}

// Feed returns the manager of the configured feed.
func (s *ClientServices) Feed() (*Manager, error) {
	return s.Registry.Get(models.Scope{Kind: models.KindFeedItem, Key: s.feedKey})
}

// CollectionItems returns the manager of the places saved in a collection.
func (s *ClientServices) CollectionItems(collectionID string) (*Manager, error) {
	return s.Registry.Get(models.Scope{Kind: models.KindCollectionItem, Key: collectionID})
}

// CreateCollection creates a collection and returns the server's version.
func (s *ClientServices) CreateCollection(ctx context.Context, c models.Collection) (models.Collection, error) {
	if err := s.validator.Validate(ctx, c); err != nil {
		return models.Collection{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	e, err := models.EntityFrom(models.Scope{Kind: models.KindCollection}, c)
	if err != nil {
		return models.Collection{}, err
	}

	m, err := s.Collections()
	if err != nil {
		return models.Collection{}, err
	}

	created, err := m.Add(ctx, e)
	if err != nil {
		return models.Collection{}, err
	}
	return models.AsCollection(created)
}

// RenameCollection changes the name of a collection.
func (s *ClientServices) RenameCollection(ctx context.Context, collectionID, name string) (models.Collection, error) {
	if err := s.validator.Validate(ctx, models.Collection{Name: name}, validators.FieldName); err != nil {
		return models.Collection{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	patch, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return models.Collection{}, err
	}

	m, err := s.Collections()
	if err != nil {
		return models.Collection{}, err
	}

	updated, err := m.Update(ctx, collectionID, patch)
	if err != nil {
		return models.Collection{}, err
	}
	return models.AsCollection(updated)
}

func (s *ClientServices) DeleteCollection(ctx context.Context, collectionID string) error {
	m, err := s.Collections()
	if err != nil {
		return err
	}
	return m.Remove(ctx, collectionID)
}

// AddPlace saves placeID in a collection. Saving a place twice is not an
// error: the second call returns the existing item.
func (s *ClientServices) AddPlace(ctx context.Context, collectionID, placeID string) (models.CollectionItem, error) {
	item := models.CollectionItem{CollectionID: collectionID, PlaceID: placeID}
	if err := s.validator.Validate(ctx, item, validators.FieldCollectionID, validators.FieldPlaceID); err != nil {
		return models.CollectionItem{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	m, err := s.CollectionItems(collectionID)
	if err != nil {
		return models.CollectionItem{}, err
	}

	e, err := models.EntityFrom(m.Scope(), item)
	if err != nil {
		return models.CollectionItem{}, err
	}

	added, err := m.Add(ctx, e)
	if err != nil {
		return models.CollectionItem{}, err
	}
	return models.AsCollectionItem(added)
}

func (s *ClientServices) RemovePlace(ctx context.Context, collectionID, placeID string) error {
	m, err := s.CollectionItems(collectionID)
	if err != nil {
		return err
	}
	return m.Remove(ctx, placeID)
}

// SaveLocation stores a search location. A location with an id is put under
// that id; one without gets a server-assigned id.
func (s *ClientServices) SaveLocation(ctx context.Context, l models.SearchLocation) (models.SearchLocation, error) {
	if err := s.validator.Validate(ctx, l); err != nil {
		return models.SearchLocation{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	e, err := models.EntityFrom(models.Scope{Kind: models.KindLocation}, l)
	if err != nil {
		return models.SearchLocation{}, err
	}

	m, err := s.Locations()
	if err != nil {
		return models.SearchLocation{}, err
	}

	saved, err := m.Add(ctx, e)
	if err != nil {
		return models.SearchLocation{}, err
	}
	return models.AsSearchLocation(saved)
}

func (s *ClientServices) RemoveLocation(ctx context.Context, locationID string) error {
	m, err := s.Locations()
	if err != nil {
		return err
	}
	return m.Remove(ctx, locationID)
}

// Close closes every manager.
func (s *ClientServices) Close() {
	s.Registry.Close()
}
