package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/munch-sync/internal/adapter"
	"github.com/MKhiriev/munch-sync/internal/analytics"
	"github.com/MKhiriev/munch-sync/internal/config"
	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/store"
	"github.com/MKhiriev/munch-sync/internal/utils"
	"github.com/MKhiriev/munch-sync/models"
)

const testUser = "u-1"

var (
	collectionsScope = models.Scope{Kind: models.KindCollection}
	itemsScope       = models.Scope{Kind: models.KindCollectionItem, Key: "c-1"}
)

func testSyncConfig() config.ClientSync {
	return config.ClientSync{
		PageSize:         10,
		MaxPages:         50,
		SubscriberBuffer: 8,
		MaxSubscribers:   0,
	}
}

func newLocalRepo(t *testing.T) store.LocalEntityRepository {
	t.Helper()
	storages, err := store.NewClientStorages(context.Background(),
		config.ClientStorage{DB: config.ClientDB{DSN: ":memory:"}}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })
	return storages.Entities
}

// collection builds a collection entity with the given update time; the sort
// key follows it so that newer entities come first.
func collection(id string, updated int64) models.Entity {
	return models.Entity{
		ID:        id,
		Scope:     collectionsScope,
		UpdatedAt: updated,
		SortKey:   models.SortKeyFromMillis(updated),
		Payload:   json.RawMessage(fmt.Sprintf(`{"collectionId":%q,"name":"list %s","updatedMillis":%d}`, id, id, updated)),
	}
}

// catalogRemote is a RemoteAPI backed by the development catalog, with
// failure and blocking hooks.
type catalogRemote struct {
	catalog store.Catalog

	pageCalls atomic.Int64
	// failPage makes that page number (1-based) fail.
	failPage int64
	// block, when set, makes FetchPage wait for ctx.
	block    bool
	blocked  chan struct{}
	observed chan error

	mu sync.Mutex
}

func newCatalogRemote(t *testing.T) *catalogRemote {
	t.Helper()
	c, err := store.NewCatalog("", utils.NewUUIDGenerator())
	require.NoError(t, err)
	return &catalogRemote{
		catalog:  c,
		blocked:  make(chan struct{}, 1),
		observed: make(chan error, 1),
	}
}

func (r *catalogRemote) seed(t *testing.T, scope models.Scope, n int) []models.Entity {
	t.Helper()
	out := make([]models.Entity, 0, n)
	for i := 0; i < n; i++ {
		payload := `{"name":"seeded"}`
		if scope.Kind == models.KindCollectionItem {
			payload = fmt.Sprintf(`{"placeId":"p-%02d"}`, i)
		}
		e, err := r.catalog.Add(context.Background(), testUser, models.Entity{Scope: scope, Payload: json.RawMessage(payload)})
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

func (r *catalogRemote) FetchPage(ctx context.Context, scope models.Scope, req models.PageRequest) (models.Page, error) {
	n := r.pageCalls.Add(1)
	if r.block {
		r.blocked <- struct{}{}
		<-ctx.Done()
		r.observed <- ctx.Err()
		return models.Page{}, ctx.Err()
	}
	if r.failPage == n {
		return models.Page{}, fmt.Errorf("%w: page %d", adapter.ErrServerUnavailable, n)
	}
	return r.catalog.List(ctx, testUser, scope, req.Size, req.Cursor)
}

func (r *catalogRemote) Get(ctx context.Context, scope models.Scope, id string) (models.Entity, error) {
	e, err := r.catalog.Get(ctx, testUser, scope, id)
	return e, mapCatalogErr(err)
}

func (r *catalogRemote) Create(ctx context.Context, e models.Entity) (models.Entity, error) {
	created, err := r.catalog.Add(ctx, testUser, e)
	return created, mapCatalogErr(err)
}

func (r *catalogRemote) Patch(ctx context.Context, scope models.Scope, id string, patch json.RawMessage) (models.Entity, error) {
	e, err := r.catalog.Patch(ctx, testUser, scope, id, patch)
	return e, mapCatalogErr(err)
}

func (r *catalogRemote) Delete(ctx context.Context, scope models.Scope, id string) error {
	return mapCatalogErr(r.catalog.Delete(ctx, testUser, scope, id))
}

func (r *catalogRemote) IssueToken(context.Context, string) (models.TokenResponse, error) {
	return models.TokenResponse{}, errors.New("not supported")
}

func mapCatalogErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrAlreadyExists):
		return fmt.Errorf("%w: %w", adapter.ErrAlreadyExists, err)
	case errors.Is(err, store.ErrEntityNotFound):
		return fmt.Errorf("%w: %w", adapter.ErrNotFound, err)
	}
	return err
}

// recordingTracker keeps every tracked event.
type recordingTracker struct {
	mu     sync.Mutex
	events []string
	errs   []error
}

func (r *recordingTracker) Track(name string, _ analytics.Params) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
}

func (r *recordingTracker) RecordError(err error, _ analytics.Params) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingTracker) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recordingTracker) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func receive(t *testing.T, sub *Subscription) Update {
	t.Helper()
	select {
	case u, ok := <-sub.Updates():
		require.True(t, ok, "subscription closed")
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("no update received")
	}
	return Update{}
}

func assertNoUpdate(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case u, ok := <-sub.Updates():
		if ok {
			t.Fatalf("unexpected update: %+v", u)
		}
	case <-time.After(50 * time.Millisecond):
	}
}
