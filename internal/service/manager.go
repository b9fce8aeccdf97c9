// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/munch-sync/internal/adapter"
	"github.com/MKhiriev/munch-sync/internal/analytics"
	"github.com/MKhiriev/munch-sync/internal/config"
	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/store"
	"github.com/MKhiriev/munch-sync/models"
)

// RefreshResult summarises one completed refresh.
type RefreshResult struct {
	Scope    models.Scope
	Pages    int
	Fetched  int
	Changed  bool
	Checksum int64
	Duration time.Duration
}

// Manager keeps the local rows of one scope in step with the remote API and
// pushes every new state to its subscribers.
//
// Refreshes and mutations of one Manager run one at a time.
type Manager struct {
	scope models.Scope

	repo       store.LocalEntityRepository
	api        adapter.RemoteAPI
	fetcher    *Fetcher
	reconciler *Reconciler
	dispatcher *Dispatcher
	tracker    analytics.Tracker

	// mu serializes refreshes and mutations.
	mu sync.Mutex

	// lifecycle guards closed and additions to wg.
	lifecycle sync.Mutex
	closed    bool
	wg        sync.WaitGroup

	logger *logger.Logger
}

// NewManager wires a Manager for scope from its parts. syncCfg supplies the
// page size, the page limit and the subscriber policy.
func NewManager(
	scope models.Scope,
	repo store.LocalEntityRepository,
	api adapter.RemoteAPI,
	tracker analytics.Tracker,
	syncCfg config.ClientSync,
	log *logger.Logger,
) *Manager {
	child := &logger.Logger{Logger: log.With().Stringer("scope", scope).Logger()}

	return &Manager{
		scope:      scope,
		repo:       repo,
		api:        api,
		fetcher:    NewFetcher(api, syncCfg.PageSize, syncCfg.MaxPages, child),
		reconciler: NewReconciler(repo, child),
		dispatcher: NewDispatcher(syncCfg.MaxSubscribers, syncCfg.SubscriberBuffer),
		tracker:    tracker,
		logger:     child,
	}
}

func (m *Manager) Scope() models.Scope {
	return m.scope
}

// Attach subscribes to the manager. The local snapshot is delivered first when
// the scope has rows, then a refresh runs in the background. The refresh is
// cancelled when ctx ends or the subscription is closed.
//
// A failing local read is logged and recorded; the refresh still runs.
func (m *Manager) Attach(ctx context.Context) (*Subscription, error) {
	m.lifecycle.Lock()
	if m.closed {
		m.lifecycle.Unlock()
		return nil, ErrManagerClosed
	}
	m.wg.Add(1)
	m.lifecycle.Unlock()

	sub := m.dispatcher.Subscribe()

	snapshot, err := m.readSnapshot(ctx, models.SourceLocal)
	switch {
	case err != nil:
		m.logger.Warn().Err(err).Str("func", "Manager.Attach").Msg("local read failed, waiting for remote")
		m.tracker.RecordError(err, m.params(analytics.Params{"stage": "attach"}))
	case !snapshot.Empty():
		m.dispatcher.Prime(sub, snapshot)
	}

	refreshCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer m.wg.Done()
		defer cancel()

		go func() {
			select {
			case <-sub.Done():
				cancel()
			case <-refreshCtx.Done():
			}
		}()

		_, _ = m.Refresh(refreshCtx)
	}()

	return sub, nil
}

// Refresh fetches every page of the scope, reconciles it with the store and,
// when the store changed, pushes the stored rows. Failures are delivered to
// subscribers and recorded, except a cancellation by the caller.
func (m *Manager) Refresh(ctx context.Context) (RefreshResult, error) {
	if m.isClosed() {
		return RefreshResult{Scope: m.scope}, ErrManagerClosed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	result := RefreshResult{Scope: m.scope}

	fetched, err := m.fetcher.FetchAll(ctx, m.scope)
	if err != nil {
		return result, m.fail(ctx, "fetch", err)
	}
	result.Pages = fetched.Pages
	result.Fetched = len(fetched.Entities)

	reconciled, err := m.reconciler.Reconcile(ctx, m.scope, fetched.Entities)
	if err != nil {
		return result, m.fail(ctx, "reconcile", err)
	}
	result.Changed = reconciled.Changed
	result.Checksum = reconciled.RemoteChecksum

	if reconciled.Changed {
		snapshot, err := m.readSnapshot(ctx, models.SourceRemote)
		if err != nil {
			return result, m.fail(ctx, "read back", err)
		}
		m.dispatcher.Push(snapshot)
	}
	result.Duration = time.Since(start)

	m.tracker.Track(analytics.EventSyncCompleted, m.params(analytics.Params{
		"changed":     strconv.FormatBool(result.Changed),
		"count":       strconv.Itoa(result.Fetched),
		"pages":       strconv.Itoa(result.Pages),
		"duration_ms": strconv.FormatInt(result.Duration.Milliseconds(), 10),
	}))
	m.logger.Info().
		Str("func", "Manager.Refresh").
		Bool("changed", result.Changed).
		Int("fetched", result.Fetched).
		Int("pages", result.Pages).
		Dur("duration", result.Duration).
		Msg("refresh completed")

	return result, nil
}

// Snapshot reads the stored rows of the scope without touching the network.
func (m *Manager) Snapshot(ctx context.Context) (models.Snapshot, error) {
	return m.readSnapshot(ctx, models.SourceLocal)
}

// Add creates e remotely and mirrors the result locally. An entity with an id
// that already exists remotely is fetched instead, so repeating an add
// converges on the same stored row.
func (m *Manager) Add(ctx context.Context, e models.Entity) (models.Entity, error) {
	if m.isClosed() {
		return models.Entity{}, ErrManagerClosed
	}
	if err := m.checkScope(&e); err != nil {
		return models.Entity{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	created, err := m.api.Create(ctx, e)
	if errors.Is(err, adapter.ErrAlreadyExists) && e.ID != "" {
		m.logger.Debug().Str("func", "Manager.Add").Str("id", e.ID).Msg("already exists remotely, fetching")
		created, err = m.api.Get(ctx, m.scope, e.ID)
	}
	if err != nil {
		return models.Entity{}, m.mutationFailed("add", e.ID, err)
	}

	if err = m.mirror(ctx, created); err != nil {
		return models.Entity{}, m.mutationFailed("add", created.ID, err)
	}

	m.tracker.Track(analytics.EventEntityAdded, m.params(analytics.Params{"id": created.ID}))
	return created, nil
}

// Update patches the entity remotely and mirrors the result locally.
func (m *Manager) Update(ctx context.Context, id string, patch json.RawMessage) (models.Entity, error) {
	if m.isClosed() {
		return models.Entity{}, ErrManagerClosed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	updated, err := m.api.Patch(ctx, m.scope, id, patch)
	if err != nil {
		return models.Entity{}, m.mutationFailed("update", id, err)
	}

	if err = m.mirror(ctx, updated); err != nil {
		return models.Entity{}, m.mutationFailed("update", id, err)
	}

	m.tracker.Track(analytics.EventEntityUpdated, m.params(analytics.Params{"id": id}))
	return updated, nil
}

// Remove deletes the entity remotely, then locally. An entity the API no
// longer knows is treated as removed and its local row is dropped: the one
// remote error besides Add's ErrAlreadyExists that still touches the store.
func (m *Manager) Remove(ctx context.Context, id string) error {
	if m.isClosed() {
		return ErrManagerClosed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.api.Delete(ctx, m.scope, id); err != nil && !errors.Is(err, adapter.ErrNotFound) {
		return m.mutationFailed("remove", id, err)
	}

	if err := m.repo.DeleteOne(ctx, m.scope, id); err != nil && !errors.Is(err, store.ErrEntityNotFound) {
		return m.mutationFailed("remove", id, err)
	}
	m.pushStored(ctx)

	m.tracker.Track(analytics.EventEntityRemoved, m.params(analytics.Params{"id": id}))
	return nil
}

// Subscribers returns the number of attached subscribers.
func (m *Manager) Subscribers() int {
	return m.dispatcher.Subscribers()
}

// Close ends every subscription and waits for attached refreshes to stop.
func (m *Manager) Close() {
	m.lifecycle.Lock()
	m.closed = true
	m.lifecycle.Unlock()

	m.dispatcher.Close()
	m.wg.Wait()
}

func (m *Manager) isClosed() bool {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	return m.closed
}

func (m *Manager) checkScope(e *models.Entity) error {
	if e.Scope == (models.Scope{}) {
		e.Scope = m.scope
	}
	if e.Scope != m.scope {
		return fmt.Errorf("%w: %s, manager of %s", ErrScopeMismatch, e.Scope, m.scope)
	}
	return nil
}

// mirror upserts e locally and pushes the stored rows.
func (m *Manager) mirror(ctx context.Context, e models.Entity) error {
	if err := m.repo.UpsertOne(ctx, e); err != nil {
		return err
	}
	m.pushStored(ctx)
	return nil
}

// pushStored pushes the stored rows after a mutation. A failed read is only
// logged: the mutation itself succeeded.
func (m *Manager) pushStored(ctx context.Context) {
	snapshot, err := m.readSnapshot(ctx, models.SourceMutation)
	if err != nil {
		m.logger.Warn().Err(err).Str("func", "Manager.pushStored").Msg("read after mutation failed")
		return
	}
	m.dispatcher.Push(snapshot)
}

func (m *Manager) readSnapshot(ctx context.Context, source models.SnapshotSource) (models.Snapshot, error) {
	entities, err := m.repo.ReadAll(ctx, m.scope)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("error reading %s: %w", m.scope, err)
	}
	return models.NewSnapshot(m.scope, entities, source), nil
}

// fail reports a refresh failure. A cancelled ctx is returned as is, without
// notifying anyone.
func (m *Manager) fail(ctx context.Context, stage string, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		m.logger.Debug().Str("func", "Manager.Refresh").Str("stage", stage).Msg("refresh cancelled")
		return err
	}

	m.logger.Error().Err(err).Str("func", "Manager.Refresh").Str("stage", stage).Msg("refresh failed")
	m.dispatcher.Fail(err)
	m.tracker.RecordError(err, m.params(analytics.Params{"stage": stage}))
	return err
}

func (m *Manager) mutationFailed(op, id string, err error) error {
	m.logger.Error().Err(err).Str("func", "Manager."+op).Str("id", id).Msg("mutation failed")
	m.tracker.RecordError(err, m.params(analytics.Params{"stage": op, "id": id}))
	return fmt.Errorf("error during %s of %s in %s: %w", op, id, m.scope, err)
}

// params adds the scope to event parameters.
func (m *Manager) params(p analytics.Params) analytics.Params {
	if p == nil {
		p = analytics.Params{}
	}
	p["kind"] = string(m.scope.Kind)
	if m.scope.Key != "" {
		p["scope_key"] = m.scope.Key
	}
	return p
}
