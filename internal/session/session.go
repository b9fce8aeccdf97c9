// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds the signed-in user's state for the client: the
// bearer token, the user id carried in its subject claim, the display name and
// the last known location. A Session is safe for concurrent use and is the
// [adapter.TokenSource] of the REST adapter.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/store"
	"github.com/MKhiriev/munch-sync/internal/utils"
	"github.com/MKhiriev/munch-sync/models"
)

var (
	ErrEmptyToken     = errors.New("empty token")
	ErrNotSignedIn    = errors.New("not signed in")
	ErrPersistSession = errors.New("error persisting session")
)

type Session struct {
	repo store.SessionRepository

	mu    sync.RWMutex
	state models.SessionState

	logger *logger.Logger
}

func New(repo store.SessionRepository, logger *logger.Logger) *Session {
	return &Session{repo: repo, logger: logger}
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UserID
}

func (s *Session) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.DisplayName
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token != "" && s.state.UserID != ""
}

// Location returns the last known location, if any.
func (s *Session) Location() (models.LatLng, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.LastLatLng == nil {
		return models.LatLng{}, false
	}
	return *s.state.LastLatLng, true
}

// State returns a copy of the current state.
func (s *Session) State() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	if st.LastLatLng != nil {
		ll := *st.LastLatLng
		st.LastLatLng = &ll
	}
	return st
}

// SignIn adopts token, reads the user id from its subject claim and persists
// the session. The signature is not verified here; the API does that on every
// request.
func (s *Session) SignIn(ctx context.Context, token, displayName string) error {
	if token == "" {
		return ErrEmptyToken
	}

	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return fmt.Errorf("error reading user id from token: %w", err)
	}

	s.mu.Lock()
	s.state.Token = token
	s.state.UserID = userID
	if displayName != "" {
		s.state.DisplayName = displayName
	}
	s.mu.Unlock()

	s.logger.Info().Str("func", "Session.SignIn").Str("user_id", userID).Msg("signed in")

	return s.Persist(ctx)
}

// SetLocation records the user's last known location and persists it.
func (s *Session) SetLocation(ctx context.Context, latLng models.LatLng) error {
	s.mu.Lock()
	s.state.LastLatLng = &latLng
	s.mu.Unlock()

	return s.Persist(ctx)
}

// Restore loads a previously persisted session. It reports false without an
// error when nothing was stored.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	st, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrLocalSessionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error restoring session: %w", err)
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	return st.Token != "", nil
}

// Persist writes the current state. It fails with ErrNotSignedIn when there
// is no user to persist.
func (s *Session) Persist(ctx context.Context) error {
	st := s.State()
	if st.UserID == "" {
		return ErrNotSignedIn
	}
	st.SavedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, st); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistSession, err)
	}
	return nil
}

// Clear signs out and removes the stored session.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.state = models.SessionState{}
	s.mu.Unlock()

	return s.repo.Clear(ctx)
}
