package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/models"
)

type sessionRepository struct {
	*DB
	logger *logger.Logger
}

func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	return &sessionRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *sessionRepository) Save(ctx context.Context, state models.SessionState) error {
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now().UTC()
	}

	query, args, err := buildSaveSessionQuery(state)
	if err != nil {
		return err
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sessionRepository.Save").
			Str("user_id", state.UserID).
			Msg("failed to save session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *sessionRepository) Load(ctx context.Context) (models.SessionState, error) {
	query, args, err := buildLoadSessionQuery()
	if err != nil {
		return models.SessionState{}, err
	}

	var (
		state   models.SessionState
		latLng  string
		savedAt int64
	)
	err = r.DB.QueryRowContext(ctx, query, args...).
		Scan(&state.UserID, &state.Token, &state.DisplayName, &latLng, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SessionState{}, ErrLocalSessionNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sessionRepository.Load").
			Msg("failed to load session")
		return models.SessionState{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if latLng != "" {
		parsed, parseErr := models.ParseLatLng(latLng)
		if parseErr == nil {
			state.LastLatLng = &parsed
		}
	}
	state.SavedAt = time.UnixMilli(savedAt).UTC()

	return state, nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	query, args, err := buildClearSessionQuery()
	if err != nil {
		return err
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sessionRepository.Clear").
			Msg("failed to clear session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
