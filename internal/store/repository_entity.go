package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/models"
)

// localEntityRepository is the SQLite-backed [LocalEntityRepository].
type localEntityRepository struct {
	*DB
	logger *logger.Logger
}

func NewLocalEntityRepository(db *DB, logger *logger.Logger) LocalEntityRepository {
	return &localEntityRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *localEntityRepository) ReadAll(ctx context.Context, scope models.Scope) ([]models.Entity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildReadAllQuery(scope)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "localEntityRepository.ReadAll").
			Stringer("scope", scope).
			Msg("failed to execute query for reading scope")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entities := make([]models.Entity, 0, 32)
	for rows.Next() {
		var (
			e       = models.Entity{Scope: scope}
			payload []byte
		)
		if err = rows.Scan(&e.ID, &e.SortKey, &e.UpdatedAt, &payload); err != nil {
			log.Err(err).
				Str("func", "localEntityRepository.ReadAll").
				Stringer("scope", scope).
				Int("row", len(entities)).
				Msg("failed to scan entity row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		e.Payload = payload
		entities = append(entities, e)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).
			Str("func", "localEntityRepository.ReadAll").
			Stringer("scope", scope).
			Msg("error iterating entity rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entities, nil
}

func (r *localEntityRepository) WriteAll(ctx context.Context, scope models.Scope, entities []models.Entity) (err error) {
	log := logger.FromContext(ctx)

	deleteQuery, deleteArgs, err := buildDeleteScopeQuery(scope)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "localEntityRepository.WriteAll").
			Stringer("scope", scope).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		log.Err(err).
			Str("func", "localEntityRepository.WriteAll").
			Stringer("scope", scope).
			Msg("failed to clear scope")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	for offset := 0; offset < len(entities); offset += insertBatchSize {
		end := min(offset+insertBatchSize, len(entities))

		insertQuery, insertArgs, buildErr := buildInsertBatchQuery(scope, entities[offset:end], offset)
		if buildErr != nil {
			err = buildErr
			return err
		}

		if _, err = tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			log.Err(err).
				Str("func", "localEntityRepository.WriteAll").
				Stringer("scope", scope).
				Int("offset", offset).
				Msg("failed to insert entity batch")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "localEntityRepository.WriteAll").
			Stringer("scope", scope).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	log.Debug().
		Str("func", "localEntityRepository.WriteAll").
		Stringer("scope", scope).
		Int("rows", len(entities)).
		Msg("scope replaced")

	return nil
}

func (r *localEntityRepository) UpsertOne(ctx context.Context, entity models.Entity) (err error) {
	log := logger.FromContext(ctx)

	minQuery, minArgs, err := buildMinPositionQuery(entity.Scope)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "localEntityRepository.UpsertOne").
			Str("id", entity.ID).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var head int
	if err = tx.QueryRowContext(ctx, minQuery, minArgs...).Scan(&head); err != nil {
		log.Err(err).
			Str("func", "localEntityRepository.UpsertOne").
			Stringer("scope", entity.Scope).
			Msg("failed to read head position")
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	upsertQuery, upsertArgs, err := buildUpsertQuery(entity, head-1)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, upsertQuery, upsertArgs...); err != nil {
		log.Err(err).
			Str("func", "localEntityRepository.UpsertOne").
			Stringer("scope", entity.Scope).
			Str("id", entity.ID).
			Msg("failed to upsert entity")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "localEntityRepository.UpsertOne").
			Str("id", entity.ID).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *localEntityRepository) DeleteOne(ctx context.Context, scope models.Scope, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteOneQuery(scope, id)
	if err != nil {
		return err
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "localEntityRepository.DeleteOne").
			Stringer("scope", scope).
			Str("id", id).
			Msg("failed to delete entity")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrEntityNotFound
	}

	return nil
}

func (r *localEntityRepository) Checksum(ctx context.Context, scope models.Scope) (int64, error) {
	query, args, err := buildChecksumQuery(scope)
	if err != nil {
		return 0, err
	}

	var sum int64
	if err = r.scalar(ctx, "localEntityRepository.Checksum", query, args, &sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *localEntityRepository) Count(ctx context.Context, scope models.Scope) (int, error) {
	query, args, err := buildCountQuery(scope)
	if err != nil {
		return 0, err
	}

	var n int
	if err = r.scalar(ctx, "localEntityRepository.Count", query, args, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *localEntityRepository) scalar(ctx context.Context, fn, query string, args []any, dest any) error {
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(dest)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Err(err).Str("func", fn).Msg("failed to query scalar")
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
}
