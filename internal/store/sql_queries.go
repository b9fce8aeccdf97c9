// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/munch-sync/models"
)

const (
	entitiesTable = "entities"
	sessionTable  = "session"

	// sessionSlot is the primary key of the only session row.
	sessionSlot = 1

	// insertBatchSize bounds the rows of one multi-row INSERT so the number
	// of bound variables stays below SQLite's limit.
	insertBatchSize = 500
)

var entityColumns = []string{"kind", "scope_key", "id", "position", "sort_key", "updated_at", "payload"}

// sqlBuilder renders SQLite-style "?" placeholders.
var sqlBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func scopeFilter(scope models.Scope) sq.Eq {
	return sq.Eq{"kind": string(scope.Kind), "scope_key": scope.Key}
}

func toSQL(b sq.Sqlizer) (string, []any, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildReadAllQuery(scope models.Scope) (string, []any, error) {
	return toSQL(sqlBuilder.
		Select("id", "sort_key", "updated_at", "payload").
		From(entitiesTable).
		Where(scopeFilter(scope)).
		OrderBy("position ASC"))
}

func buildDeleteScopeQuery(scope models.Scope) (string, []any, error) {
	return toSQL(sqlBuilder.
		Delete(entitiesTable).
		Where(scopeFilter(scope)))
}

// buildInsertBatchQuery inserts entities with positions starting at offset.
func buildInsertBatchQuery(scope models.Scope, entities []models.Entity, offset int) (string, []any, error) {
	insert := sqlBuilder.Insert(entitiesTable).Columns(entityColumns...)
	for i, e := range entities {
		insert = insert.Values(string(scope.Kind), scope.Key, e.ID, offset+i, e.SortKey, e.UpdatedAt, []byte(e.Payload))
	}
	return toSQL(insert)
}

// buildUpsertQuery inserts e at position, or refreshes its data in place if a
// row with the same id already exists in the scope. The position of an
// existing row is left unchanged.
func buildUpsertQuery(e models.Entity, position int) (string, []any, error) {
	return toSQL(sqlBuilder.
		Insert(entitiesTable).
		Columns(entityColumns...).
		Values(string(e.Scope.Kind), e.Scope.Key, e.ID, position, e.SortKey, e.UpdatedAt, []byte(e.Payload)).
		Suffix("ON CONFLICT (kind, scope_key, id) DO UPDATE SET " +
			"sort_key = excluded.sort_key, updated_at = excluded.updated_at, payload = excluded.payload"))
}

func buildMinPositionQuery(scope models.Scope) (string, []any, error) {
	return toSQL(sqlBuilder.
		Select("COALESCE(MIN(position), 0)").
		From(entitiesTable).
		Where(scopeFilter(scope)))
}

func buildDeleteOneQuery(scope models.Scope, id string) (string, []any, error) {
	return toSQL(sqlBuilder.
		Delete(entitiesTable).
		Where(sq.Eq{"kind": string(scope.Kind), "scope_key": scope.Key, "id": id}))
}

func buildChecksumQuery(scope models.Scope) (string, []any, error) {
	return toSQL(sqlBuilder.
		Select("COALESCE(SUM(updated_at), 0)").
		From(entitiesTable).
		Where(scopeFilter(scope)))
}

func buildCountQuery(scope models.Scope) (string, []any, error) {
	return toSQL(sqlBuilder.
		Select("COUNT(*)").
		From(entitiesTable).
		Where(scopeFilter(scope)))
}

func buildSaveSessionQuery(state models.SessionState) (string, []any, error) {
	var latLng string
	if state.LastLatLng != nil {
		latLng = state.LastLatLng.String()
	}

	return toSQL(sqlBuilder.
		Insert(sessionTable).
		Columns("slot", "user_id", "token", "display_name", "lat_lng", "saved_at").
		Values(sessionSlot, state.UserID, state.Token, state.DisplayName, latLng, state.SavedAt.UnixMilli()).
		Suffix("ON CONFLICT (slot) DO UPDATE SET " +
			"user_id = excluded.user_id, token = excluded.token, display_name = excluded.display_name, " +
			"lat_lng = excluded.lat_lng, saved_at = excluded.saved_at"))
}

func buildLoadSessionQuery() (string, []any, error) {
	return toSQL(sqlBuilder.
		Select("user_id", "token", "display_name", "lat_lng", "saved_at").
		From(sessionTable).
		Where(sq.Eq{"slot": sessionSlot}))
}

func buildClearSessionQuery() (string, []any, error) {
	return toSQL(sqlBuilder.
		Delete(sessionTable).
		Where(sq.Eq{"slot": sessionSlot}))
}
