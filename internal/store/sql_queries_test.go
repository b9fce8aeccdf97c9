// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/munch-sync/models"
)

var itemsScope = models.Scope{Kind: models.KindCollectionItem, Key: "c-1"}

func testEntity(id string, updated int64) models.Entity {
	return models.Entity{
		ID:        id,
		Scope:     itemsScope,
		UpdatedAt: updated,
		SortKey:   models.SortKeyFromMillis(updated),
		Payload:   json.RawMessage(`{"placeId":"` + id + `"}`),
	}
}

func Test_buildReadAllQuery(t *testing.T) {
	query, args, err := buildReadAllQuery(itemsScope)

	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, sort_key, updated_at, payload FROM entities WHERE kind = ? AND scope_key = ? ORDER BY position ASC",
		query)
	assert.Equal(t, []any{"collection_item", "c-1"}, args)
}

func Test_buildDeleteScopeQuery(t *testing.T) {
	query, args, err := buildDeleteScopeQuery(models.Scope{Kind: models.KindCollection})

	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM entities WHERE kind = ? AND scope_key = ?", query)
	assert.Equal(t, []any{"collection", ""}, args)
}

func Test_buildInsertBatchQuery(t *testing.T) {
	entities := []models.Entity{testEntity("a", 10), testEntity("b", 20), testEntity("c", 30)}

	query, args, err := buildInsertBatchQuery(itemsScope, entities, 5)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(query, "INSERT INTO entities (kind,scope_key,id,position,sort_key,updated_at,payload) VALUES "))
	assert.Equal(t, 3, strings.Count(query, "(?,?,?,?,?,?,?)"))
	require.Len(t, args, 21)

	// positions continue from the offset
	assert.Equal(t, 5, args[3])
	assert.Equal(t, 6, args[10])
	assert.Equal(t, 7, args[17])
	assert.Equal(t, "b", args[9])
	assert.Equal(t, []byte(`{"placeId":"c"}`), args[20])
}

func Test_buildUpsertQuery(t *testing.T) {
	query, args, err := buildUpsertQuery(testEntity("a", 10), -3)

	require.NoError(t, err)
	q := strings.ToLower(query)
	assert.Contains(t, q, "insert into entities")
	assert.Contains(t, q, "on conflict (kind, scope_key, id) do update set")
	// the position column is not in the update list
	assert.NotContains(t, q[strings.Index(q, "do update"):], "position")
	require.Len(t, args, 7)
	assert.Equal(t, -3, args[3])
}

func Test_buildDeleteOneQuery(t *testing.T) {
	query, args, err := buildDeleteOneQuery(itemsScope, "p-9")

	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM entities WHERE id = ? AND kind = ? AND scope_key = ?", query)
	assert.Equal(t, []any{"p-9", "collection_item", "c-1"}, args)
}

func Test_buildAggregateQueries(t *testing.T) {
	tests := []struct {
		name   string
		build  func(models.Scope) (string, []any, error)
		prefix string
	}{
		{"checksum", buildChecksumQuery, "SELECT COALESCE(SUM(updated_at), 0) FROM entities"},
		{"count", buildCountQuery, "SELECT COUNT(*) FROM entities"},
		{"min position", buildMinPositionQuery, "SELECT COALESCE(MIN(position), 0) FROM entities"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := tt.build(itemsScope)

			require.NoError(t, err)
			assert.Equal(t, tt.prefix+" WHERE kind = ? AND scope_key = ?", query)
			assert.Equal(t, []any{"collection_item", "c-1"}, args)
		})
	}
}

func Test_buildSaveSessionQuery(t *testing.T) {
	latLng := models.LatLng{Lat: 1.3, Lng: 103.8}
	savedAt := time.UnixMilli(1700000000000)

	query, args, err := buildSaveSessionQuery(models.SessionState{
		UserID:      "u-1",
		Token:       "tok",
		DisplayName: "Ann",
		LastLatLng:  &latLng,
		SavedAt:     savedAt,
	})

	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(query), "on conflict (slot) do update set")
	assert.Equal(t, []any{sessionSlot, "u-1", "tok", "Ann", "1.3,103.8", int64(1700000000000)}, args)
}

func Test_buildSessionReadAndClear(t *testing.T) {
	query, args, err := buildLoadSessionQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT user_id, token, display_name, lat_lng, saved_at FROM session WHERE slot = ?", query)
	assert.Equal(t, []any{sessionSlot}, args)

	query, args, err = buildClearSessionQuery()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM session WHERE slot = ?", query)
	assert.Equal(t, []any{sessionSlot}, args)
}
