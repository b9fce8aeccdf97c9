package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStamp(t *testing.T) {
	scope := Scope{Kind: KindCollectionItem, Key: "c-1"}
	e := Entity{Scope: scope, Payload: json.RawMessage(`{"placeId":"","createdMillis":5}`)}

	stamped, err := Stamp(e, ServerFields{ID: "p-1", Created: 10, Updated: 20, Sort: "0020"})
	require.NoError(t, err)

	assert.Equal(t, "p-1", stamped.ID)
	assert.Equal(t, int64(20), stamped.UpdatedAt)
	assert.Equal(t, "0020", stamped.SortKey)

	item, err := AsCollectionItem(stamped)
	require.NoError(t, err)
	assert.Equal(t, "c-1", item.CollectionID)
	assert.Equal(t, int64(5), item.Created)
}

func TestStamp_RejectsNonObject(t *testing.T) {
	_, err := Stamp(Entity{Scope: Scope{Kind: KindCollection}, Payload: json.RawMessage(`[]`)}, ServerFields{ID: "x"})
	assert.ErrorIs(t, err, ErrPayloadNotObject)
}

func TestMergePayload(t *testing.T) {
	e, err := EntityFrom(Scope{Kind: KindCollection}, Collection{CollectionID: "c-1", Name: "old", Count: 3, Updated: 7})
	require.NoError(t, err)

	merged, err := MergePayload(e, json.RawMessage(`{"name":"new","collectionId":"hijack"}`))
	require.NoError(t, err)

	c, err := AsCollection(merged)
	require.NoError(t, err)
	assert.Equal(t, "c-1", c.CollectionID)
	assert.Equal(t, "new", c.Name)
	assert.Equal(t, 3, c.Count)
	assert.Equal(t, int64(7), merged.UpdatedAt)

	_, err = MergePayload(e, json.RawMessage(`"name"`))
	assert.ErrorIs(t, err, ErrPayloadNotObject)
}

func TestChecksumAndIDs(t *testing.T) {
	entities := []Entity{{ID: "a", UpdatedAt: 3}, {ID: "b", UpdatedAt: 4}}

	assert.Equal(t, int64(7), Checksum(entities))
	assert.Zero(t, Checksum(nil))
	assert.Equal(t, []string{"a", "b"}, IDs(entities))
	assert.Empty(t, IDs(nil))
}
