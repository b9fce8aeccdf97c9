// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
)

// Kind names an entity type mirrored by the local cache.
type Kind string

const (
	KindCollection     Kind = "collection"
	KindCollectionItem Kind = "collection_item"
	KindFeedItem       Kind = "feed_item"
	KindLocation       Kind = "location"
)

// Kinds lists every kind known to the client, in registration order.
var Kinds = []Kind{KindCollection, KindCollectionItem, KindFeedItem, KindLocation}

// Scoped reports whether rows of this kind are partitioned by a scope key
// (a collection id, a feed key). Unscoped kinds use an empty key.
func (k Kind) Scoped() bool {
	return k == KindCollectionItem || k == KindFeedItem
}

// Valid reports whether k is one of [Kinds].
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Scope is the partition of one kind in the local store: every read, write and
// checksum is filtered by it.
type Scope struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key,omitempty"`
}

// NewScope builds a scope and validates that scoped kinds carry a key.
func NewScope(kind Kind, key string) (Scope, error) {
	s := Scope{Kind: kind, Key: key}
	return s, s.Validate()
}

// Validate returns [ErrUnknownKind] or [ErrEmptyScopeKey] for malformed scopes.
func (s Scope) Validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
	if s.Kind.Scoped() && s.Key == "" {
		return fmt.Errorf("%w: kind %q", ErrEmptyScopeKey, s.Kind)
	}
	return nil
}

func (s Scope) String() string {
	if s.Key == "" {
		return string(s.Kind)
	}
	return string(s.Kind) + "/" + s.Key
}

// Entity is a kind-agnostic row of the local cache.
//
// ID is server-assigned. UpdatedAt is the last-updated timestamp in
// milliseconds and feeds the scope checksum. SortKey is the server sort token;
// it orders rows and doubles as the pagination cursor. Payload is the JSON
// object the API returned for this entity, decoded on demand by the typed
// views ([Collection], [CollectionItem], [FeedItem], [SearchLocation]).
type Entity struct {
	ID        string          `json:"id"`
	Scope     Scope           `json:"scope"`
	UpdatedAt int64           `json:"updated_at"`
	SortKey   string          `json:"sort_key"`
	Payload   json.RawMessage `json:"payload"`
}

// Checksum returns the sum of UpdatedAt over entities. Two sets with the same
// checksum are treated as equal by the reconciler.
func Checksum(entities []Entity) int64 {
	var sum int64
	for _, e := range entities {
		sum += e.UpdatedAt
	}
	return sum
}

// IDs returns the identifiers of entities in order.
func IDs(entities []Entity) []string {
	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}
	return ids
}
