// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Syncable is implemented by the typed views of an entity. It exposes the
// fields the sync core needs without knowing the concrete type.
type Syncable interface {
	Key() string
	UpdatedMillis() int64
	Sort() string
}

// views maps a kind to a constructor of its typed view.
var views = map[Kind]func() Syncable{
	KindCollection:     func() Syncable { return new(Collection) },
	KindCollectionItem: func() Syncable { return new(CollectionItem) },
	KindFeedItem:       func() Syncable { return new(FeedItem) },
	KindLocation:       func() Syncable { return new(SearchLocation) },
}

// EntityFrom wraps a typed view into an [Entity] of the given scope.
func EntityFrom(scope Scope, v Syncable) (Entity, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return Entity{}, fmt.Errorf("encode %s payload: %w", scope.Kind, err)
	}

	return Entity{
		ID:        v.Key(),
		Scope:     scope,
		UpdatedAt: v.UpdatedMillis(),
		SortKey:   v.Sort(),
		Payload:   payload,
	}, nil
}

// DecodeEntity decodes one raw API item of scope.Kind into an [Entity].
// The payload is kept verbatim (compacted) so no server field is lost.
func DecodeEntity(scope Scope, raw json.RawMessage) (Entity, error) {
	newView, ok := views[scope.Kind]
	if !ok {
		return Entity{}, fmt.Errorf("%w: %q", ErrUnknownKind, scope.Kind)
	}

	v := newView()
	if err := json.Unmarshal(raw, v); err != nil {
		return Entity{}, fmt.Errorf("decode %s item: %w", scope.Kind, err)
	}
	if v.Key() == "" {
		return Entity{}, fmt.Errorf("decode %s item: %w", scope.Kind, ErrEmptyEntityID)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return Entity{}, fmt.Errorf("compact %s item: %w", scope.Kind, err)
	}

	return Entity{
		ID:        v.Key(),
		Scope:     scope,
		UpdatedAt: v.UpdatedMillis(),
		SortKey:   v.Sort(),
		Payload:   compact.Bytes(),
	}, nil
}

// DecodeEntities decodes a list of raw API items, stopping at the first failure.
func DecodeEntities(scope Scope, items []json.RawMessage) ([]Entity, error) {
	out := make([]Entity, 0, len(items))
	for i, raw := range items {
		e, err := DecodeEntity(scope, raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeView[T any](e Entity, kind Kind) (T, error) {
	var v T
	if e.Scope.Kind != kind {
		return v, fmt.Errorf("%w: have %q, want %q", ErrKindMismatch, e.Scope.Kind, kind)
	}
	if err := json.Unmarshal(e.Payload, &v); err != nil {
		return v, fmt.Errorf("decode %s payload %s: %w", kind, e.ID, err)
	}
	return v, nil
}

func AsCollection(e Entity) (Collection, error) {
	return decodeView[Collection](e, KindCollection)
}

func AsCollectionItem(e Entity) (CollectionItem, error) {
	return decodeView[CollectionItem](e, KindCollectionItem)
}

func AsFeedItem(e Entity) (FeedItem, error) {
	return decodeView[FeedItem](e, KindFeedItem)
}

func AsSearchLocation(e Entity) (SearchLocation, error) {
	return decodeView[SearchLocation](e, KindLocation)
}
