// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrPayloadNotObject = errors.New("entity payload is not a JSON object")

// idFields names the payload field holding the entity id, per kind.
var idFields = map[Kind]string{
	KindCollection:     "collectionId",
	KindCollectionItem: "placeId",
	KindFeedItem:       "itemId",
	KindLocation:       "locationId",
}

// IDField returns the payload field that carries the id of kind.
func (k Kind) IDField() string {
	return idFields[k]
}

// ServerFields are the fields the API owns on every entity.
type ServerFields struct {
	ID      string
	Created int64
	Updated int64
	Sort    string
}

// Stamp writes fields into the payload of e and re-decodes it so that ID,
// UpdatedAt and SortKey agree with the payload. Zero-valued fields are left as
// they are; Created is only written when the payload has none.
func Stamp(e Entity, fields ServerFields) (Entity, error) {
	obj, err := payloadObject(e.Payload)
	if err != nil {
		return Entity{}, err
	}

	if fields.ID != "" {
		obj[e.Scope.Kind.IDField()] = mustRaw(fields.ID)
	}
	if e.Scope.Kind == KindCollectionItem && e.Scope.Key != "" {
		obj["collectionId"] = mustRaw(e.Scope.Key)
	}
	if _, ok := obj["createdMillis"]; !ok && fields.Created != 0 {
		obj["createdMillis"] = mustRaw(fields.Created)
	}
	if fields.Updated != 0 {
		obj["updatedMillis"] = mustRaw(fields.Updated)
	}
	if fields.Sort != "" {
		obj["sort"] = mustRaw(fields.Sort)
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return Entity{}, fmt.Errorf("encode %s payload: %w", e.Scope.Kind, err)
	}
	return DecodeEntity(e.Scope, raw)
}

// MergePayload applies a shallow JSON merge of patch onto e's payload. The id
// field cannot be changed by a patch.
func MergePayload(e Entity, patch json.RawMessage) (Entity, error) {
	obj, err := payloadObject(e.Payload)
	if err != nil {
		return Entity{}, err
	}
	changes, err := payloadObject(patch)
	if err != nil {
		return Entity{}, err
	}

	idField := e.Scope.Kind.IDField()
	for k, v := range changes {
		if k == idField {
			continue
		}
		obj[k] = v
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return Entity{}, fmt.Errorf("encode %s payload: %w", e.Scope.Kind, err)
	}
	return DecodeEntity(e.Scope, raw)
}

func payloadObject(raw json.RawMessage) (map[string]json.RawMessage, error) {
	obj := make(map[string]json.RawMessage)
	if len(raw) == 0 {
		return obj, nil
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, ErrPayloadNotObject
	}
	return obj, nil
}

func mustRaw(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
