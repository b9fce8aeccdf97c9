// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer between the client and the
// remote API.
//
// The primary abstraction is [RemoteAPI], which decouples the sync services
// from the wire. The package ships a REST implementation
// ([NewHTTPRemoteAPI]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes and API
// error bodies by mapHTTPError so that callers can use [errors.Is]
// (e.g. [ErrAlreadyExists] for a 409 AlreadyExistException, [ErrUnauthorized]
// for 401).
package adapter

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/munch-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// TokenSource supplies the bearer token attached to authenticated requests.
// An empty token sends the request without an Authorization header.
type TokenSource interface {
	Token() string
}

// RemoteAPI is the client's view of the remote API.
type RemoteAPI interface {
	// FetchPage requests one page of scope. An empty req.Cursor asks for the
	// first page; a Page with a nil Next is the last one.
	FetchPage(ctx context.Context, scope models.Scope, req models.PageRequest) (models.Page, error)

	// Get fetches a single entity of scope by id.
	Get(ctx context.Context, scope models.Scope, id string) (models.Entity, error)

	// Create adds e to its scope and returns the server's version of it.
	// Entities without an id are posted to the list path and get a
	// server-assigned id; entities with an id are put on the item path and
	// fail with [ErrAlreadyExists] when that id is taken.
	Create(ctx context.Context, e models.Entity) (models.Entity, error)

	// Patch merges patch into the entity and returns the updated version.
	Patch(ctx context.Context, scope models.Scope, id string, patch json.RawMessage) (models.Entity, error)

	// Delete removes the entity.
	Delete(ctx context.Context, scope models.Scope, id string) error

	// IssueToken asks the API for a bearer token for userID.
	IssueToken(ctx context.Context, userID string) (models.TokenResponse, error)
}
