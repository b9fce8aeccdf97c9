package store

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/munch-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// LocalEntityRepository is the local mirror of remote entities. Every method
// is filtered by a scope; writes run in a single transaction.
type LocalEntityRepository interface {
	// ReadAll returns the rows of scope in stored order.
	ReadAll(ctx context.Context, scope models.Scope) ([]models.Entity, error)
	// WriteAll replaces every row of scope with entities, in order.
	WriteAll(ctx context.Context, scope models.Scope, entities []models.Entity) error
	// UpsertOne inserts entity at the head of its scope or refreshes it in place.
	UpsertOne(ctx context.Context, entity models.Entity) error
	// DeleteOne removes one row and returns ErrEntityNotFound if none matched.
	DeleteOne(ctx context.Context, scope models.Scope, id string) error
	// Checksum returns the sum of updated_at over scope, 0 when empty.
	Checksum(ctx context.Context, scope models.Scope) (int64, error)
	Count(ctx context.Context, scope models.Scope) (int, error)
}

// SessionRepository persists the single client session row.
type SessionRepository interface {
	Save(ctx context.Context, state models.SessionState) error
	Load(ctx context.Context) (models.SessionState, error)
	Clear(ctx context.Context) error
}

// Catalog is the server-side entity store of the development API.
// Entities are partitioned per user and scope.
type Catalog interface {
	// List returns up to size entities of scope ordered by sort key
	// descending, starting after cursor.
	List(ctx context.Context, userID string, scope models.Scope, size int, cursor models.Cursor) (models.Page, error)
	Get(ctx context.Context, userID string, scope models.Scope, id string) (models.Entity, error)
	// Add stores a new entity, assigning an id when e.ID is empty.
	// It returns ErrAlreadyExists when the id is taken.
	Add(ctx context.Context, userID string, e models.Entity) (models.Entity, error)
	Patch(ctx context.Context, userID string, scope models.Scope, id string, patch json.RawMessage) (models.Entity, error)
	Delete(ctx context.Context, userID string, scope models.Scope, id string) error
}
