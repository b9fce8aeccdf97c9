package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/munch-sync/internal/utils"
	"github.com/MKhiriev/munch-sync/models"
)

// memoryCatalog keeps the development API's entities in memory and, when a
// path is configured, mirrors them to a JSON file after every write.
type memoryCatalog struct {
	path     string
	inMemory bool

	ids utils.IDGenerator
	now func() time.Time

	mu         sync.RWMutex
	lastMillis int64
	// partitions maps partitionKey(user, scope) to entities by id.
	partitions map[string]map[string]models.Entity
}

type catalogPersistedState struct {
	LastMillis int64                      `json:"last_millis"`
	Entities   map[string][]models.Entity `json:"entities"`
}

// NewCatalog opens the catalog at path. An empty path or ":memory:" keeps
// everything in memory.
func NewCatalog(path string, ids utils.IDGenerator) (Catalog, error) {
	if path == "" {
		path = ":memory:"
	}

	c := &memoryCatalog{
		path:       path,
		inMemory:   path == ":memory:",
		ids:        ids,
		now:        time.Now,
		partitions: make(map[string]map[string]models.Entity),
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func partitionKey(userID string, scope models.Scope) string {
	return userID + "|" + scope.String()
}

func (c *memoryCatalog) List(_ context.Context, userID string, scope models.Scope, size int, cursor models.Cursor) (models.Page, error) {
	if err := scope.Validate(); err != nil {
		return models.Page{}, fmt.Errorf("%w: %w", ErrInvalidScope, err)
	}

	c.mu.RLock()
	sorted := c.sortedLocked(userID, scope)
	c.mu.RUnlock()

	start := 0
	if cursor != "" {
		start = sort.Search(len(sorted), func(i int) bool {
			return sorted[i].SortKey < string(cursor)
		})
	}

	if size <= 0 {
		size = len(sorted)
	}
	end := min(start+size, len(sorted))

	page := models.Page{Items: sorted[start:end]}
	if end < len(sorted) && end > start {
		next := models.Cursor(sorted[end-1].SortKey)
		page.Next = &next
	}
	return page, nil
}

// sortedLocked returns the partition ordered by sort key descending, ties
// broken by id descending.
func (c *memoryCatalog) sortedLocked(userID string, scope models.Scope) []models.Entity {
	partition := c.partitions[partitionKey(userID, scope)]
	out := make([]models.Entity, 0, len(partition))
	for _, e := range partition {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortKey != out[j].SortKey {
			return out[i].SortKey > out[j].SortKey
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (c *memoryCatalog) Get(_ context.Context, userID string, scope models.Scope, id string) (models.Entity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.partitions[partitionKey(userID, scope)][id]
	if !ok {
		return models.Entity{}, ErrEntityNotFound
	}
	return e, nil
}

func (c *memoryCatalog) Add(_ context.Context, userID string, e models.Entity) (models.Entity, error) {
	if err := e.Scope.Validate(); err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidScope, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := e.ID
	if id == "" {
		id = c.ids.Generate()
	}

	key := partitionKey(userID, e.Scope)
	if _, exists := c.partitions[key][id]; exists {
		return models.Entity{}, ErrAlreadyExists
	}

	millis := c.tickLocked()
	stamped, err := models.Stamp(e, models.ServerFields{
		ID:      id,
		Created: millis,
		Updated: millis,
		Sort:    models.SortKeyFromMillis(millis),
	})
	if err != nil {
		return models.Entity{}, err
	}

	if c.partitions[key] == nil {
		c.partitions[key] = make(map[string]models.Entity)
	}
	c.partitions[key][id] = stamped

	return stamped, c.persistLocked()
}

func (c *memoryCatalog) Patch(_ context.Context, userID string, scope models.Scope, id string, patch json.RawMessage) (models.Entity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := partitionKey(userID, scope)
	current, ok := c.partitions[key][id]
	if !ok {
		return models.Entity{}, ErrEntityNotFound
	}

	merged, err := models.MergePayload(current, patch)
	if err != nil {
		return models.Entity{}, err
	}

	// the sort key is kept so a patch does not reorder the list
	updated, err := models.Stamp(merged, models.ServerFields{
		Updated: c.tickLocked(),
		Sort:    current.SortKey,
	})
	if err != nil {
		return models.Entity{}, err
	}

	c.partitions[key][id] = updated
	return updated, c.persistLocked()
}

func (c *memoryCatalog) Delete(_ context.Context, userID string, scope models.Scope, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := partitionKey(userID, scope)
	if _, ok := c.partitions[key][id]; !ok {
		return ErrEntityNotFound
	}
	delete(c.partitions[key], id)

	return c.persistLocked()
}

// tickLocked returns a strictly increasing millisecond timestamp so that sort
// keys never collide.
func (c *memoryCatalog) tickLocked() int64 {
	millis := c.now().UnixMilli()
	if millis <= c.lastMillis {
		millis = c.lastMillis + 1
	}
	c.lastMillis = millis
	return millis
}

func (c *memoryCatalog) load() error {
	if c.inMemory {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read catalog file: %w", err)
	}

	var st catalogPersistedState
	if err = json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode catalog file: %w", err)
	}

	c.lastMillis = st.LastMillis
	for key, entities := range st.Entities {
		partition := make(map[string]models.Entity, len(entities))
		for _, e := range entities {
			partition[e.ID] = e
		}
		c.partitions[key] = partition
	}

	return nil
}

func (c *memoryCatalog) persistLocked() error {
	if c.inMemory {
		return nil
	}

	dir := filepath.Dir(c.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}

	state := catalogPersistedState{
		LastMillis: c.lastMillis,
		Entities:   make(map[string][]models.Entity, len(c.partitions)),
	}
	for key, partition := range c.partitions {
		entities := make([]models.Entity, 0, len(partition))
		for _, e := range partition {
			entities = append(entities, e)
		}
		sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })
		state.Entities[key] = entities
	}

	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if err = os.WriteFile(c.path, payload, 0o600); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}

	return nil
}
