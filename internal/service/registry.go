package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/MKhiriev/munch-sync/models"
)

// ManagerFactory builds the manager of a scope.
type ManagerFactory func(scope models.Scope) *Manager

// Registry lazily creates one Manager per scope and hands out the same
// instance on every later call.
type Registry struct {
	factory ManagerFactory

	mu       sync.Mutex
	managers map[models.Scope]*Manager
	closed   bool
}

func NewRegistry(factory ManagerFactory) *Registry {
	return &Registry{
		factory:  factory,
		managers: make(map[models.Scope]*Manager),
	}
}

// Get returns the manager of scope, creating it on first use.
func (r *Registry) Get(scope models.Scope) (*Manager, error) {
	if err := scope.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrManagerClosed
	}
	if m, ok := r.managers[scope]; ok {
		return m, nil
	}

	m := r.factory(scope)
	r.managers[scope] = m
	return m, nil
}

// Managers returns every created manager ordered by scope.
func (r *Registry) Managers() []*Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Manager, 0, len(r.managers))
	for _, m := range r.managers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Scope().String() < out[j].Scope().String()
	})
	return out
}

// Close closes every manager. Get fails afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	managers := make([]*Manager, 0, len(r.managers))
	for _, m := range r.managers {
		managers = append(managers, m)
	}
	r.mu.Unlock()

	for _, m := range managers {
		m.Close()
	}
}
