package api

import (
	"context"
	"sync"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/store"
)

// Factory builds an uninitialized store for one user.
type Factory func(u auth.User) *store.Store

type entry struct {
	once  sync.Once
	store *store.Store
	err   error
}

// Registry keeps one initialized store per signed-in user.
type Registry struct {
	factory Factory

	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry(f Factory) *Registry {
	return &Registry{factory: f, entries: make(map[string]*entry)}
}

// Get returns the user's store, initializing it on first use. A failed
// initialization is not cached.
func (r *Registry) Get(ctx context.Context, u auth.User) (*store.Store, error) {
	r.mu.Lock()
	e, ok := r.entries[u.ID]
	if !ok {
		e = &entry{store: r.factory(u)}
		r.entries[u.ID] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		e.err = e.store.Initialize(ctx)
	})
	if e.err != nil {
		r.mu.Lock()
		if r.entries[u.ID] == e {
			delete(r.entries, u.ID)
		}
		r.mu.Unlock()
		return nil, e.err
	}
	return e.store, nil
}

// Drop forgets the user's store. It returns the dropped store, if any.
func (r *Registry) Drop(userID string) *store.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok {
		return nil
	}
	delete(r.entries, userID)
	return e.store
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
