// Package prefs stores device-local preferences such as the last selected
// account. Values are plain strings under string keys.
package prefs

import (
	"context"
	"strings"
	"sync"
)

// ActiveAccountKey holds the id of the account the user last switched to.
const ActiveAccountKey = "active_account_id"

// Store is a small key/value preference store. Get reports ok=false for a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Memory keeps preferences in process.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Scoped namespaces every key of an underlying Store, typically per user so
// that several users can share one file or redis instance.
type Scoped struct {
	prefix string
	inner  Store
}

var _ Store = Scoped{}

// NewScoped prefixes keys with "<scope>:".
func NewScoped(inner Store, scope string) Scoped {
	return Scoped{prefix: strings.TrimSuffix(scope, ":") + ":", inner: inner}
}

func (s Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s Scoped) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}
