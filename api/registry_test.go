package api

import (
	"context"
	"sync"
	"testing"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/prefs"
	"github.com/rustyeddy/tradejournal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCachesPerUser(t *testing.T) {
	t.Parallel()

	backend := journal.NewMemory()
	built := 0
	reg := NewRegistry(func(u auth.User) *store.Store {
		built++
		return store.New(backend, auth.NewStatic(u), prefs.NewMemory())
	})
	ctx := context.Background()

	a, err := reg.Get(ctx, auth.User{ID: "u1"})
	require.NoError(t, err)
	b, err := reg.Get(ctx, auth.User{ID: "u1"})
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.False(t, a.Loading())

	_, err = reg.Get(ctx, auth.User{ID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, 2, built)
	assert.Equal(t, 2, reg.Len())

	assert.Same(t, a, reg.Drop("u1"))
	assert.Nil(t, reg.Drop("u1"))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryConcurrentGet(t *testing.T) {
	t.Parallel()

	backend := journal.NewMemory()
	reg := NewRegistry(func(u auth.User) *store.Store {
		return store.New(backend, auth.NewStatic(u), prefs.NewMemory())
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Get(context.Background(), auth.User{ID: "u1"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	accts, err := backend.ListAccounts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, accts, 1)
}

func TestRegistryDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(func(u auth.User) *store.Store {
		// a signed-out session fails Initialize
		return store.New(journal.NewMemory(), auth.NewStatic(auth.User{}), prefs.NewMemory())
	})

	_, err := reg.Get(context.Background(), auth.User{ID: "u1"})
	require.ErrorIs(t, err, store.ErrUnauthenticated)
	assert.Equal(t, 0, reg.Len())
}
