package id

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	a := New()
	assert.Len(t, a, 26)
	assert.True(t, Valid(a))
	assert.NotEqual(t, a, New())
}

func TestGeneratorMonotonic(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	g := NewGenerator(func() time.Time { return fixed })

	ids := make([]string, 100)
	for i := range ids {
		ids[i] = g.New()
	}
	assert.True(t, sort.StringsAreSorted(ids))

	got, err := Time(ids[0])
	require.NoError(t, err)
	assert.True(t, got.Equal(fixed))
}

func TestTimeInvalid(t *testing.T) {
	t.Parallel()

	_, err := Time("acct-1")
	assert.Error(t, err)
	assert.False(t, Valid(""))
}
