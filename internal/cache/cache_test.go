package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRememberLoadsOnceUntilExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"fruits", "dairy"}, nil
	}

	v, err := Remember(ctx, m, "categories", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"fruits", "dairy"}, v)

	v, err = Remember(ctx, m, "categories", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"fruits", "dairy"}, v)
	assert.Equal(t, 1, calls)

	now = now.Add(2 * time.Minute)
	_, err = Remember(ctx, m, "categories", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	boom := errors.New("gateway down")

	_, err := Remember(ctx, m, "k", time.Minute, func(context.Context) (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)

	var got int
	ok, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRememberWithoutCache(t *testing.T) {
	v, err := Remember(context.Background(), nil, "k", time.Minute, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "a", 1, 0))
	require.NoError(t, m.Delete(ctx, "a"))
	var v int
	ok, _ := m.Get(ctx, "a", &v)
	assert.False(t, ok)
}
