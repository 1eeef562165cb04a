package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	store, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Save(ctx, ProductsKey, []byte(`[{"id":"1"}]`)))

	data, err := store.Load(ctx, ProductsKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(data))

	// Overwrite replaces the whole blob.
	require.NoError(t, store.Save(ctx, ProductsKey, []byte(`[]`)))
	data, err = store.Load(ctx, ProductsKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestFileStorage_Delete(t *testing.T) {
	store, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, SessionKey, []byte("admin")))
	require.NoError(t, store.Delete(ctx, SessionKey))

	_, err = store.Load(ctx, SessionKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting a missing key is a no-op.
	require.NoError(t, store.Delete(ctx, SessionKey))
}

func TestMemoryStorage_Isolation(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	payload := []byte("mutable")
	require.NoError(t, store.Save(ctx, "k", payload))
	payload[0] = 'X'

	data, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "mutable", string(data))
}
