package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("index.uri", "mem://"))
	require.NoError(t, store.Set("index.uri", "postgres://db"))

	val, ok := store.Get("index.uri")
	assert.True(t, ok)
	assert.Equal(t, "postgres://db", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "text"))
	require.NoError(t, store.Set("i", 7))
	require.NoError(t, store.Set("i64", int64(9)))
	require.NoError(t, store.Set("f", 2.5))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("list", []any{"x", 3, "y"}))

	assert.Equal(t, "text", store.GetString("s"))
	assert.Equal(t, 7, store.GetInt("i"))
	assert.Equal(t, 9, store.GetInt("i64"))
	assert.Equal(t, 2, store.GetInt("f"))
	assert.InDelta(t, 2.5, store.GetFloat("f"), 1e-9)
	assert.InDelta(t, 7.0, store.GetFloat("i"), 1e-9)
	assert.InDelta(t, 9.0, store.GetFloat("i64"), 1e-9)
	assert.True(t, store.GetBool("b"))
	assert.Equal(t, []string{"x", "y"}, store.GetStringSlice("list"))

	assert.Empty(t, store.GetString("i"))
	assert.Zero(t, store.GetInt("s"))
	assert.Zero(t, store.GetFloat("s"))
	assert.False(t, store.GetBool("s"))
	assert.Nil(t, store.GetStringSlice("s"))
}

func TestConfigStore_NoOpPersistence(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, EphemeralPath, store.Path())
}

func TestConfigStore_Keys(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("index.uri", "mem://"))
	require.NoError(t, store.Set("embedding.provider", "ollama"))

	assert.Equal(t, []string{"embedding.provider", "index.uri"}, store.Keys())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("crawl.max_pages", n)
			_ = store.GetInt("crawl.max_pages")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("crawl.max_pages")
	assert.True(t, ok)
}
