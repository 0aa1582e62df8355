package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestDefaultConfigDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	dir, err := DefaultConfigDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".vecseed"), dir)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.model", "text-embedding-3-large"))
	require.NoError(t, store.Set("index.batch_size", 32))
	require.NoError(t, store.Set("crawl.requests_per_second", 1.5))
	require.NoError(t, store.Set("history.enabled", true))
	require.NoError(t, store.Set("crawl.hosts", []any{"a", 1, "b"}))

	assert.Equal(t, "text-embedding-3-large", store.GetString("embedding.model"))
	assert.Equal(t, 32, store.GetInt("index.batch_size"))
	assert.InDelta(t, 1.5, store.GetFloat("crawl.requests_per_second"), 1e-9)
	assert.InDelta(t, 32.0, store.GetFloat("index.batch_size"), 1e-9)
	assert.True(t, store.GetBool("history.enabled"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("crawl.hosts"))

	// Wrong types fall back to zero values
	assert.Empty(t, store.GetString("index.batch_size"))
	assert.Zero(t, store.GetInt("embedding.model"))
	assert.Zero(t, store.GetFloat("embedding.model"))
	assert.False(t, store.GetBool("embedding.model"))
	assert.Nil(t, store.GetStringSlice("embedding.model"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("index.uri", "postgres://localhost/vec"))
	require.NoError(t, store1.Set("index.batch_size", 16))
	require.NoError(t, store1.Set("embedding.provider", "ollama"))

	raw, err := os.ReadFile(store1.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[index]")
	assert.Contains(t, string(raw), "[embedding]")

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/vec", store2.GetString("index.uri"))
	assert.Equal(t, 16, store2.GetInt("index.batch_size"))
	assert.Equal(t, "ollama", store2.GetString("embedding.provider"))
	assert.Equal(t, []string{"embedding.provider", "index.batch_size", "index.uri"}, store2.Keys())
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte(`
[embedding]
provider = "gemini"

[crawl]
max_depth = 3
requests_per_second = 0.5
`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "gemini", store.GetString("embedding.provider"))
	assert.Equal(t, 3, store.GetInt("crawl.max_depth"))
	assert.InDelta(t, 0.5, store.GetFloat("crawl.requests_per_second"), 1e-9)
}

func TestConfigStore_KeyConflict(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("index", "flat"))
	err = store.Set("index.uri", "mem://")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "conflicts")
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.api_key", "sk-test"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte{}, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("any_key")
	assert.False(t, ok)
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("test", "value"))

	// Replace the file with a directory to cause write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
}

func TestFlattenAndNest_RoundTrip(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{"b": int64(1), "c": map[string]any{"d": "x"}},
		"e": true,
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{"a.b": int64(1), "a.c.d": "x", "e": true}, flat)

	back, err := nestMap(flat)
	require.NoError(t, err)
	assert.Equal(t, nested, back)
}
