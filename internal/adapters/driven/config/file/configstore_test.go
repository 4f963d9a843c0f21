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

func TestConfigStore_SetAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("test_key", "test_value")
	require.NoError(t, err)

	val, ok := store.Get("test_key")
	assert.True(t, ok)
	assert.Equal(t, "test_value", val)
}

func TestConfigStore_SetPersistsImmediately(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("embedding.provider", "ollama")
	require.NoError(t, err)

	// A fresh store over the same directory must see the value
	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", reloaded.GetString("embedding.provider"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	// Hand-written nested TOML must surface as dot-notation keys
	content := `
[embedding]
provider = "openai"
model = "text-embedding-3-small"
dimensions = 1536

[retrieval]
text_threshold = 0.45
top_k = 5

[rerank]
enabled = true
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("embedding.provider"))
	assert.Equal(t, "text-embedding-3-small", store.GetString("embedding.model"))
	assert.Equal(t, 1536, store.GetInt("embedding.dimensions"))
	assert.InDelta(t, 0.45, store.GetFloat("retrieval.text_threshold"), 1e-9)
	assert.Equal(t, 5, store.GetInt("retrieval.top_k"))
	assert.True(t, store.GetBool("rerank.enabled"))
}

func TestConfigStore_GetString(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("string_key", "hello world"))
	assert.Equal(t, "hello world", store.GetString("string_key"))

	// Non-existent key
	assert.Equal(t, "", store.GetString("nonexistent"))

	// Wrong type
	require.NoError(t, store.Set("int_key", 42))
	assert.Equal(t, "", store.GetString("int_key"))
}

func TestConfigStore_GetInt(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("int_key", 42))
	assert.Equal(t, 42, store.GetInt("int_key"))

	// TOML round-trip produces int64
	require.NoError(t, store.Set("int64_key", int64(7)))
	assert.Equal(t, 7, store.GetInt("int64_key"))

	// Non-existent key
	assert.Equal(t, 0, store.GetInt("nonexistent"))

	// Wrong type
	require.NoError(t, store.Set("string_key", "not an int"))
	assert.Equal(t, 0, store.GetInt("string_key"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("float_key", 0.25))
	assert.InDelta(t, 0.25, store.GetFloat("float_key"), 1e-9)

	// Whole numbers may be stored as integers
	require.NoError(t, store.Set("int_key", int64(3)))
	assert.InDelta(t, 3.0, store.GetFloat("int_key"), 1e-9)

	// Non-existent key
	assert.Zero(t, store.GetFloat("nonexistent"))

	// Wrong type
	require.NoError(t, store.Set("string_key", "not a float"))
	assert.Zero(t, store.GetFloat("string_key"))
}

func TestConfigStore_GetBool(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("bool_key", true))
	assert.True(t, store.GetBool("bool_key"))

	require.NoError(t, store.Set("bool_key_false", false))
	assert.False(t, store.GetBool("bool_key_false"))

	// Non-existent key
	assert.False(t, store.GetBool("nonexistent"))

	// Wrong type
	require.NoError(t, store.Set("string_key", "true"))
	assert.False(t, store.GetBool("string_key"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.api_key", "sk-secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "config may hold API keys")
}

func TestConfigStore_LoadMissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// No file on disk is not an error; store starts empty
	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_LoadMalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not [valid toml"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestFlatten(t *testing.T) {
	nested := map[string]any{
		"top": "value",
		"section": map[string]any{
			"key": int64(1),
			"deeper": map[string]any{
				"leaf": true,
			},
		},
	}

	flat := make(map[string]any)
	flatten(nested, "", flat)

	assert.Equal(t, "value", flat["top"])
	assert.Equal(t, int64(1), flat["section.key"])
	assert.Equal(t, true, flat["section.deeper.leaf"])
	assert.Len(t, flat, 3)
}

func TestExpand_RoundTrip(t *testing.T) {
	flat := map[string]any{
		"top":                 "value",
		"section.key":         int64(1),
		"section.deeper.leaf": true,
	}

	nested := expand(flat)

	section, ok := nested["section"].(map[string]any)
	require.True(t, ok)
	deeper, ok := section["deeper"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "value", nested["top"])
	assert.Equal(t, int64(1), section["key"])
	assert.Equal(t, true, deeper["leaf"])

	// Flattening the expansion restores the original keys
	back := make(map[string]any)
	flatten(nested, "", back)
	assert.Equal(t, flat, back)
}

func TestConfigStore_SavesNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("embedding.model", "nomic-embed-text"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[embedding]")
	assert.NotContains(t, string(raw), `"embedding.provider"`)
}
