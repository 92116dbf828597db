package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()

	_, ok := m.Get("a11y-high-contrast")
	assert.False(t, ok)

	require.NoError(t, m.Set("a11y-high-contrast", "true"))

	v, ok := m.Get("a11y-high-contrast")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestMemory_Remove(t *testing.T) {
	m := NewMemory()

	require.NoError(t, m.Set("key", "value"))
	m.Remove("key")

	_, ok := m.Get("key")
	assert.False(t, ok)

	// Removing a missing key is a no-op
	m.Remove("key")
}

func TestMemory_ValuesAreOpaque(t *testing.T) {
	m := NewMemory()

	raw := `{"highContrast":true,"largeText":false}`
	require.NoError(t, m.Set("a11y-settings", raw))

	v, _ := m.Get("a11y-settings")
	assert.Equal(t, raw, v)
}

func TestFile_CreatesOnFirstSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	f, err := NewFile(path)
	require.NoError(t, err)

	require.NoError(t, f.Set("a11y-large-text", "true"))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFile_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	f, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("a11y-settings", `{"highContrast":true}`))

	reopened, err := NewFile(path)
	require.NoError(t, err)

	v, ok := reopened.Get("a11y-settings")
	assert.True(t, ok)
	assert.Equal(t, `{"highContrast":true}`, v)
}

func TestFile_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	f, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("key", "value"))
	f.Remove("key")

	reopened, err := NewFile(path)
	require.NoError(t, err)
	_, ok := reopened.Get("key")
	assert.False(t, ok)
}

func TestFile_MalformedFileReturnsUsableStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o644))

	f, err := NewFile(path)
	assert.Error(t, err)
	require.NotNil(t, f)

	// The store works despite the corrupt file
	require.NoError(t, f.Set("key", "value"))
	v, ok := f.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}
