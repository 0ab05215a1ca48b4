package digest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteAndRead(t *testing.T) {
	t.Parallel()

	outputDir := filepath.Join(t.TempDir(), "digests")
	w, err := NewWriter(outputDir)
	require.NoError(t, err)

	require.NoError(t, w.Write("app.py", "FUNC main():"))

	body, err := os.ReadFile(filepath.Join(outputDir, "app.py.toon"))
	require.NoError(t, err)
	assert.Equal(t, "FUNC main():", string(body))
}

func TestWriter_NestedPath(t *testing.T) {
	t.Parallel()

	outputDir := filepath.Join(t.TempDir(), "digests")
	w, err := NewWriter(outputDir)
	require.NoError(t, err)

	require.NoError(t, w.Write("pkg/sub/mod.py", "CLS Mod:"))

	body, err := os.ReadFile(filepath.Join(outputDir, "pkg", "sub", "mod.py.toon"))
	require.NoError(t, err)
	assert.Equal(t, "CLS Mod:", string(body))
}

func TestWriter_OverwriteReplacesContent(t *testing.T) {
	t.Parallel()

	outputDir := filepath.Join(t.TempDir(), "digests")
	w, err := NewWriter(outputDir)
	require.NoError(t, err)

	require.NoError(t, w.Write("a.py", "FUNC old():"))
	require.NoError(t, w.Write("a.py", "FUNC new():"))

	body, err := os.ReadFile(filepath.Join(outputDir, "a.py.toon"))
	require.NoError(t, err)
	assert.Equal(t, "FUNC new():", string(body))
}

func TestWriter_RemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	outputDir := filepath.Join(t.TempDir(), "digests")
	w, err := NewWriter(outputDir)
	require.NoError(t, err)

	require.NoError(t, w.Write("a.py", "FUNC a():"))
	require.NoError(t, w.Remove("a.py"))
	require.NoError(t, w.Remove("a.py"))

	_, err = os.Stat(filepath.Join(outputDir, "a.py.toon"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewWriter_ClearsStaleTempFiles(t *testing.T) {
	t.Parallel()

	outputDir := filepath.Join(t.TempDir(), "digests")
	tempDir := filepath.Join(outputDir, ".tmp")
	require.NoError(t, os.MkdirAll(tempDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "stale.toon"), []byte("x"), 0644))

	_, err := NewWriter(outputDir)
	require.NoError(t, err)

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
