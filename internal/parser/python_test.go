package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPythonParser_Parse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewPythonParser()

	tree, err := p.Parse(ctx, []byte("def hello():\n    pass\n"))

	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "module", root.Kind())
	require.Equal(t, uint(1), root.NamedChildCount())
	assert.Equal(t, "function_definition", root.NamedChild(0).Kind())
}

func TestPythonParser_ParseEmptySource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewPythonParser()

	tree, err := p.Parse(ctx, []byte(""))

	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	assert.Equal(t, uint(0), tree.RootNode().NamedChildCount())
}

func TestPythonParser_ParseFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewPythonParser()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sample.py")
	content := "class Greeter:\n    def greet(self):\n        pass\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tree, source, err := p.ParseFile(ctx, path)

	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	assert.Equal(t, []byte(content), source)
	assert.Equal(t, "class_definition", tree.RootNode().NamedChild(0).Kind())
}

func TestPythonParser_ParseFileMissing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewPythonParser()

	tree, source, err := p.ParseFile(ctx, filepath.Join(t.TempDir(), "nope.py"))

	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
	assert.Nil(t, tree)
	assert.Nil(t, source)
}
