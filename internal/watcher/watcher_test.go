package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsChangedFiles(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()

	w, err := New(rootDir, []string{".py"}, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	var got []string
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, func(files []string) {
		mu.Lock()
		got = append(got, files...)
		mu.Unlock()
	}))

	path := filepath.Join(rootDir, "app.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, f := range got {
			if f == path {
				return true
			}
		}
		return false
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()

	w, err := New(rootDir, []string{".py"}, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	fired := false
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, func(files []string) {
		mu.Lock()
		fired = true
		mu.Unlock()
	}))

	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "notes.txt"), []byte("hi"), 0644))

	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, fired)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir(), []string{".py"}, 50*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background(), func([]string) {}))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir(), []string{".py"}, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
}
