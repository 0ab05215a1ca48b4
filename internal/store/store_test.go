package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "toon.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_GetMissingReturnsNil(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	d, err := s.Get("nope.py")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestStore_UpsertRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	want := &FileDigest{
		Path:        "pkg/app.py",
		ContentHash: "abc123",
		ItemCount:   3,
		Digest:      "CLS App:\n  MTHD run(self:?):\nVAR LIMIT: int",
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.Upsert(want))

	got, err := s.Get("pkg/app.py")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ContentHash, got.ContentHash)
	assert.Equal(t, want.ItemCount, got.ItemCount)
	assert.Equal(t, want.Digest, got.Digest)
}

func TestStore_UpsertReplacesExisting(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	first := &FileDigest{Path: "a.py", ContentHash: "h1", ItemCount: 1, Digest: "FUNC a():", UpdatedAt: time.Now().UTC()}
	require.NoError(t, s.Upsert(first))

	second := &FileDigest{Path: "a.py", ContentHash: "h2", ItemCount: 2, Digest: "FUNC a():\nFUNC b():", UpdatedAt: time.Now().UTC()}
	require.NoError(t, s.Upsert(second))

	got, err := s.Get("a.py")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "h2", got.ContentHash)
	assert.Equal(t, 2, got.ItemCount)

	all, err := s.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	require.NoError(t, s.Upsert(&FileDigest{Path: "a.py", ContentHash: "h", ItemCount: 0, Digest: "", UpdatedAt: time.Now().UTC()}))
	require.NoError(t, s.Delete("a.py"))
	require.NoError(t, s.Delete("a.py"))

	d, err := s.Get("a.py")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestStore_ListOrderedByPath(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	for _, path := range []string{"z.py", "a.py", "m/mid.py"} {
		require.NoError(t, s.Upsert(&FileDigest{Path: path, ContentHash: "h", ItemCount: 0, Digest: "", UpdatedAt: time.Now().UTC()}))
	}

	all, err := s.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a.py", all[0].Path)
	assert.Equal(t, "m/mid.py", all[1].Path)
	assert.Equal(t, "z.py", all[2].Path)
}

func TestStore_RunsRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	latest, err := s.LatestRun()
	require.NoError(t, err)
	assert.Nil(t, latest)

	started := time.Now().UTC().Add(-time.Second)
	run := &Run{
		ID:            uuid.NewString(),
		StartedAt:     started,
		FinishedAt:    time.Now().UTC(),
		FilesSeen:     10,
		FilesDigested: 4,
		ItemsFound:    37,
	}
	require.NoError(t, s.RecordRun(run))

	latest, err = s.LatestRun()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)
	assert.Equal(t, 4, latest.FilesDigested)
	assert.Equal(t, 37, latest.ItemsFound)
}
