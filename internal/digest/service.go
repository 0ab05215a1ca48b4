// Package digest orchestrates one digest run: discover Python files,
// parse each, summarize it into TOON lines, and persist the result to
// the digest store and the output tree. Summaries are memoized by
// content hash, so identical content is never summarized twice.
package digest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/maypok86/otter"

	"github.com/toonlab/toon/internal/config"
	"github.com/toonlab/toon/internal/discovery"
	"github.com/toonlab/toon/internal/parser"
	"github.com/toonlab/toon/internal/store"
	"github.com/toonlab/toon/internal/toon"
	"github.com/toonlab/toon/internal/watcher"
)

// memoCapacity bounds the in-memory summary cache.
const memoCapacity = 4096

// memoEntry is a summarized file keyed by its content hash.
type memoEntry struct {
	digest string
	items  int
}

// Result describes one digested file.
type Result struct {
	Path      string // relative, slash separated
	ItemCount int
	Digest    string
	Changed   bool // false when the stored digest was already current
}

// RunStats summarizes one digest run.
type RunStats struct {
	RunID                 string
	FilesSeen             int
	FilesDigested         int
	ItemsFound            int
	ProcessingTimeSeconds float64
}

// Service digests a project tree.
type Service struct {
	rootDir      string
	cfg          *config.Config
	parser       *parser.PythonParser
	store        *store.Store
	writer       *Writer // nil when file output is disabled
	memo         otter.Cache[string, memoEntry]
	noFileOutput bool
}

// Option configures a Service.
type Option func(*Service)

// WithoutFileOutput disables writing digest files under the output
// directory. Digests are still computed and stored in the database, so
// consumers reading from the store see the same results.
func WithoutFileOutput() Option {
	return func(s *Service) { s.noFileOutput = true }
}

// NewService creates a digest service for the project at rootDir.
func NewService(rootDir string, cfg *config.Config, opts ...Option) (*Service, error) {
	st, err := store.Open(filepath.Join(rootDir, filepath.FromSlash(cfg.Output.StorePath)))
	if err != nil {
		return nil, fmt.Errorf("failed to open digest store: %w", err)
	}

	memo, err := otter.MustBuilder[string, memoEntry](memoCapacity).Build()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to build summary cache: %w", err)
	}

	s := &Service{
		rootDir: rootDir,
		cfg:     cfg,
		parser:  parser.NewPythonParser(),
		store:   st,
		memo:    memo,
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.noFileOutput {
		s.writer, err = NewWriter(filepath.Join(rootDir, filepath.FromSlash(cfg.Output.Dir)))
		if err != nil {
			s.memo.Close()
			st.Close()
			return nil, err
		}
	}

	return s, nil
}

// Close releases the store and cache.
func (s *Service) Close() error {
	s.memo.Close()
	return s.store.Close()
}

// Store exposes the digest store for read-side consumers (MCP server).
func (s *Service) Store() *store.Store {
	return s.store
}

// DigestFile digests a single file identified by its slash-separated
// path relative to the project root. Unchanged content (same hash as
// the stored row) is returned without re-parsing or rewriting.
func (s *Service) DigestFile(ctx context.Context, relPath string) (*Result, error) {
	absPath := filepath.Join(s.rootDir, filepath.FromSlash(relPath))
	source, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(source)
	hash := hex.EncodeToString(sum[:])

	prior, err := s.store.Get(relPath)
	if err != nil {
		return nil, err
	}
	if prior != nil && prior.ContentHash == hash {
		return &Result{Path: relPath, ItemCount: prior.ItemCount, Digest: prior.Digest, Changed: false}, nil
	}

	entry, err := s.summarize(ctx, hash, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", relPath, err)
	}

	if err := s.store.Upsert(&store.FileDigest{
		Path:        relPath,
		ContentHash: hash,
		ItemCount:   entry.items,
		Digest:      entry.digest,
		UpdatedAt:   time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	if s.writer != nil {
		if err := s.writer.Write(relPath, entry.digest); err != nil {
			return nil, err
		}
	}

	return &Result{Path: relPath, ItemCount: entry.items, Digest: entry.digest, Changed: true}, nil
}

// summarize parses and walks source, memoizing by content hash.
func (s *Service) summarize(ctx context.Context, hash string, source []byte) (memoEntry, error) {
	if entry, ok := s.memo.Get(hash); ok {
		return entry, nil
	}

	tree, err := s.parser.Parse(ctx, source)
	if err != nil {
		return memoEntry{}, err
	}
	defer tree.Close()

	summary := toon.Summarize(tree.RootNode(), source)
	entry := memoEntry{digest: summary.Text(), items: summary.ItemsFound}
	s.memo.Set(hash, entry)
	return entry, nil
}

// Run digests every discovered file once and records the run.
func (s *Service) Run(ctx context.Context, progress ProgressReporter) (*RunStats, error) {
	if progress == nil {
		progress = NoopProgress()
	}

	start := time.Now()

	progress.OnDiscoveryStart()
	fd, err := discovery.New(s.rootDir, s.cfg.Paths.Source, s.cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to build file discovery: %w", err)
	}
	files, err := fd.Discover()
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	progress.OnDiscoveryComplete(len(files))

	stats := &RunStats{RunID: uuid.NewString(), FilesSeen: len(files)}

	progress.OnFileProcessingStart(len(files))
	for _, relPath := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := s.DigestFile(ctx, relPath)
		if err != nil {
			return nil, err
		}

		if result.Changed {
			stats.FilesDigested++
		}
		stats.ItemsFound += result.ItemCount
		progress.OnFileProcessed(relPath, result.Changed)
	}

	stats.ProcessingTimeSeconds = time.Since(start).Seconds()

	if err := s.store.RecordRun(&store.Run{
		ID:            stats.RunID,
		StartedAt:     start.UTC(),
		FinishedAt:    time.Now().UTC(),
		FilesSeen:     stats.FilesSeen,
		FilesDigested: stats.FilesDigested,
		ItemsFound:    stats.ItemsFound,
	}); err != nil {
		return nil, err
	}

	progress.OnComplete(stats)
	return stats, nil
}

// Watch re-digests changed files until ctx is cancelled. Deleted files
// have their digest row and output file removed.
func (s *Service) Watch(ctx context.Context) error {
	fd, err := discovery.New(s.rootDir, s.cfg.Paths.Source, s.cfg.Paths.Ignore)
	if err != nil {
		return fmt.Errorf("failed to build file discovery: %w", err)
	}

	debounce := time.Duration(s.cfg.Watch.DebounceMillis) * time.Millisecond
	w, err := watcher.New(s.rootDir, []string{".py"}, debounce)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Stop()

	err = w.Start(ctx, func(files []string) {
		for _, absPath := range files {
			relPath, err := filepath.Rel(s.rootDir, absPath)
			if err != nil {
				continue
			}
			relPath = filepath.ToSlash(relPath)
			if !fd.Matches(relPath) {
				continue
			}

			if _, statErr := os.Stat(absPath); os.IsNotExist(statErr) {
				if err := s.store.Delete(relPath); err != nil {
					fmt.Fprintf(os.Stderr, "toon: %v\n", err)
				}
				if s.writer != nil {
					if err := s.writer.Remove(relPath); err != nil {
						fmt.Fprintf(os.Stderr, "toon: %v\n", err)
					}
				}
				continue
			}

			if _, err := s.DigestFile(ctx, relPath); err != nil {
				fmt.Fprintf(os.Stderr, "toon: digest %s: %v\n", relPath, err)
			}
		}
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	return ctx.Err()
}
