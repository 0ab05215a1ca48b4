package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toonlab/toon/internal/digest"
)

var (
	quietFlag  bool
	watchFlag  bool
	stdoutFlag bool
)

// digestCmd represents the digest command
var digestCmd = &cobra.Command{
	Use:   "digest [paths...]",
	Short: "Generate TOON digests for Python source files",
	Long: `Digest walks the project's Python files and writes one TOON digest per
source file: a compact, line-oriented summary of its functions,
methods, classes, and typed variables.

The digester:
  - Discovers Python files via the configured source and ignore globs
  - Parses each file and emits TOON lines for its declarations
  - Skips files whose content hash is unchanged since the last run
  - Stores digests in .toon/toon.db and writes them to .toon/digests/

Examples:
  # Digest the current directory
  toon digest

  # Digest specific files and print to stdout
  toon digest --stdout src/app/models.py

  # Digest with progress bars disabled
  toon digest --quiet

  # Watch for changes and re-digest incrementally
  toon digest --watch
`,
	RunE: runDigest,
}

func init() {
	rootCmd.AddCommand(digestCmd)
	digestCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	digestCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for file changes and re-digest incrementally")
	digestCmd.Flags().BoolVar(&stdoutFlag, "stdout", false, "Print digest bodies to stdout")
}

func runDigest(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling digest...")
		cancel()
	}()

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	// Load configuration from .toon/config.yml (or the --config file)
	cfg, err := loadProjectConfig(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// With --stdout, digests are printed instead of written to files.
	var opts []digest.Option
	if stdoutFlag {
		opts = append(opts, digest.WithoutFileOutput())
	}

	service, err := digest.NewService(rootDir, cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create digest service: %w", err)
	}
	defer service.Close()

	// Explicit paths digest just those files.
	if len(args) > 0 {
		return digestPaths(ctx, service, args)
	}

	progress := digest.NoopProgress()
	if !stdoutFlag {
		progress = NewCLIProgressReporter(quietFlag)
	}

	stats, err := service.Run(ctx, progress)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("digest cancelled")
		}
		return fmt.Errorf("digest failed: %w", err)
	}

	if stdoutFlag {
		if err := printDigests(service); err != nil {
			return err
		}
	}

	// Print summary (if not quiet, OnComplete already printed it)
	if quietFlag && !stdoutFlag {
		fmt.Printf("Digest complete: %d items across %d files in %.2fs\n",
			stats.ItemsFound, stats.FilesSeen, stats.ProcessingTimeSeconds)
	}

	if watchFlag {
		if !quietFlag {
			log.Println("Starting watch mode...")
		}

		// Blocks until cancelled.
		if err := service.Watch(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("watch mode failed: %w", err)
		}

		if !quietFlag {
			log.Println("Watch mode stopped")
		}
	}

	return nil
}

// digestPaths digests an explicit list of files.
func digestPaths(ctx context.Context, service *digest.Service, paths []string) error {
	for _, path := range paths {
		result, err := service.DigestFile(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to digest %s: %w", path, err)
		}

		if stdoutFlag {
			fmt.Printf("# %s\n%s\n", result.Path, result.Digest)
		} else if !quietFlag {
			fmt.Printf("%s: %d items\n", result.Path, result.ItemCount)
		}
	}
	return nil
}

// printDigests dumps every stored digest to stdout.
func printDigests(service *digest.Service) error {
	digests, err := service.Store().List()
	if err != nil {
		return fmt.Errorf("failed to list digests: %w", err)
	}
	for _, d := range digests {
		fmt.Printf("# %s\n%s\n", d.Path, d.Digest)
	}
	return nil
}
