package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jiayuchou/prdgen/internal/pipeline"
	"github.com/jiayuchou/prdgen/internal/worker"
)

var (
	watchOutputDir   string
	watchPattern     string
	watchDebounce    time.Duration
	watchMinInterval time.Duration
	watchNoFooter    bool
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and regenerate documents on change",
	Long: `Watch a directory for transcript changes and keep the generated
documents current:
- Regenerate when a matching transcript is created or written
- Coalesce editor save bursts with a debounce window
- Floor per-transcript regeneration at --min-interval

Subdirectories are not watched. Stop with Ctrl-C.

Example:
  prdgen watch ./conversations
  prdgen watch ./conversations --pattern "*.html" --output-dir ./docs`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchOutputDir, "output-dir", "./prdgen-docs", "output directory for documents")
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "*.txt", "filename pattern for transcripts")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "quiet window before regenerating")
	watchCmd.Flags().DurationVar(&watchMinInterval, "min-interval", 1*time.Second, "minimum interval between regenerations of one transcript")
	watchCmd.Flags().BoolVar(&watchNoFooter, "no-footer", false, "disable footer in Markdown documents")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if _, err := filepath.Match(watchPattern, "probe"); err != nil {
		return fmt.Errorf("bad pattern %q: %w", watchPattern, err)
	}

	// Build configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Watch.Debounce = watchDebounce
	cfg.Watch.MinInterval = watchMinInterval
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !watchNoFooter

	if err := os.MkdirAll(watchOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.NewPipeline(cfg)
	throttle := worker.NewThrottle(cfg.Watch.MinInterval)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  prdgen Watch Mode\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Directory:    %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Pattern:      %s\n", watchPattern)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", watchOutputDir)
	fmt.Fprintf(os.Stderr, "  Debounce:     %v\n", cfg.Watch.Debounce)
	fmt.Fprintf(os.Stderr, "  Min interval: %v\n", cfg.Watch.MinInterval)
	fmt.Fprintf(os.Stderr, "\n")

	// Bring existing transcripts up to date before tailing events
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	initial := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if match, _ := filepath.Match(watchPattern, entry.Name()); !match {
			continue
		}
		regenerate(ctx, p, throttle, filepath.Join(dir, entry.Name()))
		initial++
	}
	fmt.Fprintf(os.Stderr, "⚙️  Initial pass complete (%d transcripts), watching for changes...\n", initial)
	fmt.Fprintf(os.Stderr, "\n")

	// Events are coalesced per path: the debounce timer restarts on every
	// matching event and the pending set flushes when it fires.
	pending := make(map[string]struct{})
	debounce := time.NewTimer(cfg.Watch.Debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(os.Stderr, "\n✓ Stopped watching %s\n", dir)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if match, _ := filepath.Match(watchPattern, filepath.Base(event.Name)); !match {
				continue
			}
			pending[event.Name] = struct{}{}
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(cfg.Watch.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "✗ watch error: %v\n", err)

		case <-debounce.C:
			for path := range pending {
				regenerate(ctx, p, throttle, path)
			}
			pending = make(map[string]struct{})
		}
	}
}

// regenerate reprocesses one transcript and rewrites its Markdown document.
// Failures are reported and skipped so one bad transcript cannot stop the
// watch loop.
func regenerate(ctx context.Context, p *pipeline.Pipeline, throttle *worker.Throttle, path string) {
	if err := throttle.Wait(ctx, path); err != nil {
		return
	}

	res, err := p.ProcessFile(path, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %s: %v\n", path, err)
		return
	}

	base := filepath.Base(path)
	slug := sanitizeFilename(strings.TrimSuffix(base, filepath.Ext(base)))
	mdPath := filepath.Join(watchOutputDir, slug+".md")

	if err := p.RenderDocument(res.Document, "", mdPath, false); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %s: failed to write document: %v\n", path, err)
		return
	}

	fmt.Fprintf(os.Stderr, "✓ %s → %s (%d requirements)\n", path, mdPath, res.Document.RequirementCount())
}
