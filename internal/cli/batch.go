package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jiayuchou/prdgen/internal/pipeline"
	"github.com/jiayuchou/prdgen/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
	batchPattern     string
	batchWithJSON    bool
	batchNoCache     bool
	batchNoFooter    bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|manifest>",
	Short: "Generate documents for many transcripts in parallel",
	Long: `Batch processes multiple conversation transcripts concurrently:
- Walk a directory for transcripts matching --pattern, or
- Read transcript paths from a manifest file (one per line, # comments)
- Process transcripts in parallel with configurable worker count
- Write one requirement document per transcript

Example:
  prdgen batch ./conversations
  prdgen batch ./conversations --pattern "*.html" --with-json
  prdgen batch transcripts.txt --concurrency 4 --output-dir ./docs`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./prdgen-docs", "output directory for documents")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchPattern, "pattern", "*.txt", "filename pattern for directory mode")

	// Inherit flags from generate command
	batchCmd.Flags().BoolVar(&batchWithJSON, "with-json", false, "write a JSON document next to each Markdown one")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "disable cache (force fresh analysis)")
	batchCmd.Flags().BoolVar(&batchNoFooter, "no-footer", false, "disable footer in Markdown documents")
}

func runBatch(cmd *cobra.Command, args []string) error {
	target := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  prdgen Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", target)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", batchConcurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", batchOutputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	// Build configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = !batchNoCache
	cfg.Concurrency.Workers = batchConcurrency
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !batchNoFooter

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	// Create output directory
	if err := os.MkdirAll(batchOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create pipeline
	p := pipeline.NewPipeline(cfg)

	// Create batch processor
	processor := worker.NewBatchProcessor(p, batchConcurrency)

	// Collect and process transcripts
	var results []*worker.AnalyzeResult
	if info.IsDir() {
		fmt.Fprintf(os.Stderr, "⚙️  Collecting transcripts matching %q...\n", batchPattern)
		results, err = processor.ProcessDir(ctx, target, batchPattern)
	} else {
		fmt.Fprintf(os.Stderr, "⚙️  Reading transcript paths from manifest...\n")
		results, err = processor.ProcessManifest(ctx, target)
	}
	if err != nil {
		return fmt.Errorf("process batch: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Processed %d transcripts with %d workers\n", len(results), batchConcurrency)
	fmt.Fprintf(os.Stderr, "\n")

	// Process results
	successCount := 0
	failureCount := 0
	cacheHits := 0
	used := make(map[string]int)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		// Generate output file names
		slug := outputSlug(result.Path, used)
		mdPath := filepath.Join(batchOutputDir, slug+".md")
		jsonPath := ""
		if batchWithJSON {
			jsonPath = filepath.Join(batchOutputDir, slug+".json")
		}

		if err := p.RenderDocument(result.Document, jsonPath, mdPath, false); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write document: %v\n", result.Path, err)
			continue
		}

		successCount++
		note := ""
		if result.FromCache {
			cacheHits++
			note = ", cached"
		}
		fmt.Fprintf(os.Stderr, "✓ %s → %s (%d requirements%s)\n", result.Path, mdPath, result.Document.RequirementCount(), note)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:      %d transcripts\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:    %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:   %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Cache hits: %d\n", cacheHits)
	fmt.Fprintf(os.Stderr, "  Output:     %s\n", batchOutputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// outputSlug derives the output filename stem for a transcript path.
// Repeated stems (same basename in different directories) get a numeric
// suffix so one batch never overwrites its own output.
func outputSlug(path string, used map[string]int) string {
	base := filepath.Base(path)
	slug := sanitizeFilename(strings.TrimSuffix(base, filepath.Ext(base)))

	used[slug]++
	if n := used[slug]; n > 1 {
		slug = fmt.Sprintf("%s-%d", slug, n)
	}

	return slug
}

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	// Limit length in runes so multibyte names are not cut mid-character
	if runes := []rune(s); len(runes) > 100 {
		s = string(runes[:100])
	}
	if s == "" {
		s = "transcript"
	}

	return s
}
