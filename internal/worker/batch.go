package worker

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jiayuchou/prdgen/internal/model"
	"github.com/jiayuchou/prdgen/internal/pipeline"
)

// Analyzer defines the interface for converting one transcript file
type Analyzer interface {
	ProcessFile(path, nameOverride string) (*pipeline.Result, error)
}

// AnalyzeJob represents one transcript conversion job
type AnalyzeJob struct {
	Path     string
	Analyzer Analyzer
}

// Execute executes the conversion job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	// Skip work queued behind a cancelled batch
	if err := ctx.Err(); err != nil {
		return &AnalyzeResult{Path: j.Path, Error: err}
	}

	result, err := j.Analyzer.ProcessFile(j.Path, "")
	if err != nil {
		return &AnalyzeResult{Path: j.Path, Error: err}
	}
	return &AnalyzeResult{
		Path:      j.Path,
		Document:  result.Document,
		FromCache: result.FromCache,
	}
}

// AnalyzeResult represents the result of one transcript conversion
type AnalyzeResult struct {
	Path      string
	Document  *model.Document
	FromCache bool
	Error     error
}

// GetError returns the error from the conversion
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor converts multiple transcripts concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessPaths converts the given transcripts concurrently. Cancelling ctx
// shuts the pool down; jobs not yet started come back with the context error.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AnalyzeResult {
	if len(paths) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for _, path := range paths {
		pool.Submit(&AnalyzeJob{
			Path:     path,
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()
	close(done)

	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}

	return analyzeResults
}

// ProcessManifest converts the transcripts listed in a manifest file.
func (b *BatchProcessor) ProcessManifest(ctx context.Context, manifestPath string) ([]*AnalyzeResult, error) {
	paths, err := ReadPathsFromFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ProcessDir converts every transcript under dir whose file name matches
// pattern.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir, pattern string) ([]*AnalyzeResult, error) {
	paths, err := CollectTranscripts(dir, pattern)
	if err != nil {
		return nil, err
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads transcript paths from a manifest (one per line)
func ReadPathsFromFile(manifestPath string) ([]string, error) {
	file, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate paths
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// CollectTranscripts walks dir recursively and returns the files whose base
// name matches pattern, sorted so batch output order is stable across runs.
func CollectTranscripts(dir, pattern string) ([]string, error) {
	// Surface a malformed pattern before the walk, not on the first file.
	if _, err := filepath.Match(pattern, "probe"); err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}

	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}
