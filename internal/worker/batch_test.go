package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jiayuchou/prdgen/internal/model"
	"github.com/jiayuchou/prdgen/internal/pipeline"
)

// mockAnalyzer implements Analyzer
type mockAnalyzer struct {
	shouldError bool
}

func (m *mockAnalyzer) ProcessFile(path, nameOverride string) (*pipeline.Result, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.shouldError {
		return nil, errors.New("conversion error")
	}
	return &pipeline.Result{
		Document: &model.Document{ProjectName: filepath.Base(path)},
	}, nil
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2)

	paths := []string{"a.txt", "b.txt", "c.txt"}
	results := processor.ProcessPaths(context.Background(), paths)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
			continue
		}
		if res.Document == nil {
			t.Errorf("expected document for %s", res.Path)
		}
	}
}

func TestBatchProcessor_ProcessPaths_Error(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{shouldError: true}, 2)

	results := processor.ProcessPaths(context.Background(), []string{"a.txt"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Document != nil {
		t.Error("expected nil document on error")
	}
}

func TestBatchProcessor_ProcessPaths_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2)

	results := processor.ProcessPaths(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessPaths_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&mockAnalyzer{}, 1)

	// Must return without hanging; jobs the pool never ran are simply
	// absent from the results.
	done := make(chan []*AnalyzeResult, 1)
	go func() {
		done <- processor.ProcessPaths(ctx, []string{"a.txt", "b.txt", "c.txt"})
	}()

	select {
	case results := <-done:
		if len(results) > 3 {
			t.Errorf("expected at most 3 results, got %d", len(results))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ProcessPaths did not return after cancellation")
	}
}

func TestReadPathsFromFile(t *testing.T) {
	content := `chats/alpha.txt
# comment
chats/beta.txt

chats/gamma.txt   `

	tmpfile, err := os.CreateTemp("", "manifest")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadPathsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	expected := []string{"chats/alpha.txt", "chats/beta.txt", "chats/gamma.txt"}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d", len(expected), len(paths))
	}

	for i, path := range paths {
		if path != expected[i] {
			t.Errorf("expected path %s at index %d, got %s", expected[i], i, path)
		}
	}
}

func TestReadPathsFromFile_Deduplication(t *testing.T) {
	content := `chats/alpha.txt
chats/alpha.txt`

	tmpfile, err := os.CreateTemp("", "manifest_dedup")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadPathsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	if len(paths) != 1 {
		t.Errorf("expected 1 path after deduplication, got %d", len(paths))
	}
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	_, err := ReadPathsFromFile("non_existent_manifest.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestAnalyzeResult_GetError(t *testing.T) {
	r1 := &AnalyzeResult{Path: "a.txt", Error: nil}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("conversion failed")
	r2 := &AnalyzeResult{Path: "a.txt", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessManifest(t *testing.T) {
	content := "one.txt\ntwo.txt\n# comment\n\nthree.txt\n"

	tmpfile, err := os.CreateTemp("", "batch_manifest")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&mockAnalyzer{}, 2)

	results, err := processor.ProcessManifest(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessManifest failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessManifest_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2)

	_, err := processor.ProcessManifest(context.Background(), "no_such_manifest.txt")
	if err == nil {
		t.Error("expected error for non-existent manifest, got nil")
	}
}

func TestCollectTranscripts(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "a.txt"),
		filepath.Join(sub, "c.txt"),
		filepath.Join(dir, "notes.md"),
	} {
		if err := os.WriteFile(name, []byte("用户需要登录注册功能。"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := CollectTranscripts(dir, "*.txt")
	if err != nil {
		t.Fatalf("CollectTranscripts failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(sub, "c.txt"),
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d transcripts, got %d: %v", len(want), len(paths), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("expected %s at index %d, got %s", want[i], i, paths[i])
		}
	}
}

func TestCollectTranscripts_BadPattern(t *testing.T) {
	_, err := CollectTranscripts(t.TempDir(), "[")
	if err == nil {
		t.Error("expected error for malformed pattern, got nil")
	}
}
