package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTranscript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReader_PlainText(t *testing.T) {
	const content = "用户需要能够在线观看视频课程。\nsecond line"
	path := writeTranscript(t, "chat.txt", content)

	got, err := NewReader(0).Read(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != content {
		t.Errorf("Expected transcript returned verbatim, got %q", got)
	}
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewReader(0).Read(filepath.Join(t.TempDir(), "absent.txt"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestReader_CapsOversizeInput(t *testing.T) {
	path := writeTranscript(t, "big.txt", strings.Repeat("a", 40))

	got, err := NewReader(10).Read(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != strings.Repeat("a", 10) {
		t.Errorf("Expected first 10 bytes, got %q", got)
	}
}

func TestReader_TrimsRuneTornByCap(t *testing.T) {
	// 商 is three bytes; a five-byte cap cuts it in half.
	path := writeTranscript(t, "torn.txt", "abc商城")

	got, err := NewReader(5).Read(path)
	if err != nil {
		t.Fatalf("Expected torn rune to be dropped, got error %v", err)
	}
	if got != "abc" {
		t.Errorf("Expected %q, got %q", "abc", got)
	}
}

func TestReader_RejectsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.txt")
	if err := os.WriteFile(path, []byte{0x41, 0xff, 0xfe, 0x42}, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := NewReader(0).Read(path)
	if !errors.Is(err, ErrNotUTF8) {
		t.Errorf("Expected ErrNotUTF8, got %v", err)
	}
}

func TestReader_FlattensHTML(t *testing.T) {
	const page = `<html><head><style>body{color:red}</style></head>` +
		`<body><p>用户需要能够在线观看视频课程。</p>` +
		`<script>alert("skip me")</script>` +
		`<div>系统必须支持至少1000个并发用户。</div></body></html>`
	path := writeTranscript(t, "export.html", page)

	got, err := NewReader(0).Read(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(got, "用户需要能够在线观看视频课程。") {
		t.Errorf("Expected paragraph text kept, got %q", got)
	}
	if !strings.Contains(got, "系统必须支持至少1000个并发用户。") {
		t.Errorf("Expected div text kept, got %q", got)
	}
	if strings.Contains(got, "alert") {
		t.Errorf("Expected script content skipped, got %q", got)
	}
	if strings.Contains(got, "color:red") {
		t.Errorf("Expected style content skipped, got %q", got)
	}
	// Each text node lands on its own line so sentence splitting still works.
	if !strings.Contains(got, "视频课程。\n") {
		t.Errorf("Expected newline after each text node, got %q", got)
	}
}

func TestReader_HTMLExtensionCaseInsensitive(t *testing.T) {
	path := writeTranscript(t, "export.HTM", "<p>目标用户是企业培训师。</p>")

	got, err := NewReader(0).Read(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != "目标用户是企业培训师。\n" {
		t.Errorf("Expected flattened text, got %q", got)
	}
}
