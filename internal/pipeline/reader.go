package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Sentinel errors for the two failure kinds callers are expected to
// distinguish. Anything else is wrapped with file context.
var (
	ErrNotFound = errors.New("transcript not found")
	ErrNotUTF8  = errors.New("transcript is not valid UTF-8")
)

// Reader loads conversation transcripts from named files. Plain text files
// are returned verbatim; .html/.htm transcripts (chat exports) are flattened
// to their visible text first.
type Reader struct {
	maxBytes int64
}

// NewReader creates a Reader that reads at most maxBytes per transcript.
func NewReader(maxBytes int64) *Reader {
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	return &Reader{maxBytes: maxBytes}
}

// Read returns the transcript text at path. Missing files report ErrNotFound,
// non-UTF-8 content reports ErrNotUTF8; both wrap the path for display.
func (r *Reader) Read(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("open transcript: %w", err)
	}
	defer func() { _ = f.Close() }()

	// Read with a size limit so a runaway input cannot exhaust memory.
	data, err := io.ReadAll(io.LimitReader(f, r.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	// Hitting the cap can tear a multi-byte rune; drop the torn tail
	// rather than failing validation on our own truncation.
	if int64(len(data)) == r.maxBytes {
		for i := 0; i < utf8.UTFMax-1 && !utf8.Valid(data); i++ {
			data = data[:len(data)-1]
		}
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotUTF8, path)
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return flattenHTML(text)
	default:
		return text, nil
	}
}

// flattenHTML reduces an HTML chat export to its visible text so the
// extractors see the same prose a reader would.
func flattenHTML(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse html transcript: %w", err)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString("\n")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return buf.String(), nil
}
