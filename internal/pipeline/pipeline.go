package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jiayuchou/prdgen/internal/cache"
	"github.com/jiayuchou/prdgen/internal/classify"
	"github.com/jiayuchou/prdgen/internal/extract"
	"github.com/jiayuchou/prdgen/internal/model"
	"github.com/jiayuchou/prdgen/internal/rules"
)

// nowFunc returns the time stamped onto generated documents. Tests swap it
// to pin the creation date.
var nowFunc = time.Now

// Pipeline orchestrates the complete generation process
type Pipeline struct {
	reader       *Reader
	projects     *extract.ProjectExtractor
	requirements *extract.RequirementExtractor
	renderer     *Renderer
	store        cache.Cache // Optional document cache (nil if disabled)
	fingerprint  string
	config       *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	// Extend the built-in library with user patterns if configured
	library := rules.DefaultLibrary()
	if len(cfg.Rules.ExtraPatterns) > 0 {
		if err := library.Extend(cfg.Rules.ExtraPatterns); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: ignoring extra patterns: %v\n", err)
			library = rules.DefaultLibrary()
		}
	}

	classifier := classify.NewClassifierWithExtras(
		cfg.Rules.ExtraHighKeywords,
		cfg.Rules.ExtraMediumKeywords,
	)

	// Create document cache if configured
	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		reader:       NewReader(cfg.Input.MaxBytes),
		projects:     extract.NewProjectExtractor(library),
		requirements: extract.NewRequirementExtractor(library, classifier),
		renderer:     NewRenderer(cfg.Output.IncludeFooter),
		store:        store,
		fingerprint:  configFingerprint(cfg),
		config:       cfg,
	}
}

// Result contains the document one conversion produced
type Result struct {
	Document  *model.Document
	FromCache bool
}

// ProcessText converts conversation text into a requirements document. It
// accepts any string, including the empty string, and always produces a
// well-formed document. A non-empty nameOverride replaces the extracted
// project name.
func (p *Pipeline) ProcessText(text, nameOverride string) *Result {
	// 1. Extract project metadata
	info := p.projects.Extract(text)
	if nameOverride != "" {
		info.Name = nameOverride
	}

	// 2. Extract and classify requirements
	reqs := p.requirements.Extract(text)

	// 3. Assemble the document
	now := nowFunc()
	doc := &model.Document{
		ProjectName:               info.Name,
		Version:                   p.config.Document.Version,
		CreationDate:              now.Format("2006-01-02"),
		Overview:                  info.Overview,
		Objectives:                info.Objectives,
		TargetUsers:               info.TargetUsers,
		FunctionalRequirements:    reqs.Functional,
		NonFunctionalRequirements: reqs.NonFunctional,
		TechnicalRequirements:     reqs.Technical,
		Constraints:               p.config.Document.Constraints,
		Assumptions:               p.config.Document.Assumptions,
		GeneratedAt:               now.UTC(),
	}

	return &Result{Document: doc}
}

// ProcessFile reads a conversation transcript from disk and converts it.
// When a cache is configured, unchanged transcripts come back from it
// without re-running extraction.
func (p *Pipeline) ProcessFile(path, nameOverride string) (*Result, error) {
	// 1. Load transcript
	text, err := p.reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	// 2. Check document cache
	key := cache.Key(text, p.fingerprint, nameOverride)
	if p.store != nil {
		if data, found := p.store.Get(key); found {
			var doc model.Document
			if err := json.Unmarshal(data, &doc); err == nil {
				return &Result{Document: &doc, FromCache: true}, nil
			}
			// Corrupt entry, drop it and regenerate
			p.store.Delete(key)
		}
	}

	// 3. Convert
	result := p.ProcessText(text, nameOverride)

	// 4. Store in cache
	if p.store != nil {
		if data, err := json.Marshal(result.Document); err == nil {
			p.store.Set(key, data, 0) // Use default TTL
		}
	}

	return result, nil
}

// RenderDocument renders the document to the specified outputs
func (p *Pipeline) RenderDocument(doc *model.Document, jsonPath string, mdPath string, verbose bool) error {
	// Render Markdown
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(doc, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// Render JSON
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(doc, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	return nil
}

// Renderer exposes the pipeline's renderer for callers that print to stdout
// instead of writing files.
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// configFingerprint folds every configuration field that shapes extraction
// output into one string, so the cache key changes whenever the effective
// rules, keywords, or document boilerplate change.
func configFingerprint(cfg *model.Config) string {
	var b strings.Builder
	b.WriteString(cfg.Document.Version)
	for _, c := range cfg.Document.Constraints {
		b.WriteString("|c:")
		b.WriteString(c)
	}
	for _, a := range cfg.Document.Assumptions {
		b.WriteString("|a:")
		b.WriteString(a)
	}
	for _, pat := range cfg.Rules.ExtraPatterns {
		fmt.Fprintf(&b, "|p:%s:%s:%s", pat.Kind, pat.Lang, pat.Expr)
	}
	for _, k := range cfg.Rules.ExtraHighKeywords {
		b.WriteString("|h:")
		b.WriteString(k)
	}
	for _, k := range cfg.Rules.ExtraMediumKeywords {
		b.WriteString("|m:")
		b.WriteString(k)
	}
	return b.String()
}
