package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds the complete prdgen configuration.
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Rules       RulesConfig       `yaml:"rules"`
	Document    DocumentConfig    `yaml:"document"`
	Output      OutputConfig      `yaml:"output"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Watch       WatchConfig       `yaml:"watch"`
}

// InputConfig bounds transcript loading.
type InputConfig struct {
	// MaxBytes caps how much of a transcript file is read.
	MaxBytes int64 `yaml:"max_bytes"`
}

// RulesConfig carries user-supplied additions to the built-in pattern
// library and keyword lists. Extras are appended after the defaults, so
// built-in behavior is never removed by configuration.
type RulesConfig struct {
	ExtraPatterns       []PatternConfig `yaml:"extra_patterns"`
	ExtraHighKeywords   []string        `yaml:"extra_high_keywords"`
	ExtraMediumKeywords []string        `yaml:"extra_medium_keywords"`
}

// PatternConfig is one user-supplied match rule. Expr must compile and
// contain exactly one capture group holding the extracted phrase.
type PatternConfig struct {
	// Kind selects the rule set: functional, non_functional, technical,
	// objective, user, or name.
	Kind string `yaml:"kind"`
	// Lang is an informational language hint ("zh", "en").
	Lang string `yaml:"lang"`
	Expr string `yaml:"expr"`
}

// DocumentConfig controls the fixed parts of the generated document.
type DocumentConfig struct {
	Version     string   `yaml:"version"`
	Constraints []string `yaml:"constraints"`
	Assumptions []string `yaml:"assumptions"`
}

// OutputConfig controls rendering and CLI chatter.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// CacheConfig controls the content-addressed document cache used by batch
// mode.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// Debounce coalesces bursts of filesystem events into one regeneration.
	Debounce time.Duration `yaml:"debounce"`
	// MinInterval is the floor between consecutive regenerations.
	MinInterval time.Duration `yaml:"min_interval"`
}

// DefaultConfig returns the built-in defaults. The constraint and assumption
// lists reproduce the fixed boilerplate sections of the generated document
// and can be replaced wholesale via configuration.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			MaxBytes: 2_000_000,
		},
		Document: DocumentConfig{
			Version: "v1.0",
			Constraints: []string{
				"时间约束：根据项目进度安排",
				"预算约束：在预算范围内完成",
				"技术约束：使用现有技术栈",
			},
			Assumptions: []string{
				"用户具备基本的计算机使用能力",
				"系统运行环境稳定",
				"网络连接正常",
			},
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Watch: WatchConfig{
			Debounce:    200 * time.Millisecond,
			MinInterval: 1 * time.Second,
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "prdgen-cache")
	}
	return filepath.Join(home, ".prdgen", "cache")
}
