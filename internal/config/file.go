package config

import (
	"time"

	"github.com/nao1215/vaultlinks/internal/params"
)

// File represents the structure of the .vaultlinks configuration file.
type File struct {
	// Vault is the vault root. A relative path is resolved against the
	// directory of the configuration file.
	Vault string `yaml:"vault,omitempty"`

	// Language is the collation language for name sorting.
	Language string `yaml:"language,omitempty"`

	// Debounce is the coalescing window of the watch command, e.g. "750ms".
	Debounce time.Duration `yaml:"debounce,omitempty"`

	// CacheSize is the capacity of the parsed-link cache.
	CacheSize int `yaml:"cacheSize,omitempty"`

	// Concurrency is the number of documents rendered at once.
	Concurrency int `yaml:"concurrency,omitempty"`

	// History enables archiving of completed runs. Nil keeps the default.
	History *bool `yaml:"history,omitempty"`

	// HistoryDir overrides the directory of the run history database.
	HistoryDir string `yaml:"historyDir,omitempty"`

	// IgnoreDirs are directory names or vault-relative paths to skip.
	IgnoreDirs []string `yaml:"ignoreDirs,omitempty"`

	// Defaults are parameter values applied before those of a block.
	// They are loosely typed here and validated with the block.
	Defaults map[string]any `yaml:"defaults,omitempty"`
}

// ApplyTo copies the values set in the file into cfg. Keys for which
// overridden reports true were set explicitly on the command line and
// keep the value already in cfg. The keys are the YAML names.
func (f *File) ApplyTo(cfg *Config, overridden func(key string) bool) {
	if overridden == nil {
		overridden = func(string) bool { return false }
	}

	if f.Vault != "" && !overridden("vault") {
		cfg.Vault = f.Vault
	}
	if f.Language != "" && !overridden("language") {
		cfg.Language = f.Language
	}
	if f.Debounce != 0 && !overridden("debounce") {
		cfg.Debounce = f.Debounce
	}
	if f.CacheSize != 0 && !overridden("cacheSize") {
		cfg.CacheSize = f.CacheSize
	}
	if f.Concurrency != 0 && !overridden("concurrency") {
		cfg.Concurrency = f.Concurrency
	}
	if f.History != nil && !overridden("history") {
		cfg.History = *f.History
	}
	if f.HistoryDir != "" && !overridden("historyDir") {
		cfg.HistoryDir = f.HistoryDir
	}
	if len(f.IgnoreDirs) > 0 {
		cfg.IgnoreDirs = append(cfg.IgnoreDirs, f.IgnoreDirs...)
	}
	if len(f.Defaults) > 0 {
		merged := params.Raw{}
		for k, v := range f.Defaults {
			merged[k] = v
		}
		for k, v := range cfg.Defaults {
			merged[k] = v
		}
		cfg.Defaults = merged
	}
}
