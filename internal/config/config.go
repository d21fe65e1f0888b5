package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"

	"github.com/nao1215/vaultlinks/internal/params"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "vaultlinks"

	// DefaultLanguage is the collation language for name sorting.
	DefaultLanguage = "en"

	// DefaultDebounce is the coalescing window of the watch command.
	// Editors often write a file several times when saving, so a window
	// shorter than a few hundred milliseconds re-renders needlessly.
	DefaultDebounce = 500 * time.Millisecond

	// DefaultCacheSize is the number of parsed notes kept in memory.
	DefaultCacheSize = 4096

	// DefaultConcurrency is the number of documents rendered at once.
	DefaultConcurrency = 4
)

// Config holds all configuration options for vaultlinks.
// It is populated from CLI flags, the configuration file and the
// environment, then passed through the application.
type Config struct {
	// Vault is the root directory of the vault.
	Vault string

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Language is the BCP 47 tag selecting the collation of names.
	Language string

	// Debounce is the coalescing window of the watch command.
	Debounce time.Duration

	// CacheSize is the capacity of the parsed-link cache.
	CacheSize int

	// Concurrency is the number of documents rendered at once.
	Concurrency int

	// History enables archiving of completed runs.
	History bool

	// HistoryDir is the directory of the run history database.
	// Defaults to the XDG data directory (~/.local/share/vaultlinks on Linux).
	HistoryDir string

	// IgnoreDirs are directory names or vault-relative paths that are
	// never scanned. Hidden directories are always skipped.
	IgnoreDirs []string

	// Defaults are parameter values applied before those of a block.
	Defaults params.Raw

	// ActiveFile is the vault-relative path of the note being analyzed.
	ActiveFile string

	// Line is the 1-based insertion line. Zero appends; it is only used
	// together with ActiveFile.
	Line int

	// Insert writes the table into ActiveFile instead of printing it.
	Insert bool

	// ParamsFile is a file holding a parameter block.
	ParamsFile string

	// Set holds key=value parameter overrides.
	Set []string

	// HTML renders an HTML table instead of Markdown.
	HTML bool

	// Output is the file the table is written to. Empty means stdout.
	Output string

	// Clipboard also copies the table to the system clipboard.
	Clipboard bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Language:    DefaultLanguage,
		Debounce:    DefaultDebounce,
		CacheSize:   DefaultCacheSize,
		Concurrency: DefaultConcurrency,
		History:     true,
		HistoryDir:  XDGDataDir(),
		Defaults:    params.Raw{},
	}
}

// XDGDataDir returns the XDG data directory for vaultlinks.
// On Linux: ~/.local/share/vaultlinks
// On macOS: ~/Library/Application Support/vaultlinks
// On Windows: %LOCALAPPDATA%\vaultlinks
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for vaultlinks.
// On Linux: ~/.config/vaultlinks
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the user-wide configuration file path.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}

// LanguageTag parses Language. An empty language means DefaultLanguage.
func (c *Config) LanguageTag() (language.Tag, error) {
	lang := c.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und, ErrInvalidLanguage
	}
	return tag, nil
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Vault == "" {
		return ErrNoVault
	}

	if c.Debounce <= 0 {
		return ErrInvalidDebounce
	}

	if c.CacheSize <= 0 {
		return ErrInvalidCacheSize
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.Line < 0 {
		return ErrInvalidLine
	}

	if (c.Insert || c.Line > 0) && c.ActiveFile == "" {
		return ErrLineWithoutFile
	}

	if _, err := c.LanguageTag(); err != nil {
		return err
	}

	return nil
}
