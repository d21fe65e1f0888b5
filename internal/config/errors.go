package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so that callers can use
// errors.Is() while users still get a readable message.
var (
	// ErrNoVault is returned when neither --vault, VAULTLINKS_VAULT nor the
	// configuration file names a vault directory.
	ErrNoVault = errors.New("no vault specified: use --vault, VAULTLINKS_VAULT or the vault key of .vaultlinks")

	// ErrInvalidDebounce is returned when the debounce window is not positive.
	ErrInvalidDebounce = errors.New("invalid debounce: must be positive")

	// ErrInvalidCacheSize is returned when the link cache size is not positive.
	ErrInvalidCacheSize = errors.New("invalid cache size: must be positive")

	// ErrInvalidConcurrency is returned when the render concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidLine is returned when the insertion line is negative.
	ErrInvalidLine = errors.New("invalid line: must be zero (append) or a 1-based line number")

	// ErrInvalidLanguage is returned when the collation language is not a
	// BCP 47 tag.
	ErrInvalidLanguage = errors.New("invalid language: must be a BCP 47 tag such as en or de-CH")

	// ErrLineWithoutFile is returned when --line is given without --file.
	ErrLineWithoutFile = errors.New("--line requires --file")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
