package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".vaultlinks"

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers decide whether that matters based on whether the path was
// given explicitly. A relative vault path in the file is resolved against
// the file's directory.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cf.Vault != "" && !filepath.IsAbs(cf.Vault) {
		cf.Vault = filepath.Join(filepath.Dir(path), cf.Vault)
	}
	if cf.Defaults == nil {
		cf.Defaults = make(map[string]any)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .vaultlinks in the vault root
// 3. Look for .vaultlinks in the current directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath, vaultRoot string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if vaultRoot != "" {
		candidates = append(candidates, filepath.Join(vaultRoot, DefaultConfigFile))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, XDGConfigFile())

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}

	return ""
}

// Load finds and applies the configuration file to cfg. A missing file is
// only an error when cfg.ConfigFilePath names it explicitly. It returns
// the path that was applied, or "" when none was found.
func Load(cfg *Config, overridden func(key string) bool) (string, error) {
	path := FindConfigFile(cfg.ConfigFilePath, cfg.Vault)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return "", fmt.Errorf("%s: %w", cfg.ConfigFilePath, ErrConfigNotFound)
		}
		return "", nil
	}

	file, err := LoadConfigFile(path)
	if errors.Is(err, ErrConfigNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	file.ApplyTo(cfg, overridden)
	return path, nil
}
