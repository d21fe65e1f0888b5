package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/vaultlinks/internal/analyzer"
	"github.com/nao1215/vaultlinks/internal/config"
	"github.com/nao1215/vaultlinks/internal/database"
	applog "github.com/nao1215/vaultlinks/internal/log"
	"github.com/nao1215/vaultlinks/internal/model"
	"github.com/nao1215/vaultlinks/internal/vault"
)

// flagForKey maps configuration file keys to the flags that override them.
var flagForKey = map[string]string{
	"vault":       "vault",
	"debounce":    "debounce",
	"concurrency": "concurrency",
	"history":     "no-history",
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	return applog.NewLogger(os.Stderr, verbose)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getStringFlag reads a string flag of cmd or of the root command.
func getStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, _ = cmd.Root().PersistentFlags().GetString(name)
	}
	return v
}

// flagChanged reports whether the user set the flag on the command line.
func flagChanged(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return true
	}
	f := cmd.Root().PersistentFlags().Lookup(name)
	return f != nil && f.Changed
}

// loadConfig builds the configuration shared by all commands.
// Precedence is flags, then the environment and .env, then the
// configuration file, then defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Vault = getStringFlag(cmd, "vault")
	cfg.ConfigFilePath = getStringFlag(cmd, "config")

	env, err := config.LoadEnv(config.DefaultEnvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.DefaultEnvFile, err)
	}
	env.ApplyTo(cfg)
	vaultFromEnv := !flagChanged(cmd, "vault") && cfg.Vault != ""

	overridden := func(key string) bool {
		if key == "vault" && vaultFromEnv {
			return true
		}
		name, ok := flagForKey[key]
		return ok && flagChanged(cmd, name)
	}
	if _, err := config.Load(cfg, overridden); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if flagChanged(cmd, "no-history") {
		noHistory, err := cmd.Flags().GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.History = !noHistory
	}

	return cfg, nil
}

// session bundles what a command needs to run analyses against one vault.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	vault    *vault.Vault
	cache    *vault.MetadataCache
	history  *database.HistoryDB
	analyzer *analyzer.Analyzer
}

// newSession validates cfg and opens the vault, the link cache and,
// when enabled, the run history.
func newSession(cfg *config.Config, logger *slog.Logger) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	v, err := vault.Open(cfg.Vault,
		vault.WithIgnoreDirs(cfg.IgnoreDirs),
		vault.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	cache, err := vault.NewMetadataCache(v, cfg.CacheSize, vault.WithCacheLogger(logger))
	if err != nil {
		return nil, err
	}

	tag, err := cfg.LanguageTag()
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		logger: logger,
		vault:  v,
		cache:  cache,
	}

	opts := []analyzer.Option{
		analyzer.WithLogger(logger),
		analyzer.WithLanguage(tag),
		analyzer.WithVault(v.Root()),
	}
	if cfg.History {
		s.history, err = database.Open(cfg.HistoryDir, database.Options{
			CreateIfNotExists: true,
			EnableWAL:         true,
			Logger:            logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open run history: %w", err)
		}
		opts = append(opts, analyzer.WithRecorder(s.history))
	}
	s.analyzer = analyzer.New(v, cache, opts...)

	logger.Debug("session ready",
		"vault", v.Root(),
		"language", tag.String(),
		"history", cfg.History,
	)

	return s, nil
}

// Close releases the run history.
func (s *session) Close() error {
	if s.history == nil {
		return nil
	}
	return s.history.Close()
}

// resolveNote converts a note argument into a vault-relative path.
func (s *session) resolveNote(arg string) (string, error) {
	return resolveNote(s.vault, arg)
}

// resolveNote converts a note argument into a vault-relative path. The
// argument may be a filesystem path or a path relative to the vault root.
func resolveNote(v *vault.Vault, arg string) (string, error) {
	if !vault.IsMarkdown(arg) {
		return "", fmt.Errorf("%s: not a Markdown note", arg)
	}

	if filepath.IsAbs(arg) {
		return v.Rel(arg)
	}
	if _, err := os.Stat(arg); err == nil {
		if rel, err := v.Rel(arg); err == nil {
			return rel, nil
		}
	}

	if _, err := os.Stat(v.Abs(arg)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("note %s not found in %s", arg, v.Root())
		}
		return "", err
	}
	return model.NormalizePath(filepath.ToSlash(filepath.Clean(arg))), nil
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
