package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/nao1215/vaultlinks/internal/config"
	"github.com/nao1215/vaultlinks/internal/document"
	"github.com/nao1215/vaultlinks/internal/model"
	"github.com/nao1215/vaultlinks/internal/scheduler"
	"github.com/nao1215/vaultlinks/internal/vault"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch NOTE",
		Short: "Re-render the embedded link tables of a note on every change",
		Long: `Watch renders the embedded link tables of a note, then watches the vault
and renders again whenever a note changes.

Changes are coalesced: a burst of writes produces one render after the
debounce window, and a change during a render queues exactly one more.
The note's own writes to its generated regions are ignored.

Examples:
  vaultlinks watch -V ~/notes index.md
  vaultlinks watch -V ~/notes --debounce 2s index.md`,
		Args: cobra.ExactArgs(1),
		RunE: runWatchCmd,
	}

	cmd.Flags().DurationP("debounce", "d", config.DefaultDebounce,
		"Quiet period before a re-render")
	cmd.Flags().Bool("no-history", false,
		"Do not archive runs")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debounce") {
		if cfg.Debounce, err = cmd.Flags().GetDuration("debounce"); err != nil {
			return err
		}
	}

	logger := setupLogger(cfg.Verbose)

	s, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	rel, err := s.resolveNote(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	return runWatch(ctx, s, rel, cmd.OutOrStdout())
}

// watchGuard decides which file events cause a re-render. Writes of the
// watched note that only touched generated regions are ignored, so the
// watcher never reacts to itself.
type watchGuard struct {
	vault  *vault.Vault
	target string

	mu          sync.Mutex
	fingerprint string
}

// remember stores the fingerprint of the watched note after a render.
func (g *watchGuard) remember(content []byte) {
	g.mu.Lock()
	g.fingerprint = document.Fingerprint(content)
	g.mu.Unlock()
}

// relevant reports whether ev should trigger a render.
func (g *watchGuard) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}

	rel, err := g.vault.Rel(ev.Name)
	if err != nil {
		return false
	}

	removed := ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
	if !vault.IsMarkdown(rel) {
		if g.vault.SkipDir(rel) {
			return false
		}
		// a directory moved in or out may hold notes
		return removed || isDir(ev.Name)
	}
	if hidden(rel) {
		return false
	}

	if rel != g.target || removed {
		return true
	}

	content, err := os.ReadFile(ev.Name) //nolint:gosec // path comes from the watcher
	if err != nil {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return document.Fingerprint(content) != g.fingerprint
}

// hidden reports whether the file name of rel starts with a dot.
func hidden(rel string) bool {
	return filepath.Base(rel)[0] == '.'
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// addWatchRecursive watches root and every directory below it that the
// vault does not skip.
func addWatchRecursive(w *fsnotify.Watcher, v *vault.Vault, root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		rel, err := v.Rel(path)
		if err != nil {
			return filepath.SkipDir
		}
		if v.SkipDir(rel) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// runWatch renders rel once and then on every relevant change until ctx
// ends.
func runWatch(ctx context.Context, s *session, rel string, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, s.vault, s.vault.Root()); err != nil {
		return fmt.Errorf("failed to watch vault: %w", err)
	}

	guard := &watchGuard{vault: s.vault, target: rel}
	var outMu sync.Mutex

	render := func(trigger model.Trigger) func(context.Context) error {
		return func(ctx context.Context) error {
			start := time.Now()
			changed, err := renderNote(ctx, s, rel, trigger)
			if doc, lerr := document.Load(s.vault.Abs(rel)); lerr == nil {
				guard.remember(doc.Content())
			}

			outMu.Lock()
			defer outMu.Unlock()
			switch {
			case err != nil:
				fmt.Fprintf(out, "%s failed     %s: %v\n", start.Format(time.TimeOnly), rel, err)
			case changed:
				fmt.Fprintf(out, "%s rendered   %s\n", start.Format(time.TimeOnly), rel)
			default:
				fmt.Fprintf(out, "%s unchanged  %s\n", start.Format(time.TimeOnly), rel)
			}
			return err
		}
	}

	// The first render runs before the watcher loop, so its write is
	// already fingerprinted when the event arrives.
	if err := render(model.TriggerRender)(ctx); err != nil {
		s.logger.Warn("initial render failed", "document", rel, "error", err)
	}

	c := scheduler.New(s.cfg.Debounce, render(model.TriggerWatch),
		scheduler.WithLogger(s.logger),
		scheduler.WithContext(ctx),
	)
	defer c.Stop()

	fmt.Fprintf(out, "watching %s for changes to %s (Ctrl+C to stop)\n", s.vault.Root(), rel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) {
				if err := addWatchRecursive(watcher, s.vault, ev.Name); err != nil {
					s.logger.Warn("failed to watch new directory", "path", ev.Name, "error", err)
				}
			}
			if !guard.relevant(ev) {
				s.logger.Debug("ignoring file event", "path", ev.Name, "op", ev.Op.String())
				continue
			}
			s.logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			c.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("file watcher error", "error", err)
		}
	}
}
