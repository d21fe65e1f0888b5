package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nao1215/vaultlinks/internal/config"
	"github.com/nao1215/vaultlinks/internal/document"
	"github.com/nao1215/vaultlinks/internal/vault"
)

func TestWatchGuardRelevant(t *testing.T) {
	t.Parallel()

	dir := writeVault(t, map[string]string{
		"index.md":         embeddedNote,
		"assets/image.png": "png",
	})
	v, err := vault.Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	guard := &watchGuard{vault: v, target: "index.md"}
	guard.remember([]byte(embeddedNote))

	// a version of the target that only differs in its generated region
	regenerated := filepath.Join(dir, "index.md")
	writeTestFile(t, regenerated, strings.Replace(embeddedNote, "```\n",
		"```\n<!-- vaultlinks:begin -->\n<div>table</div>\n<!-- vaultlinks:end -->\n", 1))

	path := func(rel string) string { return filepath.Join(dir, filepath.FromSlash(rel)) }

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{name: "other note written", ev: fsnotify.Event{Name: path("notes/a.md"), Op: fsnotify.Write}, want: true},
		{name: "note created", ev: fsnotify.Event{Name: path("d.md"), Op: fsnotify.Create}, want: true},
		{name: "note removed", ev: fsnotify.Event{Name: path("c.md"), Op: fsnotify.Remove}, want: true},
		{name: "chmod only", ev: fsnotify.Event{Name: path("c.md"), Op: fsnotify.Chmod}, want: false},
		{name: "non markdown file", ev: fsnotify.Event{Name: path("assets/image.png"), Op: fsnotify.Write}, want: false},
		{name: "directory created", ev: fsnotify.Event{Name: path("assets"), Op: fsnotify.Create}, want: true},
		{name: "directory removed", ev: fsnotify.Event{Name: path("old"), Op: fsnotify.Remove}, want: true},
		{name: "skipped directory", ev: fsnotify.Event{Name: path(".obsidian"), Op: fsnotify.Create}, want: false},
		{name: "hidden note", ev: fsnotify.Event{Name: path(".draft.md"), Op: fsnotify.Write}, want: false},
		{name: "outside the vault", ev: fsnotify.Event{Name: filepath.Join(t.TempDir(), "x.md"), Op: fsnotify.Write}, want: false},
		{name: "target region rewritten", ev: fsnotify.Event{Name: regenerated, Op: fsnotify.Write}, want: false},
		{name: "target removed", ev: fsnotify.Event{Name: regenerated, Op: fsnotify.Rename}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := guard.relevant(tt.ev); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

func TestWatchGuardTargetEdited(t *testing.T) {
	t.Parallel()

	dir := writeVault(t, map[string]string{"index.md": embeddedNote})
	v, err := vault.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	guard := &watchGuard{vault: v, target: "index.md"}
	guard.remember([]byte(embeddedNote))

	target := filepath.Join(dir, "index.md")
	writeTestFile(t, target, embeddedNote+"a new line\n")

	if !guard.relevant(fsnotify.Event{Name: target, Op: fsnotify.Write}) {
		t.Error("an edit outside the generated region must trigger a render")
	}
}

func TestHidden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want bool
	}{
		{rel: "a.md", want: false},
		{rel: ".a.md", want: true},
		{rel: "dir/.a.md", want: true},
		{rel: "dir/a.md", want: false},
	}
	for _, tt := range tests {
		if got := hidden(tt.rel); got != tt.want {
			t.Errorf("hidden(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

// lockedBuffer is a bytes.Buffer safe for the watcher goroutine and the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch(t *testing.T) {
	t.Parallel()

	dir := writeVault(t, map[string]string{"index.md": embeddedNote})

	cfg := config.NewConfig()
	cfg.Vault = dir
	cfg.History = false
	cfg.Debounce = 20 * time.Millisecond

	s, err := newSession(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	out := &lockedBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, s, "index.md", out)
	}()

	target := filepath.Join(dir, "index.md")
	waitFor(t, func() bool { return strings.Contains(out.String(), "watching ") })
	if !strings.Contains(readFile(t, target), document.BeginMarker) {
		t.Fatalf("initial render missing:\n%s", readFile(t, target))
	}

	writeTestFile(t, filepath.Join(dir, "d.md"), "see [[c]]\n")
	waitFor(t, func() bool {
		b, err := os.ReadFile(target) //nolint:gosec // test file
		return err == nil && strings.Contains(string(b), `data-href="d"`)
	})

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	if !strings.Contains(out.String(), "rendered   index.md") {
		t.Errorf("expected render status lines:\n%s", out.String())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before the deadline")
}
