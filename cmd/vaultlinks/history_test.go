package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/vaultlinks/internal/config"
	"github.com/nao1215/vaultlinks/internal/database"
	"github.com/nao1215/vaultlinks/internal/model"
)

// openHistory creates a run archive holding three runs of index.md and one
// of other.md.
func openHistory(t *testing.T) *database.HistoryDB {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []model.Run{
		{Document: "index.md", Stats: model.StatsSnapshot{FilesInTable: 2, TotalOutgoingLinks: 2}, TableDigest: "one"},
		{Document: "other.md", Stats: model.StatsSnapshot{FilesInTable: 1}, TableDigest: "x"},
		{Document: "index.md", Stats: model.StatsSnapshot{FilesInTable: 2, TotalOutgoingLinks: 2}, TableDigest: "one"},
		{Document: "index.md", Stats: model.StatsSnapshot{FilesInTable: 3, TotalOutgoingLinks: 3}, TableDigest: "two"},
	}
	for i, run := range runs {
		run.Timestamp = base.Add(time.Duration(i) * time.Minute)
		run.Trigger = model.TriggerAnalyze
		if err := db.Record(context.Background(), run); err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func TestRunHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("lists every document", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		err := runHistory(ctx, openHistory(t), config.NewConfig(), historyOptions{limit: 20}, &out)
		if err != nil {
			t.Fatal(err)
		}
		got := out.String()
		if !strings.Contains(got, "RUN HISTORY") || strings.Count(got, "in table:") != 4 {
			t.Errorf("expected four runs:\n%s", got)
		}
		if strings.Index(got, "#4") > strings.Index(got, "#1") {
			t.Errorf("runs should be listed newest first:\n%s", got)
		}
	})

	t.Run("filters by document and limit", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		opts := historyOptions{document: "./index.md", limit: 2}
		if err := runHistory(ctx, openHistory(t), config.NewConfig(), opts, &out); err != nil {
			t.Fatal(err)
		}
		got := out.String()
		if strings.Count(got, "in table:") != 2 || strings.Contains(got, "other.md") {
			t.Errorf("expected the two newest runs of index.md:\n%s", got)
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		opts := historyOptions{document: "other.md", json: true}
		if err := runHistory(ctx, openHistory(t), config.NewConfig(), opts, &out); err != nil {
			t.Fatal(err)
		}
		if !json.Valid(out.Bytes()) {
			t.Fatalf("invalid JSON:\n%s", out.String())
		}
		if !strings.Contains(out.String(), `"document": "other.md"`) {
			t.Errorf("unexpected JSON:\n%s", out.String())
		}
	})

	t.Run("compares the latest runs", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		opts := historyOptions{document: "index.md", compare: true}
		if err := runHistory(ctx, openHistory(t), config.NewConfig(), opts, &out); err != nil {
			t.Fatal(err)
		}
		got := out.String()
		for _, want := range []string{"COMPARISON: index.md", "Files in table", "Table content: changed"} {
			if !strings.Contains(got, want) {
				t.Errorf("output should contain %q:\n%s", want, got)
			}
		}
		if strings.Contains(got, "Total directories") {
			t.Errorf("unchanged counters should be hidden:\n%s", got)
		}
	})

	t.Run("compare shows unchanged counters on request", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		opts := historyOptions{document: "index.md", compare: true, showUnchanged: true}
		if err := runHistory(ctx, openHistory(t), config.NewConfig(), opts, &out); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "Total directories") {
			t.Errorf("expected every counter:\n%s", out.String())
		}
	})

	t.Run("compare needs two runs", func(t *testing.T) {
		t.Parallel()

		opts := historyOptions{document: "other.md", compare: true}
		err := runHistory(ctx, openHistory(t), config.NewConfig(), opts, &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), "at least two archived runs") {
			t.Fatalf("expected an error, got %v", err)
		}
	})

	t.Run("prunes old runs", func(t *testing.T) {
		t.Parallel()

		db := openHistory(t)
		var out bytes.Buffer
		opts := historyOptions{document: "index.md", prune: 1}
		if err := runHistory(ctx, db, config.NewConfig(), opts, &out); err != nil {
			t.Fatal(err)
		}
		if got := out.String(); got != "Deleted 2 runs of index.md\n" {
			t.Errorf("unexpected output %q", got)
		}

		runs, err := db.List(ctx, "", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs left, got %d", len(runs))
		}
	})
}

func TestHistoryCommand(t *testing.T) {
	t.Parallel()

	t.Run("empty archive", func(t *testing.T) {
		t.Parallel()

		cfg := writeConfig(t, "historyDir: "+filepath.Join(t.TempDir(), "none")+"\n")
		out, err := execute(t, "history", "-c", cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No runs recorded") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("argument validation", func(t *testing.T) {
		t.Parallel()

		cfg := writeConfig(t, "historyDir: "+t.TempDir()+"\n")
		tests := []struct {
			args []string
			want string
		}{
			{args: []string{"history", "-c", cfg, "--compare"}, want: "a note is required"},
			{args: []string{"history", "-c", cfg, "--prune", "3"}, want: "a note is required"},
			{args: []string{"history", "-c", cfg, "--prune", "-1", "index.md"}, want: "must not be negative"},
		}
		for _, tt := range tests {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("%v: expected error containing %q, got %v", tt.args, tt.want, err)
			}
		}
	})

	t.Run("analyze runs are archived", func(t *testing.T) {
		t.Parallel()

		dir := writeVault(t, nil)
		cfg := writeConfig(t, "historyDir: "+t.TempDir()+"\n")

		for _, args := range [][]string{
			{"analyze", "-V", dir, "-c", cfg, "-f", "index.md"},
			{"analyze", "-V", dir, "-c", cfg, "-f", "index.md", "--set", "fileType=all"},
			{"analyze", "-V", dir, "-c", cfg, "-f", "c.md", "--no-history"},
		} {
			if _, err := execute(t, args...); err != nil {
				t.Fatalf("%v: %v", args, err)
			}
		}

		out, err := execute(t, "history", "-V", dir, "-c", cfg)
		if err != nil {
			t.Fatal(err)
		}
		if n := strings.Count(out, "in table:"); n != 2 {
			t.Errorf("expected 2 archived runs, got %d:\n%s", n, out)
		}
		if strings.Contains(out, "c.md") {
			t.Errorf("--no-history run was archived:\n%s", out)
		}

		out, err = execute(t, "history", "-V", dir, "-c", cfg, "--compare", "index.md")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "Files in table") || !strings.Contains(out, "Table content: changed") {
			t.Errorf("unexpected comparison:\n%s", out)
		}
	})
}
