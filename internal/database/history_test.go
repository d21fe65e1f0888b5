package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/vaultlinks/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func testRun(document string, ts time.Time, filesInTable int) model.Run {
	params := model.DefaultParams()
	params.Paths = []string{"notes", "!notes/private"}
	params.Sort = model.SortByIncomingCount
	params.SortOrder = model.Ascending
	params.ExcludeCol = []model.Column{model.ColumnIndex}
	params.FileType = model.CategoryBoth
	params.ShowStats = true

	return model.Run{
		Timestamp: ts,
		Vault:     "/vault",
		Document:  document,
		Trigger:   model.TriggerAnalyze,
		Params:    params,
		Stats: model.StatsSnapshot{
			TotalFiles:       10,
			TotalDirectories: 2,
			FilesInTable:     filesInTable,
			ExecutionSeconds: 0.012,
		},
		TableDigest: "digest",
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("Path() = %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		opts := DefaultOptions()
		opts.CreateIfNotExists = false

		_, err := Open(filepath.Join(t.TempDir(), "missing"), opts)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if err := db.Record(context.Background(), testRun("a.md", time.Now(), 1)); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		_ = db.Close()

		opts := DefaultOptions()
		opts.CreateIfNotExists = false
		db, err = Open(dir, opts)
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		runs, err := db.List(context.Background(), "", 0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run after reopen, got %d", len(runs))
		}
	})
}

func TestRecordAndGet(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 12, 30, 0, 123000000, time.UTC)
	want := testRun("daily/today.md", ts, 3)
	if err := db.Record(ctx, want); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	runs, err := db.List(ctx, "daily/today.md", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	got, err := db.Get(ctx, runs[0].ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if !got.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, ts)
	}
	if got.Vault != want.Vault || got.Document != want.Document {
		t.Errorf("Vault/Document = %q/%q", got.Vault, got.Document)
	}
	if got.Trigger != model.TriggerAnalyze {
		t.Errorf("Trigger = %q", got.Trigger)
	}
	if got.TableDigest != "digest" {
		t.Errorf("TableDigest = %q", got.TableDigest)
	}
	if got.Stats != want.Stats {
		t.Errorf("Stats = %+v, want %+v", got.Stats, want.Stats)
	}
	if got.Params.Sort != model.SortByIncomingCount || got.Params.SortOrder != model.Ascending {
		t.Errorf("Params sort = %v %v", got.Params.Sort, got.Params.SortOrder)
	}
	if got.Params.FileType != model.CategoryBoth || !got.Params.ShowStats {
		t.Errorf("Params fileType/showStats = %v/%v", got.Params.FileType, got.Params.ShowStats)
	}
	if len(got.Params.Paths) != 2 || got.Params.Paths[1] != "!notes/private" {
		t.Errorf("Params.Paths = %v", got.Params.Paths)
	}
	if len(got.Params.ExcludeCol) != 1 || got.Params.ExcludeCol[0] != model.ColumnIndex {
		t.Errorf("Params.ExcludeCol = %v", got.Params.ExcludeCol)
	}
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	_, err := db.Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []model.Run{
		testRun("a.md", base, 1),
		testRun("b.md", base.Add(time.Minute), 2),
		testRun("a.md", base.Add(2*time.Minute), 3),
		testRun("a.md", base.Add(2*time.Minute+time.Millisecond), 4),
	}
	for _, r := range records {
		if err := db.Record(ctx, r); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	tests := []struct {
		name     string
		document string
		limit    int
		want     []int
	}{
		{name: "all documents newest first", document: "", limit: 0, want: []int{4, 3, 2, 1}},
		{name: "one document", document: "a.md", limit: 0, want: []int{4, 3, 1}},
		{name: "limit", document: "a.md", limit: 2, want: []int{4, 3}},
		{name: "unknown document", document: "zzz.md", limit: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runs, err := db.List(ctx, tt.document, tt.limit)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(runs) != len(tt.want) {
				t.Fatalf("got %d runs, want %d", len(runs), len(tt.want))
			}
			for i, run := range runs {
				if run.Stats.FilesInTable != tt.want[i] {
					t.Errorf("runs[%d].FilesInTable = %d, want %d", i, run.Stats.FilesInTable, tt.want[i])
				}
			}
		})
	}
}

func TestDocuments(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, doc := range []string{"b.md", "a.md", "b.md"} {
		if err := db.Record(ctx, testRun(doc, time.Now(), 1)); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	docs, err := db.Documents(ctx)
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if len(docs) != 2 || docs[0] != "a.md" || docs[1] != "b.md" {
		t.Errorf("Documents() = %v", docs)
	}
}

func TestLatestPair(t *testing.T) {
	t.Parallel()

	t.Run("returns older then newer", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		for i := range 3 {
			if err := db.Record(ctx, testRun("a.md", base.Add(time.Duration(i)*time.Hour), i+1)); err != nil {
				t.Fatalf("Record() error = %v", err)
			}
		}

		older, newer, err := db.LatestPair(ctx, "a.md")
		if err != nil {
			t.Fatalf("LatestPair() error = %v", err)
		}
		if older.Stats.FilesInTable != 2 || newer.Stats.FilesInTable != 3 {
			t.Errorf("pair = %d, %d; want 2, 3", older.Stats.FilesInTable, newer.Stats.FilesInTable)
		}
	})

	t.Run("fewer than two runs", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		if err := db.Record(ctx, testRun("a.md", time.Now(), 1)); err != nil {
			t.Fatalf("Record() error = %v", err)
		}

		_, _, err := db.LatestPair(ctx, "a.md")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPrune(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 5 {
		if err := db.Record(ctx, testRun("a.md", base.Add(time.Duration(i)*time.Minute), i+1)); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if err := db.Record(ctx, testRun("b.md", base, 9)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	deleted, err := db.Prune(ctx, "a.md", 2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	runs, err := db.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 remaining runs, got %d", len(runs))
	}
	if runs[0].Stats.FilesInTable != 5 || runs[1].Stats.FilesInTable != 4 {
		t.Errorf("kept wrong runs: %d, %d", runs[0].Stats.FilesInTable, runs[1].Stats.FilesInTable)
	}
}

func TestRecordZeroTimestamp(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	if err := db.Record(ctx, testRun("a.md", time.Time{}, 1)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	runs, err := db.List(ctx, "a.md", 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 1 || runs[0].Timestamp.Before(before) {
		t.Errorf("zero timestamp not replaced: %+v", runs)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{name: "stored layout", input: "2026-01-02T03:04:05.000000000Z"},
		{name: "RFC3339", input: "2026-01-02T03:04:05Z"},
		{name: "sqlite datetime", input: "2026-01-02 03:04:05"},
		{name: "garbage", input: "yesterday", zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v", tt.input, got)
			}
		})
	}
}
