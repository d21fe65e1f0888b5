package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/nao1215/vaultlinks/internal/model"
)

// fakeSource returns a fixed file list.
type fakeSource struct {
	paths []string
	err   error
}

func (s fakeSource) Files(_ context.Context) ([]model.File, error) {
	if s.err != nil {
		return nil, s.err
	}
	files := make([]model.File, len(s.paths))
	for i, p := range s.paths {
		files[i] = model.NewFile(p)
	}
	return files, nil
}

// fakeCache serves links keyed by path; absent paths are misses.
type fakeCache map[string][]string

func (c fakeCache) Links(_ context.Context, f model.File) ([]string, bool, error) {
	targets, ok := c[f.Path]
	return targets, ok, nil
}

func sortedKeys(a *model.Analysis) []string {
	keys := make([]string, len(a.Sorted))
	for i, e := range a.Sorted {
		keys[i] = e.Key
	}
	return keys
}

// TestDefaultPipeline runs the full step sequence on a small vault.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	source := fakeSource{paths: []string{"A.md", "B.md", "C.md", "self.md"}}
	cache := fakeCache{
		"A.md":    {"B"},
		"B.md":    {"A"},
		"C.md":    {},
		"self.md": {"A"},
	}

	t.Run("names the steps", func(t *testing.T) {
		t.Parallel()

		p := DefaultPipeline(source, cache, nil)
		expected := []string{"collect", "resolve", "filter", "sort", "finalize"}
		if !reflect.DeepEqual(p.StepNames(), expected) {
			t.Errorf("expected %v, got %v", expected, p.StepNames())
		}
	})

	t.Run("default params keep linked notes", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		p := DefaultPipeline(source, cache, nil,
			WithPipelineLanguage(language.English),
			WithPipelineClock(func() time.Time { return start.Add(250 * time.Millisecond) }),
		)

		a := model.NewAnalysis(model.DefaultParams(), "self.md", start)
		if err := p.Execute(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := sortedKeys(a); !reflect.DeepEqual(got, []string{"B", "A"}) {
			t.Errorf("expected [B A], got %v", got)
		}

		snap := a.Stats.Snapshot()
		if snap.TotalFiles != 3 || snap.FilesInTable != 2 || snap.SkippedFiles != 1 {
			t.Errorf("unexpected stats: %+v", snap)
		}
		if snap.TotalOutgoingLinks != 2 || snap.TotalIncomingLinks != 2 {
			t.Errorf("unexpected link totals: %+v", snap)
		}
		if snap.ExecutionSeconds != 0.25 {
			t.Errorf("expected 0.25s, got %v", snap.ExecutionSeconds)
		}
	})

	t.Run("noLinks keeps the isolated note", func(t *testing.T) {
		t.Parallel()

		params := model.DefaultParams()
		params.FileType = model.CategoryNoLinks

		a := model.NewAnalysis(params, "self.md", time.Now())
		if err := DefaultPipeline(source, cache, nil).Execute(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := sortedKeys(a); !reflect.DeepEqual(got, []string{"C"}) {
			t.Errorf("expected [C], got %v", got)
		}
	})

	t.Run("source error aborts", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("disk gone")
		a := model.NewAnalysis(model.DefaultParams(), "", time.Now())
		err := DefaultPipeline(fakeSource{err: boom}, cache, nil).Execute(context.Background(), a)
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped source error, got %v", err)
		}
	})
}

// TestStepNames checks the name of every step.
func TestStepNames(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		step     Step
		expected string
	}{
		{NewCollectStep(fakeSource{}, fakeCache{}), "collect"},
		{NewResolveStep(nil), "resolve"},
		{NewFilterStep(), "filter"},
		{NewSortStep(language.English), "sort"},
		{NewFinalizeStep(nil), "finalize"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.step.Name() != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, tc.step.Name())
			}
		})
	}
}
