package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/nao1215/vaultlinks/internal/graph"
	"github.com/nao1215/vaultlinks/internal/model"
)

// CollectStep enumerates the vault and builds the entries of included files.
type CollectStep struct {
	source graph.FileSource
	cache  graph.LinkCache
	logger *slog.Logger
}

// CollectStepOption configures a CollectStep.
type CollectStepOption func(*CollectStep)

// WithCollectLogger sets a custom logger for the collect step.
func WithCollectLogger(logger *slog.Logger) CollectStepOption {
	return func(s *CollectStep) {
		s.logger = logger
	}
}

// NewCollectStep creates a collect step reading from source and cache.
func NewCollectStep(source graph.FileSource, cache graph.LinkCache, opts ...CollectStepOption) *CollectStep {
	s := &CollectStep{
		source: source,
		cache:  cache,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CollectStep) Name() string {
	return "collect"
}

// Do executes the collect step.
func (s *CollectStep) Do(ctx context.Context, a *model.Analysis) error {
	files, err := s.source.Files(ctx)
	if err != nil {
		return fmt.Errorf("failed to list vault files: %w", err)
	}
	a.Files = files

	res, err := graph.Collect(ctx, files, a.Self, a.Params.Paths, s.cache, a.Stats)
	if err != nil {
		return err
	}
	a.Entries = res.Entries
	a.Collisions = res.Collisions

	for _, path := range res.Missed {
		s.logger.Debug("links not cached, skipping file", "path", path)
	}
	s.logger.Debug("collected entries",
		"files", a.Stats.TotalFiles,
		"included", a.Entries.Len(),
		"skipped", len(res.Missed),
	)

	return nil
}

// ResolveStep inverts outgoing links into incoming sets.
type ResolveStep struct {
	logger *slog.Logger
}

// NewResolveStep creates a resolve step.
func NewResolveStep(logger *slog.Logger) *ResolveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolveStep{logger: logger}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve"
}

// Do executes the resolve step.
func (s *ResolveStep) Do(_ context.Context, a *model.Analysis) error {
	edges := graph.Resolve(a.Entries, a.Collisions)
	s.logger.Debug("resolved links", "edges", edges)
	return nil
}

// FilterStep removes entries outside the requested category.
type FilterStep struct{}

// NewFilterStep creates a filter step.
func NewFilterStep() *FilterStep {
	return &FilterStep{}
}

// Name returns the step name.
func (s *FilterStep) Name() string {
	return "filter"
}

// Do executes the filter step.
func (s *FilterStep) Do(_ context.Context, a *model.Analysis) error {
	graph.Filter(a.Entries, a.Params.FileType, a.Stats)
	return nil
}

// SortStep orders the remaining entries into the final row order.
type SortStep struct {
	tag language.Tag
}

// NewSortStep creates a sort step collating names with the rules of tag.
func NewSortStep(tag language.Tag) *SortStep {
	return &SortStep{tag: tag}
}

// Name returns the step name.
func (s *SortStep) Name() string {
	return "sort"
}

// Do executes the sort step.
func (s *SortStep) Do(_ context.Context, a *model.Analysis) error {
	a.Sorted = graph.Sort(a.Entries.List(), a.Params.Sort, a.Params.SortOrder, s.tag)
	return nil
}

// FinalizeStep records the execution time of the run.
type FinalizeStep struct {
	now func() time.Time
}

// NewFinalizeStep creates a finalize step. A nil clock means time.Now.
func NewFinalizeStep(now func() time.Time) *FinalizeStep {
	if now == nil {
		now = time.Now
	}
	return &FinalizeStep{now: now}
}

// Name returns the step name.
func (s *FinalizeStep) Name() string {
	return "finalize"
}

// Do executes the finalize step.
func (s *FinalizeStep) Do(_ context.Context, a *model.Analysis) error {
	a.Stats.Finish(s.now().Sub(a.StartedAt))
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Language selects the collation rules used to sort names.
	Language language.Tag

	// Now is the clock used to measure execution time.
	Now func() time.Time
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineLanguage sets the collation language.
func WithPipelineLanguage(tag language.Tag) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Language = tag
	}
}

// WithPipelineClock sets the clock used for the execution time.
func WithPipelineClock(now func() time.Time) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Now = now
	}
}

// DefaultPipeline creates the standard analysis pipeline:
// collect, resolve, filter, sort and finalize.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineLanguage, etc).
func DefaultPipeline(source graph.FileSource, cache graph.LinkCache, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		Language: language.English,
		Now:      time.Now,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddSteps(
		NewCollectStep(source, cache, WithCollectLogger(p.logger)),
		NewResolveStep(p.logger),
		NewFilterStep(),
		NewSortStep(cfg.Language),
		NewFinalizeStep(cfg.Now),
	)

	return p
}
