package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/vaultlinks/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each one seeing the analysis state left
// by the previous steps.
type Step interface {
	// Do executes the step. A returned error aborts the run.
	Do(ctx context.Context, a *model.Analysis) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence and stops at the first error.
// A started run is never interrupted between steps.
func (p *Pipeline) Execute(ctx context.Context, a *model.Analysis) error {
	for _, step := range p.steps {
		p.logger.Debug("executing step",
			"step", step.Name(),
			"document", a.Self,
		)

		if err := step.Do(ctx, a); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"document", a.Self,
				"error", err,
			)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"document", a.Self,
			"entries", a.Entries.Len(),
		)
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
