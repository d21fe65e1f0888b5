package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunFunc processes one document as an independent invocation.
type RunFunc func(ctx context.Context, document string) error

// BatchResult is the outcome of one document of a batch.
type BatchResult struct {
	Document string
	Err      error
}

// BatchProcessor processes several documents concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// run processes one document.
	run RunFunc

	// concurrency is the maximum number of concurrent runs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent runs.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor calling run per document.
func NewBatchProcessor(run RunFunc, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		run:         run,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every document and returns the results in argument
// order. A failed document does not stop the others; its error is stored in
// its result. The returned error is only set when ctx ends before every
// document was started.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, documents []string) ([]BatchResult, error) {
	bp.logger.Debug("starting batch processing",
		"total_documents", len(documents),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]BatchResult, len(documents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, doc := range documents {
		results[i].Document = doc
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i].Err = gctx.Err()
				return gctx.Err()
			default:
			}

			if err := bp.run(ctx, doc); err != nil {
				bp.logger.Warn("document failed",
					"document", doc,
					"error", err,
				)
				results[i].Err = err
				return nil
			}

			bp.logger.Debug("document completed", "document", doc)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Debug("batch processing complete",
		"total_documents", len(documents),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
