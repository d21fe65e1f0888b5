// Package pipeline runs the link analysis of one document as a sequence of
// steps: collect, resolve, filter, sort and finalize.
//
// Each step receives the model.Analysis of the run and updates it in place.
// A pipeline value holds no per-run state, but every invocation must use a
// fresh Analysis. Steps do not check for cancellation between each other;
// only the host calls made by the collect step receive the context.
//
// BatchProcessor runs independent invocations for several documents
// concurrently with errgroup.
package pipeline
