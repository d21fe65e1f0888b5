package model

import "time"

// Analysis is the state threaded through the pipeline steps of one run.
type Analysis struct {
	// Params are the validated parameters of the run.
	Params Params

	// Self is the path of the active document. It never appears as a row.
	Self string

	// Files is the full file collection as returned by the host.
	Files []File

	// Collisions counts bare-name occurrences over Files.
	Collisions CollisionMap

	// Entries holds the included files keyed by their identity.
	Entries *Entries

	// Sorted is the final row order, filled by the sort step.
	Sorted []*LinkEntry

	// Stats accumulates counters for the run.
	Stats *Stats

	// StartedAt is when the run began.
	StartedAt time.Time
}

// NewAnalysis creates the state of a fresh run.
func NewAnalysis(params Params, self string, startedAt time.Time) *Analysis {
	return &Analysis{
		Params:     params,
		Self:       NormalizePath(self),
		Collisions: CollisionMap{},
		Entries:    NewEntries(),
		Stats:      NewStats(),
		StartedAt:  startedAt,
	}
}
