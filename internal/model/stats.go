package model

import "time"

// Stats accumulates the counters of one analysis run.
// A Stats value is owned by a single invocation and is not safe for
// concurrent use.
type Stats struct {
	TotalFiles          int
	TotalDirectories    int
	TotalOutgoingLinks  int
	TotalIncomingLinks  int
	UniqueOutgoingLinks *StringSet
	UniqueIncomingLinks *StringSet
	SkippedFiles        int
	FilesInTable        int

	// ExecutionTime is set once by Finish.
	ExecutionTime time.Duration

	directories *StringSet
	finished    bool
}

// NewStats returns zeroed statistics.
func NewStats() *Stats {
	return &Stats{
		UniqueOutgoingLinks: NewStringSet(),
		UniqueIncomingLinks: NewStringSet(),
		directories:         NewStringSet(),
	}
}

// AddDirectory records dir as seen and updates TotalDirectories.
func (s *Stats) AddDirectory(dir string) {
	s.directories.Add(dir)
	s.TotalDirectories = s.directories.Len()
}

// Skip counts one file that did not make it into the table.
func (s *Stats) Skip() {
	s.SkippedFiles++
}

// Include folds an in-table entry into the totals and unique sets.
func (s *Stats) Include(e *LinkEntry) {
	s.FilesInTable++
	s.TotalOutgoingLinks += e.OutgoingCount()
	s.TotalIncomingLinks += e.IncomingCount()
	for _, v := range e.Outgoing.Values() {
		s.UniqueOutgoingLinks.Add(v)
	}
	for _, v := range e.Incoming.Values() {
		s.UniqueIncomingLinks.Add(v)
	}
}

// Finish records the execution time. Later calls are ignored.
func (s *Stats) Finish(elapsed time.Duration) {
	if s.finished {
		return
	}
	s.ExecutionTime = elapsed
	s.finished = true
}

// Snapshot returns a flat, serializable copy of the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		TotalFiles:          s.TotalFiles,
		TotalDirectories:    s.TotalDirectories,
		TotalOutgoingLinks:  s.TotalOutgoingLinks,
		TotalIncomingLinks:  s.TotalIncomingLinks,
		UniqueOutgoingLinks: s.UniqueOutgoingLinks.Len(),
		UniqueIncomingLinks: s.UniqueIncomingLinks.Len(),
		SkippedFiles:        s.SkippedFiles,
		FilesInTable:        s.FilesInTable,
		ExecutionSeconds:    s.ExecutionTime.Seconds(),
	}
}

// StatsSnapshot is the frozen form of Stats used by renderers and the
// run history.
type StatsSnapshot struct {
	TotalFiles          int     `json:"totalFiles"`
	TotalDirectories    int     `json:"totalDirectories"`
	TotalOutgoingLinks  int     `json:"totalOutgoingLinks"`
	TotalIncomingLinks  int     `json:"totalIncomingLinks"`
	UniqueOutgoingLinks int     `json:"uniqueOutgoingLinks"`
	UniqueIncomingLinks int     `json:"uniqueIncomingLinks"`
	SkippedFiles        int     `json:"skippedFiles"`
	FilesInTable        int     `json:"filesInTable"`
	ExecutionSeconds    float64 `json:"executionSeconds"`
}

// StatLine is one labelled value of the statistics block.
type StatLine struct {
	Label string
	Value string
}
