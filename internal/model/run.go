package model

import "time"

// Trigger names what started a run.
type Trigger string

const (
	// TriggerAnalyze is an on-demand run from the analyze command.
	TriggerAnalyze Trigger = "analyze"
	// TriggerRender is a run that re-rendered embedded regions.
	TriggerRender Trigger = "render"
	// TriggerWatch is an automatic run caused by a file change.
	TriggerWatch Trigger = "watch"
)

// Run is one archived analysis run.
type Run struct {
	ID          int64         `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	Vault       string        `json:"vault"`
	Document    string        `json:"document"`
	Trigger     Trigger       `json:"trigger"`
	Params      Params        `json:"params"`
	Stats       StatsSnapshot `json:"stats"`
	TableDigest string        `json:"tableDigest"`
}

// StatDelta is the change of one counter between two runs.
type StatDelta struct {
	Name   string
	Before float64
	After  float64
}

// Change returns After minus Before.
func (d StatDelta) Change() float64 {
	return d.After - d.Before
}

// RunComparison describes how the statistics of a document changed.
type RunComparison struct {
	Older        Run
	Newer        Run
	Deltas       []StatDelta
	TableChanged bool
}

// Compare builds the comparison of two runs of the same document.
func Compare(older, newer Run) RunComparison {
	a, b := older.Stats, newer.Stats
	return RunComparison{
		Older: older,
		Newer: newer,
		Deltas: []StatDelta{
			{Name: "Total files", Before: float64(a.TotalFiles), After: float64(b.TotalFiles)},
			{Name: "Total directories", Before: float64(a.TotalDirectories), After: float64(b.TotalDirectories)},
			{Name: "Total outgoing links", Before: float64(a.TotalOutgoingLinks), After: float64(b.TotalOutgoingLinks)},
			{Name: "Total incoming links", Before: float64(a.TotalIncomingLinks), After: float64(b.TotalIncomingLinks)},
			{Name: "Unique outgoing links", Before: float64(a.UniqueOutgoingLinks), After: float64(b.UniqueOutgoingLinks)},
			{Name: "Unique incoming links", Before: float64(a.UniqueIncomingLinks), After: float64(b.UniqueIncomingLinks)},
			{Name: "Skipped files", Before: float64(a.SkippedFiles), After: float64(b.SkippedFiles)},
			{Name: "Files in table", Before: float64(a.FilesInTable), After: float64(b.FilesInTable)},
			{Name: "Execution time (s)", Before: a.ExecutionSeconds, After: b.ExecutionSeconds},
		},
		TableChanged: older.TableDigest != newer.TableDigest,
	}
}
