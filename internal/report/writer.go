package report

import (
	"io"

	"github.com/nao1215/vaultlinks/internal/model"
)

// Writer defines the interface for table output.
type Writer interface {
	// Write renders the prepared table to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(data *model.PreparedData) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Prepare projects an analysis into render-ready rows using the active
// columns of its parameters.
func Prepare(a *model.Analysis) *model.PreparedData {
	rows := make([]model.Row, len(a.Sorted))
	for i, e := range a.Sorted {
		rows[i] = model.Row{Index: i + 1, Entry: e}
	}
	return &model.PreparedData{
		Columns:   a.Params.Columns(),
		Rows:      rows,
		Stats:     a.Stats.Snapshot(),
		ShowStats: a.Params.ShowStats,
	}
}
