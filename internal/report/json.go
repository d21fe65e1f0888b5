package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/vaultlinks/internal/model"
)

// JSONWriter outputs archived runs in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteHistory outputs runs as a JSON array.
func (w *JSONWriter) WriteHistory(runs []model.Run) (int, error) {
	if runs == nil {
		runs = []model.Run{}
	}
	return w.writeJSON(runs)
}

// comparisonJSON is the wire form of a RunComparison.
type comparisonJSON struct {
	Document     string          `json:"document"`
	Older        int64           `json:"olderRun"`
	Newer        int64           `json:"newerRun"`
	TableChanged bool            `json:"tableChanged"`
	Deltas       []deltaJSONItem `json:"deltas"`
}

type deltaJSONItem struct {
	Name   string  `json:"name"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
	Change float64 `json:"change"`
}

// WriteComparison outputs a run comparison as a JSON object.
func (w *JSONWriter) WriteComparison(cmp model.RunComparison) (int, error) {
	out := comparisonJSON{
		Document:     cmp.Newer.Document,
		Older:        cmp.Older.ID,
		Newer:        cmp.Newer.ID,
		TableChanged: cmp.TableChanged,
		Deltas:       make([]deltaJSONItem, len(cmp.Deltas)),
	}
	for i, d := range cmp.Deltas {
		out.Deltas[i] = deltaJSONItem{Name: d.Name, Before: d.Before, After: d.After, Change: d.Change()}
	}
	return w.writeJSON(out)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Trailing newline for terminal output.
	data = append(data, '\n')

	return w.output.Write(data)
}
