package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/vaultlinks/internal/model"
)

// SimpleWriter outputs human-readable text listings of archived runs.
type SimpleWriter struct {
	baseWriter

	// showEmpty prints unchanged counters in comparisons.
	showEmpty bool

	// verbose adds the parameters of each run.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to list counters that did not change.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteHistory lists runs, newest first as given.
func (w *SimpleWriter) WriteHistory(runs []model.Run) (int, error) {
	var sb strings.Builder

	w.writeRule(&sb, "=")
	sb.WriteString("RUN HISTORY\n")
	w.writeRule(&sb, "=")
	sb.WriteString("\n")

	if len(runs) == 0 {
		sb.WriteString("  No runs recorded\n")
		return w.output.Write([]byte(sb.String()))
	}

	for _, run := range runs {
		sb.WriteString(fmt.Sprintf("#%d  %s  %-7s  %s\n",
			run.ID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Trigger,
			run.Document,
		))
		sb.WriteString(fmt.Sprintf("    in table: %d  skipped: %d  out: %d  in: %d  time: %.3fs\n",
			run.Stats.FilesInTable,
			run.Stats.SkippedFiles,
			run.Stats.TotalOutgoingLinks,
			run.Stats.TotalIncomingLinks,
			run.Stats.ExecutionSeconds,
		))
		if w.verbose {
			w.writeParams(&sb, run.Params)
		}
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// WriteComparison prints how the counters of a document changed between
// two runs.
func (w *SimpleWriter) WriteComparison(cmp model.RunComparison) (int, error) {
	var sb strings.Builder

	w.writeRule(&sb, "=")
	sb.WriteString(fmt.Sprintf("COMPARISON: %s\n", cmp.Newer.Document))
	w.writeRule(&sb, "=")
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Older run: #%d  %s\n", cmp.Older.ID, cmp.Older.Timestamp.Local().Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Newer run: #%d  %s\n\n", cmp.Newer.ID, cmp.Newer.Timestamp.Local().Format("2006-01-02 15:04:05")))

	w.writeRule(&sb, "-")
	sb.WriteString("CHANGES\n")
	w.writeRule(&sb, "-")
	sb.WriteString("\n")

	changed := 0
	for _, d := range cmp.Deltas {
		if d.Change() == 0 && !w.showEmpty {
			continue
		}
		changed++
		sb.WriteString(fmt.Sprintf("  %-24s %10s -> %-10s (%s)\n",
			d.Name, formatNumber(d.Before), formatNumber(d.After), formatChange(d.Change())))
	}
	if changed == 0 {
		sb.WriteString("  No counter changed\n")
	}

	sb.WriteString("\n")
	if cmp.TableChanged {
		sb.WriteString("Table content: changed\n")
	} else {
		sb.WriteString("Table content: unchanged\n")
	}

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeParams(sb *strings.Builder, p model.Params) {
	fields := p.Fields()
	for _, key := range []string{"paths", "sort", "sortOrder", "excludeCol", "fileType", "showStats"} {
		if fields[key] == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s: %s\n", key, fields[key]))
	}
}

func (w *SimpleWriter) writeRule(sb *strings.Builder, char string) {
	sb.WriteString(strings.Repeat(char, 70))
	sb.WriteString("\n")
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.3f", v)
}

func formatChange(v float64) string {
	if v > 0 {
		return "+" + formatNumber(v)
	}
	return formatNumber(v)
}
