package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/vaultlinks/internal/model"
)

// MarkdownWriter outputs the link table in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the table and, when requested, the statistics block.
func (w *MarkdownWriter) Write(data *model.PreparedData) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeTable(md, data)
	if data.ShowStats {
		w.writeStats(md, data)
	}

	return len(md.String()), md.Build()
}

// writeTable writes one row per entry under a glyph header.
func (w *MarkdownWriter) writeTable(md *markdown.Markdown, data *model.PreparedData) {
	header := data.Headers()
	for i := range header {
		header[i] = escapeCell(header[i])
	}

	rows := make([][]string, len(data.Rows))
	for i, row := range data.Rows {
		cells := data.Cells(row)
		for j := range cells {
			cells[j] = escapeCell(cells[j])
		}
		rows[i] = cells
	}

	md.Table(markdown.TableSet{
		Header: header,
		Rows:   rows,
	})
}

// writeStats writes the statistics block as a two-column table.
func (w *MarkdownWriter) writeStats(md *markdown.Markdown, data *model.PreparedData) {
	lines := data.StatLines()
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = []string{l.Label, l.Value}
	}

	md.Table(markdown.TableSet{
		Header: []string{"📊 Statistic", "Value"},
		Rows:   rows,
	})
}

// escapeCell keeps cell text on one table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// ErrorText is the placeholder written in place of a Markdown table when a
// run fails.
func ErrorText(err error) string {
	var b strings.Builder
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	_ = markdown.NewMarkdown(&b).Caution("vaultlinks: " + msg).Build() //nolint:errcheck // strings.Builder never fails
	return b.String()
}
