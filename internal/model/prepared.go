package model

import (
	"strconv"
	"strings"
)

// LineBreak separates list items inside one table cell. Renderers turn it
// into a native line break.
const LineBreak = "<br>"

// ReferenceToken wraps a key in the vault's internal reference syntax.
func ReferenceToken(key string) string {
	return "[[" + key + "]]"
}

// EnumerateTokens renders values as a numbered list of reference tokens
// joined by LineBreak.
func EnumerateTokens(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(i+1) + ". " + ReferenceToken(v)
	}
	return strings.Join(parts, LineBreak)
}

// Row is one table row.
type Row struct {
	// Index is the 1-based position in the sorted table.
	Index int

	// Entry is the entry shown in the row.
	Entry *LinkEntry
}

// Cell returns the text of the row for column c. Both renderers use this
// text, so row content is identical across output formats.
func (r Row) Cell(c Column) string {
	switch c {
	case ColumnIndex:
		return strconv.Itoa(r.Index)
	case ColumnName:
		return ReferenceToken(r.Entry.Key)
	case ColumnOutgoingCount:
		return strconv.Itoa(r.Entry.OutgoingCount())
	case ColumnIncomingCount:
		return strconv.Itoa(r.Entry.IncomingCount())
	case ColumnOutgoing:
		return EnumerateTokens(r.Entry.Outgoing.Values())
	case ColumnIncoming:
		return EnumerateTokens(r.Entry.Incoming.Values())
	default:
		return ""
	}
}

// PreparedData is the render-ready projection of an analysis.
type PreparedData struct {
	Columns   []Column
	Rows      []Row
	Stats     StatsSnapshot
	ShowStats bool
}

// Cells returns the cell texts of row r in column order.
func (p *PreparedData) Cells(r Row) []string {
	cells := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		cells[i] = r.Cell(c)
	}
	return cells
}

// Headers returns the header labels in column order.
func (p *PreparedData) Headers() []string {
	headers := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		headers[i] = c.Header()
	}
	return headers
}

// StatLines returns the statistics block as labelled values.
func (p *PreparedData) StatLines() []StatLine {
	s := p.Stats
	return []StatLine{
		{Label: "Execution time", Value: strconv.FormatFloat(s.ExecutionSeconds, 'f', 3, 64) + "s"},
		{Label: "Total files", Value: strconv.Itoa(s.TotalFiles)},
		{Label: "Total directories", Value: strconv.Itoa(s.TotalDirectories)},
		{Label: "Total outgoing links", Value: strconv.Itoa(s.TotalOutgoingLinks)},
		{Label: "Total incoming links", Value: strconv.Itoa(s.TotalIncomingLinks)},
		{Label: "Unique outgoing links", Value: strconv.Itoa(s.UniqueOutgoingLinks)},
		{Label: "Unique incoming links", Value: strconv.Itoa(s.UniqueIncomingLinks)},
		{Label: "Skipped files", Value: strconv.Itoa(s.SkippedFiles)},
		{Label: "Files in table", Value: strconv.Itoa(s.FilesInTable)},
	}
}
