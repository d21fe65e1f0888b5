package report

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/vaultlinks/internal/model"
)

// ContainerClass is the class of the element wrapping generated tables.
const ContainerClass = "vaultlinks"

// referencePattern matches one reference token in cell text.
var referencePattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// HTMLWriter outputs the link table as HTML markup.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
// A nil output is allowed when only Node is used.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the node tree of data to the output.
func (w *HTMLWriter) Write(data *model.PreparedData) (int, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, w.Node(data)); err != nil {
		return 0, err
	}
	buf.WriteString("\n")
	return w.output.Write(buf.Bytes())
}

// Node builds the element tree: a container div holding the link table and,
// when requested, the statistics table.
func (w *HTMLWriter) Node(data *model.PreparedData) *html.Node {
	container := element(atom.Div, "class", ContainerClass)

	rows := make([][]string, len(data.Rows))
	for i, row := range data.Rows {
		rows[i] = data.Cells(row)
	}
	container.AppendChild(table("vaultlinks-table", data.Headers(), rows))

	if data.ShowStats {
		lines := data.StatLines()
		statRows := make([][]string, len(lines))
		for i, l := range lines {
			statRows[i] = []string{l.Label, l.Value}
		}
		container.AppendChild(table("vaultlinks-stats", []string{"📊 Statistic", "Value"}, statRows))
	}

	return container
}

func table(class string, header []string, rows [][]string) *html.Node {
	t := element(atom.Table, "class", class)

	thead := element(atom.Thead)
	tr := element(atom.Tr)
	for _, h := range header {
		th := element(atom.Th)
		th.AppendChild(text(h))
		tr.AppendChild(th)
	}
	thead.AppendChild(tr)
	t.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, row := range rows {
		tr := element(atom.Tr)
		for _, cell := range row {
			td := element(atom.Td)
			appendCell(td, cell)
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	t.AppendChild(tbody)

	return t
}

// appendCell converts line-break markers into br elements and reference
// tokens into internal links.
func appendCell(parent *html.Node, cell string) {
	for i, line := range strings.Split(cell, model.LineBreak) {
		if i > 0 {
			parent.AppendChild(element(atom.Br))
		}
		appendLine(parent, line)
	}
}

func appendLine(parent *html.Node, line string) {
	last := 0
	for _, m := range referencePattern.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > last {
			parent.AppendChild(text(line[last:m[0]]))
		}
		target := line[m[2]:m[3]]
		a := element(atom.A, "data-href", target, "href", target, "class", "internal-link")
		a.AppendChild(text(target))
		parent.AppendChild(a)
		last = m[1]
	}
	if last < len(line) {
		parent.AppendChild(text(line[last:]))
	}
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// ErrorNode is the placeholder element rendered in place of a table when a
// run fails.
func ErrorNode(err error) *html.Node {
	div := element(atom.Div, "class", ContainerClass+"-error")
	div.AppendChild(text("vaultlinks: " + err.Error()))
	return div
}

// RenderNode serializes n.
func RenderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
