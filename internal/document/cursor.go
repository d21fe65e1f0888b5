package document

import "strings"

// Cursor inserts text at a 1-based line of a document and saves it.
// Line 0 or a line beyond the end appends.
type Cursor struct {
	doc  *Document
	line int
}

// NewCursor creates a cursor positioned before line of doc.
func NewCursor(doc *Document, line int) *Cursor {
	return &Cursor{doc: doc, line: line}
}

// Insert places text so that its first line becomes the cursor line.
func (c *Cursor) Insert(text string) error {
	lines := splitLines(c.doc.Content())
	inserted := splitLines([]byte(strings.TrimRight(text, "\n") + "\n"))

	at := c.line - 1
	if c.line <= 0 || at > len(lines) {
		at = len(lines)
	}

	out := make([]string, 0, len(lines)+len(inserted))
	out = append(out, lines[:at]...)
	out = append(out, inserted...)
	out = append(out, lines[at:]...)

	c.doc.SetContent(joinLines(out))
	return c.doc.Save()
}
