package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is a Markdown file loaded into memory.
type Document struct {
	// Path is the filesystem path of the document.
	Path string

	content []byte
	mode    os.FileMode
}

// Load reads the document at path.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat document: %w", err)
	}

	content, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	return &Document{Path: path, content: content, mode: info.Mode().Perm()}, nil
}

// Content returns the current content.
func (d *Document) Content() []byte {
	return d.content
}

// SetContent replaces the content and reports whether it changed.
func (d *Document) SetContent(content []byte) bool {
	if bytes.Equal(d.content, content) {
		return false
	}
	d.content = content
	return true
}

// Save writes the content atomically: a temporary file in the same
// directory is renamed over the document.
func (d *Document) Save() error {
	dir := filepath.Dir(d.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = os.Remove(tmpName) //nolint:errcheck // best effort
	}

	if _, err := tmp.Write(d.content); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		cleanup()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	mode := d.mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, d.Path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace document: %w", err)
	}

	return nil
}

// splitLines splits content into lines without their terminators.
// A trailing newline does not produce an empty last line.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	s := string(bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")))
	if s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	return splitKeep(s)
}

func splitKeep(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

func joinLines(lines []string) []byte {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
