package document

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

const (
	// BlockLanguage is the info string of embedded blocks.
	BlockLanguage = "vaultlinks"

	// BeginMarker opens a generated region.
	BeginMarker = "<!-- vaultlinks:begin -->"

	// EndMarker closes a generated region.
	EndMarker = "<!-- vaultlinks:end -->"
)

// Block is one fenced vaultlinks code block.
type Block struct {
	// Params is the text between the fences.
	Params string

	// Open and Close are the 0-based line numbers of the fences.
	Open, Close int
}

// FindBlocks returns the vaultlinks blocks of content in document order.
// An unterminated block runs to the end of the document.
func FindBlocks(content []byte) []Block {
	lines := splitLines(content)
	var blocks []Block

	for i := 0; i < len(lines); i++ {
		fence, info, ok := openingFence(lines[i])
		if !ok {
			continue
		}
		end := len(lines)
		for j := i + 1; j < len(lines); j++ {
			if closesFence(lines[j], fence) {
				end = j
				break
			}
		}
		if info == BlockLanguage {
			blocks = append(blocks, Block{
				Params: strings.Join(lines[i+1:end], "\n"),
				Open:   i,
				Close:  end,
			})
		}
		i = end
	}
	return blocks
}

// openingFence reports whether line opens a fenced code block and returns
// the fence and the first word of its info string.
func openingFence(line string) (fence, info string, ok bool) {
	t := strings.TrimLeft(line, " ")
	if len(line)-len(t) > 3 {
		return "", "", false
	}
	for _, ch := range []string{"`", "~"} {
		n := 0
		for n < len(t) && t[n:n+1] == ch {
			n++
		}
		if n >= 3 {
			rest := strings.TrimSpace(t[n:])
			if ch == "`" && strings.Contains(rest, "`") {
				return "", "", false
			}
			if f := strings.Fields(rest); len(f) > 0 {
				info = f[0]
			}
			return t[:n], info, true
		}
	}
	return "", "", false
}

func closesFence(line, fence string) bool {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, fence) {
		return false
	}
	return strings.Trim(t, fence[:1]) == ""
}

// Region collects the HTML rendered for one block. It implements the
// element sink of the analyzer.
type Region struct {
	markup string
}

// Replace renders node as the content of the region.
func (r *Region) Replace(node *html.Node) error {
	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return err
	}
	r.markup = buf.String()
	return nil
}

// Markup returns the rendered HTML.
func (r *Region) Markup() string {
	return r.markup
}

// ApplyRegions writes markup[i] after the closing fence of the i-th block,
// replacing a region generated earlier. Blocks without markup keep their
// existing region.
func ApplyRegions(content []byte, markup []string) []byte {
	lines := splitLines(content)
	blocks := FindBlocks(content)

	out := make([]string, 0, len(lines)+3*len(blocks))
	next := 0
	for i, b := range blocks {
		if b.Close >= len(lines) {
			break
		}
		out = append(out, lines[next:b.Close+1]...)
		next = b.Close + 1

		regionStart, regionEnd, found := findRegion(lines, next)
		if i >= len(markup) || markup[i] == "" {
			continue
		}
		if found {
			out = append(out, lines[next:regionStart]...)
			next = regionEnd + 1
		}
		out = append(out, BeginMarker, markup[i], EndMarker)
	}
	out = append(out, lines[next:]...)

	return joinLines(out)
}

// findRegion looks for a generated region starting at line from, allowing
// blank lines in between.
func findRegion(lines []string, from int) (start, end int, ok bool) {
	i := from
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || strings.TrimSpace(lines[i]) != BeginMarker {
		return 0, 0, false
	}
	for j := i + 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == EndMarker {
			return i, j, true
		}
	}
	return 0, 0, false
}

// StripRegions removes every generated region, markers included.
func StripRegions(content []byte) []byte {
	lines := splitLines(content)
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == BeginMarker {
			if _, end, ok := findRegion(lines, i); ok {
				i = end
				continue
			}
		}
		out = append(out, lines[i])
	}
	return joinLines(out)
}
