package vault

import (
	"net/url"
	"regexp"
	"strings"
)

// linkPattern matches wiki links and inline Markdown links. A leading "!"
// marks an embed.
var linkPattern = regexp.MustCompile(`(!?)\[\[([^\[\]]+)\]\]|(!?)\[[^\[\]]*\]\(([^()\s]+)(?:\s+"[^"]*")?\)`)

// inlineCode matches code spans on one line.
var inlineCode = regexp.MustCompile("`[^`]*`")

// ParseLinks extracts the outgoing link targets of a Markdown document in
// order of appearance, without duplicates. Aliases, heading anchors and
// block references are cut; embeds, external URLs and links inside code are
// ignored.
func ParseLinks(content []byte) []string {
	var targets []string
	seen := make(map[string]bool)
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		targets = append(targets, t)
	}

	fence := ""
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, fence[:1]) == "" {
				fence = ""
			}
			continue
		}
		if f := fenceOf(trimmed); f != "" {
			fence = f
			continue
		}

		line = inlineCode.ReplaceAllString(line, "")
		for _, m := range linkPattern.FindAllStringSubmatch(line, -1) {
			switch {
			case m[2] != "":
				if m[1] == "!" {
					continue
				}
				add(wikiTarget(m[2]))
			case m[4] != "":
				if m[3] == "!" {
					continue
				}
				if t, ok := markdownTarget(m[4]); ok {
					add(t)
				}
			}
		}
	}
	return targets
}

func fenceOf(trimmed string) string {
	for _, ch := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, ch) {
			n := 0
			for n < len(trimmed) && trimmed[n] == ch[0] {
				n++
			}
			return trimmed[:n]
		}
	}
	return ""
}

// wikiTarget cuts the alias, heading anchor and block reference of a wiki
// link.
func wikiTarget(inner string) string {
	if i := strings.Index(inner, "|"); i >= 0 {
		inner = inner[:i]
	}
	if i := strings.IndexAny(inner, "#^"); i >= 0 {
		inner = inner[:i]
	}
	return inner
}

// markdownTarget returns the note path of a relative link to a Markdown
// file.
func markdownTarget(dest string) (string, bool) {
	dest = strings.Trim(dest, "<>")
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") || strings.HasPrefix(dest, "#") {
		return "", false
	}
	if i := strings.Index(dest, "#"); i >= 0 {
		dest = dest[:i]
	}
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}
	dest = strings.TrimPrefix(dest, "./")
	if !IsMarkdown(dest) {
		return "", false
	}
	return dest, true
}
