package graph

import (
	"strings"

	"github.com/nao1215/vaultlinks/internal/model"
)

// PathFilter decides which files are included by path specifiers.
type PathFilter struct {
	include []string
	exclude []string
}

// NewPathFilter partitions specifiers into includes and excludes ("!" prefix).
// Blank specifiers are ignored.
func NewPathFilter(specifiers []string) PathFilter {
	var f PathFilter
	for _, raw := range specifiers {
		s := strings.TrimSpace(raw)
		exclude := strings.HasPrefix(s, "!")
		if exclude {
			s = strings.TrimSpace(s[1:])
		}
		s = normalizeSpecifier(s)
		if s == "" {
			continue
		}
		if exclude {
			f.exclude = append(f.exclude, s)
		} else {
			f.include = append(f.include, s)
		}
	}
	return f
}

func normalizeSpecifier(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\\", "/")
	if strings.Trim(s, "/") == "" {
		return "/"
	}
	s = model.NormalizePath(s)
	s = strings.TrimSuffix(s, "/")
	return model.TrimMarkdownExt(s)
}

// Includes reports whether a file with the given key is included.
// Exclusion always wins.
func (f PathFilter) Includes(file model.File, key string) bool {
	for _, s := range f.exclude {
		if matchSpecifier(s, file, key) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, s := range f.include {
		if matchSpecifier(s, file, key) {
			return true
		}
	}
	return false
}

// matchSpecifier matches the key, the path without extension or the
// containing directory of file. Ancestor directories do not match.
func matchSpecifier(s string, file model.File, key string) bool {
	if s == key || s == file.PathWithoutExt() {
		return true
	}
	dir := file.Dir()
	if s == "/" {
		return dir == "/"
	}
	return s+"/" == dir
}
