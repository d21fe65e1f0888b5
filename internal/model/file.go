package model

import (
	"path"
	"strings"
)

// MarkdownExt is the extension of every document the host hands to the pipeline.
const MarkdownExt = ".md"

// File describes one document of the vault as enumerated by the host.
type File struct {
	// Path is the vault-relative path with forward slashes, e.g. "notes/x.md".
	Path string
}

// NewFile returns a File for the given vault-relative path.
// Backslashes and a leading "./" or "/" are normalized away.
func NewFile(p string) File {
	return File{Path: NormalizePath(p)}
}

// Name returns the bare file name without directory and extension.
func (f File) Name() string {
	return BareName(f.Path)
}

// PathWithoutExt returns the vault-relative path without the Markdown extension.
func (f File) PathWithoutExt() string {
	return TrimMarkdownExt(f.Path)
}

// Dir returns the containing directory with a trailing separator.
// Files in the vault root report "/".
func (f File) Dir() string {
	dir := path.Dir(f.Path)
	if dir == "." || dir == "/" || dir == "" {
		return "/"
	}
	return dir + "/"
}

// NormalizePath converts p to the slash-separated, vault-relative form used as
// file identity throughout the module.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, "/")
}

// TrimMarkdownExt removes a trailing ".md" (any case) from p.
// Other extensions are part of the name: "v1.2" stays "v1.2".
func TrimMarkdownExt(p string) string {
	if len(p) >= len(MarkdownExt) && strings.EqualFold(p[len(p)-len(MarkdownExt):], MarkdownExt) {
		return p[:len(p)-len(MarkdownExt)]
	}
	return p
}

// BareName strips the directory prefix and the Markdown extension from a
// path or link target.
func BareName(p string) string {
	p = NormalizePath(p)
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return TrimMarkdownExt(p)
}
