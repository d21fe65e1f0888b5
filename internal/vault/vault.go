package vault

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nao1215/vaultlinks/internal/model"
)

// Vault is a directory tree of Markdown notes.
type Vault struct {
	root   string
	ignore map[string]bool
	logger *slog.Logger
}

// Option configures a Vault.
type Option func(*Vault)

// WithIgnoreDirs skips directories with the given names or vault-relative
// paths, in addition to hidden directories.
func WithIgnoreDirs(dirs []string) Option {
	return func(v *Vault) {
		for _, d := range dirs {
			d = strings.Trim(filepath.ToSlash(strings.TrimSpace(d)), "/")
			if d != "" {
				v.ignore[d] = true
			}
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Vault) {
		v.logger = logger
	}
}

// Open returns the vault rooted at root.
func Open(root string, opts ...Option) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	v := &Vault{
		root:   abs,
		ignore: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}

	return v, nil
}

// Root returns the absolute vault root.
func (v *Vault) Root() string {
	return v.root
}

// Abs converts a vault-relative path into a filesystem path.
func (v *Vault) Abs(rel string) string {
	return filepath.Join(v.root, filepath.FromSlash(model.NormalizePath(rel)))
}

// Rel converts a filesystem path into a vault-relative path.
func (v *Vault) Rel(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	rel, err := filepath.Rel(v.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideVault, path)
	}
	return filepath.ToSlash(rel), nil
}

// SkipDir reports whether the directory at the vault-relative path rel is
// hidden or ignored.
func (v *Vault) SkipDir(rel string) bool {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "" || rel == "." {
		return false
	}
	name := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		name = rel[i+1:]
	}
	return strings.HasPrefix(name, ".") || v.ignore[name] || v.ignore[rel]
}

// Files returns every Markdown document of the vault sorted by path.
func (v *Vault) Files(ctx context.Context) ([]model.File, error) {
	var files []model.File

	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			v.logger.Debug("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(v.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if v.SkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsMarkdown(rel) || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		files = append(files, model.NewFile(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// IsMarkdown reports whether path has the Markdown extension.
func IsMarkdown(path string) bool {
	return model.TrimMarkdownExt(path) != path
}
