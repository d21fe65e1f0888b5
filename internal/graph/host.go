package graph

import (
	"context"

	"github.com/nao1215/vaultlinks/internal/model"
)

// FileSource enumerates the documents of a vault.
type FileSource interface {
	// Files returns every document in a stable order.
	Files(ctx context.Context) ([]model.File, error)
}

// LinkCache provides the pre-parsed outgoing link targets of a document.
type LinkCache interface {
	// Links returns the raw targets of file. ok is false on a cache miss,
	// in which case the file is skipped. A non-nil error aborts the run.
	Links(ctx context.Context, file model.File) (targets []string, ok bool, err error)
}
