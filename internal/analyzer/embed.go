package analyzer

import (
	"context"
	"fmt"

	"github.com/nao1215/vaultlinks/internal/document"
	"github.com/nao1215/vaultlinks/internal/model"
	"github.com/nao1215/vaultlinks/internal/params"
)

// RenderDocument renders every vaultlinks block of doc into the region that
// follows it and saves the document when its content changed. rel is the
// vault-relative path of doc. A failing block gets an error element; the
// first block error is returned after all blocks were rendered.
func (a *Analyzer) RenderDocument(ctx context.Context, doc *document.Document, rel string, defaults params.Raw, trigger model.Trigger) (changed bool, err error) {
	blocks := document.FindBlocks(doc.Content())
	if len(blocks) == 0 {
		a.logger.Debug("no vaultlinks blocks", "document", rel)
		return false, nil
	}

	markup := make([]string, len(blocks))
	var firstErr error
	for i, b := range blocks {
		region := &document.Region{}
		req := Request{
			ActiveFile: rel,
			Raw:        params.Parse(b.Params),
			Defaults:   defaults,
			Trigger:    trigger,
		}
		if rerr := a.RenderElement(ctx, req, region); rerr != nil && firstErr == nil {
			firstErr = fmt.Errorf("block %d of %s: %w", i+1, rel, rerr)
		}
		markup[i] = region.Markup()
	}

	if doc.SetContent(document.ApplyRegions(doc.Content(), markup)) {
		if err := doc.Save(); err != nil {
			return false, err
		}
		changed = true
	}

	return changed, firstErr
}
