package graph

import "github.com/nao1215/vaultlinks/internal/model"

// Filter removes the entries that do not belong to category. Removed
// entries are counted as skipped; kept entries are folded into the totals.
// It returns the removed entries.
func Filter(entries *model.Entries, category model.Category, stats *model.Stats) []*model.LinkEntry {
	removed := entries.Retain(func(e *model.LinkEntry) bool {
		return category.Match(e.HasOutgoing(), e.HasIncoming())
	})
	for range removed {
		stats.Skip()
	}
	for _, e := range entries.List() {
		stats.Include(e)
	}
	return removed
}
