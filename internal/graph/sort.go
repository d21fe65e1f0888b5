package graph

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nao1215/vaultlinks/internal/model"
)

// Sort returns entries ordered by field. Ascending puts the smallest first;
// descending negates the comparator. The sort is stable, so ties keep the
// input order. Names are compared with the collation rules of tag.
func Sort(entries []*model.LinkEntry, field model.SortField, order model.SortOrder, tag language.Tag) []*model.LinkEntry {
	sorted := slices.Clone(entries)

	var compare func(a, b *model.LinkEntry) int
	switch field {
	case model.SortByOutgoingCount:
		compare = func(a, b *model.LinkEntry) int {
			return cmp.Compare(a.OutgoingCount(), b.OutgoingCount())
		}
	case model.SortByIncomingCount:
		compare = func(a, b *model.LinkEntry) int {
			return cmp.Compare(a.IncomingCount(), b.IncomingCount())
		}
	default:
		// Collator is not safe for concurrent use; one per call.
		collator := collate.New(tag)
		compare = func(a, b *model.LinkEntry) int {
			return collator.CompareString(a.Key, b.Key)
		}
	}

	slices.SortStableFunc(sorted, func(a, b *model.LinkEntry) int {
		if order == model.Descending {
			return -compare(a, b)
		}
		return compare(a, b)
	})
	return sorted
}
