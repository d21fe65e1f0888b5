package graph

import (
	"context"
	"fmt"

	"github.com/nao1215/vaultlinks/internal/model"
)

// CollectResult is the output of Collect.
type CollectResult struct {
	Entries    *model.Entries
	Collisions model.CollisionMap

	// Missed lists the paths of included files whose links were not cached.
	Missed []string
}

// BuildCollisionMap counts bare-name occurrences over the full collection,
// self file included.
func BuildCollisionMap(files []model.File) model.CollisionMap {
	c := model.CollisionMap{}
	for _, f := range files {
		c.Observe(f.Name())
	}
	return c
}

// Collect builds one entry per included non-self file with its outgoing
// targets taken from cache. TotalFiles and TotalDirectories of stats are
// recorded here; cache misses are counted as skipped.
func Collect(ctx context.Context, files []model.File, self string, paths []string, cache LinkCache, stats *model.Stats) (*CollectResult, error) {
	collisions := BuildCollisionMap(files)
	filter := NewPathFilter(paths)
	self = model.NormalizePath(self)

	result := &CollectResult{
		Entries:    model.NewEntries(),
		Collisions: collisions,
	}

	total := 0
	for _, f := range files {
		total++
		if f.Path == self {
			total--
			continue
		}
		stats.AddDirectory(f.Dir())

		key := collisions.KeyFor(f)
		if !filter.Includes(f, key) {
			continue
		}

		targets, ok, err := cache.Links(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("failed to read links of %s: %w", f.Path, err)
		}
		if !ok {
			stats.Skip()
			result.Missed = append(result.Missed, f.Path)
			continue
		}
		result.Entries.Add(model.NewLinkEntry(key, f.Path, targets))
	}
	stats.TotalFiles = total

	return result, nil
}
