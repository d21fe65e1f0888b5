package graph

import (
	"strings"

	"github.com/nao1215/vaultlinks/internal/model"
)

// LookupKey maps a raw link target to the key it would have as an entry.
// Targets whose bare name collides are taken as full paths.
func LookupKey(target string, collisions model.CollisionMap) string {
	bare := model.BareName(target)
	if !collisions.Collides(bare) {
		return bare
	}
	p := strings.TrimPrefix(strings.TrimSpace(target), "/")
	return model.TrimMarkdownExt(p)
}

// Resolve adds the key of every linking entry to the Incoming set of the
// entry it links to. Unresolvable targets stay in Outgoing only.
// It returns the number of resolved edges.
func Resolve(entries *model.Entries, collisions model.CollisionMap) int {
	resolved := 0
	for _, source := range entries.List() {
		for _, target := range source.Outgoing.Values() {
			dest, ok := entries.Get(LookupKey(target, collisions))
			if !ok {
				continue
			}
			if dest.Incoming.Add(source.Key) {
				resolved++
			}
		}
	}
	return resolved
}
