package model

// LinkEntry is the aggregated link record of one included file.
//
// Outgoing holds the raw targets as written in the document and is never
// modified after collection. Incoming holds the keys of files linking to
// this entry and is filled only by link resolution.
type LinkEntry struct {
	// Key is the bare name, or the path without extension when the bare
	// name is shared by several files of the vault.
	Key string

	// Path is the vault-relative path of the file.
	Path string

	// Outgoing is the set of raw link targets found in the file.
	Outgoing *StringSet

	// Incoming is the set of keys of entries that link to this one.
	Incoming *StringSet
}

// NewLinkEntry creates an entry with the given outgoing targets and no
// incoming links.
func NewLinkEntry(key, path string, outgoing []string) *LinkEntry {
	return &LinkEntry{
		Key:      key,
		Path:     path,
		Outgoing: NewStringSet(outgoing...),
		Incoming: NewStringSet(),
	}
}

// OutgoingCount returns the number of unique outgoing targets.
func (e *LinkEntry) OutgoingCount() int { return e.Outgoing.Len() }

// IncomingCount returns the number of unique linking entries.
func (e *LinkEntry) IncomingCount() int { return e.Incoming.Len() }

// HasOutgoing reports whether the entry links to anything.
func (e *LinkEntry) HasOutgoing() bool { return e.Outgoing.Len() > 0 }

// HasIncoming reports whether anything links to the entry.
func (e *LinkEntry) HasIncoming() bool { return e.Incoming.Len() > 0 }

// Entries is a key-indexed collection of link entries that remembers
// collection order. That order is the tie-breaker of the stable sort.
type Entries struct {
	byKey map[string]*LinkEntry
	order []string
}

// NewEntries returns an empty collection.
func NewEntries() *Entries {
	return &Entries{byKey: make(map[string]*LinkEntry)}
}

// Add stores e under its key. A second entry with the same key replaces the
// first one but keeps its position.
func (es *Entries) Add(e *LinkEntry) {
	if _, ok := es.byKey[e.Key]; !ok {
		es.order = append(es.order, e.Key)
	}
	es.byKey[e.Key] = e
}

// Get returns the entry stored under key.
func (es *Entries) Get(key string) (*LinkEntry, bool) {
	e, ok := es.byKey[key]
	return e, ok
}

// Len returns the number of entries.
func (es *Entries) Len() int {
	return len(es.order)
}

// List returns the entries in collection order.
func (es *Entries) List() []*LinkEntry {
	out := make([]*LinkEntry, 0, len(es.order))
	for _, key := range es.order {
		out = append(out, es.byKey[key])
	}
	return out
}

// Retain keeps only the entries for which keep returns true and returns the
// removed ones in collection order.
func (es *Entries) Retain(keep func(*LinkEntry) bool) []*LinkEntry {
	var removed []*LinkEntry
	order := es.order[:0]
	for _, key := range es.order {
		e := es.byKey[key]
		if keep(e) {
			order = append(order, key)
			continue
		}
		delete(es.byKey, key)
		removed = append(removed, e)
	}
	es.order = order
	return removed
}

// CollisionMap counts how often each bare file name occurs in the vault.
type CollisionMap map[string]int

// Observe records one occurrence of name.
func (c CollisionMap) Observe(name string) {
	c[name]++
}

// Collides reports whether name is used by more than one file.
func (c CollisionMap) Collides(name string) bool {
	return c[name] > 1
}

// KeyFor returns the identity of f: its bare name, or its path without
// extension when that name collides.
func (c CollisionMap) KeyFor(f File) string {
	if c.Collides(f.Name()) {
		return f.PathWithoutExt()
	}
	return f.Name()
}
