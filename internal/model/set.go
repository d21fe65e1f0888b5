package model

// StringSet is an insertion-ordered set of strings.
// The zero value is not usable; create one with NewStringSet.
type StringSet struct {
	items []string
	index map[string]struct{}
}

// NewStringSet returns a set containing the unique values of items in order.
func NewStringSet(items ...string) *StringSet {
	s := &StringSet{
		items: make([]string, 0, len(items)),
		index: make(map[string]struct{}, len(items)),
	}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts v and reports whether it was not present before.
func (s *StringSet) Add(v string) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Has reports whether v is in the set.
func (s *StringSet) Has(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[v]
	return ok
}

// Len returns the number of elements. A nil set is empty.
func (s *StringSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Values returns a copy of the elements in insertion order.
func (s *StringSet) Values() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
