package model

import (
	"reflect"
	"testing"
)

func TestStringSet(t *testing.T) {
	t.Parallel()

	t.Run("keeps insertion order and drops duplicates", func(t *testing.T) {
		t.Parallel()
		s := NewStringSet("b", "a", "b", "c", "a")
		expected := []string{"b", "a", "c"}
		if !reflect.DeepEqual(s.Values(), expected) {
			t.Errorf("expected %v, got %v", expected, s.Values())
		}
		if s.Add("a") {
			t.Error("expected Add of an existing value to return false")
		}
		if !s.Add("d") {
			t.Error("expected Add of a new value to return true")
		}
	})

	t.Run("nil set is empty", func(t *testing.T) {
		t.Parallel()
		var s *StringSet
		if s.Len() != 0 || s.Has("x") || s.Values() != nil {
			t.Error("expected nil set to behave as empty")
		}
	})
}

func TestCollisionMap(t *testing.T) {
	t.Parallel()

	c := CollisionMap{}
	for _, p := range []string{"notes/x.md", "other/x.md", "y.md"} {
		c.Observe(NewFile(p).Name())
	}

	testCases := []struct {
		path     string
		expected string
	}{
		{"notes/x.md", "notes/x"},
		{"other/x.md", "other/x"},
		{"y.md", "y"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			if got := c.KeyFor(NewFile(tc.path)); got != tc.expected {
				t.Errorf("KeyFor(%q) = %q, expected %q", tc.path, got, tc.expected)
			}
		})
	}
}

func TestEntries(t *testing.T) {
	t.Parallel()

	es := NewEntries()
	es.Add(NewLinkEntry("c", "c.md", nil))
	es.Add(NewLinkEntry("a", "a.md", []string{"c"}))
	es.Add(NewLinkEntry("b", "b.md", nil))

	removed := es.Retain(func(e *LinkEntry) bool { return e.Key != "a" })
	if len(removed) != 1 || removed[0].Key != "a" {
		t.Fatalf("expected a to be removed, got %v", removed)
	}
	if es.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", es.Len())
	}

	var keys []string
	for _, e := range es.List() {
		keys = append(keys, e.Key)
	}
	if !reflect.DeepEqual(keys, []string{"c", "b"}) {
		t.Errorf("expected collection order [c b], got %v", keys)
	}
	if _, ok := es.Get("a"); ok {
		t.Error("expected a to be gone")
	}
}
