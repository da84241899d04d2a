package repost

import "strings"

// OrderedSet collects trimmed, non-empty strings once each,
// in order of first insertion.
type OrderedSet struct {
	seen   map[string]struct{}
	values []string
}

// NewOrderedSet creates an empty OrderedSet.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{seen: make(map[string]struct{})}
}

// Add trims s and appends it unless it is empty or already present.
// Returns true if s was added.
func (s *OrderedSet) Add(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
	return true
}

// Contains reports whether the trimmed value has been added.
func (s *OrderedSet) Contains(v string) bool {
	_, ok := s.seen[strings.TrimSpace(v)]
	return ok
}

// Len returns the number of distinct values.
func (s *OrderedSet) Len() int {
	return len(s.values)
}

// Values returns the distinct values in insertion order.
// The returned slice is a copy.
func (s *OrderedSet) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Dedup trims every value and returns the non-empty ones,
// each once, in order of first occurrence.
func Dedup(values []string) []string {
	set := NewOrderedSet()
	for _, v := range values {
		set.Add(v)
	}
	return set.Values()
}
