package relevance

import "sort"

// TagSet is a deduplicated set of normalized tags.
// Empty tags are never stored.
type TagSet map[string]struct{}

// NewTagSet builds a set from raw tags
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// Add normalizes and inserts tag
func (s TagSet) Add(tag string) {
	t := NormalizeTag(tag)
	if t == "" {
		return
	}
	s[t] = struct{}{}
}

// Has reports whether tag is in the set
func (s TagSet) Has(tag string) bool {
	_, ok := s[NormalizeTag(tag)]
	return ok
}

// Len returns the number of tags
func (s TagSet) Len() int {
	return len(s)
}

// Sorted returns the tags in lexical order
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy
func (s TagSet) Clone() TagSet {
	out := make(TagSet, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}
