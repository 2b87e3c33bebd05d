package domain

import "sort"

// RecipientSet is the derived, transient result of recipient resolution:
// the candidate user ids for a notification and the ids excluded from it
// (the actor, or a membership delta). Both sides have set semantics, so a
// user appearing twice in a membership array is still counted once.
type RecipientSet struct {
	candidates map[string]struct{}
	exclude    map[string]struct{}
}

// NewRecipientSet builds a RecipientSet from raw id slices, deduplicating
// both sides.
func NewRecipientSet(candidates, exclude []string) RecipientSet {
	s := RecipientSet{
		candidates: make(map[string]struct{}, len(candidates)),
		exclude:    make(map[string]struct{}, len(exclude)),
	}
	for _, id := range candidates {
		if id != "" {
			s.candidates[id] = struct{}{}
		}
	}
	for _, id := range exclude {
		if id != "" {
			s.exclude[id] = struct{}{}
		}
	}
	return s
}

// Candidates returns the candidate ids in sorted order.
func (s RecipientSet) Candidates() []string {
	return sortedKeys(s.candidates)
}

// Excluded returns the excluded ids in sorted order.
func (s RecipientSet) Excluded() []string {
	return sortedKeys(s.exclude)
}

// UserIDs returns candidates minus exclusions, sorted. This is the final
// input to token resolution.
func (s RecipientSet) UserIDs() []string {
	ids := make([]string, 0, len(s.candidates))
	for id := range s.candidates {
		if _, skip := s.exclude[id]; !skip {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// IsEmpty reports whether no user remains after exclusions.
func (s RecipientSet) IsEmpty() bool {
	return len(s.UserIDs()) == 0
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
