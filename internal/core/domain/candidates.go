package domain

import "strings"

// CandidateList is an ordered list of model identifiers, most preferred first.
// It never contains blank or duplicate entries when built with NewCandidateList.
type CandidateList []string

// NewCandidateList trims ids, drops blanks and keeps the first occurrence of each id.
func NewCandidateList(ids ...string) CandidateList {
	out := make(CandidateList, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Empty reports whether the list has no usable candidate.
func (c CandidateList) Empty() bool {
	return len(c) == 0
}

// Primary returns the first candidate, or "" if the list is empty.
func (c CandidateList) Primary() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Strings returns a copy as a plain slice.
func (c CandidateList) Strings() []string {
	out := make([]string, len(c))
	copy(out, c)
	return out
}
