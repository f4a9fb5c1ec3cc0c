// Package subst provides ordered literal text substitution shared by the
// redaction and anonymization layers. Replacements are plain find/replace-all
// (no regex), so special characters in names are safe, and pairs are applied
// longest-original-first so a full name is always consumed before any of its
// fragments could match inside it.
package subst

import (
	"sort"
	"strings"
)

// Pair maps one literal string to its replacement.
type Pair struct {
	Original    string
	Replacement string
}

// SortLongestFirst orders pairs by descending original length. The sort is
// stable so pairs of equal length keep their insertion order, which keeps
// substitution deterministic for a given input.
func SortLongestFirst(pairs []Pair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		return len(pairs[i].Original) > len(pairs[j].Original)
	})
}

// Apply replaces every occurrence of each pair's original with its
// replacement, longest original first. It returns the rewritten text and the
// number of distinct pairs that matched at least once.
func Apply(text string, pairs []Pair) (string, int) {
	ordered := make([]Pair, len(pairs))
	copy(ordered, pairs)
	SortLongestFirst(ordered)

	matched := 0
	for _, p := range ordered {
		if p.Original == "" {
			continue
		}
		if strings.Contains(text, p.Original) {
			text = strings.ReplaceAll(text, p.Original, p.Replacement)
			matched++
		}
	}
	return text, matched
}
