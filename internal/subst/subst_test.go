package subst

import "testing"

func TestApply(t *testing.T) {
	t.Run("LongestFirst", func(t *testing.T) {
		pairs := []Pair{
			{Original: "Anna", Replacement: "[PERSON_1]"},
			{Original: "Annabelle", Replacement: "[PERSON_2]"},
		}

		out, matched := Apply("Annabelle called Anna", pairs)
		if out != "[PERSON_2] called [PERSON_1]" {
			t.Errorf("Unexpected substitution result: %q", out)
		}
		if matched != 2 {
			t.Errorf("Expected 2 matched pairs, got %d", matched)
		}
	})

	t.Run("MatchedCountsDistinctPairs", func(t *testing.T) {
		pairs := []Pair{
			{Original: "Acme", Replacement: "[COMPANY]"},
			{Original: "Nobody", Replacement: "[PERSON_1]"},
		}

		out, matched := Apply("Acme and Acme again", pairs)
		if out != "[COMPANY] and [COMPANY] again" {
			t.Errorf("Unexpected substitution result: %q", out)
		}
		if matched != 1 {
			t.Errorf("Expected 1 matched pair, got %d", matched)
		}
	})

	t.Run("EmptyOriginalIgnored", func(t *testing.T) {
		out, matched := Apply("unchanged", []Pair{{Original: "", Replacement: "x"}})
		if out != "unchanged" || matched != 0 {
			t.Errorf("Empty original must be a no-op, got %q (%d)", out, matched)
		}
	})

	t.Run("InputSliceNotReordered", func(t *testing.T) {
		pairs := []Pair{
			{Original: "ab", Replacement: "1"},
			{Original: "abcd", Replacement: "2"},
		}
		Apply("abcd", pairs)
		if pairs[0].Original != "ab" {
			t.Error("Apply must not reorder the caller's slice")
		}
	})
}

func TestSortLongestFirst(t *testing.T) {
	pairs := []Pair{
		{Original: "aa", Replacement: "1"},
		{Original: "bb", Replacement: "2"},
		{Original: "cccc", Replacement: "3"},
	}
	SortLongestFirst(pairs)

	if pairs[0].Original != "cccc" {
		t.Errorf("Longest original should sort first, got %q", pairs[0].Original)
	}
	// stable: equal lengths keep insertion order
	if pairs[1].Original != "aa" || pairs[2].Original != "bb" {
		t.Errorf("Equal-length pairs must keep insertion order, got %q then %q",
			pairs[1].Original, pairs[2].Original)
	}
}
