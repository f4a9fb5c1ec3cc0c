package anonymize

import "github.com/nordtime/aiguard/internal/subst"

// DeanonymizeInsights restores real names inside LLM-generated insight
// records. Reversal pairs are applied longest-pseudonym-first so
// "Employee AB" is never partially matched by "Employee A". The input slice
// is not mutated; a new slice is returned.
func DeanonymizeInsights(records []InsightRecord, m *Map) []InsightRecord {
	pairs := make([]subst.Pair, 0, len(m.Employees)+len(m.Projects)+1)
	for _, p := range m.Employees {
		pairs = append(pairs, subst.Pair{Original: p.Pseudonym, Replacement: p.Real})
	}
	for _, p := range m.Projects {
		pairs = append(pairs, subst.Pair{Original: p.Pseudonym, Replacement: p.Real})
	}
	if m.CompanyName != "" {
		pairs = append(pairs, subst.Pair{Original: companyPseudonym, Replacement: m.CompanyName})
	}

	out := make([]InsightRecord, len(records))
	for i, record := range records {
		restored := record
		restored.Title, _ = subst.Apply(record.Title, pairs)
		restored.Description, _ = subst.Apply(record.Description, pairs)
		if record.Suggestion != "" {
			restored.Suggestion, _ = subst.Apply(record.Suggestion, pairs)
		}
		out[i] = restored
	}
	return out
}
