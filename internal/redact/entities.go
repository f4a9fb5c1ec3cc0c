package redact

import (
	"fmt"
	"strings"

	"github.com/nordtime/aiguard/internal/subst"
)

// minFragmentLength keeps very short name fragments ("Bo", "Li") from
// matching inside unrelated words.
const minFragmentLength = 3

// ScrubKnownEntities replaces the caller-supplied company, employee and
// project names with stable placeholders. Name fragments of an employee map
// to the same [PERSON_i] placeholder as the full name, so "John" and
// "John Smith" never end up with different numbers in the redacted text.
// Substitution is literal find/replace applied longest-string-first.
// Returns the scrubbed text and the count of distinct matched terms.
func ScrubKnownEntities(text string, names KnownNames) (string, int) {
	var pairs []subst.Pair

	if names.CompanyName != "" {
		pairs = append(pairs, subst.Pair{Original: names.CompanyName, Replacement: "[COMPANY]"})
	}

	person := 0
	for _, employee := range names.EmployeeNames {
		if strings.TrimSpace(employee) == "" {
			continue
		}
		person++
		placeholder := fmt.Sprintf("[PERSON_%d]", person)
		pairs = append(pairs, subst.Pair{Original: employee, Replacement: placeholder})

		for _, fragment := range strings.Fields(employee) {
			if len([]rune(fragment)) < minFragmentLength || fragment == employee {
				continue
			}
			pairs = append(pairs, subst.Pair{Original: fragment, Replacement: placeholder})
		}
	}

	proj := 0
	for _, project := range names.ProjectNames {
		if strings.TrimSpace(project) == "" {
			continue
		}
		proj++
		pairs = append(pairs, subst.Pair{Original: project, Replacement: fmt.Sprintf("[PROJECT_%d]", proj)})
	}

	return subst.Apply(text, pairs)
}
