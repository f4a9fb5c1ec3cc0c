package redact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nordtime/aiguard/internal/logger"
	"github.com/nordtime/aiguard/internal/subst"
	"go.uber.org/zap"
)

// PIIScrubber applies the ordered regex detectors for generic PII. Rule order
// is a correctness requirement: PHONE runs last because its pattern is the
// most permissive and would otherwise swallow substrings that are really
// CPR/IBAN/CVR matches. Once an earlier pass has replaced a substring, later
// passes no longer see the original characters.
type PIIScrubber struct {
	rules  []detectionRule
	logger *logger.Logger
}

// NewPIIScrubber creates a scrubber with the default detector set.
func NewPIIScrubber(log *logger.Logger) *PIIScrubber {
	return &PIIScrubber{
		rules:  defaultRules(),
		logger: log,
	}
}

// defaultRules returns the detectors in evaluation order. Keep PHONE last.
func defaultRules() []detectionRule {
	return []detectionRule{
		{
			Category: "EMAIL",
			Pattern:  regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`),
		},
		{
			Category: "CPR",
			Pattern:  regexp.MustCompile(`\b\d{6}-\d{4}\b`),
		},
		{
			Category: "IBAN",
			Pattern:  regexp.MustCompile(`\b[A-Z]{2}\d{2}(?: ?\d{4}){2,6}(?: ?\d{1,3})?\b`),
		},
		{
			Category: "CVR",
			Pattern:  regexp.MustCompile(`(?i)\bCVR(?:[-. ]?nr\.?)?[:. ]*\d{8}\b`),
		},
		{
			Category: "ADDRESS",
			Pattern:  regexp.MustCompile(`\b\d{4} [A-ZÆØÅ][A-Za-zÆØÅæøå.\-]*(?: [A-Za-zÆØÅæøå.\-]+)?`),
		},
		{
			Category: "PHONE",
			Pattern:  regexp.MustCompile(`(?:\+?45[ .\-]?)?\b\d(?:[ .\-]?\d){3,9}\b`),
			// Bare 4-6 digit numbers are far more likely to be monetary
			// amounts or hour counts than phone numbers. Misclassifying them
			// would corrupt contract-term extraction, so those matches are
			// skipped. Accepted approximation.
			Skip: isBareShortNumber,
		},
	}
}

// Scrub runs every detector in order and replaces matches with stable
// [CATEGORY_n] placeholders. Repeated occurrences of the identical string get
// the identical placeholder, so one person's email appearing twice collapses
// to one placeholder and the redaction count reflects distinct values, not
// raw occurrences.
func (s *PIIScrubber) Scrub(text string) (string, int) {
	total := 0

	for _, rule := range s.rules {
		matches := rule.Pattern.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}

		seen := make(map[string]bool)
		var pairs []subst.Pair
		for _, match := range matches {
			if rule.Skip != nil && rule.Skip(match) {
				continue
			}
			if seen[match] {
				continue
			}
			seen[match] = true
			pairs = append(pairs, subst.Pair{
				Original:    match,
				Replacement: fmt.Sprintf("[%s_%d]", rule.Category, len(pairs)+1),
			})
		}

		// longest-first so one matched value cannot corrupt another that
		// contains it
		subst.SortLongestFirst(pairs)
		for _, p := range pairs {
			text = strings.ReplaceAll(text, p.Original, p.Replacement)
		}
		total += len(pairs)

		if len(pairs) > 0 && s.logger != nil {
			s.logger.Debug("PII detected and masked",
				zap.String("category", rule.Category),
				zap.Int("distinct_values", len(pairs)),
			)
		}
	}

	return text, total
}

// isBareShortNumber reports whether a PHONE match is just 4-6 digits with no
// separators or country prefix.
func isBareShortNumber(match string) bool {
	if len(match) < 4 || len(match) > 6 {
		return false
	}
	for i := 0; i < len(match); i++ {
		if match[i] < '0' || match[i] > '9' {
			return false
		}
	}
	return true
}
