package redact

import (
	"sort"
	"strings"
)

const (
	// smallDocumentChunks is the fast-path bound: documents at or below this
	// many chunks are sent whole. Small contracts are cheap enough, and
	// skipping selection avoids biasing what the model sees.
	smallDocumentChunks = 15
	// maxSelectedChunks bounds LLM input size for large documents.
	maxSelectedChunks = 12
)

// topicKeywords are the five fixed relevance groups: budget/fee terms,
// hours/duration terms, deadline/term terms, scope/obligation terms and
// exclusion terms. Matching is case-insensitive substring search; Danish and
// English forms are both listed because extracted contracts mix languages.
var topicKeywords = [][]string{
	{"budget", "pris", "honorar", "vederlag", "betaling", "fee", "fakturer", "beløb", "rabat", "dkk", "kr."},
	{"timer", "hours", "timeforbrug", "estimat", "varighed", "arbejdsuge", "allokering"},
	{"deadline", "frist", "levering", "termin", "opsigelse", "ikrafttræden", "løbetid", "dato"},
	{"omfang", "scope", "leverance", "ydelse", "opgave", "ansvar", "forpligtelse", "garanti"},
	{"eksklusiv", "undtaget", "ikke omfattet", "excluded", "forbehold", "begrænsning"},
}

// scoredChunk pairs a chunk with its original document index and keyword
// score.
type scoredChunk struct {
	index int
	score int
	text  string
}

// SelectRelevantChunks returns the chunks worth sending to the LLM. At or
// below the small-document bound everything passes through unchanged. Above
// it, each chunk is scored by keyword occurrences across the topic groups,
// the top scorers are kept (ties broken by original order), and the kept
// chunks are re-sorted to document order so the joined text still reads
// top-to-bottom.
func SelectRelevantChunks(chunks []string) []string {
	if len(chunks) <= smallDocumentChunks {
		return chunks
	}

	scored := make([]scoredChunk, len(chunks))
	for i, chunk := range chunks {
		scored[i] = scoredChunk{index: i, score: scoreChunk(chunk), text: chunk}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})

	kept := scored[:maxSelectedChunks]
	sort.Slice(kept, func(a, b int) bool {
		return kept[a].index < kept[b].index
	})

	result := make([]string, len(kept))
	for i, c := range kept {
		result[i] = c.text
	}
	return result
}

// scoreChunk counts keyword occurrences across all topic groups. Overlapping
// keywords are not deduplicated; a chunk mentioning "budget" three times
// scores three.
func scoreChunk(chunk string) int {
	lower := strings.ToLower(chunk)
	score := 0
	for _, group := range topicKeywords {
		for _, keyword := range group {
			score += strings.Count(lower, keyword)
		}
	}
	return score
}
