package redact

import (
	"strings"
	"unicode"
)

// minChunkLength drops fragments shorter than this many characters; shorter
// pieces are almost always page numbers, footers or extraction noise.
const minChunkLength = 20

// ChunkText splits raw extracted document text into semantic chunks. A new
// chunk starts on a blank-line run, a numbered-section start ("1." at line
// start) or an all-caps heading-like line. Chunk order follows document
// order; later stages depend on that ordering to reassemble readable text.
func ChunkText(text string) []string {
	lines := strings.Split(text, "\n")

	var chunks []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunk := strings.TrimSpace(strings.Join(current, "\n"))
		if len(chunk) >= minChunkLength {
			chunks = append(chunks, chunk)
		}
		current = current[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			continue
		}

		if startsNumberedSection(trimmed) || isHeadingLine(trimmed) {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return chunks
}

// startsNumberedSection reports whether a line begins like "1." or "12.".
func startsNumberedSection(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i < len(line) && line[i] == '.'
}

// isHeadingLine reports whether a line looks like an all-caps section
// heading. Lines without at least three letters are not considered headings,
// which keeps short codes and amounts from splitting chunks.
func isHeadingLine(line string) bool {
	letters := 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return letters >= 3
}
