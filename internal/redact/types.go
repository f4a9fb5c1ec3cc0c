package redact

import (
	"context"
	"regexp"
)

// KnownNames carries the real-world identifiers the scrubber must hide.
// It is supplied fresh per call from the caller's current roster and never
// persisted by this package.
type KnownNames struct {
	CompanyName   string   `json:"companyName"`
	EmployeeNames []string `json:"employeeNames"`
	ProjectNames  []string `json:"projectNames"`
}

// Stats aggregates what the pipeline did to a single document.
type Stats struct {
	OriginalLength    int `json:"originalLength"`
	ChunksTotal       int `json:"chunksTotal"`
	ChunksKept        int `json:"chunksKept"`
	RedactionsApplied int `json:"redactionsApplied"`
}

// Result is the outcome of one document redaction call. It is created once
// per call, handed to the LLM-call collaborator and discarded.
type Result struct {
	RedactedText string `json:"redactedText"`
	IsScannedPDF bool   `json:"isScannedPdf"`
	Stats        Stats  `json:"stats"`
}

// Extraction is the output of the external PDF text-extraction collaborator.
type Extraction struct {
	Text      string `json:"text"`
	PageCount int    `json:"pageCount"`
}

// Extractor abstracts the external text-extraction service. Implementations
// live outside this package.
type Extractor interface {
	Extract(ctx context.Context, document []byte) (Extraction, error)
}

// detectionRule is one PII detector: a compiled pattern plus the category tag
// used to build [CATEGORY_n] placeholders.
type detectionRule struct {
	Category string
	Pattern  *regexp.Regexp
	// Skip filters out matches that are more likely to be something else
	// (monetary amounts, hour counts). Optional.
	Skip func(match string) bool
}
