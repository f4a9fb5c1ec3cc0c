package redact

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nordtime/aiguard/internal/logger"
	"go.uber.org/zap"
)

// scannedDensityThreshold is the minimum extracted characters per page below
// which a document is presumed to be an image-only scan.
const scannedDensityThreshold = 100

// Pipeline orchestrates the full document redaction sequence:
// chunk -> select -> PII scrub -> known-entity scrub.
type Pipeline struct {
	extractor Extractor
	scrubber  *PIIScrubber
	logger    *logger.Logger
}

// NewPipeline creates a redaction pipeline. The extractor is the external
// text-extraction collaborator and may be nil when only RedactText is used.
func NewPipeline(extractor Extractor, log *logger.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		scrubber:  NewPIIScrubber(log),
		logger:    log,
	}
}

// RedactDocument extracts text from raw document bytes and redacts it. The
// result is safe to embed in an LLM prompt.
func (p *Pipeline) RedactDocument(ctx context.Context, document []byte, names KnownNames) (Result, error) {
	if p.extractor == nil {
		return Result{}, fmt.Errorf("no text extractor configured")
	}

	extraction, err := p.extractor.Extract(ctx, document)
	if err != nil {
		return Result{}, fmt.Errorf("text extraction failed: %w", err)
	}

	return p.RedactText(extraction.Text, extraction.PageCount, names), nil
}

// RedactText redacts already-extracted text. Documents whose text density
// falls below the scanned threshold short-circuit with IsScannedPDF set:
// there is nothing meaningful to scrub, and the caller can offer a
// manual-entry fallback instead of failing.
func (p *Pipeline) RedactText(text string, pageCount int, names KnownNames) Result {
	if pageCount < 1 {
		pageCount = 1
	}

	length := utf8.RuneCountInString(text)
	density := float64(length) / float64(pageCount)
	if density < scannedDensityThreshold {
		if p.logger != nil {
			p.logger.Info("Document presumed scanned, skipping redaction",
				zap.Int("characters", length),
				zap.Int("pages", pageCount),
				zap.Float64("density", density),
			)
		}
		return Result{
			IsScannedPDF: true,
			Stats:        Stats{OriginalLength: length},
		}
	}

	chunks := ChunkText(text)
	selected := SelectRelevantChunks(chunks)
	joined := strings.Join(selected, "\n\n")

	scrubbed, piiCount := p.scrubber.Scrub(joined)
	redacted, entityCount := ScrubKnownEntities(scrubbed, names)

	result := Result{
		RedactedText: redacted,
		Stats: Stats{
			OriginalLength:    length,
			ChunksTotal:       len(chunks),
			ChunksKept:        len(selected),
			RedactionsApplied: piiCount + entityCount,
		},
	}

	if p.logger != nil {
		p.logger.Info("Document redacted",
			zap.Int("chunks_total", result.Stats.ChunksTotal),
			zap.Int("chunks_kept", result.Stats.ChunksKept),
			zap.Int("redactions", result.Stats.RedactionsApplied),
		)
	}

	return result
}
