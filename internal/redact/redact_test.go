package redact

import (
	"fmt"
	"strings"
	"testing"
)

func TestChunkText(t *testing.T) {
	t.Run("SplitsOnBlankLines", func(t *testing.T) {
		text := "First paragraph with enough text to keep.\n\nSecond paragraph, also long enough to keep."
		chunks := ChunkText(text)
		if len(chunks) != 2 {
			t.Fatalf("Expected 2 chunks, got %d: %v", len(chunks), chunks)
		}
	})

	t.Run("SplitsOnNumberedSections", func(t *testing.T) {
		text := "1. Scope of the engagement and deliverables.\n2. Fees and payment terms for the project."
		chunks := ChunkText(text)
		if len(chunks) != 2 {
			t.Fatalf("Expected 2 chunks, got %d: %v", len(chunks), chunks)
		}
		if !strings.HasPrefix(chunks[1], "2.") {
			t.Errorf("Second chunk should start at section 2, got %q", chunks[1])
		}
	})

	t.Run("SplitsOnHeadings", func(t *testing.T) {
		text := "Intro paragraph long enough to survive filtering.\nPAYMENT TERMS\nFees are invoiced monthly in arrears."
		chunks := ChunkText(text)
		if len(chunks) != 2 {
			t.Fatalf("Expected 2 chunks, got %d: %v", len(chunks), chunks)
		}
		if !strings.HasPrefix(chunks[1], "PAYMENT TERMS") {
			t.Errorf("Heading should start a new chunk, got %q", chunks[1])
		}
	})

	t.Run("DropsShortFragments", func(t *testing.T) {
		text := "Page 3\n\nA real paragraph that is clearly long enough."
		chunks := ChunkText(text)
		if len(chunks) != 1 {
			t.Fatalf("Expected short fragment to be dropped, got %v", chunks)
		}
	})

	t.Run("PreservesDocumentOrder", func(t *testing.T) {
		var parts []string
		for i := 0; i < 5; i++ {
			parts = append(parts, fmt.Sprintf("Paragraph number %d with enough filler to keep.", i))
		}
		chunks := ChunkText(strings.Join(parts, "\n\n"))
		for i, chunk := range chunks {
			if !strings.Contains(chunk, fmt.Sprintf("number %d", i)) {
				t.Errorf("Chunk %d out of order: %q", i, chunk)
			}
		}
	})
}

func TestSelectRelevantChunks(t *testing.T) {
	makeChunks := func(n int) []string {
		chunks := make([]string, n)
		for i := 0; i < n; i++ {
			chunks[i] = fmt.Sprintf("Paragraph %02d about general matters and nothing more.", i)
		}
		return chunks
	}

	t.Run("SmallDocumentPassesThrough", func(t *testing.T) {
		chunks := makeChunks(10)
		selected := SelectRelevantChunks(chunks)
		if len(selected) != 10 {
			t.Fatalf("Expected all 10 chunks, got %d", len(selected))
		}
		for i := range chunks {
			if selected[i] != chunks[i] {
				t.Errorf("Chunk %d changed or reordered", i)
			}
		}
	})

	t.Run("LargeDocumentBounded", func(t *testing.T) {
		chunks := makeChunks(30)
		// make a few chunks commercially relevant
		chunks[3] += " The budget covers 400 timer and the honorar is fixed."
		chunks[17] += " Deadline for levering is fixed, opsigelse requires notice."
		chunks[25] += " Scope and leverance are limited, forbehold applies."

		selected := SelectRelevantChunks(chunks)
		if len(selected) != 12 {
			t.Fatalf("Expected 12 chunks, got %d", len(selected))
		}

		// scored chunks must survive selection
		for _, marker := range []string{"budget", "Deadline", "leverance"} {
			found := false
			for _, chunk := range selected {
				if strings.Contains(chunk, marker) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("High-scoring chunk containing %q was dropped", marker)
			}
		}

		// kept chunks must read in original document order
		last := -1
		for _, chunk := range selected {
			var idx int
			if _, err := fmt.Sscanf(chunk, "Paragraph %d", &idx); err != nil {
				t.Fatalf("Cannot parse chunk index from %q: %v", chunk, err)
			}
			if idx <= last {
				t.Errorf("Chunks out of document order: %d after %d", idx, last)
			}
			last = idx
		}
	})
}

func TestPIIScrubber(t *testing.T) {
	scrubber := NewPIIScrubber(nil)

	t.Run("Email", func(t *testing.T) {
		out, count := scrubber.Scrub("Contact anders@acme.dk for details.")
		if !strings.Contains(out, "[EMAIL_1]") || strings.Contains(out, "acme.dk") {
			t.Errorf("Email not masked: %q", out)
		}
		if count != 1 {
			t.Errorf("Expected 1 redaction, got %d", count)
		}
	})

	t.Run("RepeatedEmailDeduplicated", func(t *testing.T) {
		out, count := scrubber.Scrub("Write anders@acme.dk or anders@acme.dk again.")
		if strings.Count(out, "[EMAIL_1]") != 2 {
			t.Errorf("Both occurrences should reuse one placeholder: %q", out)
		}
		if count != 1 {
			t.Errorf("Identical value must count once, got %d", count)
		}
	})

	t.Run("NationalID", func(t *testing.T) {
		out, _ := scrubber.Scrub("CPR 010190-1234 on file.")
		if !strings.Contains(out, "[CPR_1]") || strings.Contains(out, "010190-1234") {
			t.Errorf("National ID not masked: %q", out)
		}
	})

	t.Run("IBAN", func(t *testing.T) {
		out, _ := scrubber.Scrub("Transfer to DK50 0040 0440 1162 43 before invoicing.")
		if !strings.Contains(out, "[IBAN_1]") {
			t.Errorf("IBAN not masked: %q", out)
		}
	})

	t.Run("BusinessRegistration", func(t *testing.T) {
		out, _ := scrubber.Scrub("Registered under CVR-nr. 12345678 in Denmark.")
		if !strings.Contains(out, "[CVR_1]") || strings.Contains(out, "12345678") {
			t.Errorf("CVR not masked: %q", out)
		}
	})

	t.Run("PostalAddress", func(t *testing.T) {
		out, _ := scrubber.Scrub("Office at 8000 Aarhus C near the harbour.")
		if !strings.Contains(out, "[ADDRESS_1]") {
			t.Errorf("Postal address not masked: %q", out)
		}
	})

	t.Run("Phone", func(t *testing.T) {
		out, _ := scrubber.Scrub("Call +45 12 34 56 78 during business hours.")
		if !strings.Contains(out, "[PHONE_1]") {
			t.Errorf("Phone not masked: %q", out)
		}
	})

	t.Run("BareShortNumbersKept", func(t *testing.T) {
		out, count := scrubber.Scrub("The fee is 45000 covering 120 timer.")
		if strings.Contains(out, "[PHONE") {
			t.Errorf("Monetary amount misclassified as phone: %q", out)
		}
		if count != 0 {
			t.Errorf("Expected no redactions, got %d", count)
		}
	})
}

func TestScrubKnownEntities(t *testing.T) {
	t.Run("FragmentConsistency", func(t *testing.T) {
		names := KnownNames{EmployeeNames: []string{"Anna Berg"}}
		out, _ := ScrubKnownEntities("Anna Berg asked. Anna agreed. Berg signed.", names)
		if strings.Count(out, "[PERSON_1]") != 3 {
			t.Errorf("All name forms must share one placeholder: %q", out)
		}
		if strings.Contains(out, "Anna") || strings.Contains(out, "Berg") {
			t.Errorf("Residual name fragment: %q", out)
		}
	})

	t.Run("LongestMatchSafety", func(t *testing.T) {
		names := KnownNames{EmployeeNames: []string{"Anna", "Annabelle"}}
		out, _ := ScrubKnownEntities("Annabelle called Anna", names)
		if out != "[PERSON_2] called [PERSON_1]" {
			t.Errorf("Placeholder boundaries corrupted: %q", out)
		}
	})

	t.Run("ShortFragmentsIgnored", func(t *testing.T) {
		names := KnownNames{EmployeeNames: []string{"Bo Madsen"}}
		out, _ := ScrubKnownEntities("Bo Madsen booked both rooms.", names)
		if strings.Contains(out, "[PERSON_1]oth") {
			t.Errorf("Two-letter fragment should not match inside words: %q", out)
		}
		if !strings.HasPrefix(out, "[PERSON_1] booked") {
			t.Errorf("Full name not masked: %q", out)
		}
	})

	t.Run("EmptyRosterIsNoop", func(t *testing.T) {
		out, count := ScrubKnownEntities("Nothing to hide here.", KnownNames{})
		if out != "Nothing to hide here." || count != 0 {
			t.Errorf("Empty roster must be a no-op, got %q (%d)", out, count)
		}
	})
}

func TestPipeline(t *testing.T) {
	pipeline := NewPipeline(nil, nil)

	t.Run("ScannedDocumentShortCircuits", func(t *testing.T) {
		text := strings.Repeat("x", 200)
		result := pipeline.RedactText(text, 3, KnownNames{})
		if !result.IsScannedPDF {
			t.Error("Density 200/3 is below threshold, expected scanned flag")
		}
		if result.RedactedText != "" {
			t.Errorf("Scanned documents must return empty text, got %q", result.RedactedText)
		}
	})

	t.Run("DenseDocumentProceeds", func(t *testing.T) {
		text := strings.Repeat("The parties agree on the stated terms herein. ", 14)
		result := pipeline.RedactText(text, 3, KnownNames{})
		if result.IsScannedPDF {
			t.Error("Density 200/page should pass the scanned gate")
		}
		if result.Stats.ChunksTotal == 0 || result.Stats.ChunksKept == 0 {
			t.Errorf("Expected chunk stats to be populated: %+v", result.Stats)
		}
	})

	t.Run("EndToEnd", func(t *testing.T) {
		names := KnownNames{
			CompanyName:   "Acme ApS",
			EmployeeNames: []string{"Anders Holm"},
			ProjectNames:  []string{"Havnefronten"},
		}
		text := "Anders Holm works at Acme ApS on Havnefronten. Contact: anders@acme.dk."

		scrubbed, piiCount := NewPIIScrubber(nil).Scrub(text)
		out, entityCount := ScrubKnownEntities(scrubbed, names)

		for _, leaked := range []string{"Anders", "Acme", "Havnefronten", "anders@acme.dk"} {
			if strings.Contains(out, leaked) {
				t.Errorf("Residual identifier %q in output: %q", leaked, out)
			}
		}
		for _, placeholder := range []string{"[PERSON_1]", "[COMPANY]", "[PROJECT_1]", "[EMAIL_1]"} {
			if strings.Count(out, placeholder) != 1 {
				t.Errorf("Expected exactly one %s in output: %q", placeholder, out)
			}
		}
		if piiCount != 1 || entityCount != 3 {
			t.Errorf("Unexpected redaction counts: pii=%d entities=%d", piiCount, entityCount)
		}
	})
}
