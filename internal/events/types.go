package events

import "time"

// EventType represents the type of dashboard event
type EventType string

const (
	// EventTypeRedaction is emitted after a document redaction completes.
	EventTypeRedaction EventType = "redaction"
	// EventTypeAnonymization is emitted after a structured payload is
	// anonymized.
	EventTypeAnonymization EventType = "anonymization"
	// EventTypeBudgetBlocked is emitted when a budget check denies a call.
	EventTypeBudgetBlocked EventType = "budget_blocked"
	// EventTypeUsageTracked is emitted after spend is recorded.
	EventTypeUsageTracked EventType = "usage_tracked"
)

// Event is one message pushed to dashboard clients. Payloads carry counts
// and placeholders only; real names and document text never enter the feed.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
	Data      interface{} `json:"data"`
}

// RedactionEvent summarizes one redaction run.
type RedactionEvent struct {
	CompanyID         string `json:"company_id"`
	ChunksTotal       int    `json:"chunks_total"`
	ChunksKept        int    `json:"chunks_kept"`
	RedactionsApplied int    `json:"redactions_applied"`
	IsScannedPDF      bool   `json:"is_scanned_pdf"`
}

// AnonymizationEvent summarizes one structured anonymization run.
type AnonymizationEvent struct {
	CompanyID     string `json:"company_id"`
	EmployeeCount int    `json:"employee_count"`
	ProjectCount  int    `json:"project_count"`
}

// BudgetBlockedEvent reports a denied external call.
type BudgetBlockedEvent struct {
	CompanyID         string  `json:"company_id"`
	DailyUsedCents    float64 `json:"daily_used_cents"`
	MonthlyUsedCents  float64 `json:"monthly_used_cents"`
	DailyLimitCents   float64 `json:"daily_limit_cents"`
	MonthlyLimitCents float64 `json:"monthly_limit_cents"`
}

// UsageTrackedEvent reports one recorded spend entry.
type UsageTrackedEvent struct {
	CompanyID    string  `json:"company_id"`
	Endpoint     string  `json:"endpoint"`
	Model        string  `json:"model"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostCents    float64 `json:"cost_cents"`
}
