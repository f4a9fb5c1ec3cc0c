package budget

import (
	"context"
	"time"
)

// UsageRecord is one row of LLM spend. Append-only; one record per external
// call.
type UsageRecord struct {
	ID           int64     `db:"id" json:"id"`
	CompanyID    string    `db:"company_id" json:"companyId"`
	Endpoint     string    `db:"endpoint" json:"endpoint"`
	Model        string    `db:"model" json:"model"`
	InputTokens  int       `db:"input_tokens" json:"inputTokens"`
	OutputTokens int       `db:"output_tokens" json:"outputTokens"`
	CostCents    float64   `db:"cost_cents" json:"costCents"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Status is the derived, non-persistent budget snapshot for one tenant.
type Status struct {
	Allowed           bool    `json:"allowed"`
	DailyUsedCents    float64 `json:"dailyUsedCents"`
	MonthlyUsedCents  float64 `json:"monthlyUsedCents"`
	DailyLimitCents   float64 `json:"dailyLimitCents"`
	MonthlyLimitCents float64 `json:"monthlyLimitCents"`
}

// Limits are the spend ceilings in cents.
type Limits struct {
	DailyCents   float64
	MonthlyCents float64
}

// UsageStore abstracts the external relational store. Implementations append
// usage rows, aggregate spend and list recent rows for the dashboard.
type UsageStore interface {
	InsertUsage(ctx context.Context, record *UsageRecord) error
	SumCostSince(ctx context.Context, companyID string, since time.Time) (float64, error)
	RecentUsage(ctx context.Context, companyID string, limit int) ([]UsageRecord, error)
}
