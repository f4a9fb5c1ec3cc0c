package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/nordtime/aiguard/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SpendCache caches daily/monthly spend aggregates so the gate does not hit
// the store on every call. Implementations are optional.
type SpendCache interface {
	GetSpend(ctx context.Context, companyID, window string) (float64, bool)
	SetSpend(ctx context.Context, companyID, window string, cents float64)
	Invalidate(ctx context.Context, companyID string)
}

// Gate enforces per-tenant spend ceilings before any external paid API call.
// Callers must CheckBudget before incurring spend and TrackUsage after a
// successful call; the gate never invokes the external API itself.
type Gate struct {
	store  UsageStore
	cache  SpendCache
	limits Limits
	logger *logger.Logger

	// now is swapped in tests to pin calendar boundaries
	now func() time.Time
}

// NewGate creates a budget gate. cache may be nil.
func NewGate(store UsageStore, cache SpendCache, limits Limits, log *logger.Logger) *Gate {
	return &Gate{
		store:  store,
		cache:  cache,
		limits: limits,
		logger: log,
		now:    time.Now,
	}
}

// CheckBudget aggregates spend for the current calendar day and month and
// reports whether further external calls are allowed. Exceeding a ceiling is
// not an error: the status carries Allowed=false plus the raw figures so the
// caller can surface them.
func (g *Gate) CheckBudget(ctx context.Context, companyID string) (Status, error) {
	now := g.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var daily, monthly float64

	// the two aggregations are read-only and order-independent
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		daily, err = g.spendSince(egCtx, companyID, "daily", dayStart)
		return err
	})
	eg.Go(func() error {
		var err error
		monthly, err = g.spendSince(egCtx, companyID, "monthly", monthStart)
		return err
	})
	if err := eg.Wait(); err != nil {
		return Status{}, fmt.Errorf("failed to aggregate spend: %w", err)
	}

	status := Status{
		Allowed:           daily < g.limits.DailyCents && monthly < g.limits.MonthlyCents,
		DailyUsedCents:    daily,
		MonthlyUsedCents:  monthly,
		DailyLimitCents:   g.limits.DailyCents,
		MonthlyLimitCents: g.limits.MonthlyCents,
	}

	if !status.Allowed && g.logger != nil {
		g.logger.WithCompany(companyID).Warn("Budget ceiling reached",
			zap.Float64("daily_used_cents", daily),
			zap.Float64("monthly_used_cents", monthly),
			zap.Float64("daily_limit_cents", g.limits.DailyCents),
			zap.Float64("monthly_limit_cents", g.limits.MonthlyCents),
		)
	}

	return status, nil
}

// spendSince reads one aggregate, going through the cache when present.
func (g *Gate) spendSince(ctx context.Context, companyID, window string, since time.Time) (float64, error) {
	if g.cache != nil {
		if cents, ok := g.cache.GetSpend(ctx, companyID, window); ok {
			return cents, nil
		}
	}

	cents, err := g.store.SumCostSince(ctx, companyID, since)
	if err != nil {
		return 0, err
	}

	if g.cache != nil {
		g.cache.SetSpend(ctx, companyID, window, cents)
	}
	return cents, nil
}

// RecentUsage lists the latest usage rows for one tenant, newest first.
func (g *Gate) RecentUsage(ctx context.Context, companyID string, limit int) ([]UsageRecord, error) {
	records, err := g.store.RecentUsage(ctx, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage records: %w", err)
	}
	return records, nil
}

// TrackUsage prices one completed external call, appends the usage record
// and returns the computed cost in cents.
func (g *Gate) TrackUsage(ctx context.Context, companyID, endpoint, model string, inputTokens, outputTokens int) (float64, error) {
	pricing, known := PricingFor(model)
	if !known && g.logger != nil {
		g.logger.Warn("Unknown model, using default price tier", zap.String("model", model))
	}

	cost := pricing.Cost(inputTokens, outputTokens)

	record := &UsageRecord{
		CompanyID:    companyID,
		Endpoint:     endpoint,
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		CostCents:    cost,
	}
	if err := g.store.InsertUsage(ctx, record); err != nil {
		return 0, fmt.Errorf("failed to persist usage record: %w", err)
	}

	if g.cache != nil {
		g.cache.Invalidate(ctx, companyID)
	}

	if g.logger != nil {
		g.logger.WithCompany(companyID).Debug("Usage tracked",
			zap.String("endpoint", endpoint),
			zap.String("model", model),
			zap.Int("input_tokens", inputTokens),
			zap.Int("output_tokens", outputTokens),
			zap.Float64("cost_cents", cost),
		)
	}

	return cost, nil
}
