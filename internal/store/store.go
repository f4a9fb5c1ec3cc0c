// Package store persists LLM usage records in PostgreSQL and serves the
// spend aggregations the budget gate needs.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/nordtime/aiguard/internal/budget"
)

// Store wraps the usage table. It implements budget.UsageStore.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Config contains database configuration
type Config struct {
	DatabaseURL     string        `yaml:"database_url" mapstructure:"database_url"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

// New connects to PostgreSQL and verifies the usage table is reachable.
func New(config *Config, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	store := &Store{db: db, logger: logger}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	logger.Info("Usage store initialized",
		zap.String("database_url", maskDatabaseURL(config.DatabaseURL)),
		zap.Int("max_open_conns", config.MaxOpenConns))

	return store, nil
}

// initialize pings the database and creates the usage table when missing.
func (s *Store) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS ai_usage_records (
			id            BIGSERIAL PRIMARY KEY,
			company_id    TEXT NOT NULL,
			endpoint      TEXT NOT NULL,
			model         TEXT NOT NULL,
			input_tokens  INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			cost_cents    DOUBLE PRECISION NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_ai_usage_company_created
			ON ai_usage_records (company_id, created_at)`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure usage table: %w", err)
	}

	return nil
}

// InsertUsage appends one usage record and fills in its ID and timestamp.
func (s *Store) InsertUsage(ctx context.Context, record *budget.UsageRecord) error {
	query := `
		INSERT INTO ai_usage_records (company_id, endpoint, model, input_tokens, output_tokens, cost_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		record.CompanyID,
		record.Endpoint,
		record.Model,
		record.InputTokens,
		record.OutputTokens,
		record.CostCents,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		s.logger.Error("Failed to insert usage record",
			zap.Error(err),
			zap.String("company_id", record.CompanyID),
			zap.String("endpoint", record.Endpoint))
		return fmt.Errorf("failed to insert usage record: %w", err)
	}

	s.logger.Debug("Usage record inserted",
		zap.Int64("id", record.ID),
		zap.String("company_id", record.CompanyID))

	return nil
}

// SumCostSince aggregates spend in cents for one tenant from the given
// boundary until now.
func (s *Store) SumCostSince(ctx context.Context, companyID string, since time.Time) (float64, error) {
	var cents float64
	query := `
		SELECT COALESCE(SUM(cost_cents), 0)
		FROM ai_usage_records
		WHERE company_id = $1 AND created_at >= $2`

	if err := s.db.GetContext(ctx, &cents, query, companyID, since); err != nil {
		s.logger.Error("Spend aggregation failed",
			zap.Error(err),
			zap.String("company_id", companyID))
		return 0, fmt.Errorf("failed to aggregate spend: %w", err)
	}

	return cents, nil
}

// RecentUsage lists the latest usage rows for one tenant, newest first.
func (s *Store) RecentUsage(ctx context.Context, companyID string, limit int) ([]budget.UsageRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []budget.UsageRecord
	query := `
		SELECT id, company_id, endpoint, model, input_tokens, output_tokens, cost_cents, created_at
		FROM ai_usage_records
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if err := s.db.SelectContext(ctx, &records, query, companyID, limit); err != nil {
		return nil, fmt.Errorf("failed to list usage records: %w", err)
	}

	return records, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// maskDatabaseURL masks sensitive information in database URL for logging
func maskDatabaseURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			userPart := parts[0]
			if strings.Contains(userPart, ":") {
				userParts := strings.Split(userPart, ":")
				if len(userParts) >= 3 {
					userParts[len(userParts)-1] = "***"
					parts[0] = strings.Join(userParts, ":")
				}
			}
			return strings.Join(parts, "@")
		}
	}
	return url
}
