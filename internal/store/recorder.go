package store

import (
	"context"
	"time"

	"github.com/rgehrsitz/pengo/internal/domain"
)

// UsageFilter narrows ListUsage to a creation-time window; zero bounds are open
type UsageFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

// Recorder persists usage reports and timeline balance snapshots for the admin
// statistics. Calculation never depends on it.
type Recorder interface {
	RecordUsage(ctx context.Context, usage *domain.UsageReport) error
	RecordBalances(ctx context.Context, runID string, balances []domain.YearlyBalance) error
	ListUsage(ctx context.Context, filter UsageFilter) ([]domain.UsageReport, error)
	Close() error
}
