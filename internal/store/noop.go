package store

import (
	"context"

	"github.com/rgehrsitz/pengo/internal/domain"
)

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordUsage(_ context.Context, _ *domain.UsageReport) error { return nil }
func (n *NoopRecorder) RecordBalances(_ context.Context, _ string, _ []domain.YearlyBalance) error {
	return nil
}
func (n *NoopRecorder) ListUsage(_ context.Context, _ UsageFilter) ([]domain.UsageReport, error) {
	return []domain.UsageReport{}, nil
}
func (n *NoopRecorder) Close() error { return nil }
