package ports

import (
	"context"
	"errors"

	"insight-breakdown-service/internal/breakdowns/core/domain"
)

var ErrInsightNotFound = errors.New("insight not found")

// BreakdownFilterReaderPort supplies the insight's current breakdown filter.
type BreakdownFilterReaderPort interface {
	GetBreakdownFilter(ctx context.Context, insightID string) (domain.BreakdownFilter, error)
}

// BreakdownFilterOwnerPort is the insight that owns the breakdown filter.
// It always receives the complete filter, never a partial update.
type BreakdownFilterOwnerPort interface {
	UpdateBreakdownFilter(ctx context.Context, insightID string, f domain.BreakdownFilter) error
	UpdateDisplay(ctx context.Context, insightID string, hint domain.DisplayHint) error
}

type FeatureFlagReaderPort interface {
	// IsEnabled reports false for unknown flags.
	IsEnabled(ctx context.Context, key string) (bool, error)
}
