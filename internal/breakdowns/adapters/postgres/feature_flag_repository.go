package postgres

import (
	"context"

	"insight-breakdown-service/internal/breakdowns/core/ports"
)

type FeatureFlagRepository struct {
	db DB
}

func NewFeatureFlagRepository(db DB) *FeatureFlagRepository {
	return &FeatureFlagRepository{db: db}
}

var _ ports.FeatureFlagReaderPort = (*FeatureFlagRepository)(nil)

const selectFeatureFlagSQL = `
SELECT enabled
FROM feature_flags
WHERE key = $1
`

// IsEnabled is not cached; every call hits the table.
func (r *FeatureFlagRepository) IsEnabled(ctx context.Context, key string) (bool, error) {
	rows, err := r.db.QueryContext(ctx, selectFeatureFlagSQL, key)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	var enabled bool
	if rows.Next() {
		if err := rows.Scan(&enabled); err != nil {
			return false, err
		}
	}
	if err := rows.Err(); err != nil {
		return false, err
	}
	return enabled, nil
}
