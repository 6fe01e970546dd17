package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"insight-breakdown-service/internal/breakdowns/core/domain"
	"insight-breakdown-service/internal/breakdowns/core/ports"
)

// invalid_text_representation, raised for malformed uuids.
const pqInvalidTextRepresentation = "22P02"

type InsightRepository struct {
	db DB
}

func NewInsightRepository(db DB) *InsightRepository {
	return &InsightRepository{db: db}
}

var (
	_ ports.BreakdownFilterReaderPort = (*InsightRepository)(nil)
	_ ports.BreakdownFilterOwnerPort  = (*InsightRepository)(nil)
)

const selectBreakdownFilterSQL = `
SELECT breakdown_filter
FROM insights
WHERE id = $1
`

const updateBreakdownFilterSQL = `
UPDATE insights
SET breakdown_filter = $2,
    updated_at = now()
WHERE id = $1
`

const updateDisplayHintSQL = `
UPDATE insights
SET display_hint = $2,
    updated_at = now()
WHERE id = $1
`

func (r *InsightRepository) GetBreakdownFilter(ctx context.Context, insightID string) (domain.BreakdownFilter, error) {
	rows, err := r.db.QueryContext(ctx, selectBreakdownFilterSQL, insightID)
	if err != nil {
		return domain.BreakdownFilter{}, mapError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.BreakdownFilter{}, err
		}
		return domain.BreakdownFilter{}, ports.ErrInsightNotFound
	}

	// breakdown_filter is nullable; a new insight has none yet.
	var raw []byte
	if err := rows.Scan(&raw); err != nil {
		return domain.BreakdownFilter{}, err
	}
	if err := rows.Err(); err != nil {
		return domain.BreakdownFilter{}, err
	}

	var f domain.BreakdownFilter
	if len(raw) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return domain.BreakdownFilter{}, fmt.Errorf("decode breakdown_filter of insight %s: %w", insightID, err)
	}
	return f, nil
}

func (r *InsightRepository) UpdateBreakdownFilter(ctx context.Context, insightID string, f domain.BreakdownFilter) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return r.update(ctx, updateBreakdownFilterSQL, insightID, data)
}

func (r *InsightRepository) UpdateDisplay(ctx context.Context, insightID string, hint domain.DisplayHint) error {
	data, err := json.Marshal(hint)
	if err != nil {
		return err
	}
	return r.update(ctx, updateDisplayHintSQL, insightID, data)
}

func (r *InsightRepository) update(ctx context.Context, query, insightID string, payload []byte) error {
	res, err := r.db.ExecContext(ctx, query, insightID, payload)
	if err != nil {
		return mapError(err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ports.ErrInsightNotFound
	}
	return nil
}

func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqInvalidTextRepresentation {
		return fmt.Errorf("%w: %s", ports.ErrInsightNotFound, pqErr.Message)
	}
	return err
}
