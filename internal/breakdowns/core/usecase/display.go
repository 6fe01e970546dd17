package usecase

import (
	"fmt"

	"insight-breakdown-service/internal/breakdowns/core/domain"
)

// DisplayPolicy decides whether a filter change should be followed by a
// display hint to the insight owner.
type DisplayPolicy interface {
	DisplayHint(prev, next domain.BreakdownFilter) (domain.DisplayHint, bool)
}

// NoDisplayPolicy never emits a hint.
type NoDisplayPolicy struct{}

func (NoDisplayPolicy) DisplayHint(_, _ domain.BreakdownFilter) (domain.DisplayHint, bool) {
	return domain.DisplayHint{}, false
}

// CardinalityDisplayPolicy emits a hint when the breakdown count crosses
// between zero and one or more, or when the filter switches between the
// single and multiple shapes.
type CardinalityDisplayPolicy struct{}

func (CardinalityDisplayPolicy) DisplayHint(prev, next domain.BreakdownFilter) (domain.DisplayHint, bool) {
	hint := domain.DisplayHint{
		PreviousCount: prev.Count(),
		NextCount:     next.Count(),
		Multiple:      next.IsMultiple(),
	}

	switch {
	case hint.PreviousCount == 0 && hint.NextCount > 0:
		hint.Reason = domain.DisplayHintBreakdownsAdded
	case hint.PreviousCount > 0 && hint.NextCount == 0:
		hint.Reason = domain.DisplayHintBreakdownsCleared
	case hint.PreviousCount > 0 && prev.IsMultiple() != next.IsMultiple():
		hint.Reason = domain.DisplayHintShapeChanged
	default:
		return domain.DisplayHint{}, false
	}
	return hint, true
}

const (
	DisplayPolicyNone        = "none"
	DisplayPolicyCardinality = "cardinality"
)

// NewDisplayPolicy resolves a policy by its configured name.
func NewDisplayPolicy(name string) (DisplayPolicy, error) {
	switch name {
	case "", DisplayPolicyNone:
		return NoDisplayPolicy{}, nil
	case DisplayPolicyCardinality:
		return CardinalityDisplayPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown display hint policy %q", name)
	}
}
