package usecase

import (
	"errors"
	"fmt"

	"insight-breakdown-service/internal/breakdowns/core/domain"
)

var (
	ErrBreakdownNotFound                 = errors.New("breakdown to replace not found")
	ErrReplaceRequiresMultipleBreakdowns = errors.New("replacing a breakdown requires multiple breakdowns mode")
)

type Mode int

const (
	ModeSingle Mode = iota
	ModeMultiple
)

func (m Mode) String() string {
	if m == ModeMultiple {
		return "multiple"
	}
	return "single"
}

// Mutation is the outcome of a breakdown operation. When Propagate is false
// the operation was a no-op and the owner must not be told about it.
type Mutation struct {
	Next      domain.BreakdownFilter
	Propagate bool
}

func unchanged(current domain.BreakdownFilter) Mutation {
	return Mutation{Next: current}
}

func changed(current, next domain.BreakdownFilter) Mutation {
	next.Extra = current.Extra
	return Mutation{Next: next, Propagate: true}
}

// AddBreakdown adds the value picked from group.
//
// In single mode the whole filter is replaced, except that cohorts are
// appended to the current cohort list. In multiple mode the breakdown is
// appended unless one with the same type and value already exists.
func AddBreakdown(current domain.BreakdownFilter, mode Mode, value domain.Value, group domain.TaxonomicGroup) (Mutation, error) {
	t, groupTypeIndex, err := domain.Classify(group)
	if err != nil {
		return Mutation{}, fmt.Errorf("add breakdown: %w", err)
	}

	if mode == ModeMultiple {
		b, err := domain.BuildBreakdown(t, value, groupTypeIndex)
		if err != nil {
			return Mutation{}, fmt.Errorf("add breakdown: %w", err)
		}
		if current.IndexOf(b.Key()) >= 0 {
			return unchanged(current), nil
		}
		list := append(current.List(), b)
		return changed(current, domain.NewMultipleBreakdownFilter(list)), nil
	}

	breakdown := domain.ScalarBreakdown(value)
	if t == domain.BreakdownTypeCohort {
		cohorts := current.Cohorts()
		for _, c := range cohorts {
			if c.Equal(value) {
				return unchanged(current), nil
			}
		}
		breakdown = domain.ListBreakdown(append(cohorts, value)...)
	}

	next, err := domain.BuildLegacyFilter(t, breakdown, groupTypeIndex,
		current.BreakdownHistogramBinCount, current.BreakdownNormalizeURL)
	if err != nil {
		return Mutation{}, fmt.Errorf("add breakdown: %w", err)
	}
	return changed(current, next), nil
}

// ReplaceBreakdown swaps the breakdown identified by old for the selection,
// keeping its position. Only multiple mode supports it. A replacement that
// would duplicate another breakdown is a no-op.
func ReplaceBreakdown(current domain.BreakdownFilter, mode Mode, old domain.BreakdownKey, sel domain.BreakdownSelection) (Mutation, error) {
	if mode != ModeMultiple {
		return Mutation{}, ErrReplaceRequiresMultipleBreakdowns
	}

	pos := current.IndexOf(old)
	if pos < 0 {
		return Mutation{}, fmt.Errorf("%w: %s %q", ErrBreakdownNotFound, old.Type, old.Value.String())
	}

	t, groupTypeIndex, err := domain.Classify(sel.Group)
	if err != nil {
		return Mutation{}, fmt.Errorf("replace breakdown: %w", err)
	}
	b, err := domain.BuildBreakdown(t, sel.Value, groupTypeIndex)
	if err != nil {
		return Mutation{}, fmt.Errorf("replace breakdown: %w", err)
	}

	if dup := current.IndexOf(b.Key()); dup >= 0 && dup != pos {
		return unchanged(current), nil
	}

	list := current.List()
	list[pos] = b
	return changed(current, domain.NewMultipleBreakdownFilter(list)), nil
}

// RemoveBreakdown drops the breakdown identified by key. Single mode holds
// one breakdown, so removing clears it.
func RemoveBreakdown(current domain.BreakdownFilter, mode Mode, key domain.BreakdownKey) (Mutation, error) {
	if mode != ModeMultiple {
		return changed(current, domain.NewClearedLegacyFilter()), nil
	}

	pos := current.IndexOf(key)
	if pos < 0 {
		return unchanged(current), nil
	}

	list := current.List()
	list = append(list[:pos], list[pos+1:]...)
	return changed(current, domain.NewMultipleBreakdownFilter(list)), nil
}
