package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCohortValue = errors.New(`cohort breakdown value must be a cohort id or "all"`)

// ValidateCohortValue accepts numeric cohort ids and the "all" sentinel.
func ValidateCohortValue(v Value) error {
	if v.IsNumber() || v.Equal(AllCohorts) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidCohortValue, v.String())
}

// BuildBreakdown creates a list entry. Event and person entries carry only
// type and value; group entries also carry their group type index.
func BuildBreakdown(t BreakdownType, v Value, groupTypeIndex *int) (Breakdown, error) {
	b := Breakdown{Type: t, Value: v}

	switch t {
	case BreakdownTypeEvent, BreakdownTypePerson:
	case BreakdownTypeCohort:
		if err := ValidateCohortValue(v); err != nil {
			return Breakdown{}, err
		}
	case BreakdownTypeGroup:
		if groupTypeIndex == nil {
			return Breakdown{}, ErrMissingGroupTypeIndex
		}
		idx := *groupTypeIndex
		b.GroupTypeIndex = &idx
	default:
		return Breakdown{}, fmt.Errorf("%w: %q", ErrInvalidBreakdownType, t)
	}

	return b, nil
}

// BuildLegacyFilter creates the single breakdown filter.
//
// breakdown_group_type_index is always present. Event and cohort filters
// carry breakdown_histogram_bin_count over from the previous filter, and
// cohort filters carry breakdown_normalize_url as well. Person and group
// filters leave both keys out entirely.
func BuildLegacyFilter(
	t BreakdownType,
	breakdown BreakdownValue,
	groupTypeIndex *int,
	histogramBinCount Field[int],
	normalizeURL Field[bool],
) (BreakdownFilter, error) {
	f := BreakdownFilter{
		BreakdownType:           Defined(t),
		Breakdown:               Defined(breakdown),
		BreakdownGroupTypeIndex: Present(groupTypeIndex),
	}

	switch t {
	case BreakdownTypeEvent:
		f.BreakdownHistogramBinCount = histogramBinCount.Carry()
	case BreakdownTypeCohort:
		for _, v := range breakdown.Values() {
			if err := ValidateCohortValue(v); err != nil {
				return BreakdownFilter{}, err
			}
		}
		f.BreakdownHistogramBinCount = histogramBinCount.Carry()
		f.BreakdownNormalizeURL = normalizeURL.Carry()
	case BreakdownTypePerson:
	case BreakdownTypeGroup:
		if groupTypeIndex == nil {
			return BreakdownFilter{}, ErrMissingGroupTypeIndex
		}
	default:
		return BreakdownFilter{}, fmt.Errorf("%w: %q", ErrInvalidBreakdownType, t)
	}

	return f, nil
}
