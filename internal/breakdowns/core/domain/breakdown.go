package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidBreakdownType = errors.New("invalid breakdown type")

type BreakdownType string

const (
	BreakdownTypeEvent  BreakdownType = "event"
	BreakdownTypePerson BreakdownType = "person"
	BreakdownTypeCohort BreakdownType = "cohort"
	BreakdownTypeGroup  BreakdownType = "group"
)

func ParseBreakdownType(s string) (BreakdownType, error) {
	switch t := BreakdownType(s); t {
	case BreakdownTypeEvent, BreakdownTypePerson, BreakdownTypeCohort, BreakdownTypeGroup:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBreakdownType, s)
	}
}

// Breakdown is one dimension of a multiple breakdown filter.
type Breakdown struct {
	Type              BreakdownType `json:"type"`
	Value             Value         `json:"value"`
	GroupTypeIndex    *int          `json:"group_type_index,omitempty"`
	HistogramBinCount *int          `json:"histogram_bin_count,omitempty"`
	NormalizeURL      *bool         `json:"normalize_url,omitempty"`
}

// BreakdownKey identifies a breakdown inside a list. No two entries of a
// filter share a key.
type BreakdownKey struct {
	Type  BreakdownType `json:"type"`
	Value Value         `json:"value"`
}

func (b Breakdown) Key() BreakdownKey {
	return BreakdownKey{Type: b.Type, Value: b.Value}
}

// BreakdownFilter is the breakdown part of an insight query. It holds either
// the legacy single breakdown (breakdown_type + breakdown) or the list of
// breakdowns with breakdown_type cleared, never both.
//
// Extra carries keys this package does not manage (breakdown_limit and the
// like) through every mutation untouched.
type BreakdownFilter struct {
	BreakdownType              Field[BreakdownType]
	Breakdown                  Field[BreakdownValue]
	BreakdownGroupTypeIndex    Field[int]
	BreakdownHistogramBinCount Field[int]
	BreakdownNormalizeURL      Field[bool]
	Breakdowns                 Field[[]Breakdown]

	Extra map[string]json.RawMessage
}

// NewMultipleBreakdownFilter builds the list shape. The legacy single
// breakdown knobs are cleared so consumers read it as list mode.
func NewMultipleBreakdownFilter(breakdowns []Breakdown) BreakdownFilter {
	list := make([]Breakdown, len(breakdowns))
	copy(list, breakdowns)
	return BreakdownFilter{
		BreakdownType:              Undefined[BreakdownType](),
		Breakdowns:                 Defined(list),
		BreakdownGroupTypeIndex:    Undefined[int](),
		BreakdownHistogramBinCount: Undefined[int](),
	}
}

// NewClearedLegacyFilter is the legacy shape with no active breakdown.
func NewClearedLegacyFilter() BreakdownFilter {
	return BreakdownFilter{
		BreakdownType:              Undefined[BreakdownType](),
		Breakdown:                  Undefined[BreakdownValue](),
		BreakdownGroupTypeIndex:    Undefined[int](),
		BreakdownHistogramBinCount: Undefined[int](),
		BreakdownNormalizeURL:      Undefined[bool](),
	}
}

// List returns a copy of the breakdowns list, nil when there is none.
func (f BreakdownFilter) List() []Breakdown {
	list, ok := f.Breakdowns.Get()
	if !ok {
		return nil
	}
	out := make([]Breakdown, len(list))
	copy(out, list)
	return out
}

// IsMultiple reports whether f is in list shape.
func (f BreakdownFilter) IsMultiple() bool {
	return f.Breakdowns.IsDefined() && !f.BreakdownType.IsDefined()
}

// Count is the number of active breakdown dimensions. A legacy cohort
// breakdown counts each cohort.
func (f BreakdownFilter) Count() int {
	if f.IsMultiple() {
		list, _ := f.Breakdowns.Get()
		return len(list)
	}
	b, ok := f.Breakdown.Get()
	if !ok {
		return 0
	}
	return len(b.Values())
}

// IndexOf returns the position of the breakdown with key k, or -1.
func (f BreakdownFilter) IndexOf(k BreakdownKey) int {
	list, _ := f.Breakdowns.Get()
	for i, b := range list {
		if b.Key() == k {
			return i
		}
	}
	return -1
}

// Cohorts returns the legacy cohort list. Any other legacy breakdown yields
// an empty list.
func (f BreakdownFilter) Cohorts() []Value {
	t, ok := f.BreakdownType.Get()
	if !ok || t != BreakdownTypeCohort {
		return nil
	}
	b, ok := f.Breakdown.Get()
	if !ok {
		return nil
	}
	return b.Values()
}
