package usecase_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"insight-breakdown-service/internal/breakdowns/core/domain"
	"insight-breakdown-service/internal/breakdowns/core/usecase"
)

func intPtr(i int) *int { return &i }

var (
	eventGroup  = domain.TaxonomicGroup{Type: domain.TaxonomicEventProperties}
	personGroup = domain.TaxonomicGroup{Type: domain.TaxonomicPersonProperties}
	cohortGroup = domain.TaxonomicGroup{Type: domain.TaxonomicCohortsWithAllUsers}
	groupsGroup = domain.TaxonomicGroup{Type: domain.TaxonomicGroupsPrefix, GroupTypeIndex: intPtr(0)}
)

func str(s string) domain.Value { return domain.StringValue(s) }

func event(v string) domain.Breakdown {
	return domain.Breakdown{Type: domain.BreakdownTypeEvent, Value: str(v)}
}

func eventKey(v string) domain.BreakdownKey {
	return domain.BreakdownKey{Type: domain.BreakdownTypeEvent, Value: str(v)}
}

func multiple(bs ...domain.Breakdown) domain.BreakdownFilter {
	return domain.BreakdownFilter{Breakdowns: domain.Defined(bs)}
}

// assertExclusive checks the filter is either legacy or list shaped.
func assertExclusive(t *testing.T, f domain.BreakdownFilter) {
	t.Helper()
	if f.Breakdowns.IsDefined() && (f.BreakdownType.IsDefined() || f.Breakdown.IsDefined()) {
		t.Fatalf("filter mixes legacy and list shapes: %+v", f)
	}
}

// ------------------------------------------------------------
// ADD (single mode)
// ------------------------------------------------------------

func TestAddBreakdown_Single(t *testing.T) {
	tests := []struct {
		name    string
		current domain.BreakdownFilter
		value   domain.Value
		group   domain.TaxonomicGroup
		want    domain.BreakdownFilter
	}{
		{
			name:    "event",
			current: domain.BreakdownFilter{},
			value:   str("c"),
			group:   eventGroup,
			want: domain.BreakdownFilter{
				BreakdownType:              domain.Defined(domain.BreakdownTypeEvent),
				Breakdown:                  domain.Defined(domain.ScalarBreakdown(str("c"))),
				BreakdownGroupTypeIndex:    domain.Undefined[int](),
				BreakdownHistogramBinCount: domain.Undefined[int](),
			},
		},
		{
			name: "cohort appends",
			current: domain.BreakdownFilter{
				BreakdownType: domain.Defined(domain.BreakdownTypeCohort),
				Breakdown:     domain.Defined(domain.ListBreakdown(domain.AllCohorts, domain.IntValue(1))),
			},
			value: domain.IntValue(2),
			group: cohortGroup,
			want: domain.BreakdownFilter{
				BreakdownType:              domain.Defined(domain.BreakdownTypeCohort),
				Breakdown:                  domain.Defined(domain.ListBreakdown(domain.AllCohorts, domain.IntValue(1), domain.IntValue(2))),
				BreakdownGroupTypeIndex:    domain.Undefined[int](),
				BreakdownHistogramBinCount: domain.Undefined[int](),
				BreakdownNormalizeURL:      domain.Undefined[bool](),
			},
		},
		{
			name: "cohort discards a non cohort breakdown",
			current: domain.BreakdownFilter{
				BreakdownType: domain.Defined(domain.BreakdownTypeEvent),
				Breakdown:     domain.Defined(domain.ScalarBreakdown(str("$browser"))),
			},
			value: domain.AllCohorts,
			group: cohortGroup,
			want: domain.BreakdownFilter{
				BreakdownType:              domain.Defined(domain.BreakdownTypeCohort),
				Breakdown:                  domain.Defined(domain.ListBreakdown(domain.AllCohorts)),
				BreakdownGroupTypeIndex:    domain.Undefined[int](),
				BreakdownHistogramBinCount: domain.Undefined[int](),
				BreakdownNormalizeURL:      domain.Undefined[bool](),
			},
		},
		{
			name:    "person",
			current: domain.BreakdownFilter{},
			value:   str("height"),
			group:   personGroup,
			want: domain.BreakdownFilter{
				BreakdownType:           domain.Defined(domain.BreakdownTypePerson),
				Breakdown:               domain.Defined(domain.ScalarBreakdown(str("height"))),
				BreakdownGroupTypeIndex: domain.Undefined[int](),
			},
		},
		{
			name:    "group",
			current: domain.BreakdownFilter{},
			value:   str("$lib_version"),
			group:   groupsGroup,
			want: domain.BreakdownFilter{
				BreakdownType:           domain.Defined(domain.BreakdownTypeGroup),
				Breakdown:               domain.Defined(domain.ScalarBreakdown(str("$lib_version"))),
				BreakdownGroupTypeIndex: domain.Defined(0),
			},
		},
		{
			name: "event replaces and carries knobs",
			current: domain.BreakdownFilter{
				BreakdownType:              domain.Defined(domain.BreakdownTypePerson),
				Breakdown:                  domain.Defined(domain.ScalarBreakdown(str("height"))),
				BreakdownHistogramBinCount: domain.Defined(10),
			},
			value: str("$current_url"),
			group: eventGroup,
			want: domain.BreakdownFilter{
				BreakdownType:              domain.Defined(domain.BreakdownTypeEvent),
				Breakdown:                  domain.Defined(domain.ScalarBreakdown(str("$current_url"))),
				BreakdownGroupTypeIndex:    domain.Undefined[int](),
				BreakdownHistogramBinCount: domain.Defined(10),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := usecase.AddBreakdown(tt.current, usecase.ModeSingle, tt.value, tt.group)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !m.Propagate {
				t.Fatalf("expected propagation")
			}
			if diff := cmp.Diff(tt.want, m.Next); diff != "" {
				t.Fatalf("unexpected filter (-want +got):\n%s", diff)
			}
			assertExclusive(t, m.Next)
		})
	}
}

func TestAddBreakdown_Single_DuplicateCohortIsNoop(t *testing.T) {
	current := domain.BreakdownFilter{
		BreakdownType: domain.Defined(domain.BreakdownTypeCohort),
		Breakdown:     domain.Defined(domain.ListBreakdown(domain.AllCohorts, domain.IntValue(1))),
	}

	m, err := usecase.AddBreakdown(current, usecase.ModeSingle, domain.AllCohorts, cohortGroup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Propagate {
		t.Fatalf("expected no propagation for a cohort already in the list")
	}
}

func TestAddBreakdown_Single_LegacyEventJSON(t *testing.T) {
	m, err := usecase.AddBreakdown(domain.BreakdownFilter{}, usecase.ModeSingle, str("c"), eventGroup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(m.Next)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"breakdown_type":"event","breakdown":"c","breakdown_group_type_index":null,"breakdown_histogram_bin_count":null}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

// ------------------------------------------------------------
// ADD (multiple mode)
// ------------------------------------------------------------

func TestAddBreakdown_Multiple(t *testing.T) {
	tests := []struct {
		name    string
		current domain.BreakdownFilter
		value   domain.Value
		group   domain.TaxonomicGroup
		want    []domain.Breakdown
	}{
		{
			name:  "event",
			value: str("c"),
			group: eventGroup,
			want:  []domain.Breakdown{event("c")},
		},
		{
			name:  "person",
			value: str("height"),
			group: personGroup,
			want:  []domain.Breakdown{{Type: domain.BreakdownTypePerson, Value: str("height")}},
		},
		{
			name:  "group",
			value: str("$lib_version"),
			group: groupsGroup,
			want: []domain.Breakdown{
				{Type: domain.BreakdownTypeGroup, Value: str("$lib_version"), GroupTypeIndex: intPtr(0)},
			},
		},
		{
			name:    "appends after existing",
			current: multiple(event("a"), event("b")),
			value:   domain.AllCohorts,
			group:   cohortGroup,
			want: []domain.Breakdown{
				event("a"),
				event("b"),
				{Type: domain.BreakdownTypeCohort, Value: domain.AllCohorts},
			},
		},
		{
			name:    "same value different type is not a duplicate",
			current: multiple(event("c")),
			value:   str("c"),
			group:   personGroup,
			want: []domain.Breakdown{
				event("c"),
				{Type: domain.BreakdownTypePerson, Value: str("c")},
			},
		},
		{
			name: "legacy breakdown is dropped",
			current: domain.BreakdownFilter{
				BreakdownType: domain.Defined(domain.BreakdownTypeEvent),
				Breakdown:     domain.Defined(domain.ScalarBreakdown(str("old"))),
			},
			value: str("c"),
			group: eventGroup,
			want:  []domain.Breakdown{event("c")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := usecase.AddBreakdown(tt.current, usecase.ModeMultiple, tt.value, tt.group)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !m.Propagate {
				t.Fatalf("expected propagation")
			}
			if diff := cmp.Diff(domain.NewMultipleBreakdownFilter(tt.want), m.Next); diff != "" {
				t.Fatalf("unexpected filter (-want +got):\n%s", diff)
			}
			assertExclusive(t, m.Next)
		})
	}
}

func TestAddBreakdown_Multiple_DuplicateIsNoop(t *testing.T) {
	current := multiple(event("c"))

	m, err := usecase.AddBreakdown(current, usecase.ModeMultiple, str("c"), eventGroup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Propagate {
		t.Fatalf("expected no propagation for duplicate breakdown")
	}
	if diff := cmp.Diff(current, m.Next); diff != "" {
		t.Fatalf("no-op should return the current filter (-want +got):\n%s", diff)
	}
}

func TestAddBreakdown_Idempotent(t *testing.T) {
	first, err := usecase.AddBreakdown(domain.BreakdownFilter{}, usecase.ModeMultiple, str("c"), eventGroup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := usecase.AddBreakdown(first.Next, usecase.ModeMultiple, str("c"), eventGroup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Propagate {
		t.Fatalf("second add should not propagate")
	}
	if second.Next.Count() != 1 {
		t.Fatalf("expected 1 breakdown, got %d", second.Next.Count())
	}
}

func TestAddBreakdown_MultipleJSON(t *testing.T) {
	m, err := usecase.AddBreakdown(domain.BreakdownFilter{}, usecase.ModeMultiple, str("$lib_version"), groupsGroup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(m.Next)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"breakdown_type":null,"breakdown_group_type_index":null,"breakdown_histogram_bin_count":null,` +
		`"breakdowns":[{"type":"group","value":"$lib_version","group_type_index":0}]}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestAddBreakdown_Errors(t *testing.T) {
	_, err := usecase.AddBreakdown(domain.BreakdownFilter{}, usecase.ModeMultiple, str("x"), domain.TaxonomicGroup{Type: "actions"})
	if !errors.Is(err, domain.ErrUnsupportedGroupType) {
		t.Fatalf("expected ErrUnsupportedGroupType, got %v", err)
	}

	_, err = usecase.AddBreakdown(domain.BreakdownFilter{}, usecase.ModeSingle, str("x"), domain.TaxonomicGroup{Type: domain.TaxonomicGroupsPrefix})
	if !errors.Is(err, domain.ErrMissingGroupTypeIndex) {
		t.Fatalf("expected ErrMissingGroupTypeIndex, got %v", err)
	}

	for _, mode := range []usecase.Mode{usecase.ModeSingle, usecase.ModeMultiple} {
		_, err = usecase.AddBreakdown(domain.BreakdownFilter{}, mode, str("everyone"), cohortGroup)
		if !errors.Is(err, domain.ErrInvalidCohortValue) {
			t.Fatalf("mode %s: expected ErrInvalidCohortValue, got %v", mode, err)
		}
	}
}

func TestAddBreakdown_KeepsExtraKeys(t *testing.T) {
	current := multiple(event("a"))
	current.Extra = map[string]json.RawMessage{"breakdown_limit": json.RawMessage(`25`)}

	m, err := usecase.AddBreakdown(current, usecase.ModeMultiple, str("b"), eventGroup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(m.Next.Extra["breakdown_limit"]) != `25` {
		t.Fatalf("expected breakdown_limit to be carried, got %v", m.Next.Extra)
	}
}

// ------------------------------------------------------------
// REPLACE
// ------------------------------------------------------------

func TestReplaceBreakdown(t *testing.T) {
	current := multiple(event("c"))

	m, err := usecase.ReplaceBreakdown(current, usecase.ModeMultiple, eventKey("c"),
		domain.BreakdownSelection{Group: eventGroup, Value: str("a")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Propagate {
		t.Fatalf("expected propagation")
	}
	if diff := cmp.Diff(domain.NewMultipleBreakdownFilter([]domain.Breakdown{event("a")}), m.Next); diff != "" {
		t.Fatalf("unexpected filter (-want +got):\n%s", diff)
	}
}

func TestReplaceBreakdown_PreservesPosition(t *testing.T) {
	current := multiple(event("a"), event("b"), event("c"))

	m, err := usecase.ReplaceBreakdown(current, usecase.ModeMultiple, eventKey("b"),
		domain.BreakdownSelection{Group: groupsGroup, Value: str("$lib_version")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.Breakdown{
		event("a"),
		{Type: domain.BreakdownTypeGroup, Value: str("$lib_version"), GroupTypeIndex: intPtr(0)},
		event("c"),
	}
	if diff := cmp.Diff(want, m.Next.List()); diff != "" {
		t.Fatalf("unexpected breakdowns (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]domain.Breakdown{event("a"), event("b"), event("c")}, current.List()); diff != "" {
		t.Fatalf("current filter was modified (-want +got):\n%s", diff)
	}
}

func TestReplaceBreakdown_DuplicateIsNoop(t *testing.T) {
	current := multiple(event("c"), event("duplicate"))

	m, err := usecase.ReplaceBreakdown(current, usecase.ModeMultiple, eventKey("c"),
		domain.BreakdownSelection{Group: eventGroup, Value: str("duplicate")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Propagate {
		t.Fatalf("expected no propagation for a duplicate producing replace")
	}
}

func TestReplaceBreakdown_SameKeyPropagates(t *testing.T) {
	current := multiple(event("c"))

	m, err := usecase.ReplaceBreakdown(current, usecase.ModeMultiple, eventKey("c"),
		domain.BreakdownSelection{Group: eventGroup, Value: str("c")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Propagate {
		t.Fatalf("replacing an entry with itself is not a duplicate")
	}
}

func TestReplaceBreakdown_Errors(t *testing.T) {
	sel := domain.BreakdownSelection{Group: eventGroup, Value: str("a")}

	_, err := usecase.ReplaceBreakdown(multiple(event("c")), usecase.ModeMultiple, eventKey("missing"), sel)
	if !errors.Is(err, usecase.ErrBreakdownNotFound) {
		t.Fatalf("expected ErrBreakdownNotFound, got %v", err)
	}

	_, err = usecase.ReplaceBreakdown(multiple(event("c")), usecase.ModeSingle, eventKey("c"), sel)
	if !errors.Is(err, usecase.ErrReplaceRequiresMultipleBreakdowns) {
		t.Fatalf("expected ErrReplaceRequiresMultipleBreakdowns, got %v", err)
	}

	_, err = usecase.ReplaceBreakdown(multiple(event("c")), usecase.ModeMultiple, eventKey("c"),
		domain.BreakdownSelection{Group: domain.TaxonomicGroup{Type: "elements"}, Value: str("a")})
	if !errors.Is(err, domain.ErrUnsupportedGroupType) {
		t.Fatalf("expected ErrUnsupportedGroupType, got %v", err)
	}
}

// ------------------------------------------------------------
// REMOVE
// ------------------------------------------------------------

func TestRemoveBreakdown_Multiple(t *testing.T) {
	current := multiple(event("a"), event("b"), event("c"))

	m, err := usecase.RemoveBreakdown(current, usecase.ModeMultiple, eventKey("b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Propagate {
		t.Fatalf("expected propagation")
	}
	if diff := cmp.Diff([]domain.Breakdown{event("a"), event("c")}, m.Next.List()); diff != "" {
		t.Fatalf("unexpected breakdowns (-want +got):\n%s", diff)
	}
	assertExclusive(t, m.Next)
}

func TestRemoveBreakdown_MultipleLastLeavesEmptyList(t *testing.T) {
	m, err := usecase.RemoveBreakdown(multiple(event("a")), usecase.ModeMultiple, eventKey("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(m.Next)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"breakdown_type":null,"breakdown_group_type_index":null,"breakdown_histogram_bin_count":null,"breakdowns":[]}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestRemoveBreakdown_MultipleMissingIsNoop(t *testing.T) {
	m, err := usecase.RemoveBreakdown(multiple(event("a")), usecase.ModeMultiple, eventKey("b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Propagate {
		t.Fatalf("expected no propagation")
	}
}

func TestRemoveBreakdown_SingleClears(t *testing.T) {
	current := domain.BreakdownFilter{
		BreakdownType:              domain.Defined(domain.BreakdownTypeEvent),
		Breakdown:                  domain.Defined(domain.ScalarBreakdown(str("$browser"))),
		BreakdownHistogramBinCount: domain.Defined(10),
	}

	m, err := usecase.RemoveBreakdown(current, usecase.ModeSingle, eventKey("$browser"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Propagate {
		t.Fatalf("expected propagation")
	}
	if diff := cmp.Diff(domain.NewClearedLegacyFilter(), m.Next); diff != "" {
		t.Fatalf("unexpected filter (-want +got):\n%s", diff)
	}
	if m.Next.Count() != 0 {
		t.Fatalf("expected no breakdowns, got %d", m.Next.Count())
	}
}
