package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnsupportedGroupType  = errors.New("unsupported taxonomic group type")
	ErrMissingGroupTypeIndex = errors.New("group type index is required for group breakdowns")
)

// TaxonomicGroupType is the tag the taxonomy picker puts on a selectable
// group. Tags are case-sensitive.
type TaxonomicGroupType string

const (
	TaxonomicEventProperties          TaxonomicGroupType = "event_properties"
	TaxonomicNumericalEventProperties TaxonomicGroupType = "numerical_event_properties"
	TaxonomicEventFeatureFlags        TaxonomicGroupType = "event_feature_flags"
	TaxonomicPersonProperties         TaxonomicGroupType = "person_properties"
	TaxonomicCohorts                  TaxonomicGroupType = "cohorts"
	TaxonomicCohortsWithAllUsers      TaxonomicGroupType = "cohorts_with_all"
	TaxonomicGroupsPrefix             TaxonomicGroupType = "groups"
)

// TaxonomicGroup describes the picker group a breakdown value was chosen from.
type TaxonomicGroup struct {
	Type           TaxonomicGroupType `json:"type"`
	GroupTypeIndex *int               `json:"group_type_index,omitempty"`
}

// BreakdownSelection is a value picked from a taxonomic group.
type BreakdownSelection struct {
	Group TaxonomicGroup `json:"group"`
	Value Value          `json:"value"`
}

// Classify maps a taxonomic group to the breakdown type it produces. Group
// property groups also yield their group type index, which must be set.
func Classify(g TaxonomicGroup) (BreakdownType, *int, error) {
	switch g.Type {
	case TaxonomicEventProperties, TaxonomicNumericalEventProperties, TaxonomicEventFeatureFlags:
		return BreakdownTypeEvent, nil, nil
	case TaxonomicPersonProperties:
		return BreakdownTypePerson, nil, nil
	case TaxonomicCohorts, TaxonomicCohortsWithAllUsers:
		return BreakdownTypeCohort, nil, nil
	}

	if isGroupsType(g.Type) {
		if g.GroupTypeIndex == nil {
			return "", nil, fmt.Errorf("%w: %q", ErrMissingGroupTypeIndex, g.Type)
		}
		idx := *g.GroupTypeIndex
		return BreakdownTypeGroup, &idx, nil
	}

	return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedGroupType, g.Type)
}

// isGroupsType accepts "groups" and the per group type "groups_<n>" tags.
func isGroupsType(t TaxonomicGroupType) bool {
	if t == TaxonomicGroupsPrefix {
		return true
	}
	suffix, ok := strings.CutPrefix(string(t), string(TaxonomicGroupsPrefix)+"_")
	if !ok || suffix == "" {
		return false
	}
	n, err := strconv.Atoi(suffix)
	return err == nil && n >= 0
}
