package fiber

import (
	"insight-breakdown-service/internal/breakdowns/core/domain"
)

// TaxonomicGroupRequest is the picker group a value was chosen from
// @Description Taxonomic group descriptor
type TaxonomicGroupRequest struct {
	Type           string `json:"type" example:"event_properties"`
	GroupTypeIndex *int   `json:"group_type_index,omitempty" example:"0"`
}

// AddBreakdownRequest adds the value picked from group
// @Description Breakdown selection
type AddBreakdownRequest struct {
	Group TaxonomicGroupRequest `json:"group"`
	Value *domain.Value         `json:"value" swaggertype:"string" example:"$browser"`
}

// BreakdownKeyRequest identifies an existing breakdown
// @Description Breakdown identity
type BreakdownKeyRequest struct {
	Type  string        `json:"type" example:"event"`
	Value *domain.Value `json:"value" swaggertype:"string" example:"$browser"`
}

type ReplaceBreakdownRequest struct {
	Old BreakdownKeyRequest `json:"old"`
	New AddBreakdownRequest `json:"new"`
}

type BreakdownFilterResponse struct {
	Changed         bool                   `json:"changed"`
	BreakdownFilter domain.BreakdownFilter `json:"breakdown_filter" swaggertype:"object"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_breakdown"`
	Message string `json:"message" example:"unsupported taxonomic group type"`
}
