package fiber

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"insight-breakdown-service/internal/breakdowns/core/domain"
	"insight-breakdown-service/internal/breakdowns/core/ports"
	"insight-breakdown-service/internal/breakdowns/core/usecase"
)

var errMissingValue = errors.New("breakdown value is required")

type BreakdownFilterUseCase interface {
	GetBreakdownFilter(ctx context.Context, insightID string) (domain.BreakdownFilter, error)
	AddBreakdown(ctx context.Context, in usecase.AddBreakdownInput) (usecase.BreakdownFilterResult, error)
	ReplaceBreakdown(ctx context.Context, in usecase.ReplaceBreakdownInput) (usecase.BreakdownFilterResult, error)
	RemoveBreakdown(ctx context.Context, in usecase.RemoveBreakdownInput) (usecase.BreakdownFilterResult, error)
}

type BreakdownHandler struct {
	uc BreakdownFilterUseCase
}

func NewBreakdownHandler(uc BreakdownFilterUseCase) *BreakdownHandler {
	return &BreakdownHandler{uc: uc}
}

// GetBreakdownFilter godoc
// @Summary Get the breakdown filter of an insight
// @Tags Breakdowns
// @Produce json
// @Param id path string true "Insight ID (uuid)"
// @Success 200 {object} BreakdownFilterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /insights/{id}/breakdown [get]
func (h *BreakdownHandler) GetBreakdownFilter(c *fiber.Ctx) error {
	insightID, ok := insightIDParam(c)
	if !ok {
		return invalidInsightID(c)
	}

	f, err := h.uc.GetBreakdownFilter(c.UserContext(), insightID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(BreakdownFilterResponse{BreakdownFilter: f})
}

// AddBreakdown godoc
// @Summary Add a breakdown
// @Description Adds a breakdown picked from a taxonomic group. Adding an existing breakdown is a no-op (changed=false).
// @Tags Breakdowns
// @Accept json
// @Produce json
// @Param id path string true "Insight ID (uuid)"
// @Param request body AddBreakdownRequest true "Breakdown selection"
// @Success 200 {object} BreakdownFilterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /insights/{id}/breakdowns [post]
func (h *BreakdownHandler) AddBreakdown(c *fiber.Ctx) error {
	insightID, ok := insightIDParam(c)
	if !ok {
		return invalidInsightID(c)
	}

	var req AddBreakdownRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	sel, err := req.selection()
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.uc.AddBreakdown(c.UserContext(), usecase.AddBreakdownInput{
		InsightID: insightID,
		Value:     sel.Value,
		Group:     sel.Group,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toResponse(res))
}

// ReplaceBreakdown godoc
// @Summary Replace a breakdown
// @Description Replaces a breakdown in place. A replacement duplicating another breakdown is a no-op (changed=false).
// @Tags Breakdowns
// @Accept json
// @Produce json
// @Param id path string true "Insight ID (uuid)"
// @Param request body ReplaceBreakdownRequest true "Breakdown to replace and its replacement"
// @Success 200 {object} BreakdownFilterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /insights/{id}/breakdowns [put]
func (h *BreakdownHandler) ReplaceBreakdown(c *fiber.Ctx) error {
	insightID, ok := insightIDParam(c)
	if !ok {
		return invalidInsightID(c)
	}

	var req ReplaceBreakdownRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	old, err := req.Old.key()
	if err != nil {
		return writeError(c, err)
	}
	sel, err := req.New.selection()
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.uc.ReplaceBreakdown(c.UserContext(), usecase.ReplaceBreakdownInput{
		InsightID: insightID,
		Old:       old,
		New:       sel,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toResponse(res))
}

// RemoveBreakdown godoc
// @Summary Remove a breakdown
// @Tags Breakdowns
// @Accept json
// @Produce json
// @Param id path string true "Insight ID (uuid)"
// @Param request body BreakdownKeyRequest true "Breakdown to remove"
// @Success 200 {object} BreakdownFilterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /insights/{id}/breakdowns [delete]
func (h *BreakdownHandler) RemoveBreakdown(c *fiber.Ctx) error {
	insightID, ok := insightIDParam(c)
	if !ok {
		return invalidInsightID(c)
	}

	var req BreakdownKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	key, err := req.key()
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.uc.RemoveBreakdown(c.UserContext(), usecase.RemoveBreakdownInput{
		InsightID: insightID,
		Breakdown: key,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toResponse(res))
}

func insightIDParam(c *fiber.Ctx) (string, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func invalidInsightID(c *fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_insight_id",
		Message: "insight id must be a uuid",
	})
}

func (r AddBreakdownRequest) selection() (domain.BreakdownSelection, error) {
	if r.Value == nil {
		return domain.BreakdownSelection{}, errMissingValue
	}
	return domain.BreakdownSelection{
		Group: domain.TaxonomicGroup{
			Type:           domain.TaxonomicGroupType(r.Group.Type),
			GroupTypeIndex: r.Group.GroupTypeIndex,
		},
		Value: *r.Value,
	}, nil
}

func (r BreakdownKeyRequest) key() (domain.BreakdownKey, error) {
	t, err := domain.ParseBreakdownType(r.Type)
	if err != nil {
		return domain.BreakdownKey{}, err
	}
	if r.Value == nil {
		return domain.BreakdownKey{}, errMissingValue
	}
	return domain.BreakdownKey{Type: t, Value: *r.Value}, nil
}

func toResponse(res usecase.BreakdownFilterResult) BreakdownFilterResponse {
	return BreakdownFilterResponse{
		Changed:         res.Changed,
		BreakdownFilter: res.Filter,
	}
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid_json",
	})
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnsupportedGroupType),
		errors.Is(err, domain.ErrMissingGroupTypeIndex),
		errors.Is(err, domain.ErrInvalidCohortValue),
		errors.Is(err, domain.ErrInvalidBreakdownType),
		errors.Is(err, errMissingValue),
		errors.Is(err, usecase.ErrBreakdownNotFound),
		errors.Is(err, usecase.ErrReplaceRequiresMultipleBreakdowns):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_breakdown",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrInvalidInsightID):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_insight_id",
			Message: err.Error(),
		})
	case errors.Is(err, ports.ErrInsightNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "insight_not_found",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
