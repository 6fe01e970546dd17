package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"insight-breakdown-service/internal/breakdowns/core/domain"
	"insight-breakdown-service/internal/breakdowns/core/ports"
)

var ErrInvalidInsightID = errors.New("invalid insight id")

type AddBreakdownInput struct {
	InsightID string
	Value     domain.Value
	Group     domain.TaxonomicGroup
}

type ReplaceBreakdownInput struct {
	InsightID string
	Old       domain.BreakdownKey
	New       domain.BreakdownSelection
}

type RemoveBreakdownInput struct {
	InsightID string
	Breakdown domain.BreakdownKey
}

// BreakdownFilterResult is the filter after an operation. Changed is false
// for no-ops, in which case Filter is the unchanged current filter.
type BreakdownFilterResult struct {
	Filter  domain.BreakdownFilter
	Changed bool
}

type BreakdownFilterUseCase struct {
	reader ports.BreakdownFilterReaderPort
	owner  ports.BreakdownFilterOwnerPort
	modes  *ModeSelector
	policy DisplayPolicy
	locks  *insightLocks
	logger *zap.Logger
}

func NewBreakdownFilterUseCase(
	reader ports.BreakdownFilterReaderPort,
	owner ports.BreakdownFilterOwnerPort,
	modes *ModeSelector,
	policy DisplayPolicy,
	logger *zap.Logger,
) *BreakdownFilterUseCase {
	if policy == nil {
		policy = NoDisplayPolicy{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BreakdownFilterUseCase{
		reader: reader,
		owner:  owner,
		modes:  modes,
		policy: policy,
		locks:  &insightLocks{},
		logger: logger,
	}
}

func (uc *BreakdownFilterUseCase) GetBreakdownFilter(ctx context.Context, insightID string) (domain.BreakdownFilter, error) {
	if insightID == "" {
		return domain.BreakdownFilter{}, ErrInvalidInsightID
	}
	return uc.reader.GetBreakdownFilter(ctx, insightID)
}

func (uc *BreakdownFilterUseCase) AddBreakdown(ctx context.Context, in AddBreakdownInput) (BreakdownFilterResult, error) {
	return uc.apply(ctx, in.InsightID, "add", func(current domain.BreakdownFilter, mode Mode) (Mutation, error) {
		return AddBreakdown(current, mode, in.Value, in.Group)
	})
}

func (uc *BreakdownFilterUseCase) ReplaceBreakdown(ctx context.Context, in ReplaceBreakdownInput) (BreakdownFilterResult, error) {
	return uc.apply(ctx, in.InsightID, "replace", func(current domain.BreakdownFilter, mode Mode) (Mutation, error) {
		return ReplaceBreakdown(current, mode, in.Old, in.New)
	})
}

func (uc *BreakdownFilterUseCase) RemoveBreakdown(ctx context.Context, in RemoveBreakdownInput) (BreakdownFilterResult, error) {
	return uc.apply(ctx, in.InsightID, "remove", func(current domain.BreakdownFilter, mode Mode) (Mutation, error) {
		return RemoveBreakdown(current, mode, in.Breakdown)
	})
}

// apply reads the mode and the current filter, runs the mutation and hands
// the result to the owner. The display hint is best effort; a failure to
// deliver it is logged and does not fail the operation.
func (uc *BreakdownFilterUseCase) apply(
	ctx context.Context,
	insightID string,
	op string,
	mutate func(current domain.BreakdownFilter, mode Mode) (Mutation, error),
) (BreakdownFilterResult, error) {
	if insightID == "" {
		return BreakdownFilterResult{}, ErrInvalidInsightID
	}

	unlock := uc.locks.lock(insightID)
	defer unlock()

	log := uc.logger.With(zap.String("insight_id", insightID), zap.String("op", op))

	mode, err := uc.modes.Mode(ctx)
	if err != nil {
		return BreakdownFilterResult{}, err
	}

	current, err := uc.reader.GetBreakdownFilter(ctx, insightID)
	if err != nil {
		return BreakdownFilterResult{}, err
	}

	m, err := mutate(current, mode)
	if err != nil {
		log.Debug("breakdown operation rejected", zap.Stringer("mode", mode), zap.Error(err))
		return BreakdownFilterResult{}, err
	}

	if !m.Propagate {
		log.Debug("breakdown operation was a no-op", zap.Stringer("mode", mode))
		return BreakdownFilterResult{Filter: current}, nil
	}

	if err := uc.owner.UpdateBreakdownFilter(ctx, insightID, m.Next); err != nil {
		log.Error("failed to update breakdown filter", zap.Error(err))
		return BreakdownFilterResult{}, err
	}

	if hint, ok := uc.policy.DisplayHint(current, m.Next); ok {
		if err := uc.owner.UpdateDisplay(ctx, insightID, hint); err != nil {
			log.Warn("failed to deliver display hint",
				zap.String("reason", string(hint.Reason)),
				zap.Error(err))
		}
	}

	log.Info("breakdown filter updated",
		zap.Stringer("mode", mode),
		zap.Int("breakdowns", m.Next.Count()))

	return BreakdownFilterResult{Filter: m.Next, Changed: true}, nil
}
