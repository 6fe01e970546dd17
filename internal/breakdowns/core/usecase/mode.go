package usecase

import (
	"context"
	"fmt"

	"insight-breakdown-service/internal/breakdowns/core/ports"
)

const DefaultMultipleBreakdownsFlag = "multiple-breakdowns"

// ModeSelector reads the multiple breakdowns flag on every call, so a flag
// flip applies to the next operation.
type ModeSelector struct {
	flags   ports.FeatureFlagReaderPort
	flagKey string
}

func NewModeSelector(flags ports.FeatureFlagReaderPort, flagKey string) *ModeSelector {
	if flagKey == "" {
		flagKey = DefaultMultipleBreakdownsFlag
	}
	return &ModeSelector{flags: flags, flagKey: flagKey}
}

func (s *ModeSelector) Mode(ctx context.Context) (Mode, error) {
	enabled, err := s.flags.IsEnabled(ctx, s.flagKey)
	if err != nil {
		return ModeSingle, fmt.Errorf("read feature flag %q: %w", s.flagKey, err)
	}
	if enabled {
		return ModeMultiple, nil
	}
	return ModeSingle, nil
}
