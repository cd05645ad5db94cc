package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Thresholds holds the tunable constants of every producer.
type Thresholds struct {
	// Budget ratios: spent/budget >= DangerRatio is danger, else >= WarnRatio is warn.
	WarnRatio   decimal.Decimal
	DangerRatio decimal.Decimal

	// A day is anomalous when its z-score is strictly greater than AnomalyZScore.
	AnomalyZScore decimal.Decimal
	// Fewer distinct transaction days than this yields no anomaly signal.
	AnomalyMinDays int

	// Month-over-month increase that triggers a trend insight (0.2 = +20%).
	TrendIncrease decimal.Decimal
	TrendLookback int

	SuggestionLookback     int
	SuggestionRoundingUnit decimal.Decimal
}

// DefaultThresholds returns the stock values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		WarnRatio:              decimal.RequireFromString("0.9"),
		DangerRatio:            decimal.NewFromInt(1),
		AnomalyZScore:          decimal.NewFromInt(2),
		AnomalyMinDays:         7,
		TrendIncrease:          decimal.RequireFromString("0.2"),
		TrendLookback:          3,
		SuggestionLookback:     3,
		SuggestionRoundingUnit: decimal.NewFromInt(100000),
	}
}

func (t Thresholds) Validate() error {
	var errs []string
	if !t.WarnRatio.IsPositive() {
		errs = append(errs, "warn ratio must be positive")
	}
	if t.DangerRatio.LessThan(t.WarnRatio) {
		errs = append(errs, fmt.Sprintf("danger ratio %s below warn ratio %s", t.DangerRatio, t.WarnRatio))
	}
	if !t.AnomalyZScore.IsPositive() {
		errs = append(errs, "anomaly z-score must be positive")
	}
	if t.AnomalyMinDays < 2 {
		errs = append(errs, fmt.Sprintf("anomaly min days %d: must be at least 2", t.AnomalyMinDays))
	}
	if t.TrendIncrease.IsNegative() {
		errs = append(errs, "trend increase must not be negative")
	}
	if t.TrendLookback < 1 {
		errs = append(errs, "trend lookback must be at least 1")
	}
	if t.SuggestionLookback < 1 {
		errs = append(errs, "suggestion lookback must be at least 1")
	}
	if !t.SuggestionRoundingUnit.IsPositive() {
		errs = append(errs, "suggestion rounding unit must be positive")
	}
	if len(errs) > 0 {
		return errors.New("invalid thresholds: " + strings.Join(errs, "; "))
	}
	return nil
}
