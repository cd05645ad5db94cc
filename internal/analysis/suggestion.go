package analysis

import (
	"context"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

// PeriodSpend is the spend recorded in one historical period.
type PeriodSpend struct {
	Period core.Period
	Spent  decimal.Decimal
}

// Suggestion is a proposed budget for Target.
type Suggestion struct {
	Target  core.Period
	History []PeriodSpend // oldest first
	Average decimal.Decimal
	Amount  decimal.Decimal // Average rounded up to the rounding unit, 0 without history
}

// Actionable reports whether a nonzero amount was computed. Whether it should
// be applied (no total budget exists yet) is for the caller to decide.
func (s Suggestion) Actionable() bool {
	return s.Amount.IsPositive()
}

// SuggestionGenerator proposes a rounded budget from recent history.
type SuggestionGenerator struct {
	store      Store
	thresholds Thresholds
}

func NewSuggestionGenerator(store Store, thresholds Thresholds) *SuggestionGenerator {
	return &SuggestionGenerator{store: store, thresholds: thresholds}
}

// Suggest averages spend over the periods preceding target and rounds up:
// ceil(avg / unit) * unit.
func (g *SuggestionGenerator) Suggest(ctx context.Context, owner core.OwnerID, target core.Period) (Suggestion, error) {
	if err := target.Validate(); err != nil {
		return Suggestion{}, err
	}

	n := g.thresholds.SuggestionLookback
	history := make([]PeriodSpend, n)
	p := target
	total := decimal.Zero
	for i := n - 1; i >= 0; i-- {
		p = core.PreviousPeriod(p)
		v, err := g.store.SumAmount(ctx, owner, p)
		if err != nil {
			return Suggestion{}, storeErr("sum amount", err)
		}
		history[i] = PeriodSpend{Period: p, Spent: v}
		total = total.Add(v)
	}

	avg := total.Div(decimal.NewFromInt(int64(n)))
	return Suggestion{
		Target:  target,
		History: history,
		Average: avg,
		Amount:  roundUp(avg, g.thresholds.SuggestionRoundingUnit),
	}, nil
}

func roundUp(avg, unit decimal.Decimal) decimal.Decimal {
	if !avg.IsPositive() {
		return decimal.Zero
	}
	return avg.Div(unit).Ceil().Mul(unit)
}
