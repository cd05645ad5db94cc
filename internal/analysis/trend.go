package analysis

import (
	"context"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

// Trend compares a month's spend with the average of the months before it.
type Trend struct {
	Month     core.Period
	Current   decimal.Decimal
	Average   decimal.Decimal
	PctChange decimal.Decimal // ratio, 0.25 = +25%
}

type TrendAnalyzer struct {
	store      Store
	thresholds Thresholds
}

func NewTrendAnalyzer(store Store, thresholds Thresholds) *TrendAnalyzer {
	return &TrendAnalyzer{store: store, thresholds: thresholds}
}

// Compare returns nil when the prior months average to zero. Months without
// spend count as zero rather than being skipped.
func (a *TrendAnalyzer) Compare(ctx context.Context, owner core.OwnerID, ref core.Date) (*Trend, error) {
	cur := core.MonthOf(ref)
	current, err := a.store.SumAmount(ctx, owner, cur)
	if err != nil {
		return nil, storeErr("sum amount", err)
	}

	total := decimal.Zero
	p := cur
	for i := 0; i < a.thresholds.TrendLookback; i++ {
		p = core.PreviousPeriod(p)
		v, err := a.store.SumAmount(ctx, owner, p)
		if err != nil {
			return nil, storeErr("sum amount", err)
		}
		total = total.Add(v)
	}
	avg := total.Div(decimal.NewFromInt(int64(a.thresholds.TrendLookback)))
	if avg.IsZero() {
		return nil, nil
	}
	return &Trend{
		Month:     cur,
		Current:   current,
		Average:   avg,
		PctChange: current.Sub(avg).Div(avg),
	}, nil
}

// Rising reports whether the change reaches the configured increase.
func (a *TrendAnalyzer) Rising(t *Trend) bool {
	return t != nil && t.PctChange.GreaterThanOrEqual(a.thresholds.TrendIncrease)
}
