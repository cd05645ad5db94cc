package analysis

import (
	"context"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

// Forecaster projects end-of-period spend from the run rate so far.
type Forecaster struct {
	store Store
}

func NewForecaster(store Store) *Forecaster {
	return &Forecaster{store: store}
}

// Forecast returns round(spentSoFar / daysPassed * daysInPeriod). A period
// that has not started yet counts one elapsed day, so it forecasts 0 unless
// spend is already recorded on its first day.
func (f *Forecaster) Forecast(ctx context.Context, owner core.OwnerID, period core.Period, today core.Date) (decimal.Decimal, error) {
	if err := period.Validate(); err != nil {
		return decimal.Zero, err
	}

	effectiveEnd := period.End
	if today.Before(effectiveEnd) {
		effectiveEnd = today
	}
	daysPassed := period.Start.DaysUntil(effectiveEnd) + 1
	if daysPassed < 1 {
		daysPassed = 1
	}

	// Nothing can be spent yet in a period that has not started.
	spent := decimal.Zero
	if !effectiveEnd.Before(period.Start) {
		var err error
		spent, err = f.store.SumAmount(ctx, owner, core.Period{Start: period.Start, End: effectiveEnd})
		if err != nil {
			return decimal.Zero, storeErr("sum amount", err)
		}
	}

	perDay := spent.Div(decimal.NewFromInt(int64(daysPassed)))
	return perDay.Mul(decimal.NewFromInt(int64(period.Days()))).RoundBank(0), nil
}
