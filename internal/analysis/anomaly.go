package analysis

import (
	"context"
	"math"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

// Anomaly is the single most unusual day of a period.
type Anomaly struct {
	Day    core.Date
	Total  decimal.Decimal
	Mean   decimal.Decimal
	Delta  decimal.Decimal // Total - Mean
	ZScore decimal.Decimal
}

// AnomalyDetector flags the day whose spend has the highest z-score, when
// that z-score exceeds the configured threshold.
type AnomalyDetector struct {
	store      Store
	thresholds Thresholds
}

func NewAnomalyDetector(store Store, thresholds Thresholds) *AnomalyDetector {
	return &AnomalyDetector{store: store, thresholds: thresholds}
}

// Detect returns nil when there are too few transaction days, no variation,
// or no day above the threshold. Days without transactions are not counted.
func (d *AnomalyDetector) Detect(ctx context.Context, owner core.OwnerID, period core.Period) (*Anomaly, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	rows, err := d.store.SumByDay(ctx, owner, period)
	if err != nil {
		return nil, storeErr("sum by day", err)
	}
	return mostUnusualDay(rows, d.thresholds), nil
}

func mostUnusualDay(rows []core.DaySum, t Thresholds) *Anomaly {
	if len(rows) < t.AnomalyMinDays {
		return nil
	}

	n := decimal.NewFromInt(int64(len(rows)))
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Total)
	}
	mean := sum.Div(n)

	// population variance
	sq := decimal.Zero
	for _, r := range rows {
		dev := r.Total.Sub(mean)
		sq = sq.Add(dev.Mul(dev))
	}
	variance, _ := sq.Div(n).Float64()
	std := decimal.NewFromFloat(math.Sqrt(variance))
	if std.IsZero() {
		return nil
	}

	var top *Anomaly
	for _, r := range rows {
		z := r.Total.Sub(mean).Div(std)
		if top == nil || z.GreaterThan(top.ZScore) {
			top = &Anomaly{Day: r.Day, Total: r.Total, ZScore: z}
		}
	}
	if !top.ZScore.GreaterThan(t.AnomalyZScore) {
		return nil
	}
	top.Mean = mean
	top.Delta = top.Total.Sub(mean)
	return top
}
