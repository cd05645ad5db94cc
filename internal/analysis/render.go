package analysis

import (
	"fmt"

	"expensetracker/internal/core"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultCurrencyLabel is appended to formatted amounts.
const DefaultCurrencyLabel = "đ"

const defaultCategoryName = "Category"

// renderer turns producer results into Insight values.
type renderer struct {
	currency   string
	thresholds Thresholds
}

func (r renderer) money(d decimal.Decimal) string {
	return humanize.Comma(d.Round(0).IntPart())
}

func percent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
}

func (r renderer) forecast(fc decimal.Decimal, budget *core.Budget) core.Insight {
	level := core.SeverityInfo
	if budget != nil && budget.Amount.IsPositive() && fc.GreaterThan(budget.Amount) {
		level = core.SeverityWarn
	}
	return core.Insight{
		Type:   level,
		Title:  "End-of-period spending forecast",
		Detail: fmt.Sprintf("%s %s in the current period", r.money(fc), r.currency),
	}.WithAmount(fc)
}

func (r renderer) totalBudget(a BudgetAlert) core.Insight {
	in := core.Insight{
		Type:   a.Level,
		Title:  "Total budget exceeded",
		Detail: fmt.Sprintf("%s / %s %s", r.money(a.Spent), r.money(a.Budget.Amount), r.currency),
	}
	if a.Level == core.SeverityWarn {
		in.Title = "Approaching total budget"
		in.Detail += fmt.Sprintf(" (≥%s)", percent(r.thresholds.WarnRatio))
	}
	return in.WithPercent(a.Ratio)
}

func (r renderer) categoryBudget(a BudgetAlert) core.Insight {
	name := a.Category
	if name == "" {
		name = defaultCategoryName
	}
	verb := "over budget"
	if a.Level == core.SeverityWarn {
		verb = "approaching budget"
	}
	return core.Insight{
		Type:   a.Level,
		Title:  fmt.Sprintf("%s: %s", name, verb),
		Detail: fmt.Sprintf("%s / %s %s", r.money(a.Spent), r.money(a.Budget.Amount), r.currency),
	}.WithPercent(a.Ratio)
}

func (r renderer) anomaly(a Anomaly) core.Insight {
	return core.Insight{
		Type:   core.SeverityWarn,
		Title:  "Unusual spending on " + a.Day.Format("02/01"),
		Detail: fmt.Sprintf("+%s %s above the daily average", r.money(a.Delta), r.currency),
	}.WithAmount(a.Delta)
}

func (r renderer) trend(t Trend) core.Insight {
	return core.Insight{
		Type:   core.SeverityInfo,
		Title:  "Spending trending up",
		Detail: fmt.Sprintf("+%s vs the %d-month average", percent(t.PctChange), r.thresholds.TrendLookback),
	}.WithPercent(t.PctChange)
}
