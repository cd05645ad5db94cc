package analysis

import (
	"context"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

// BudgetAlert is a ratio-based alert for one budget.
type BudgetAlert struct {
	Level    core.Severity // SeverityDanger or SeverityWarn, never both
	Budget   core.Budget
	Spent    decimal.Decimal
	Ratio    decimal.Decimal
	Category string // empty for the total budget
}

// BudgetEvaluator compares actual spend with total and per-category budgets.
type BudgetEvaluator struct {
	store      Store
	thresholds Thresholds
}

func NewBudgetEvaluator(store Store, thresholds Thresholds) *BudgetEvaluator {
	return &BudgetEvaluator{store: store, thresholds: thresholds}
}

// classify maps a ratio to exactly one level; danger is checked first.
func (e *BudgetEvaluator) classify(ratio decimal.Decimal) (core.Severity, bool) {
	switch {
	case ratio.GreaterThanOrEqual(e.thresholds.DangerRatio):
		return core.SeverityDanger, true
	case ratio.GreaterThanOrEqual(e.thresholds.WarnRatio):
		return core.SeverityWarn, true
	default:
		return "", false
	}
}

func (e *BudgetEvaluator) alert(b core.Budget, spent decimal.Decimal) *BudgetAlert {
	if !b.Amount.IsPositive() {
		return nil
	}
	ratio := spent.Div(b.Amount)
	level, ok := e.classify(ratio)
	if !ok {
		return nil
	}
	return &BudgetAlert{Level: level, Budget: b, Spent: spent, Ratio: ratio, Category: b.CategoryName}
}

// TotalBudget returns the total budget overlapping period, or nil.
func (e *BudgetEvaluator) TotalBudget(ctx context.Context, owner core.OwnerID, period core.Period) (*core.Budget, error) {
	b, err := e.store.FindBudget(ctx, owner, core.Uncategorized, period)
	if err != nil {
		return nil, storeErr("find budget", err)
	}
	return b, nil
}

// EvaluateTotal checks period spend against the total budget.
func (e *BudgetEvaluator) EvaluateTotal(ctx context.Context, owner core.OwnerID, period core.Period) (*BudgetAlert, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	b, err := e.TotalBudget(ctx, owner, period)
	if err != nil || b == nil || !b.Amount.IsPositive() {
		return nil, err
	}
	spent, err := e.store.SumAmount(ctx, owner, period)
	if err != nil {
		return nil, storeErr("sum amount", err)
	}
	return e.alert(*b, spent), nil
}

// EvaluateCategories checks every category budget overlapping period, in
// the order the store returns them. Missing category spend counts as zero.
func (e *BudgetEvaluator) EvaluateCategories(ctx context.Context, owner core.OwnerID, period core.Period) ([]BudgetAlert, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	budgets, err := e.store.ListCategoryBudgets(ctx, owner, period)
	if err != nil {
		return nil, storeErr("list category budgets", err)
	}
	if len(budgets) == 0 {
		return nil, nil
	}
	spentByCat, err := e.store.SumByCategory(ctx, owner, period)
	if err != nil {
		return nil, storeErr("sum by category", err)
	}

	var alerts []BudgetAlert
	for _, b := range budgets {
		if b.IsTotal() {
			continue
		}
		spent, ok := spentByCat[b.Category]
		if !ok {
			spent = decimal.Zero
		}
		if a := e.alert(b, spent); a != nil {
			alerts = append(alerts, *a)
		}
	}
	return alerts, nil
}
