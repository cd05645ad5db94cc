// Package analysis implements the financial insights engine: run-rate
// forecasting, budget ratio alerts, daily anomaly detection, month-over-month
// trends and next-period budget suggestions.
//
// The engine is stateless. Every call reads through a Store and recomputes
// from scratch; nothing is cached or persisted.
package analysis

import (
	"context"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=analysis

// Store is the read-only query contract the engine consumes. Every method is
// scoped by owner and every aggregation over an empty result yields zero.
type Store interface {
	// SumAmount is the total transaction amount in the inclusive range.
	SumAmount(ctx context.Context, owner core.OwnerID, period core.Period) (decimal.Decimal, error)

	// SumByDay returns one row per day with at least one transaction, ascending.
	SumByDay(ctx context.Context, owner core.OwnerID, period core.Period) ([]core.DaySum, error)

	// SumByCategory maps category references (including core.Uncategorized) to spend.
	SumByCategory(ctx context.Context, owner core.OwnerID, period core.Period) (map[core.CategoryKey]decimal.Decimal, error)

	// SumByMonth returns all history grouped by calendar month, ascending.
	SumByMonth(ctx context.Context, owner core.OwnerID) ([]core.MonthSum, error)

	// FindBudget returns the budget for category overlapping the period, or nil.
	// core.Uncategorized selects the total budget.
	FindBudget(ctx context.Context, owner core.OwnerID, category core.CategoryKey, overlapping core.Period) (*core.Budget, error)

	// ListCategoryBudgets returns category-scoped budgets overlapping the period.
	ListCategoryBudgets(ctx context.Context, owner core.OwnerID, overlapping core.Period) ([]core.Budget, error)
}
