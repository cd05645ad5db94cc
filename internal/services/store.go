package services

import (
	"context"

	"expensetracker/internal/analysis"
	"expensetracker/internal/core"
)

// Store is the store surface the budgeting and dashboard workflows need on
// top of the engine's read-only contract.
type Store interface {
	analysis.Store
	ListBudgets(ctx context.Context, owner core.OwnerID, overlapping core.Period) ([]core.Budget, error)
	CreateBudget(ctx context.Context, b core.Budget) (int64, error)
	CategoryNames(ctx context.Context, owner core.OwnerID) (map[int64]string, error)
}
