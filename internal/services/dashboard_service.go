package services

import (
	"context"
	"log/slog"
	"sort"

	"expensetracker/internal/analysis"
	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// OtherCategory labels spend without a category.
const OtherCategory = "Other"

// Overview is the dashboard of one owner on one day.
type Overview struct {
	Month       core.Period
	MonthToDate decimal.Decimal
	Budget      decimal.Decimal // current total budget, 0 without one
	PercentUsed decimal.Decimal // capped at 100
	ByCategory  []core.CategoryAmount
	Trend       []core.MonthSum
	Insights    []core.Insight
}

type DashboardService struct {
	store  Store
	engine *analysis.Engine
	logger *slog.Logger
}

func NewDashboardService(store Store, engine *analysis.Engine, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{store: store, engine: engine, logger: logger}
}

// Overview totals the month up to today and runs the insights of the whole
// calendar month.
func (s *DashboardService) Overview(ctx context.Context, owner core.OwnerID, today core.Date) (Overview, error) {
	month := core.MonthOf(today)
	toDate := core.Period{Start: month.Start, End: today}
	ov := Overview{Month: month, Budget: decimal.Zero, PercentUsed: decimal.Zero}

	var (
		byCat map[core.CategoryKey]decimal.Decimal
		names map[int64]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if ov.MonthToDate, err = s.store.SumAmount(gctx, owner, toDate); err != nil {
			return &analysis.StoreError{Op: "sum amount", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		b, err := s.store.FindBudget(gctx, owner, core.Uncategorized, core.Period{Start: today, End: today})
		if err != nil {
			return &analysis.StoreError{Op: "find budget", Err: err}
		}
		if b != nil {
			ov.Budget = b.Amount
		}
		return nil
	})
	g.Go(func() (err error) {
		if byCat, err = s.store.SumByCategory(gctx, owner, toDate); err != nil {
			return &analysis.StoreError{Op: "sum by category", Err: err}
		}
		return nil
	})
	g.Go(func() (err error) {
		if names, err = s.store.CategoryNames(gctx, owner); err != nil {
			return &analysis.StoreError{Op: "category names", Err: err}
		}
		return nil
	})
	g.Go(func() (err error) {
		if ov.Trend, err = s.store.SumByMonth(gctx, owner); err != nil {
			return &analysis.StoreError{Op: "sum by month", Err: err}
		}
		return nil
	})
	g.Go(func() (err error) {
		ov.Insights, err = s.engine.Insights(gctx, owner, month, today)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	ov.PercentUsed = percentUsed(ov.MonthToDate, ov.Budget)
	ov.ByCategory = categoryTotals(byCat, names)

	s.logger.DebugContext(ctx, "Dashboard computed",
		"owner_id", owner,
		"month", month.String(),
		"insights", len(ov.Insights))
	return ov, nil
}

// categoryTotals merges spend by category name, largest first.
func categoryTotals(byCat map[core.CategoryKey]decimal.Decimal, names map[int64]string) []core.CategoryAmount {
	merged := map[string]decimal.Decimal{}
	for k, v := range byCat {
		name := OtherCategory
		if k.Valid {
			if n, ok := names[k.ID]; ok {
				name = n
			}
		}
		merged[name] = merged[name].Add(v)
	}
	out := make([]core.CategoryAmount, 0, len(merged))
	for name, v := range merged {
		out = append(out, core.CategoryAmount{Name: name, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
