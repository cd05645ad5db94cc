package services

import (
	"context"
	"log/slog"

	"expensetracker/internal/analysis"
	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// topCategoryCount bounds Report.TopCategories.
const topCategoryCount = 5

// Report summarizes spending over an arbitrary range and compares it with
// the same range one month earlier.
type Report struct {
	Period   core.Period
	Previous core.Period

	Total         decimal.Decimal
	Budget        decimal.Decimal // total budget overlapping Period, 0 without one
	PreviousTotal decimal.Decimal
	Delta         decimal.Decimal
	// PctChange is (Total - PreviousTotal) / PreviousTotal as a ratio,
	// nil when nothing was spent in the previous range.
	PctChange *decimal.Decimal

	ByCategory    []core.CategoryAmount
	TopCategories []core.CategoryAmount
	ByDay         []core.DaySum
	Insights      []core.Insight
}

type ReportService struct {
	store  Store
	engine *analysis.Engine
	logger *slog.Logger
}

func NewReportService(store Store, engine *analysis.Engine, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{store: store, engine: engine, logger: logger}
}

// Report builds the report of owner over period. An inverted period fails
// with core.ErrInvalidPeriod before the store is queried.
func (s *ReportService) Report(ctx context.Context, owner core.OwnerID, period core.Period, today core.Date) (Report, error) {
	if err := period.Validate(); err != nil {
		return Report{}, err
	}
	rep := Report{
		Period:   period,
		Previous: core.PreviousPeriod(period),
		Budget:   decimal.Zero,
	}

	var (
		byCat map[core.CategoryKey]decimal.Decimal
		names map[int64]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if rep.Total, err = s.store.SumAmount(gctx, owner, period); err != nil {
			return &analysis.StoreError{Op: "sum amount", Err: err}
		}
		return nil
	})
	g.Go(func() (err error) {
		if rep.PreviousTotal, err = s.store.SumAmount(gctx, owner, rep.Previous); err != nil {
			return &analysis.StoreError{Op: "sum amount", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		b, err := s.store.FindBudget(gctx, owner, core.Uncategorized, period)
		if err != nil {
			return &analysis.StoreError{Op: "find budget", Err: err}
		}
		if b != nil {
			rep.Budget = b.Amount
		}
		return nil
	})
	g.Go(func() (err error) {
		if byCat, err = s.store.SumByCategory(gctx, owner, period); err != nil {
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
		if rep.ByDay, err = s.store.SumByDay(gctx, owner, period); err != nil {
			return &analysis.StoreError{Op: "sum by day", Err: err}
		}
		return nil
	})
	g.Go(func() (err error) {
		rep.Insights, err = s.engine.Insights(gctx, owner, period, today)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	rep.Delta = rep.Total.Sub(rep.PreviousTotal)
	if !rep.PreviousTotal.IsZero() {
		pct := rep.Delta.Div(rep.PreviousTotal)
		rep.PctChange = &pct
	}
	rep.ByCategory = categoryTotals(byCat, names)
	rep.TopCategories = rep.ByCategory[:min(topCategoryCount, len(rep.ByCategory))]

	s.logger.DebugContext(ctx, "Report computed",
		"owner_id", owner,
		"period", period.String(),
		"previous", rep.Previous.String(),
		"insights", len(rep.Insights))
	return rep, nil
}
