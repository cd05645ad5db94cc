package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"expensetracker/internal/analysis"
	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidAmount = errors.New("suggested amount must be positive")
)

var hundred = decimal.NewFromInt(100)

// BudgetService runs the budgeting workflow around the engine's suggestion.
type BudgetService struct {
	store  Store
	engine *analysis.Engine
	logger *slog.Logger
}

func NewBudgetService(store Store, engine *analysis.Engine, logger *slog.Logger) *BudgetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BudgetService{store: store, engine: engine, logger: logger}
}

// NextSuggestion is the suggestion for the month after the viewed one.
type NextSuggestion struct {
	analysis.Suggestion
	// HasBudget reports that a total budget already overlaps the target.
	HasBudget bool
}

// CanApply reports whether the suggestion should be offered.
func (n NextSuggestion) CanApply() bool {
	return n.Actionable() && !n.HasBudget
}

func monthPeriod(year, month int) (core.Period, error) {
	if month < 1 || month > 12 || year < 1 {
		return core.Period{}, fmt.Errorf("%w: %d/%d", ErrInvalidMonth, month, year)
	}
	return core.MonthPeriod(year, month), nil
}

// SuggestNext proposes a total budget for the month after year/month.
func (s *BudgetService) SuggestNext(ctx context.Context, owner core.OwnerID, year, month int) (NextSuggestion, error) {
	viewed, err := monthPeriod(year, month)
	if err != nil {
		return NextSuggestion{}, err
	}
	target := core.NextPeriod(viewed)

	sug, err := s.engine.Suggest(ctx, owner, target)
	if err != nil {
		return NextSuggestion{}, err
	}
	existing, err := s.store.FindBudget(ctx, owner, core.Uncategorized, target)
	if err != nil {
		return NextSuggestion{}, &analysis.StoreError{Op: "find budget", Err: err}
	}
	return NextSuggestion{Suggestion: sug, HasBudget: existing != nil}, nil
}

// ApplySuggestion creates a total budget for period unless one already
// overlaps it. It reports whether a budget was created.
func (s *BudgetService) ApplySuggestion(ctx context.Context, owner core.OwnerID, period core.Period, amount decimal.Decimal) (bool, error) {
	if err := period.Validate(); err != nil {
		return false, err
	}
	if !amount.IsPositive() {
		return false, ErrInvalidAmount
	}
	existing, err := s.store.FindBudget(ctx, owner, core.Uncategorized, period)
	if err != nil {
		return false, &analysis.StoreError{Op: "find budget", Err: err}
	}
	if existing != nil {
		s.logger.InfoContext(ctx, "Suggestion not applied, total budget exists",
			"owner_id", owner, "budget_id", existing.ID, "period", period.String())
		return false, nil
	}
	id, err := s.store.CreateBudget(ctx, core.Budget{
		Owner:  owner,
		Amount: amount,
		Start:  period.Start,
		End:    period.End,
	})
	if err != nil {
		return false, &analysis.StoreError{Op: "create budget", Err: err}
	}
	s.logger.InfoContext(ctx, "Suggestion applied",
		"owner_id", owner, "budget_id", id, "amount", amount.String(), "period", period.String())
	return true, nil
}

// CloneBudgets copies every budget overlapping the source month into the
// target month, with full calendar-month bounds. It returns how many were copied.
func (s *BudgetService) CloneBudgets(ctx context.Context, owner core.OwnerID, fromYear, fromMonth, toYear, toMonth int) (int, error) {
	from, err := monthPeriod(fromYear, fromMonth)
	if err != nil {
		return 0, err
	}
	to, err := monthPeriod(toYear, toMonth)
	if err != nil {
		return 0, err
	}
	src, err := s.store.ListBudgets(ctx, owner, from)
	if err != nil {
		return 0, &analysis.StoreError{Op: "list budgets", Err: err}
	}
	for i, b := range src {
		_, err := s.store.CreateBudget(ctx, core.Budget{
			Owner:    owner,
			Category: b.Category,
			Amount:   b.Amount,
			Start:    to.Start,
			End:      to.End,
		})
		if err != nil {
			return i, &analysis.StoreError{Op: "create budget", Err: err}
		}
	}
	if len(src) > 0 {
		s.logger.InfoContext(ctx, "Budgets cloned",
			"owner_id", owner, "from", from.String(), "to", to.String(), "count", len(src))
	}
	return len(src), nil
}

// UsagePoint is the share of the total budget spent in one month.
type UsagePoint struct {
	Label   string          `json:"label"`   // M/YYYY
	Percent decimal.Decimal `json:"percent"` // 0-100+, one decimal
}

// UsageHistory returns the budget usage of the months ending at anchor's
// month, oldest first. Overlapping total budgets are summed; a month without
// one reports 0.
func (s *BudgetService) UsageHistory(ctx context.Context, owner core.OwnerID, anchor core.Date, months int) ([]UsagePoint, error) {
	periods := core.RollingMonths(anchor, months)
	out := make([]UsagePoint, 0, len(periods))
	for _, p := range periods {
		spent, err := s.store.SumAmount(ctx, owner, p)
		if err != nil {
			return nil, &analysis.StoreError{Op: "sum amount", Err: err}
		}
		budgets, err := s.store.ListBudgets(ctx, owner, p)
		if err != nil {
			return nil, &analysis.StoreError{Op: "list budgets", Err: err}
		}
		total := decimal.Zero
		for _, b := range budgets {
			if b.IsTotal() {
				total = total.Add(b.Amount)
			}
		}
		pct := decimal.Zero
		if total.IsPositive() {
			pct = spent.Div(total).Mul(hundred).Round(1)
		}
		out = append(out, UsagePoint{
			Label:   strconv.Itoa(p.Start.Month()) + "/" + strconv.Itoa(p.Start.Year()),
			Percent: pct,
		})
	}
	return out, nil
}

// BudgetLine is one budget with the spend it covers.
type BudgetLine struct {
	Budget core.Budget
	Spent  decimal.Decimal
}

// MonthBudgets is the budget page of one calendar month.
type MonthBudgets struct {
	Period      core.Period
	Lines       []BudgetLine // totals first, then by category name
	TotalSpent  decimal.Decimal
	PercentUsed decimal.Decimal // capped at 100
}

// MonthBudgets lists the budgets overlapping year/month with their spend.
func (s *BudgetService) MonthBudgets(ctx context.Context, owner core.OwnerID, year, month int) (MonthBudgets, error) {
	p, err := monthPeriod(year, month)
	if err != nil {
		return MonthBudgets{}, err
	}
	budgets, err := s.store.ListBudgets(ctx, owner, p)
	if err != nil {
		return MonthBudgets{}, &analysis.StoreError{Op: "list budgets", Err: err}
	}
	byCat, err := s.store.SumByCategory(ctx, owner, p)
	if err != nil {
		return MonthBudgets{}, &analysis.StoreError{Op: "sum by category", Err: err}
	}

	out := MonthBudgets{Period: p, TotalSpent: decimal.Zero, PercentUsed: decimal.Zero}
	for _, v := range byCat {
		out.TotalSpent = out.TotalSpent.Add(v)
	}
	var total *core.Budget
	for i, b := range budgets {
		line := BudgetLine{Budget: b, Spent: byCat[b.Category]}
		if b.IsTotal() {
			line.Spent = out.TotalSpent
			if total == nil || b.ID > total.ID {
				total = &budgets[i]
			}
		}
		out.Lines = append(out.Lines, line)
	}
	if total != nil {
		out.PercentUsed = percentUsed(out.TotalSpent, total.Amount)
	}
	return out, nil
}

func percentUsed(spent, budget decimal.Decimal) decimal.Decimal {
	if !budget.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(hundred, spent.Div(budget).Mul(hundred)).Round(1)
}
