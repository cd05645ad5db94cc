package analysis

import (
	"context"
	"log/slog"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Engine assembles the insights of one owner and period. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	thresholds Thresholds
	logger     *slog.Logger
	render     renderer

	forecaster *Forecaster
	budgets    *BudgetEvaluator
	anomalies  *AnomalyDetector
	trends     *TrendAnalyzer
	suggester  *SuggestionGenerator
}

type Option func(*Engine)

// WithThresholds replaces the default thresholds.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) { e.thresholds = t }
}

// WithCurrencyLabel sets the label appended to amounts in insight details.
func WithCurrencyLabel(label string) Option {
	return func(e *Engine) { e.render.currency = label }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine builds an engine over store. Invalid thresholds are rejected.
func NewEngine(store Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		thresholds: DefaultThresholds(),
		logger:     slog.Default(),
		render:     renderer{currency: DefaultCurrencyLabel},
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.thresholds.Validate(); err != nil {
		return nil, err
	}
	e.render.thresholds = e.thresholds
	e.forecaster = NewForecaster(store)
	e.budgets = NewBudgetEvaluator(store, e.thresholds)
	e.anomalies = NewAnomalyDetector(store, e.thresholds)
	e.trends = NewTrendAnalyzer(store, e.thresholds)
	e.suggester = NewSuggestionGenerator(store, e.thresholds)
	return e, nil
}

// Insights runs every producer and returns their output in a fixed order:
// forecast, total budget, category budgets, daily anomaly, trend. Producers
// query the store concurrently; ordering does not depend on completion order.
// An inverted period fails before any store call. The first store failure is
// returned as a *StoreError.
func (e *Engine) Insights(ctx context.Context, owner core.OwnerID, period core.Period, today core.Date) ([]core.Insight, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	var (
		forecast    decimal.Decimal
		totalBudget *core.Budget
		totalAlert  *BudgetAlert
		catAlerts   []BudgetAlert
		anomaly     *Anomaly
		trend       *Trend
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if forecast, err = e.forecaster.Forecast(gctx, owner, period, today); err != nil {
			return err
		}
		totalBudget, err = e.budgets.TotalBudget(gctx, owner, period)
		return err
	})
	g.Go(func() (err error) {
		totalAlert, err = e.budgets.EvaluateTotal(gctx, owner, period)
		return err
	})
	g.Go(func() (err error) {
		catAlerts, err = e.budgets.EvaluateCategories(gctx, owner, period)
		return err
	})
	g.Go(func() (err error) {
		anomaly, err = e.anomalies.Detect(gctx, owner, period)
		return err
	})
	g.Go(func() (err error) {
		trend, err = e.trends.Compare(gctx, owner, period.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	insights := make([]core.Insight, 0, 4+len(catAlerts))
	insights = append(insights, e.render.forecast(forecast, totalBudget))
	if totalAlert != nil {
		insights = append(insights, e.render.totalBudget(*totalAlert))
	}
	for _, a := range catAlerts {
		insights = append(insights, e.render.categoryBudget(a))
	}
	if anomaly != nil {
		insights = append(insights, e.render.anomaly(*anomaly))
	}
	if e.trends.Rising(trend) {
		insights = append(insights, e.render.trend(*trend))
	}

	e.logger.DebugContext(ctx, "Insights computed",
		"owner", owner,
		"period", period.String(),
		"count", len(insights))
	return insights, nil
}

// Suggest proposes a budget for target from the preceding periods.
func (e *Engine) Suggest(ctx context.Context, owner core.OwnerID, target core.Period) (Suggestion, error) {
	return e.suggester.Suggest(ctx, owner, target)
}
