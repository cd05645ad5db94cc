package services

import (
	"context"
	"fmt"
	"testing"

	"expensetracker/internal/analysis"
	"expensetracker/internal/core"
	"expensetracker/internal/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportService(t *testing.T) (*ReportService, *memory.Store) {
	t.Helper()
	store := memory.New()
	engine, err := analysis.NewEngine(store)
	require.NoError(t, err)
	return NewReportService(store, engine, nil), store
}

func TestReportPartialRange(t *testing.T) {
	svc, store := newReportService(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, core.Category{Owner: owner, Name: "Food", Type: "expense"})
	require.NoError(t, err)

	budget(t, store, core.MonthPeriod(2025, 3), "1000", core.Uncategorized)
	spend(t, store, core.NewDate(2025, 3, 5), "999", core.Categorized(food)) // before the range
	spend(t, store, core.NewDate(2025, 3, 12), "300", core.Categorized(food))
	spend(t, store, core.NewDate(2025, 3, 15), "100", core.Uncategorized)
	spend(t, store, core.NewDate(2025, 2, 15), "200", core.Uncategorized)
	spend(t, store, core.NewDate(2025, 2, 25), "777", core.Uncategorized) // after the previous range

	period := core.Period{Start: core.NewDate(2025, 3, 10), End: core.NewDate(2025, 3, 20)}
	rep, err := svc.Report(ctx, owner, period, core.NewDate(2025, 3, 20))
	require.NoError(t, err)

	assert.Equal(t, core.Period{Start: core.NewDate(2025, 2, 10), End: core.NewDate(2025, 2, 20)}, rep.Previous)
	assert.True(t, rep.Total.Equal(amt("400")), "total %s", rep.Total)
	assert.True(t, rep.PreviousTotal.Equal(amt("200")), "previous %s", rep.PreviousTotal)
	assert.True(t, rep.Delta.Equal(amt("200")), "delta %s", rep.Delta)
	require.NotNil(t, rep.PctChange)
	assert.True(t, rep.PctChange.Equal(amt("1")), "pct %s", rep.PctChange)
	assert.True(t, rep.Budget.Equal(amt("1000")))

	require.Len(t, rep.ByCategory, 2)
	assert.Equal(t, "Food", rep.ByCategory[0].Name)
	assert.Equal(t, OtherCategory, rep.ByCategory[1].Name)
	assert.Equal(t, rep.ByCategory, rep.TopCategories)

	require.Len(t, rep.ByDay, 2)
	assert.Equal(t, core.NewDate(2025, 3, 12), rep.ByDay[0].Day)
	assert.Equal(t, core.NewDate(2025, 3, 15), rep.ByDay[1].Day)

	assert.NotEmpty(t, rep.Insights)
}

func TestReportWithoutPreviousSpend(t *testing.T) {
	svc, store := newReportService(t)
	spend(t, store, core.NewDate(2025, 3, 3), "250", core.Uncategorized)

	rep, err := svc.Report(context.Background(), owner, core.MonthPeriod(2025, 3), core.NewDate(2025, 3, 31))
	require.NoError(t, err)

	assert.Equal(t, core.MonthPeriod(2025, 2), rep.Previous)
	assert.True(t, rep.PreviousTotal.IsZero())
	assert.True(t, rep.Delta.Equal(amt("250")))
	assert.Nil(t, rep.PctChange)
	assert.True(t, rep.Budget.IsZero())
}

func TestReportEmptyRange(t *testing.T) {
	svc, _ := newReportService(t)

	rep, err := svc.Report(context.Background(), owner, core.MonthPeriod(2025, 3), core.NewDate(2025, 3, 10))
	require.NoError(t, err)
	assert.True(t, rep.Total.IsZero())
	assert.True(t, rep.Delta.IsZero())
	assert.Nil(t, rep.PctChange)
	assert.Empty(t, rep.ByCategory)
	assert.Empty(t, rep.TopCategories)
	assert.Empty(t, rep.ByDay)
}

func TestReportTopCategoriesCapped(t *testing.T) {
	svc, store := newReportService(t)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		id, err := store.CreateCategory(ctx, core.Category{Owner: owner, Name: fmt.Sprintf("C%d", i), Type: "expense"})
		require.NoError(t, err)
		spend(t, store, core.NewDate(2025, 3, i), fmt.Sprintf("%d00", i), core.Categorized(id))
	}

	rep, err := svc.Report(ctx, owner, core.MonthPeriod(2025, 3), core.NewDate(2025, 3, 31))
	require.NoError(t, err)
	require.Len(t, rep.ByCategory, 7)
	require.Len(t, rep.TopCategories, 5)
	assert.Equal(t, "C7", rep.TopCategories[0].Name)
	assert.Equal(t, "C3", rep.TopCategories[4].Name)
}

func TestReportRejectsInvertedPeriod(t *testing.T) {
	svc, _ := newReportService(t)
	inverted := core.Period{Start: core.NewDate(2025, 3, 20), End: core.NewDate(2025, 3, 10)}

	_, err := svc.Report(context.Background(), owner, inverted, core.NewDate(2025, 3, 20))
	assert.ErrorIs(t, err, core.ErrInvalidPeriod)
}
