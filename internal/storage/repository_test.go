package storage

import (
	"context"
	"path/filepath"
	"testing"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))

	version, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}

func TestAggregatesCoalesceToZero(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	jan := core.MonthPeriod(2025, 1)

	total, err := repo.SumAmount(ctx, 1, jan)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	days, err := repo.SumByDay(ctx, 1, jan)
	require.NoError(t, err)
	assert.Empty(t, days)

	cats, err := repo.SumByCategory(ctx, 1, jan)
	require.NoError(t, err)
	assert.Empty(t, cats)

	b, err := repo.FindBudget(ctx, 1, core.Uncategorized, jan)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestAggregates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	food, err := repo.CreateCategory(ctx, core.Category{Owner: 1, Name: "Food", Type: "expense"})
	require.NoError(t, err)

	add := func(owner core.OwnerID, day core.Date, amount string, cat core.CategoryKey) {
		t.Helper()
		_, err := repo.CreateTransaction(ctx, core.Transaction{Owner: owner, Date: day, Amount: amt(amount), Category: cat, Note: "n"})
		require.NoError(t, err)
	}
	add(1, core.NewDate(2025, 1, 2), "100.25", core.Categorized(food))
	add(1, core.NewDate(2025, 1, 2), "50", core.Uncategorized)
	add(1, core.NewDate(2025, 1, 31), "10", core.Categorized(food))
	add(1, core.NewDate(2025, 2, 1), "999", core.Uncategorized)
	add(1, core.NewDate(2024, 12, 31), "1", core.Uncategorized)
	add(2, core.NewDate(2025, 1, 2), "7", core.Uncategorized)

	jan := core.MonthPeriod(2025, 1)

	total, err := repo.SumAmount(ctx, 1, jan)
	require.NoError(t, err)
	assert.True(t, total.Equal(amt("160.25")), "total %s", total)

	days, err := repo.SumByDay(ctx, 1, jan)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.True(t, days[0].Day.Equal(core.NewDate(2025, 1, 2)))
	assert.True(t, days[0].Total.Equal(amt("150.25")))
	assert.True(t, days[1].Day.Equal(core.NewDate(2025, 1, 31)))

	cats, err := repo.SumByCategory(ctx, 1, jan)
	require.NoError(t, err)
	assert.True(t, cats[core.Categorized(food)].Equal(amt("110.25")))
	assert.True(t, cats[core.Uncategorized].Equal(amt("50")))

	months, err := repo.SumByMonth(ctx, 1)
	require.NoError(t, err)
	require.Len(t, months, 3)
	assert.Equal(t, core.MonthSum{Year: 2024, Month: 12, Total: months[0].Total}, months[0])
	assert.Equal(t, 2025, months[2].Year)
	assert.Equal(t, 2, months[2].Month)
	assert.True(t, months[2].Total.Equal(amt("999")))

	owners, err := repo.ListOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.OwnerID{1, 2}, owners)

	names, err := repo.CategoryNames(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{food: "Food"}, names)
}

func TestBudgets(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	jan := core.MonthPeriod(2025, 1)

	rent, err := repo.CreateCategory(ctx, core.Category{Owner: 1, Name: "Rent", Type: "expense"})
	require.NoError(t, err)
	food, err := repo.CreateCategory(ctx, core.Category{Owner: 1, Name: "Food", Type: "expense"})
	require.NoError(t, err)

	mk := func(p core.Period, amount string, cat core.CategoryKey) int64 {
		t.Helper()
		id, err := repo.CreateBudget(ctx, core.Budget{Owner: 1, Category: cat, Amount: amt(amount), Start: p.Start, End: p.End})
		require.NoError(t, err)
		return id
	}
	mk(jan, "1000", core.Uncategorized)
	latest := mk(core.Period{Start: core.NewDate(2025, 1, 20), End: core.NewDate(2025, 2, 10)}, "2000", core.Uncategorized)
	mk(jan, "300", core.Categorized(rent))
	mk(jan, "100", core.Categorized(food))
	mk(core.MonthPeriod(2025, 3), "5", core.Categorized(food))

	total, err := repo.FindBudget(ctx, 1, core.Uncategorized, jan)
	require.NoError(t, err)
	require.NotNil(t, total)
	assert.Equal(t, latest, total.ID)
	assert.True(t, total.IsTotal())
	assert.True(t, total.Amount.Equal(amt("2000")))

	foodBudget, err := repo.FindBudget(ctx, 1, core.Categorized(food), jan)
	require.NoError(t, err)
	require.NotNil(t, foodBudget)
	assert.Equal(t, "Food", foodBudget.CategoryName)

	cats, err := repo.ListCategoryBudgets(ctx, 1, jan)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Food", cats[0].CategoryName)
	assert.Equal(t, "Rent", cats[1].CategoryName)

	all, err := repo.ListBudgets(ctx, 1, jan)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.True(t, all[0].IsTotal())
	assert.True(t, all[1].IsTotal())
	assert.Equal(t, "Food", all[2].CategoryName)

	none, err := repo.ListCategoryBudgets(ctx, 2, jan)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.CreateBudget(ctx, core.Budget{Owner: 1, Amount: amt("1"), Start: core.NewDate(2025, 2, 1), End: core.NewDate(2025, 1, 1)})
	assert.ErrorIs(t, err, core.ErrInvalidPeriod)

	_, err = repo.CreateTransaction(ctx, core.Transaction{Owner: 0, Amount: amt("1"), Date: core.NewDate(2025, 1, 1)})
	assert.ErrorIs(t, err, core.ErrInvalidOwner)
}
