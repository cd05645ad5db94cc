// Package storage persists categories, transactions and budgets in SQLite
// and answers the aggregate queries of the insights engine.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) SumAmount(ctx context.Context, owner core.OwnerID, period core.Period) (decimal.Decimal, error) {
	total, err := r.queries.SumAmount(ctx, int64(owner), period.Start.String(), period.End.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum amount: %w", err)
	}
	return core.FromMinorUnits(total), nil
}

func (r *SQLiteRepository) SumByDay(ctx context.Context, owner core.OwnerID, period core.Period) ([]core.DaySum, error) {
	rows, err := r.queries.SumByDay(ctx, int64(owner), period.Start.String(), period.End.String())
	if err != nil {
		return nil, fmt.Errorf("sum by day: %w", err)
	}
	out := make([]core.DaySum, 0, len(rows))
	for _, row := range rows {
		day, err := core.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("sum by day: %w", err)
		}
		out = append(out, core.DaySum{Day: day, Total: core.FromMinorUnits(row.Total)})
	}
	return out, nil
}

func (r *SQLiteRepository) SumByCategory(ctx context.Context, owner core.OwnerID, period core.Period) (map[core.CategoryKey]decimal.Decimal, error) {
	rows, err := r.queries.SumByCategory(ctx, int64(owner), period.Start.String(), period.End.String())
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	out := make(map[core.CategoryKey]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[categoryKey(row.CategoryID)] = core.FromMinorUnits(row.Total)
	}
	return out, nil
}

func (r *SQLiteRepository) SumByMonth(ctx context.Context, owner core.OwnerID) ([]core.MonthSum, error) {
	rows, err := r.queries.SumByMonth(ctx, int64(owner))
	if err != nil {
		return nil, fmt.Errorf("sum by month: %w", err)
	}
	out := make([]core.MonthSum, len(rows))
	for i, row := range rows {
		out[i] = core.MonthSum{Year: int(row.Year), Month: int(row.Month), Total: core.FromMinorUnits(row.Total)}
	}
	return out, nil
}

// FindBudget returns the most recently created budget for category that
// overlaps the period, or nil.
func (r *SQLiteRepository) FindBudget(ctx context.Context, owner core.OwnerID, category core.CategoryKey, overlapping core.Period) (*core.Budget, error) {
	var (
		row BudgetRow
		err error
	)
	end, start := overlapping.End.String(), overlapping.Start.String()
	if category.Valid {
		row, err = r.queries.FindCategoryBudget(ctx, int64(owner), category.ID, end, start)
	} else {
		row, err = r.queries.FindTotalBudget(ctx, int64(owner), end, start)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find budget: %w", err)
	}
	b, err := budgetFromRow(row)
	if err != nil {
		return nil, fmt.Errorf("find budget: %w", err)
	}
	return &b, nil
}

// ListCategoryBudgets orders by category name, then id.
func (r *SQLiteRepository) ListCategoryBudgets(ctx context.Context, owner core.OwnerID, overlapping core.Period) ([]core.Budget, error) {
	rows, err := r.queries.ListCategoryBudgets(ctx, int64(owner), overlapping.End.String(), overlapping.Start.String())
	if err != nil {
		return nil, fmt.Errorf("list category budgets: %w", err)
	}
	return budgetsFromRows(rows)
}

// ListBudgets returns every budget overlapping the period, totals first.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, owner core.OwnerID, overlapping core.Period) ([]core.Budget, error) {
	rows, err := r.queries.ListBudgets(ctx, int64(owner), overlapping.End.String(), overlapping.Start.String())
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgetsFromRows(rows)
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	id, err := r.queries.CreateCategory(ctx, int64(c.Owner), c.Name, c.Type)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	slog.DebugContext(ctx, "Category saved", "id", id, "owner_id", c.Owner, "name", c.Name)
	return id, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	id, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		OwnerID:     int64(t.Owner),
		CategoryID:  nullCategory(t.Category),
		AmountMinor: core.ToMinorUnits(t.Amount),
		Date:        t.Date.String(),
		Note:        sql.NullString{String: t.Note, Valid: t.Note != ""},
	})
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	slog.DebugContext(ctx, "Transaction saved",
		"id", id,
		"owner_id", t.Owner,
		"amount", t.Amount.String(),
		"date", t.Date.String())
	return id, nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	id, err := r.queries.CreateBudget(ctx, CreateBudgetParams{
		OwnerID:     int64(b.Owner),
		CategoryID:  nullCategory(b.Category),
		AmountMinor: core.ToMinorUnits(b.Amount),
		StartDate:   b.Start.String(),
		EndDate:     b.End.String(),
	})
	if err != nil {
		return 0, fmt.Errorf("create budget: %w", err)
	}
	slog.InfoContext(ctx, "Budget saved",
		"id", id,
		"owner_id", b.Owner,
		"category", b.Category.String(),
		"amount", b.Amount.String(),
		"period", b.Period().String())
	return id, nil
}

// CategoryNames maps the owner's category ids to names.
func (r *SQLiteRepository) CategoryNames(ctx context.Context, owner core.OwnerID) (map[int64]string, error) {
	rows, err := r.queries.ListCategories(ctx, int64(owner))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make(map[int64]string, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Name
	}
	return out, nil
}

// ListOwners returns every owner with at least one transaction, ascending.
func (r *SQLiteRepository) ListOwners(ctx context.Context) ([]core.OwnerID, error) {
	ids, err := r.queries.ListOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	out := make([]core.OwnerID, len(ids))
	for i, id := range ids {
		out[i] = core.OwnerID(id)
	}
	return out, nil
}

func budgetsFromRows(rows []BudgetRow) ([]core.Budget, error) {
	out := make([]core.Budget, 0, len(rows))
	for _, row := range rows {
		b, err := budgetFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func budgetFromRow(row BudgetRow) (core.Budget, error) {
	start, err := core.ParseDate(row.StartDate)
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget %d: %w", row.ID, err)
	}
	end, err := core.ParseDate(row.EndDate)
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget %d: %w", row.ID, err)
	}
	return core.Budget{
		ID:           row.ID,
		Owner:        core.OwnerID(row.OwnerID),
		Category:     categoryKey(row.CategoryID),
		CategoryName: row.CategoryName,
		Amount:       core.FromMinorUnits(row.AmountMinor),
		Start:        start,
		End:          end,
	}, nil
}

func categoryKey(id sql.NullInt64) core.CategoryKey {
	if !id.Valid {
		return core.Uncategorized
	}
	return core.Categorized(id.Int64)
}

func nullCategory(k core.CategoryKey) sql.NullInt64 {
	return sql.NullInt64{Int64: k.ID, Valid: k.Valid}
}
