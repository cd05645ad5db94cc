package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Row types. Amounts are hundredths of the currency unit, dates YYYY-MM-DD.

type DayTotal struct {
	Date  string
	Total int64
}

type CategoryTotal struct {
	CategoryID sql.NullInt64
	Total      int64
}

type MonthTotal struct {
	Year  int64
	Month int64
	Total int64
}

type BudgetRow struct {
	ID           int64
	OwnerID      int64
	CategoryID   sql.NullInt64
	CategoryName string
	AmountMinor  int64
	StartDate    string
	EndDate      string
}

type CategoryRow struct {
	ID   int64
	Name string
}

const sumAmount = `
SELECT COALESCE(SUM(amount_minor), 0)
FROM transactions
WHERE owner_id = ? AND date >= ? AND date <= ?`

func (q *Queries) SumAmount(ctx context.Context, ownerID int64, start, end string) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, sumAmount, ownerID, start, end).Scan(&total)
	return total, err
}

const sumByDay = `
SELECT date, COALESCE(SUM(amount_minor), 0)
FROM transactions
WHERE owner_id = ? AND date >= ? AND date <= ?
GROUP BY date
ORDER BY date`

func (q *Queries) SumByDay(ctx context.Context, ownerID int64, start, end string) ([]DayTotal, error) {
	rows, err := q.db.QueryContext(ctx, sumByDay, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DayTotal
	for rows.Next() {
		var i DayTotal
		if err := rows.Scan(&i.Date, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const sumByCategory = `
SELECT category_id, COALESCE(SUM(amount_minor), 0)
FROM transactions
WHERE owner_id = ? AND date >= ? AND date <= ?
GROUP BY category_id`

func (q *Queries) SumByCategory(ctx context.Context, ownerID int64, start, end string) ([]CategoryTotal, error) {
	rows, err := q.db.QueryContext(ctx, sumByCategory, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryTotal
	for rows.Next() {
		var i CategoryTotal
		if err := rows.Scan(&i.CategoryID, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const sumByMonth = `
SELECT CAST(strftime('%Y', date) AS INTEGER) AS year,
       CAST(strftime('%m', date) AS INTEGER) AS month,
       COALESCE(SUM(amount_minor), 0)
FROM transactions
WHERE owner_id = ?
GROUP BY year, month
ORDER BY year, month`

func (q *Queries) SumByMonth(ctx context.Context, ownerID int64) ([]MonthTotal, error) {
	rows, err := q.db.QueryContext(ctx, sumByMonth, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MonthTotal
	for rows.Next() {
		var i MonthTotal
		if err := rows.Scan(&i.Year, &i.Month, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const budgetColumns = `
SELECT b.id, b.owner_id, b.category_id, COALESCE(c.name, ''), b.amount_minor, b.start_date, b.end_date
FROM budgets b
LEFT JOIN categories c ON c.id = b.category_id`

const findTotalBudget = budgetColumns + `
WHERE b.owner_id = ? AND b.category_id IS NULL AND b.start_date <= ? AND b.end_date >= ?
ORDER BY b.id DESC
LIMIT 1`

// FindTotalBudget takes the overlap bounds as (end, start).
func (q *Queries) FindTotalBudget(ctx context.Context, ownerID int64, end, start string) (BudgetRow, error) {
	return scanBudget(q.db.QueryRowContext(ctx, findTotalBudget, ownerID, end, start))
}

const findCategoryBudget = budgetColumns + `
WHERE b.owner_id = ? AND b.category_id = ? AND b.start_date <= ? AND b.end_date >= ?
ORDER BY b.id DESC
LIMIT 1`

func (q *Queries) FindCategoryBudget(ctx context.Context, ownerID, categoryID int64, end, start string) (BudgetRow, error) {
	return scanBudget(q.db.QueryRowContext(ctx, findCategoryBudget, ownerID, categoryID, end, start))
}

const listCategoryBudgets = budgetColumns + `
WHERE b.owner_id = ? AND b.category_id IS NOT NULL AND b.start_date <= ? AND b.end_date >= ?
ORDER BY c.name, b.id`

func (q *Queries) ListCategoryBudgets(ctx context.Context, ownerID int64, end, start string) ([]BudgetRow, error) {
	return q.listBudgets(ctx, listCategoryBudgets, ownerID, end, start)
}

const listBudgets = budgetColumns + `
WHERE b.owner_id = ? AND b.start_date <= ? AND b.end_date >= ?
ORDER BY b.category_id IS NOT NULL, COALESCE(c.name, ''), b.id`

func (q *Queries) ListBudgets(ctx context.Context, ownerID int64, end, start string) ([]BudgetRow, error) {
	return q.listBudgets(ctx, listBudgets, ownerID, end, start)
}

func (q *Queries) listBudgets(ctx context.Context, query string, args ...any) ([]BudgetRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BudgetRow
	for rows.Next() {
		i, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBudget(row scanner) (BudgetRow, error) {
	var i BudgetRow
	err := row.Scan(&i.ID, &i.OwnerID, &i.CategoryID, &i.CategoryName, &i.AmountMinor, &i.StartDate, &i.EndDate)
	return i, err
}

const createCategory = `
INSERT INTO categories (owner_id, name, type) VALUES (?, ?, ?)
RETURNING id`

func (q *Queries) CreateCategory(ctx context.Context, ownerID int64, name, typ string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createCategory, ownerID, name, typ).Scan(&id)
	return id, err
}

type CreateTransactionParams struct {
	OwnerID     int64
	CategoryID  sql.NullInt64
	AmountMinor int64
	Date        string
	Note        sql.NullString
}

const createTransaction = `
INSERT INTO transactions (owner_id, category_id, amount_minor, date, note)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createTransaction,
		arg.OwnerID, arg.CategoryID, arg.AmountMinor, arg.Date, arg.Note).Scan(&id)
	return id, err
}

type CreateBudgetParams struct {
	OwnerID     int64
	CategoryID  sql.NullInt64
	AmountMinor int64
	StartDate   string
	EndDate     string
}

const createBudget = `
INSERT INTO budgets (owner_id, category_id, amount_minor, start_date, end_date)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

func (q *Queries) CreateBudget(ctx context.Context, arg CreateBudgetParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createBudget,
		arg.OwnerID, arg.CategoryID, arg.AmountMinor, arg.StartDate, arg.EndDate).Scan(&id)
	return id, err
}

const listCategories = `
SELECT id, name FROM categories WHERE owner_id = ? ORDER BY name`

func (q *Queries) ListCategories(ctx context.Context, ownerID int64) ([]CategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, listCategories, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryRow
	for rows.Next() {
		var i CategoryRow
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listOwners = `
SELECT DISTINCT owner_id FROM transactions ORDER BY owner_id`

func (q *Queries) ListOwners(ctx context.Context) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listOwners)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	return items, rows.Err()
}
