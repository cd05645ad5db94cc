// Package memory is an in-process implementation of the expense store,
// used by tests and by the memory backend.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

type Store struct {
	mu         sync.RWMutex
	nextID     int64
	categories []core.Category
	txs        []core.Transaction
	budgets    []core.Budget
}

func New() *Store {
	return &Store{}
}

// Ping always succeeds; the store lives in process.
func (s *Store) Ping(context.Context) error { return nil }

// NewFromFiles seeds a store from base/seed_categories.txt,
// base/seed_transactions.txt and base/seed_budgets.txt. Missing files are
// skipped; malformed lines are reported.
//
//	seed_categories.txt:   owner,name[,type]
//	seed_transactions.txt: owner,YYYY-MM-DD,amount[,category name[,note]]
//	seed_budgets.txt:      owner,amount,YYYY-MM-DD,YYYY-MM-DD[,category name]
func NewFromFiles(base string) (*Store, error) {
	s := New()
	ctx := context.Background()

	for _, line := range readLines(filepath.Join(base, "seed_categories.txt")) {
		f := splitFields(line.text)
		if len(f) < 2 {
			return nil, fmt.Errorf("seed_categories.txt line %d: expected owner,name", line.no)
		}
		owner, err := parseOwner(f[0])
		if err != nil {
			return nil, fmt.Errorf("seed_categories.txt line %d: %w", line.no, err)
		}
		typ := "expense"
		if len(f) > 2 {
			typ = f[2]
		}
		if _, err := s.CreateCategory(ctx, core.Category{Owner: owner, Name: f[1], Type: typ}); err != nil {
			return nil, fmt.Errorf("seed_categories.txt line %d: %w", line.no, err)
		}
	}

	for _, line := range readLines(filepath.Join(base, "seed_transactions.txt")) {
		f := splitFields(line.text)
		if len(f) < 3 {
			return nil, fmt.Errorf("seed_transactions.txt line %d: expected owner,date,amount", line.no)
		}
		owner, err := parseOwner(f[0])
		if err != nil {
			return nil, fmt.Errorf("seed_transactions.txt line %d: %w", line.no, err)
		}
		day, err := core.ParseDate(f[1])
		if err != nil {
			return nil, fmt.Errorf("seed_transactions.txt line %d: %w", line.no, err)
		}
		amount, err := core.ParseAmount(f[2])
		if err != nil {
			return nil, fmt.Errorf("seed_transactions.txt line %d: %w", line.no, err)
		}
		tx := core.Transaction{Owner: owner, Date: day, Amount: amount}
		if len(f) > 3 && f[3] != "" {
			if tx.Category, err = s.categoryByName(owner, f[3]); err != nil {
				return nil, fmt.Errorf("seed_transactions.txt line %d: %w", line.no, err)
			}
		}
		if len(f) > 4 {
			tx.Note = f[4]
		}
		if _, err := s.CreateTransaction(ctx, tx); err != nil {
			return nil, fmt.Errorf("seed_transactions.txt line %d: %w", line.no, err)
		}
	}

	for _, line := range readLines(filepath.Join(base, "seed_budgets.txt")) {
		f := splitFields(line.text)
		if len(f) < 4 {
			return nil, fmt.Errorf("seed_budgets.txt line %d: expected owner,amount,start,end", line.no)
		}
		owner, err := parseOwner(f[0])
		if err != nil {
			return nil, fmt.Errorf("seed_budgets.txt line %d: %w", line.no, err)
		}
		amount, err := core.ParseAmount(f[1])
		if err != nil {
			return nil, fmt.Errorf("seed_budgets.txt line %d: %w", line.no, err)
		}
		start, err := core.ParseDate(f[2])
		if err != nil {
			return nil, fmt.Errorf("seed_budgets.txt line %d: %w", line.no, err)
		}
		end, err := core.ParseDate(f[3])
		if err != nil {
			return nil, fmt.Errorf("seed_budgets.txt line %d: %w", line.no, err)
		}
		b := core.Budget{Owner: owner, Amount: amount, Start: start, End: end}
		if len(f) > 4 && f[4] != "" {
			if b.Category, err = s.categoryByName(owner, f[4]); err != nil {
				return nil, fmt.Errorf("seed_budgets.txt line %d: %w", line.no, err)
			}
		}
		if _, err := s.CreateBudget(ctx, b); err != nil {
			return nil, fmt.Errorf("seed_budgets.txt line %d: %w", line.no, err)
		}
	}

	return s, nil
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// CreateCategory stores c and returns its id.
func (s *Store) CreateCategory(_ context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.categories = append(s.categories, c)
	return c.ID, nil
}

// CreateTransaction stores t and returns its id.
func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	s.txs = append(s.txs, t)
	return t.ID, nil
}

// CreateBudget stores b and returns its id.
func (s *Store) CreateBudget(_ context.Context, b core.Budget) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	b.CategoryName = ""
	s.budgets = append(s.budgets, b)
	return b.ID, nil
}

func (s *Store) SumAmount(_ context.Context, owner core.OwnerID, period core.Period) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, t := range s.txs {
		if t.Owner == owner && period.Contains(t.Date) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (s *Store) SumByDay(_ context.Context, owner core.OwnerID, period core.Period) ([]core.DaySum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byDay := map[string]*core.DaySum{}
	for _, t := range s.txs {
		if t.Owner != owner || !period.Contains(t.Date) {
			continue
		}
		key := t.Date.String()
		if row, ok := byDay[key]; ok {
			row.Total = row.Total.Add(t.Amount)
			continue
		}
		byDay[key] = &core.DaySum{Day: t.Date, Total: t.Amount}
	}
	out := make([]core.DaySum, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (s *Store) SumByCategory(_ context.Context, owner core.OwnerID, period core.Period) (map[core.CategoryKey]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[core.CategoryKey]decimal.Decimal{}
	for _, t := range s.txs {
		if t.Owner == owner && period.Contains(t.Date) {
			out[t.Category] = out[t.Category].Add(t.Amount)
		}
	}
	return out, nil
}

func (s *Store) SumByMonth(_ context.Context, owner core.OwnerID) ([]core.MonthSum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byMonth := map[int]*core.MonthSum{}
	for _, t := range s.txs {
		if t.Owner != owner {
			continue
		}
		key := t.Date.Year()*100 + t.Date.Month()
		if row, ok := byMonth[key]; ok {
			row.Total = row.Total.Add(t.Amount)
			continue
		}
		byMonth[key] = &core.MonthSum{Year: t.Date.Year(), Month: t.Date.Month(), Total: t.Amount}
	}
	out := make([]core.MonthSum, 0, len(byMonth))
	for _, row := range byMonth {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

// FindBudget returns the most recently created matching budget.
func (s *Store) FindBudget(_ context.Context, owner core.OwnerID, category core.CategoryKey, overlapping core.Period) (*core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *core.Budget
	for i := range s.budgets {
		b := s.budgets[i]
		if b.Owner != owner || b.Category != category || !b.Period().Overlaps(overlapping) {
			continue
		}
		if found == nil || b.ID > found.ID {
			b.CategoryName = s.categoryName(b.Category)
			found = &b
		}
	}
	return found, nil
}

// ListCategoryBudgets orders by category name, then id.
func (s *Store) ListCategoryBudgets(_ context.Context, owner core.OwnerID, overlapping core.Period) ([]core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Budget
	for _, b := range s.budgets {
		if b.Owner != owner || b.IsTotal() || !b.Period().Overlaps(overlapping) {
			continue
		}
		b.CategoryName = s.categoryName(b.Category)
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CategoryName != out[j].CategoryName {
			return out[i].CategoryName < out[j].CategoryName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListBudgets returns every budget overlapping the period, totals first.
func (s *Store) ListBudgets(ctx context.Context, owner core.OwnerID, overlapping core.Period) ([]core.Budget, error) {
	cats, _ := s.ListCategoryBudgets(ctx, owner, overlapping)
	s.mu.RLock()
	var out []core.Budget
	for _, b := range s.budgets {
		if b.Owner == owner && b.IsTotal() && b.Period().Overlaps(overlapping) {
			out = append(out, b)
		}
	}
	s.mu.RUnlock()
	return append(out, cats...), nil
}

// CategoryNames maps the owner's category ids to names.
func (s *Store) CategoryNames(_ context.Context, owner core.OwnerID) (map[int64]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[int64]string{}
	for _, c := range s.categories {
		if c.Owner == owner {
			out[c.ID] = c.Name
		}
	}
	return out, nil
}

// ListOwners returns every owner with at least one transaction, ascending.
func (s *Store) ListOwners(_ context.Context) ([]core.OwnerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[core.OwnerID]struct{}{}
	var out []core.OwnerID
	for _, t := range s.txs {
		if _, ok := seen[t.Owner]; ok {
			continue
		}
		seen[t.Owner] = struct{}{}
		out = append(out, t.Owner)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Store) categoryName(k core.CategoryKey) string {
	if !k.Valid {
		return ""
	}
	for _, c := range s.categories {
		if c.ID == k.ID {
			return c.Name
		}
	}
	return ""
}

func (s *Store) categoryByName(owner core.OwnerID, name string) (core.CategoryKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.Owner == owner && strings.EqualFold(c.Name, name) {
			return core.Categorized(c.ID), nil
		}
	}
	return core.Uncategorized, fmt.Errorf("unknown category %q for owner %d", name, owner)
}

func parseOwner(s string) (core.OwnerID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidOwner, s)
	}
	return core.OwnerID(v), nil
}

func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

type seedLine struct {
	no   int // 1-based line number in the file
	text string
}

// readLines returns the non-blank, non-comment lines of path with their
// file line numbers. A missing file yields nothing.
func readLines(path string) []seedLine {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []seedLine
	sc := bufio.NewScanner(f)
	for no := 1; sc.Scan(); no++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, seedLine{no: no, text: line})
	}
	return out
}
