package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type (
	// OwnerID scopes every entity; the engine never reasons across owners.
	OwnerID int64

	Date struct {
		time.Time
	}

	// CategoryKey is an optional category reference. The zero value means
	// "no category", which on a Budget denotes the total, cross-category budget.
	CategoryKey struct {
		ID    int64
		Valid bool
	}

	Category struct {
		ID    int64
		Owner OwnerID
		Name  string
		Type  string // expense | income
	}

	Transaction struct {
		ID       int64
		Owner    OwnerID
		Category CategoryKey
		Amount   decimal.Decimal
		Date     Date
		Note     string
	}

	Budget struct {
		ID           int64
		Owner        OwnerID
		Category     CategoryKey
		CategoryName string // filled by stores for category budgets
		Amount       decimal.Decimal
		Start        Date
		End          Date
	}
)

// Uncategorized is the absent category reference.
var Uncategorized = CategoryKey{}

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidOwner  = errors.New("invalid owner")
	ErrEmptyName     = errors.New("empty category name")
)

// Categorized returns a reference to the category with the given id.
func Categorized(id int64) CategoryKey {
	return CategoryKey{ID: id, Valid: true}
}

func (k CategoryKey) String() string {
	if !k.Valid {
		return "none"
	}
	return fmt.Sprintf("%d", k.ID)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonths shifts d by n calendar months, clamping the day to the last day
// of the target month (Mar 31 - 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year(), d.Time.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	day := d.Day()
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return NewDate(first.Year(), int(first.Month()), day)
}

// DaysUntil returns the number of days from d to other (negative if other is earlier).
func (d Date) DaysUntil(other Date) int {
	// Unix seconds: time.Sub saturates past ~292 years.
	return int((other.Unix() - d.Unix()) / 86400)
}

func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool  { return d.Time.Equal(other.Time) }

// IsTotal reports whether the budget applies to total spend across all categories.
func (b Budget) IsTotal() bool {
	return !b.Category.Valid
}

// Period returns the budget's inclusive date range.
func (b Budget) Period() Period {
	return Period{Start: b.Start, End: b.End}
}

func (b Budget) Validate() error {
	if b.Owner <= 0 {
		return ErrInvalidOwner
	}
	if b.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return b.Period().Validate()
}

func (t Transaction) Validate() error {
	if t.Owner <= 0 {
		return ErrInvalidOwner
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: zero date", ErrInvalidDate)
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if len(t.Note) > 500 {
		return errors.New("note too long (max 500 characters)")
	}
	return nil
}

func (c Category) Validate() error {
	if c.Owner <= 0 {
		return ErrInvalidOwner
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	switch c.Type {
	case "expense", "income":
	default:
		return fmt.Errorf("invalid category type %q", c.Type)
	}
	return nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
