package core

import (
	"errors"
	"fmt"
)

// ErrInvalidPeriod is returned for periods whose end precedes their start.
var ErrInvalidPeriod = errors.New("invalid period")

// Period is an inclusive [Start, End] range of days.
type Period struct {
	Start Date
	End   Date
}

// NewPeriod builds a validated period.
func NewPeriod(start, end Date) (Period, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%w: zero bound", ErrInvalidPeriod)
	}
	if p.End.Before(p.Start) {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidPeriod, p.End, p.Start)
	}
	return nil
}

// Days is the number of days in the period, both bounds included.
func (p Period) Days() int {
	return p.Start.DaysUntil(p.End) + 1
}

func (p Period) Contains(d Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Overlaps reports whether p and other share at least one day.
func (p Period) Overlaps(other Period) bool {
	return !p.Start.After(other.End) && !p.End.Before(other.Start)
}

// IsCalendarMonth reports whether p spans exactly one whole calendar month.
func (p Period) IsCalendarMonth() bool {
	if p.Start.Day() != 1 {
		return false
	}
	m := MonthPeriod(p.Start.Year(), p.Start.Month())
	return p.End.Equal(m.End)
}

func (p Period) String() string {
	return p.Start.String() + ".." + p.End.String()
}

// MonthPeriod returns the first through last calendar day of the month.
func MonthPeriod(year, month int) Period {
	start := NewDate(year, month, 1)
	return Period{Start: start, End: start.AddMonths(1).AddDays(-1)}
}

// MonthOf returns the calendar month containing d.
func MonthOf(d Date) Period {
	return MonthPeriod(d.Year(), d.Month())
}

// RollingMonths returns the count calendar months ending at anchor's month,
// oldest first.
func RollingMonths(anchor Date, count int) []Period {
	if count <= 0 {
		return nil
	}
	first := NewDate(anchor.Year(), anchor.Month(), 1)
	out := make([]Period, 0, count)
	for i := count - 1; i >= 0; i-- {
		m := first.AddMonths(-i)
		out = append(out, MonthPeriod(m.Year(), m.Month()))
	}
	return out
}

// PreviousPeriod shifts both bounds back one calendar month. Whole calendar
// months map to the whole previous month; any other range keeps its days of
// month (clamped), so it is not length-preserving in general.
func PreviousPeriod(p Period) Period {
	if p.IsCalendarMonth() {
		prev := p.Start.AddMonths(-1)
		return MonthPeriod(prev.Year(), prev.Month())
	}
	return Period{Start: p.Start.AddMonths(-1), End: p.End.AddMonths(-1)}
}

// NextPeriod is the forward counterpart of PreviousPeriod.
func NextPeriod(p Period) Period {
	if p.IsCalendarMonth() {
		next := p.Start.AddMonths(1)
		return MonthPeriod(next.Year(), next.Month())
	}
	return Period{Start: p.Start.AddMonths(1), End: p.End.AddMonths(1)}
}
