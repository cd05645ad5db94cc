package core

import (
	"errors"
	"testing"
)

func TestMonthPeriod(t *testing.T) {
	cases := []struct {
		year, month int
		end         Date
		days        int
	}{
		{2025, 1, NewDate(2025, 1, 31), 31},
		{2025, 2, NewDate(2025, 2, 28), 28},
		{2024, 2, NewDate(2024, 2, 29), 29},
		{2025, 4, NewDate(2025, 4, 30), 30},
		{2025, 12, NewDate(2025, 12, 31), 31},
	}
	for _, tc := range cases {
		p := MonthPeriod(tc.year, tc.month)
		if !p.Start.Equal(NewDate(tc.year, tc.month, 1)) || !p.End.Equal(tc.end) {
			t.Fatalf("MonthPeriod(%d,%d) = %s", tc.year, tc.month, p)
		}
		if p.Days() != tc.days {
			t.Fatalf("MonthPeriod(%d,%d).Days() = %d, want %d", tc.year, tc.month, p.Days(), tc.days)
		}
	}
}

func TestRollingMonths(t *testing.T) {
	got := RollingMonths(NewDate(2025, 2, 14), 3)
	want := []Period{MonthPeriod(2024, 12), MonthPeriod(2025, 1), MonthPeriod(2025, 2)}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Fatalf("month %d = %s, want %s", i, got[i], want[i])
		}
	}
	if RollingMonths(NewDate(2025, 2, 14), 0) != nil {
		t.Fatalf("expected nil for zero count")
	}
}

func TestPreviousPeriod(t *testing.T) {
	tests := []struct {
		name string
		in   Period
		want Period
	}{
		{
			name: "calendar month maps to whole previous month",
			in:   MonthPeriod(2025, 3),
			want: MonthPeriod(2025, 2),
		},
		{
			name: "january crosses the year",
			in:   MonthPeriod(2025, 1),
			want: MonthPeriod(2024, 12),
		},
		{
			name: "partial range shifts both bounds",
			in:   Period{Start: NewDate(2025, 3, 10), End: NewDate(2025, 3, 20)},
			want: Period{Start: NewDate(2025, 2, 10), End: NewDate(2025, 2, 20)},
		},
		{
			name: "partial range clamps day of month",
			in:   Period{Start: NewDate(2025, 3, 1), End: NewDate(2025, 3, 30)},
			want: Period{Start: NewDate(2025, 2, 1), End: NewDate(2025, 2, 28)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PreviousPeriod(tt.in)
			if !got.Start.Equal(tt.want.Start) || !got.End.Equal(tt.want.End) {
				t.Errorf("PreviousPeriod(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewPeriodRejectsInverted(t *testing.T) {
	if _, err := NewPeriod(NewDate(2025, 2, 1), NewDate(2025, 1, 1)); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
	p, err := NewPeriod(NewDate(2025, 1, 1), NewDate(2025, 1, 1))
	if err != nil || p.Days() != 1 {
		t.Fatalf("single-day period: %v %v", p, err)
	}
}

func TestPeriodOverlaps(t *testing.T) {
	jan := MonthPeriod(2025, 1)
	if !jan.Overlaps(Period{Start: NewDate(2024, 12, 15), End: NewDate(2025, 1, 1)}) {
		t.Fatalf("expected overlap on shared boundary day")
	}
	if jan.Overlaps(MonthPeriod(2025, 2)) {
		t.Fatalf("adjacent months must not overlap")
	}
	if !jan.Contains(NewDate(2025, 1, 31)) || jan.Contains(NewDate(2025, 2, 1)) {
		t.Fatalf("contains bounds wrong")
	}
}

func TestPeriodDaysAcrossCenturies(t *testing.T) {
	p := Period{Start: NewDate(1600, 1, 1), End: NewDate(2025, 12, 31)}
	if got := p.Days(); got != 155594 {
		t.Fatalf("Days() = %d, want 155594", got)
	}
	if got := NewDate(2025, 12, 31).DaysUntil(NewDate(1600, 1, 1)); got != -155593 {
		t.Fatalf("DaysUntil backwards = %d, want -155593", got)
	}
}
