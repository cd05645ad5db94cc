package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDateAddMonthsClamps(t *testing.T) {
	cases := []struct {
		in   Date
		n    int
		want Date
	}{
		{NewDate(2025, 3, 31), -1, NewDate(2025, 2, 28)},
		{NewDate(2024, 3, 31), -1, NewDate(2024, 2, 29)},
		{NewDate(2025, 1, 31), 1, NewDate(2025, 2, 28)},
		{NewDate(2025, 1, 15), -1, NewDate(2024, 12, 15)},
		{NewDate(2025, 12, 31), 2, NewDate(2026, 2, 28)},
	}
	for i, tc := range cases {
		if got := tc.in.AddMonths(tc.n); !got.Equal(tc.want) {
			t.Fatalf("case %d: %s%+d months = %s, want %s", i, tc.in, tc.n, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-05")
	if err != nil || !d.Equal(NewDate(2025, 1, 5)) {
		t.Fatalf("unexpected parse: %v %v", d, err)
	}
	if _, err := ParseDate("05/01/2025"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Owner: 1, Amount: decimal.NewFromInt(100), Start: NewDate(2025, 1, 1), End: NewDate(2025, 1, 31)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !good.IsTotal() {
		t.Fatalf("budget without category should be total")
	}

	inverted := good
	inverted.Start, inverted.End = good.End, good.Start
	if err := inverted.Validate(); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}

	negative := good
	negative.Amount = decimal.NewFromInt(-1)
	if err := negative.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	cat := good
	cat.Category = Categorized(3)
	if cat.IsTotal() {
		t.Fatalf("category budget reported as total")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{Owner: 1, Amount: decimal.NewFromInt(5), Date: NewDate(2025, 1, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Transaction{
		{Owner: 0, Amount: decimal.NewFromInt(5), Date: NewDate(2025, 1, 1)},
		{Owner: 1, Amount: decimal.NewFromInt(-5), Date: NewDate(2025, 1, 1)},
		{Owner: 1, Amount: decimal.NewFromInt(5)},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	cases := []struct {
		in   string
		want Severity
		ok   bool
	}{
		{"info", SeverityInfo, true},
		{" WARN ", SeverityWarn, true},
		{"warning", SeverityWarn, true},
		{"danger", SeverityDanger, true},
		{"success", SeveritySuccess, true},
		{"critical", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseSeverity(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestNewInsightRejectsUnknownSeverity(t *testing.T) {
	if _, err := NewInsight(Severity("loud"), "t", "d"); err == nil {
		t.Fatalf("expected error for unknown severity")
	}
	in, err := NewInsight(SeverityWarn, "t", "d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in = in.WithPercent(decimal.RequireFromString("0.95"))

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"warn","title":"t","detail":"d","percent":"0.95"}`
	if string(b) != want {
		t.Fatalf("json = %s, want %s", b, want)
	}

	var back Insight
	if err := json.Unmarshal([]byte(`{"type":"bogus","title":"x","detail":"y"}`), &back); err == nil {
		t.Fatalf("expected unmarshal to reject unknown severity")
	}
}
