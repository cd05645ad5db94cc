package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"expensetracker/internal/core"
)

var today = core.NewDate(2025, 3, 14)

func TestParseOwner(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		want    core.OwnerID
		wantErr bool
	}{
		{name: "valid", values: url.Values{"owner": {"42"}}, want: 42},
		{name: "trimmed", values: url.Values{"owner": {" 7 "}}, want: 7},
		{name: "missing", values: url.Values{}, wantErr: true},
		{name: "zero", values: url.Values{"owner": {"0"}}, wantErr: true},
		{name: "not a number", values: url.Values{"owner": {"me"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOwner(tt.values)
			if tt.wantErr {
				if !errors.Is(err, errBadRequest) {
					t.Fatalf("ParseOwner() error = %v, want errBadRequest", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseOwner() = %d, %v; want %d", got, err, tt.want)
			}
		})
	}
}

func TestParseMonthParams(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		wantYear  int
		wantMonth int
		wantErr   bool
	}{
		{name: "both provided", values: url.Values{"year": {"2024"}, "month": {"6"}}, wantYear: 2024, wantMonth: 6},
		{name: "only month", values: url.Values{"month": {"1"}}, wantYear: 2025, wantMonth: 1},
		{name: "empty uses today", values: url.Values{}, wantYear: 2025, wantMonth: 3},
		{name: "month out of range", values: url.Values{"month": {"0"}}, wantErr: true},
		{name: "malformed year", values: url.Values{"year": {"20x5"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonthParams(tt.values, today)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseMonthParams() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonthParams() error = %v", err)
			}
			if got.Year != tt.wantYear || got.Month != tt.wantMonth {
				t.Errorf("ParseMonthParams() = %d/%d, want %d/%d", got.Month, got.Year, tt.wantMonth, tt.wantYear)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(url.Values{"start": {"2025-01-10"}, "end": {"2025-01-20"}}, today)
	if err != nil {
		t.Fatalf("ParsePeriod() error = %v", err)
	}
	if p.Days() != 11 {
		t.Errorf("ParsePeriod() days = %d, want 11", p.Days())
	}

	p, err = ParsePeriod(url.Values{}, today)
	if err != nil || p.String() != core.MonthPeriod(2025, 3).String() {
		t.Errorf("ParsePeriod() default = %s, %v", p, err)
	}

	_, err = ParsePeriod(url.Values{"start": {"2025-01-20"}, "end": {"2025-01-10"}}, today)
	if !errors.Is(err, core.ErrInvalidPeriod) {
		t.Errorf("inverted range error = %v, want ErrInvalidPeriod", err)
	}

	_, err = ParsePeriod(url.Values{"end": {"2025-01-10"}}, today)
	if !errors.Is(err, errBadRequest) {
		t.Errorf("half range error = %v, want errBadRequest", err)
	}
}

func TestParseIntParam(t *testing.T) {
	if n, err := ParseIntParam(url.Values{}, "months", 6, 24); err != nil || n != 6 {
		t.Errorf("default = %d, %v", n, err)
	}
	if n, err := ParseIntParam(url.Values{"months": {"12"}}, "months", 6, 24); err != nil || n != 12 {
		t.Errorf("explicit = %d, %v", n, err)
	}
	for _, v := range []string{"0", "25", "x"} {
		if _, err := ParseIntParam(url.Values{"months": {v}}, "months", 6, 24); err == nil {
			t.Errorf("%q should be rejected", v)
		}
	}
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		key         string
		want        string
		wantJSON    bool
	}{
		{
			name:        "JSON string",
			body:        `{"amount": "12.50"}`,
			contentType: "application/json",
			key:         "amount",
			want:        "12.50",
			wantJSON:    true,
		},
		{
			name:        "JSON number keeps its digits",
			body:        `{"owner": 12345678901}`,
			contentType: "application/json",
			key:         "owner",
			want:        "12345678901",
			wantJSON:    true,
		},
		{
			name:        "form data",
			body:        "owner=3&month=2",
			contentType: "application/x-www-form-urlencoded",
			key:         "month",
			want:        "2",
		},
		{
			name:        "control characters stripped",
			body:        "note=hi%00there",
			contentType: "application/x-www-form-urlencoded",
			key:         "note",
			want:        "hithere",
		},
		{
			name:        "missing key",
			body:        `{"a": "b"}`,
			contentType: "application/json",
			key:         "missing",
			want:        "",
			wantJSON:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			parser := NewRequestBodyParser(req)
			if err := parser.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := parser.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
			if parser.IsJSON() != tt.wantJSON {
				t.Errorf("IsJSON() = %v, want %v", parser.IsJSON(), tt.wantJSON)
			}
		})
	}
}

func TestRequestBodyParserMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":`))
	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); !errors.Is(err, errBadRequest) {
		t.Fatalf("Parse() error = %v, want errBadRequest", err)
	}
	// parse is memoized
	if err := parser.Parse(); !errors.Is(err, errBadRequest) {
		t.Fatalf("second Parse() error = %v", err)
	}
}

func TestRequestBodyParserAmount(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount": "9100000", "bad": "-1"}`))
	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatal(err)
	}
	if d, err := parser.Amount("amount"); err != nil || d.String() != "9100000" {
		t.Errorf("Amount() = %s, %v", d, err)
	}
	if _, err := parser.Amount("bad"); !errors.Is(err, errBadRequest) {
		t.Errorf("negative amount error = %v", err)
	}
	if _, err := parser.Amount("absent"); !errors.Is(err, errBadRequest) {
		t.Errorf("missing amount error = %v", err)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal text", "normal text"},
		{"  trimmed  ", "trimmed"},
		{"with\ttab", "with\ttab"},
		{"with\x00null", "withnull"},
		{"with\x07bell", "withbell"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.input); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
