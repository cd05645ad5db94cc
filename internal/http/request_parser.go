// Package http exposes the insights engine and budgeting workflows as a
// small JSON API.
//
// This file implements utilities for parsing and validating request data.
// Parsers return errors wrapping errBadRequest so handlers can map them to
// 400 responses.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

var errBadRequest = errors.New("bad request")

const maxBodyBytes = 64 << 10

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

func (p MonthParams) Period() core.Period {
	return core.MonthPeriod(p.Year, p.Month)
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// ParseOwner reads the mandatory owner parameter.
func ParseOwner(values url.Values) (core.OwnerID, error) {
	raw := strings.TrimSpace(values.Get("owner"))
	if raw == "" {
		return 0, badRequest("owner is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid owner %q", raw)
	}
	return core.OwnerID(id), nil
}

// ParseMonthParams extracts year and month, defaulting to today's month.
// Unlike form defaults, malformed values are rejected.
func ParseMonthParams(values url.Values, today core.Date) (MonthParams, error) {
	params := MonthParams{Year: today.Year(), Month: today.Month()}

	if v := strings.TrimSpace(values.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			return MonthParams{}, badRequest("invalid year %q", v)
		}
		params.Year = y
	}
	if v := strings.TrimSpace(values.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return MonthParams{}, badRequest("invalid month %q", v)
		}
		params.Month = m
	}
	return params, nil
}

// ParsePeriod accepts an explicit start/end range or falls back to a
// calendar month. An inverted range yields core.ErrInvalidPeriod.
func ParsePeriod(values url.Values, today core.Date) (core.Period, error) {
	start := strings.TrimSpace(values.Get("start"))
	end := strings.TrimSpace(values.Get("end"))
	if start == "" && end == "" {
		m, err := ParseMonthParams(values, today)
		if err != nil {
			return core.Period{}, err
		}
		return m.Period(), nil
	}
	if start == "" || end == "" {
		return core.Period{}, badRequest("start and end must be given together")
	}
	from, err := core.ParseDate(start)
	if err != nil {
		return core.Period{}, badRequest("%v", err)
	}
	to, err := core.ParseDate(end)
	if err != nil {
		return core.Period{}, badRequest("%v", err)
	}
	return core.NewPeriod(from, to)
}

// ParseIntParam reads an optional positive integer, returning def when absent.
func ParseIntParam(values url.Values, key string, def, max int) (int, error) {
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > max {
		return 0, badRequest("invalid %s %q", key, v)
	}
	return n, nil
}

// RequestBodyParser handles JSON and form-encoded bodies.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once and stores it for parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		dec := json.NewDecoder(strings.NewReader(string(p.body)))
		dec.UseNumber()
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = badRequest("malformed JSON body")
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	if p.err != nil {
		p.err = badRequest("malformed form body")
	}
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Values exposes the parsed fields as url.Values so the query parsers can
// be reused on bodies.
func (p *RequestBodyParser) Values(keys ...string) url.Values {
	out := url.Values{}
	for _, k := range keys {
		if v := p.Get(k); v != "" {
			out.Set(k, v)
		}
	}
	return out
}

// Amount reads a mandatory money field.
func (p *RequestBodyParser) Amount(key string) (decimal.Decimal, error) {
	raw := p.Get(key)
	if raw == "" {
		return decimal.Decimal{}, badRequest("%s is required", key)
	}
	d, err := core.ParseAmount(raw)
	if err != nil {
		return decimal.Decimal{}, badRequest("invalid %s %q", key, raw)
	}
	return d, nil
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
