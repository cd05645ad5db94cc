package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Severity tags an insight. It is a closed set.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityDanger  Severity = "danger"
	SeveritySuccess Severity = "success"
)

// ParseSeverity normalizes s and rejects values outside the closed set.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return SeverityInfo, nil
	case "warn", "warning":
		return SeverityWarn, nil
	case "danger":
		return SeverityDanger, nil
	case "success":
		return SeveritySuccess, nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarn, SeverityDanger, SeveritySuccess:
		return true
	}
	return false
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Insight is the engine's sole output shape. Percent is a ratio (0.95, not 95).
type Insight struct {
	Type    Severity         `json:"type"`
	Title   string           `json:"title"`
	Detail  string           `json:"detail"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Percent *decimal.Decimal `json:"percent,omitempty"`
}

// NewInsight builds an insight, rejecting severities outside the closed set.
func NewInsight(severity Severity, title, detail string) (Insight, error) {
	if !severity.Valid() {
		return Insight{}, fmt.Errorf("unknown severity %q", severity)
	}
	return Insight{Type: severity, Title: title, Detail: detail}, nil
}

// WithAmount returns a copy of i carrying amount.
func (i Insight) WithAmount(amount decimal.Decimal) Insight {
	i.Amount = &amount
	return i
}

// WithPercent returns a copy of i carrying ratio.
func (i Insight) WithPercent(ratio decimal.Decimal) Insight {
	i.Percent = &ratio
	return i
}
