// Package core provides money parsing and handling utilities.
//
// Amounts are fixed-point decimals. Storage layers keep them as integer
// minor units (hundredths) and convert at the boundary.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const minorUnitExp = -2

var hundred = decimal.NewFromInt(100)

// ParseAmount converts a decimal string to a non-negative amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and keeps at
// most two fractional digits, rounding half-up on the third.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(-minorUnitExp), nil
}

// ToMinorUnits converts an amount to integer hundredths for storage.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts stored integer hundredths back to an amount.
func FromMinorUnits(units int64) decimal.Decimal {
	return decimal.New(units, minorUnitExp)
}
