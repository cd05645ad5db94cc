package core

import "github.com/shopspring/decimal"

// DaySum is the total spent on a single day.
type DaySum struct {
	Day   Date
	Total decimal.Decimal
}

// MonthSum is the total spent in a year+month.
type MonthSum struct {
	Year  int
	Month int // 1-12
	Total decimal.Decimal
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}
