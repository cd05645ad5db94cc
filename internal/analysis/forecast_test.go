package analysis_test

import (
	"context"
	"testing"

	"expensetracker/internal/analysis"
	"expensetracker/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecast(t *testing.T) {
	f := newFixture(t)
	jan := core.MonthPeriod(2025, 1)
	f.spend(core.NewDate(2025, 1, 1), "60", core.Uncategorized)
	f.spend(core.NewDate(2025, 1, 3), "40", core.Uncategorized)
	f.spend(core.NewDate(2025, 1, 20), "5000", core.Uncategorized)
	fc := analysis.NewForecaster(f.store)

	tests := []struct {
		name  string
		today core.Date
		want  string
	}{
		{"run rate projects over whole month", core.NewDate(2025, 1, 3), "1033"},
		{"later spend is ignored until it happens", core.NewDate(2025, 1, 10), "310"},
		{"after the period uses actual spend", core.NewDate(2025, 3, 1), "5100"},
		{"future period forecasts zero", core.NewDate(2024, 12, 1), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fc.Forecast(context.Background(), owner, jan, tt.today)
			require.NoError(t, err)
			assert.True(t, got.Equal(amt(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestForecastEmptyPeriodIsZero(t *testing.T) {
	fc := analysis.NewForecaster(newFixture(t).store)
	got, err := fc.Forecast(context.Background(), owner, core.MonthPeriod(2025, 6), core.NewDate(2025, 6, 15))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestForecastInvertedPeriod(t *testing.T) {
	fc := analysis.NewForecaster(newFixture(t).store)
	_, err := fc.Forecast(context.Background(), owner,
		core.Period{Start: core.NewDate(2025, 1, 31), End: core.NewDate(2025, 1, 1)}, core.NewDate(2025, 1, 5))
	assert.ErrorIs(t, err, core.ErrInvalidPeriod)
}
