package http

import (
	"expensetracker/internal/core"
	"expensetracker/internal/services"

	"github.com/shopspring/decimal"
)

type periodJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func toPeriodJSON(p core.Period) periodJSON {
	return periodJSON{Start: p.Start.String(), End: p.End.String()}
}

type insightsResponse struct {
	OwnerID  int64          `json:"owner_id"`
	Period   periodJSON     `json:"period"`
	Insights []core.Insight `json:"insights"`
}

type categoryAmountJSON struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type monthSumJSON struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type dashboardResponse struct {
	OwnerID     int64                `json:"owner_id"`
	Month       periodJSON           `json:"month"`
	MonthToDate decimal.Decimal      `json:"month_to_date"`
	Budget      decimal.Decimal      `json:"budget"`
	PercentUsed decimal.Decimal      `json:"percent_used"`
	ByCategory  []categoryAmountJSON `json:"by_category"`
	Trend       []monthSumJSON       `json:"trend"`
	Insights    []core.Insight       `json:"insights"`
}

func toDashboardResponse(owner core.OwnerID, ov services.Overview) dashboardResponse {
	resp := dashboardResponse{
		OwnerID:     int64(owner),
		Month:       toPeriodJSON(ov.Month),
		MonthToDate: ov.MonthToDate,
		Budget:      ov.Budget,
		PercentUsed: ov.PercentUsed,
		ByCategory:  make([]categoryAmountJSON, 0, len(ov.ByCategory)),
		Trend:       make([]monthSumJSON, 0, len(ov.Trend)),
		Insights:    nonNilInsights(ov.Insights),
	}
	for _, c := range ov.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryAmountJSON{Name: c.Name, Amount: c.Amount})
	}
	for _, m := range ov.Trend {
		resp.Trend = append(resp.Trend, monthSumJSON{Year: m.Year, Month: m.Month, Total: m.Total})
	}
	return resp
}

type daySumJSON struct {
	Day   string          `json:"day"`
	Total decimal.Decimal `json:"total"`
}

type reportResponse struct {
	OwnerID       int64                `json:"owner_id"`
	Period        periodJSON           `json:"period"`
	Previous      periodJSON           `json:"previous"`
	Total         decimal.Decimal      `json:"total"`
	Budget        decimal.Decimal      `json:"budget"`
	PreviousTotal decimal.Decimal      `json:"previous_total"`
	Delta         decimal.Decimal      `json:"delta"`
	PctChange     *decimal.Decimal     `json:"pct_change"`
	ByCategory    []categoryAmountJSON `json:"by_category"`
	TopCategories []categoryAmountJSON `json:"top_categories"`
	ByDay         []daySumJSON         `json:"by_day"`
	Insights      []core.Insight       `json:"insights"`
}

func toCategoryAmountsJSON(in []core.CategoryAmount) []categoryAmountJSON {
	out := make([]categoryAmountJSON, 0, len(in))
	for _, c := range in {
		out = append(out, categoryAmountJSON{Name: c.Name, Amount: c.Amount})
	}
	return out
}

func toReportResponse(owner core.OwnerID, rep services.Report) reportResponse {
	resp := reportResponse{
		OwnerID:       int64(owner),
		Period:        toPeriodJSON(rep.Period),
		Previous:      toPeriodJSON(rep.Previous),
		Total:         rep.Total,
		Budget:        rep.Budget,
		PreviousTotal: rep.PreviousTotal,
		Delta:         rep.Delta,
		PctChange:     rep.PctChange,
		ByCategory:    toCategoryAmountsJSON(rep.ByCategory),
		TopCategories: toCategoryAmountsJSON(rep.TopCategories),
		ByDay:         make([]daySumJSON, 0, len(rep.ByDay)),
		Insights:      nonNilInsights(rep.Insights),
	}
	for _, d := range rep.ByDay {
		resp.ByDay = append(resp.ByDay, daySumJSON{Day: d.Day.String(), Total: d.Total})
	}
	return resp
}

type periodSpendJSON struct {
	Period periodJSON      `json:"period"`
	Spent  decimal.Decimal `json:"spent"`
}

type suggestionResponse struct {
	OwnerID   int64             `json:"owner_id"`
	Target    periodJSON        `json:"target"`
	History   []periodSpendJSON `json:"history"`
	Average   decimal.Decimal   `json:"average"`
	Amount    decimal.Decimal   `json:"amount"`
	HasBudget bool              `json:"has_budget"`
	CanApply  bool              `json:"can_apply"`
}

func toSuggestionResponse(owner core.OwnerID, s services.NextSuggestion) suggestionResponse {
	resp := suggestionResponse{
		OwnerID:   int64(owner),
		Target:    toPeriodJSON(s.Target),
		History:   make([]periodSpendJSON, 0, len(s.History)),
		Average:   s.Average,
		Amount:    s.Amount,
		HasBudget: s.HasBudget,
		CanApply:  s.CanApply(),
	}
	for _, h := range s.History {
		resp.History = append(resp.History, periodSpendJSON{Period: toPeriodJSON(h.Period), Spent: h.Spent})
	}
	return resp
}

type budgetJSON struct {
	ID       int64           `json:"id"`
	Category *string         `json:"category"` // null for the total budget
	Amount   decimal.Decimal `json:"amount"`
	Period   periodJSON      `json:"period"`
	Spent    decimal.Decimal `json:"spent"`
}

type monthBudgetsResponse struct {
	OwnerID     int64           `json:"owner_id"`
	Period      periodJSON      `json:"period"`
	Budgets     []budgetJSON    `json:"budgets"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	PercentUsed decimal.Decimal `json:"percent_used"`
}

func toMonthBudgetsResponse(owner core.OwnerID, mb services.MonthBudgets) monthBudgetsResponse {
	resp := monthBudgetsResponse{
		OwnerID:     int64(owner),
		Period:      toPeriodJSON(mb.Period),
		Budgets:     make([]budgetJSON, 0, len(mb.Lines)),
		TotalSpent:  mb.TotalSpent,
		PercentUsed: mb.PercentUsed,
	}
	for _, l := range mb.Lines {
		b := budgetJSON{
			ID:     l.Budget.ID,
			Amount: l.Budget.Amount,
			Period: toPeriodJSON(l.Budget.Period()),
			Spent:  l.Spent,
		}
		if !l.Budget.IsTotal() {
			name := l.Budget.CategoryName
			b.Category = &name
		}
		resp.Budgets = append(resp.Budgets, b)
	}
	return resp
}

type usageResponse struct {
	OwnerID int64                  `json:"owner_id"`
	Months  []services.UsagePoint `json:"months"`
}

type applyResponse struct {
	Applied bool       `json:"applied"`
	Period  periodJSON `json:"period"`
}

type cloneResponse struct {
	Copied int        `json:"copied"`
	From   periodJSON `json:"from"`
	To     periodJSON `json:"to"`
}

func nonNilInsights(in []core.Insight) []core.Insight {
	if in == nil {
		return []core.Insight{}
	}
	return in
}
