package http

import (
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

const (
	defaultUsageMonths = 6
	maxUsageMonths     = 24
)

// handleInsights serves GET /api/insights?owner=&year=&month= (or start=&end=).
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	today := s.today()

	owner, err := ParseOwner(q)
	if err != nil {
		writeError(w, r, log.OpInsights, err)
		return
	}
	period, err := ParsePeriod(q, today)
	if err != nil {
		writeError(w, r, log.OpInsights, err)
		return
	}

	insights, err := s.engine.Insights(ctx, owner, period, today)
	if err != nil {
		writeError(w, r, log.OpInsights, err)
		return
	}
	log.NewStructuredLogger(log.FromContext(ctx)).LogInsights(ctx, owner, period, len(insights))

	NewJSONResponse().Body(insightsResponse{
		OwnerID:  int64(owner),
		Period:   toPeriodJSON(period),
		Insights: nonNilInsights(insights),
	}).Write(w)
}

// handleDashboard serves GET /api/dashboard?owner=.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	owner, err := ParseOwner(r.URL.Query())
	if err != nil {
		writeError(w, r, log.OpInsights, err)
		return
	}
	ov, err := s.dashboard.Overview(r.Context(), owner, s.today())
	if err != nil {
		writeError(w, r, log.OpInsights, err)
		return
	}
	NewJSONResponse().Body(toDashboardResponse(owner, ov)).Write(w)
}

// handleReport serves GET /api/reports?owner=&start=&end= (or year=&month=,
// defaulting to the current month).
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today := s.today()

	owner, err := ParseOwner(q)
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}
	period, err := ParsePeriod(q, today)
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}
	rep, err := s.reports.Report(r.Context(), owner, period, today)
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}
	NewJSONResponse().Body(toReportResponse(owner, rep)).Write(w)
}

// handleMonthBudgets serves GET /api/budgets?owner=&year=&month=.
func (s *Server) handleMonthBudgets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner, err := ParseOwner(q)
	if err != nil {
		writeError(w, r, log.OpSuggest, err)
		return
	}
	m, err := ParseMonthParams(q, s.today())
	if err != nil {
		writeError(w, r, log.OpSuggest, err)
		return
	}
	mb, err := s.budgets.MonthBudgets(r.Context(), owner, m.Year, m.Month)
	if err != nil {
		writeError(w, r, log.OpSuggest, err)
		return
	}
	NewJSONResponse().Body(toMonthBudgetsResponse(owner, mb)).Write(w)
}

// handleUsageHistory serves GET /api/budgets/usage?owner=&months=.
func (s *Server) handleUsageHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner, err := ParseOwner(q)
	if err != nil {
		writeError(w, r, log.OpSuggest, err)
		return
	}
	months, err := ParseIntParam(q, "months", defaultUsageMonths, maxUsageMonths)
	if err != nil {
		writeError(w, r, log.OpSuggest, err)
		return
	}
	points, err := s.budgets.UsageHistory(r.Context(), owner, s.today(), months)
	if err != nil {
		writeError(w, r, log.OpSuggest, err)
		return
	}
	NewJSONResponse().Body(usageResponse{OwnerID: int64(owner), Months: points}).Write(w)
}

// handleSuggestion serves GET /api/budgets/suggestion?owner=&year=&month=,
// proposing a budget for the month after the given one.
func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner, err := ParseOwner(q)
	if err != nil {
		writeError(w, r, log.OpSuggest, err)
		return
	}
	m, err := ParseMonthParams(q, s.today())
	if err != nil {
		writeError(w, r, log.OpSuggest, err)
		return
	}
	sug, err := s.budgets.SuggestNext(r.Context(), owner, m.Year, m.Month)
	if err != nil {
		writeError(w, r, log.OpSuggest, err)
		return
	}
	NewJSONResponse().Body(toSuggestionResponse(owner, sug)).Write(w)
}

// handleApplySuggestion serves POST /api/budgets/suggestion/apply with
// owner, year, month (the target month) and amount.
func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	body := NewRequestBodyParser(r)
	if err := body.Parse(); err != nil {
		writeError(w, r, log.OpApply, err)
		return
	}
	fields := body.Values("owner", "year", "month")
	owner, err := ParseOwner(fields)
	if err != nil {
		writeError(w, r, log.OpApply, err)
		return
	}
	if fields.Get("year") == "" || fields.Get("month") == "" {
		writeError(w, r, log.OpApply, badRequest("year and month are required"))
		return
	}
	m, err := ParseMonthParams(fields, s.today())
	if err != nil {
		writeError(w, r, log.OpApply, err)
		return
	}
	amount, err := body.Amount("amount")
	if err != nil {
		writeError(w, r, log.OpApply, err)
		return
	}

	period := m.Period()
	applied, err := s.budgets.ApplySuggestion(r.Context(), owner, period, amount)
	if err != nil {
		writeError(w, r, log.OpApply, err)
		return
	}

	status := http.StatusCreated
	if !applied {
		status = http.StatusConflict
	}
	NewJSONResponse().Status(status).Body(applyResponse{Applied: applied, Period: toPeriodJSON(period)}).Write(w)
}

// handleCloneBudgets serves POST /api/budgets/clone with owner,
// from_year, from_month, to_year and to_month.
func (s *Server) handleCloneBudgets(w http.ResponseWriter, r *http.Request) {
	body := NewRequestBodyParser(r)
	if err := body.Parse(); err != nil {
		writeError(w, r, log.OpClone, err)
		return
	}
	owner, err := ParseOwner(body.Values("owner"))
	if err != nil {
		writeError(w, r, log.OpClone, err)
		return
	}
	from, err := monthField(body, "from_year", "from_month")
	if err != nil {
		writeError(w, r, log.OpClone, err)
		return
	}
	to, err := monthField(body, "to_year", "to_month")
	if err != nil {
		writeError(w, r, log.OpClone, err)
		return
	}

	copied, err := s.budgets.CloneBudgets(r.Context(), owner, from.Year, from.Month, to.Year, to.Month)
	if err != nil {
		writeError(w, r, log.OpClone, err)
		return
	}
	NewJSONResponse().Body(cloneResponse{
		Copied: copied,
		From:   toPeriodJSON(from.Period()),
		To:     toPeriodJSON(to.Period()),
	}).Write(w)
}

// monthField reads a mandatory year/month pair stored under custom keys.
func monthField(body *RequestBodyParser, yearKey, monthKey string) (MonthParams, error) {
	year, month := body.Get(yearKey), body.Get(monthKey)
	if year == "" || month == "" {
		return MonthParams{}, badRequest("%s and %s are required", yearKey, monthKey)
	}
	values := body.Values()
	values.Set("year", year)
	values.Set("month", month)
	return ParseMonthParams(values, core.Date{})
}
