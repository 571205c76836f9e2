package http

import (
	"net/http"

	"mobiflow/internal/core"
	"mobiflow/internal/log"
)

type summaryResponse struct {
	Balance             int64                 `json:"balance"`
	BalanceDisplay      string                `json:"balance_display"`
	TotalIncome         int64                 `json:"total_income"`
	TotalIncomeDisplay  string                `json:"total_income_display"`
	TotalExpense        int64                 `json:"total_expense"`
	TotalExpenseDisplay string                `json:"total_expense_display"`
	Net                 int64                 `json:"net"`
	NetDisplay          string                `json:"net_display"`
	ChartLabels         []string              `json:"chart_labels"`
	ChartData           []int64               `json:"chart_data"`
	Recent              []transactionResponse `json:"recent"`
}

// handleSummary serves the home dashboard: balance, totals, the 7-day
// net-flow chart and the five most recent transactions.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	summary, found := s.summaryCache.Get(session.UserID)
	if !found {
		list, err := s.store.ListTransactions(r.Context(), session.UserID)
		if err != nil {
			s.structLog.LogError(r.Context(), "Summary error", err, log.ComponentHTTP, log.OpList, log.NewFields().WithUser(session.UserID))
			InternalServerError("could not load summary").Write(w)
			return
		}
		summary = core.ComputeHomeSummary(list, s.now())
		s.summaryCache.Set(session.UserID, summary)
	}

	NewJSONResponse().Body(summaryResponse{
		Balance:             summary.Balance,
		BalanceDisplay:      core.FormatRWF(summary.Balance, false),
		TotalIncome:         summary.TotalIncome,
		TotalIncomeDisplay:  core.FormatRWF(summary.TotalIncome, true),
		TotalExpense:        summary.TotalExpense,
		TotalExpenseDisplay: core.FormatRWF(summary.TotalExpense, true),
		Net:                 summary.Net,
		NetDisplay:          core.FormatRWFWithSign(summary.Net, true),
		ChartLabels:         summary.ChartLabels,
		ChartData:           summary.ChartData,
		Recent:              s.transactionsToResponse(summary.Recent, s.now()),
	}).Write(w)
}

type categoryReportResponse struct {
	Name          string `json:"name"`
	Percent       int    `json:"percent"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amount_display"`
	Count         int    `json:"count"`
	Color         string `json:"color"`
	ChartColor    string `json:"chart_color"`
	Icon          string `json:"icon"`
}

type pieSliceResponse struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Color  string `json:"color"`
}

type flowSeriesResponse struct {
	Labels    []string   `json:"labels"`
	Legend    []string   `json:"legend"`
	Data      [][2]int64 `json:"data"`
	BarColors []string   `json:"bar_colors"`
}

type reportsResponse struct {
	TotalIncome  int64                    `json:"total_income"`
	TotalExpense int64                    `json:"total_expense"`
	Net          int64                    `json:"net"`
	Categories   []categoryReportResponse `json:"categories"`
	Pie          []pieSliceResponse       `json:"pie"`
	Flow         flowSeriesResponse       `json:"flow"`
}

// handleReports serves the analytics view: per-category expense breakdown,
// pie chart data and the dual 7-day income/expense series.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	data, found := s.reportsCache.Get(session.UserID)
	if !found {
		list, err := s.store.ListTransactions(r.Context(), session.UserID)
		if err != nil {
			s.structLog.LogError(r.Context(), "Reports error", err, log.ComponentHTTP, log.OpList, log.NewFields().WithUser(session.UserID))
			InternalServerError("could not load reports").Write(w)
			return
		}
		data = core.ComputeReports(list, s.now())
		s.reportsCache.Set(session.UserID, data)
	}

	resp := reportsResponse{
		TotalIncome:  data.TotalIncome,
		TotalExpense: data.TotalExpense,
		Net:          data.Net,
		Categories:   make([]categoryReportResponse, 0, len(data.Categories)),
		Pie:          make([]pieSliceResponse, 0, len(data.Pie)),
		Flow: flowSeriesResponse{
			Labels:    data.Flow.Labels,
			Legend:    data.Flow.Legend,
			Data:      data.Flow.Data,
			BarColors: data.Flow.BarColors,
		},
	}
	for _, c := range data.Categories {
		resp.Categories = append(resp.Categories, categoryReportResponse{
			Name:          c.Name,
			Percent:       c.Percent,
			Amount:        c.Amount,
			AmountDisplay: core.FormatRWF(c.Amount, false),
			Count:         c.Count,
			Color:         c.Color,
			ChartColor:    c.ChartColor,
			Icon:          c.Icon,
		})
	}
	for _, p := range data.Pie {
		resp.Pie = append(resp.Pie, pieSliceResponse{Name: p.Name, Amount: p.Amount, Color: p.Color})
	}

	NewJSONResponse().Body(resp).Write(w)
}
