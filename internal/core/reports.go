package core

import (
	"math"
	"sort"
	"strings"
	"time"
)

// CategoryReport is one row of the per-category expense breakdown.
type CategoryReport struct {
	Name       string
	Percent    int
	Amount     int64
	Count      int
	Color      string
	ChartColor string
	Icon       string
}

// PieSlice is chart-ready category data.
type PieSlice struct {
	Name   string
	Amount int64
	Color  string
}

// FlowSeries is the 7-day dual income/expense series, values in thousands
// rounded independently per side (not after subtraction).
type FlowSeries struct {
	Labels    []string
	Legend    []string
	Data      [][2]int64
	BarColors []string
}

// ReportsData is the derived analytics view. Not persisted.
type ReportsData struct {
	TotalIncome  int64
	TotalExpense int64
	Net          int64
	Categories   []CategoryReport
	Pie          []PieSlice
	Flow         FlowSeries
}

// ComputeReports derives the analytics view from a transaction list.
// Every default category appears even at zero; category names observed
// only in the data are sorted lexicographically and appended after the
// defaults. A blank category on an expense falls back to "Other". Percent
// values are rounded independently and are not normalized to sum to 100.
func ComputeReports(transactions []Transaction, now time.Time) ReportsData {
	income, expense := sumTotals(transactions)

	type tally struct {
		amount int64
		count  int
	}
	byCategory := make(map[string]*tally)
	for _, t := range transactions {
		if t.Amount >= 0 {
			continue
		}
		name := strings.TrimSpace(t.Category)
		if name == "" {
			name = "Other"
		}
		entry, ok := byCategory[name]
		if !ok {
			entry = &tally{}
			byCategory[name] = entry
		}
		entry.amount += -t.Amount
		entry.count++
	}

	names := DefaultCategoryNames()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	var extras []string
	for n := range byCategory {
		if !seen[n] {
			extras = append(extras, n)
		}
	}
	sort.Strings(extras)
	names = append(names, extras...)

	categories := make([]CategoryReport, 0, len(names))
	pie := make([]PieSlice, 0, len(names))
	for _, name := range names {
		var amount int64
		var count int
		if entry, ok := byCategory[name]; ok {
			amount, count = entry.amount, entry.count
		}
		percent := 0
		if expense > 0 {
			percent = int(math.Round(float64(amount) / float64(expense) * 100))
		}
		cfg := GetCategoryConfig(name)
		categories = append(categories, CategoryReport{
			Name:       name,
			Percent:    percent,
			Amount:     amount,
			Count:      count,
			Color:      cfg.Color,
			ChartColor: cfg.ChartColor,
			Icon:       cfg.Icon,
		})
		pie = append(pie, PieSlice{Name: name, Amount: amount, Color: cfg.ChartColor})
	}

	buckets, windowStart := sevenDayBuckets(transactions, now)
	labels := make([]string, 0, chartDays)
	data := make([][2]int64, 0, chartDays)
	for i := 0; i < chartDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		labels = append(labels, dayLetter(day))
		b := buckets[DayKey(day)]
		data = append(data, [2]int64{roundThousands(b.income), roundThousands(b.expense)})
	}

	return ReportsData{
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income - expense,
		Categories:   categories,
		Pie:          pie,
		Flow: FlowSeries{
			Labels:    labels,
			Legend:    []string{"Income", "Expense"},
			Data:      data,
			BarColors: []string{"#22C55E", "#EF4444"},
		},
	}
}
