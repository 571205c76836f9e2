package core

import "time"

const (
	chartDays   = 7
	recentLimit = 5
)

// HomeSummary is the derived dashboard view: totals over the whole list
// plus a 7-day net-flow series scaled to thousands. It is recomputed from
// scratch on every list change and never persisted.
type HomeSummary struct {
	Balance      int64
	TotalIncome  int64
	TotalExpense int64
	Net          int64
	ChartLabels  []string
	ChartData    []int64
	Recent       []Transaction
}

// ComputeHomeSummary derives the dashboard view from a transaction list.
// The list is expected newest-first; the first five entries become the
// recent list without sorting. Transactions outside the 7-day window (or
// without a committed timestamp) still count toward the totals but are
// excluded from the chart. The input is never mutated and an empty list
// yields an all-zero summary with correctly rotated labels.
func ComputeHomeSummary(transactions []Transaction, now time.Time) HomeSummary {
	income, expense := sumTotals(transactions)
	buckets, windowStart := sevenDayBuckets(transactions, now)

	labels := make([]string, 0, chartDays)
	data := make([]int64, 0, chartDays)
	for i := 0; i < chartDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		labels = append(labels, dayLetter(day))
		b := buckets[DayKey(day)]
		data = append(data, roundThousands(b.income-b.expense))
	}

	recent := transactions
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return HomeSummary{
		Balance:      income - expense,
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income - expense,
		ChartLabels:  labels,
		ChartData:    data,
		Recent:       append([]Transaction(nil), recent...),
	}
}

type dayBucket struct {
	income  int64
	expense int64
}

// sevenDayBuckets fills per-day income/expense buckets for the inclusive
// window [today-6d, today], bounded at local midnight. Transactions
// without a timestamp, before the window or after today are skipped.
func sevenDayBuckets(transactions []Transaction, now time.Time) (map[string]*dayBucket, time.Time) {
	windowStart := startOfDay(now).AddDate(0, 0, -(chartDays - 1))
	buckets := make(map[string]*dayBucket, chartDays)
	for i := 0; i < chartDays; i++ {
		buckets[DayKey(windowStart.AddDate(0, 0, i))] = &dayBucket{}
	}
	for _, t := range transactions {
		if !t.HasDate() {
			continue
		}
		ts := t.CreatedAt.In(now.Location())
		if ts.Before(windowStart) {
			continue
		}
		b, ok := buckets[DayKey(ts)]
		if !ok {
			continue
		}
		if t.Amount > 0 {
			b.income += t.Amount
		} else {
			b.expense += -t.Amount
		}
	}
	return buckets, windowStart
}

// sumTotals computes exact income and expense totals; no rounding here so
// TotalIncome - TotalExpense == Net always holds.
func sumTotals(transactions []Transaction) (income, expense int64) {
	for _, t := range transactions {
		if t.Amount > 0 {
			income += t.Amount
		} else {
			expense += -t.Amount
		}
	}
	return income, expense
}

// roundThousands scales whole francs to thousands, rounding halves toward
// positive infinity: -2500 becomes -2, 2500 becomes 3.
func roundThousands(v int64) int64 {
	return floorDiv(v+500, 1000)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
