package core

import (
	"testing"
	"time"
)

// Wednesday afternoon; the 7-day window starts Thursday March 6.
var testNow = time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)

func day(offset int, hour int) time.Time {
	return testNow.AddDate(0, 0, offset).Truncate(24 * time.Hour).Add(time.Duration(hour) * time.Hour)
}

func TestComputeHomeSummaryEmpty(t *testing.T) {
	s := ComputeHomeSummary(nil, testNow)

	if s.Balance != 0 || s.TotalIncome != 0 || s.TotalExpense != 0 || s.Net != 0 {
		t.Fatalf("expected all-zero totals, got %+v", s)
	}
	if len(s.Recent) != 0 {
		t.Fatalf("expected empty recent list, got %d entries", len(s.Recent))
	}
	if len(s.ChartData) != 7 {
		t.Fatalf("expected 7 chart points, got %d", len(s.ChartData))
	}
	for i, v := range s.ChartData {
		if v != 0 {
			t.Fatalf("chart point %d: expected 0, got %d", i, v)
		}
	}
	want := []string{"T", "F", "S", "S", "M", "T", "W"}
	for i, l := range s.ChartLabels {
		if l != want[i] {
			t.Fatalf("label %d: want %q, got %q (labels %v)", i, want[i], l, s.ChartLabels)
		}
	}
}

func TestComputeHomeSummaryTotalsAndChart(t *testing.T) {
	txs := []Transaction{
		{ID: "1", Label: "Sale", Amount: 5000, Type: Income, CreatedAt: day(0, 10)},
		{ID: "2", Label: "Moto", Amount: -2000, Type: Expense, Category: "Transport", CreatedAt: day(0, 11)},
	}

	s := ComputeHomeSummary(txs, testNow)

	if s.Balance != 3000 {
		t.Fatalf("balance: want 3000, got %d", s.Balance)
	}
	if s.TotalIncome != 5000 || s.TotalExpense != 2000 {
		t.Fatalf("totals: want 5000/2000, got %d/%d", s.TotalIncome, s.TotalExpense)
	}
	if s.TotalIncome-s.TotalExpense != s.Net {
		t.Fatalf("net invariant broken: %d - %d != %d", s.TotalIncome, s.TotalExpense, s.Net)
	}
	// Today is the last bucket: round((5000-2000)/1000) = 3.
	if got := s.ChartData[6]; got != 3 {
		t.Fatalf("today's net flow: want 3, got %d", got)
	}
	if len(s.Recent) != 2 {
		t.Fatalf("recent: want 2, got %d", len(s.Recent))
	}
}

func TestComputeHomeSummaryOldTransactionInTotalsOnly(t *testing.T) {
	txs := []Transaction{
		{ID: "1", Amount: 9000, Type: Income, CreatedAt: day(-8, 12)},
	}

	s := ComputeHomeSummary(txs, testNow)

	if s.TotalIncome != 9000 || s.Balance != 9000 {
		t.Fatalf("old transaction must still count in totals, got %+v", s)
	}
	for i, v := range s.ChartData {
		if v != 0 {
			t.Fatalf("old transaction leaked into bucket %d: %d", i, v)
		}
	}
}

func TestComputeHomeSummaryMissingDateSkippedForBucketing(t *testing.T) {
	txs := []Transaction{
		{ID: "1", Amount: -4000, Type: Expense},
	}

	s := ComputeHomeSummary(txs, testNow)

	if s.TotalExpense != 4000 {
		t.Fatalf("dateless transaction must count in totals, got %d", s.TotalExpense)
	}
	for _, v := range s.ChartData {
		if v != 0 {
			t.Fatalf("dateless transaction must not be bucketed: %v", s.ChartData)
		}
	}
}

func TestComputeHomeSummaryRecentTakesFirstFive(t *testing.T) {
	var txs []Transaction
	for i := 0; i < 8; i++ {
		txs = append(txs, Transaction{ID: string(rune('a' + i)), Amount: 100, Type: Income})
	}

	s := ComputeHomeSummary(txs, testNow)

	if len(s.Recent) != 5 {
		t.Fatalf("recent: want 5, got %d", len(s.Recent))
	}
	// No sorting: the engine trusts the upstream newest-first order.
	for i := 0; i < 5; i++ {
		if s.Recent[i].ID != txs[i].ID {
			t.Fatalf("recent order changed at %d: want %s, got %s", i, txs[i].ID, s.Recent[i].ID)
		}
	}
}

func TestComputeHomeSummaryLabelsRotateAcrossBoundaries(t *testing.T) {
	// Friday January 2, 2026: window spans the year boundary.
	now := time.Date(2026, time.January, 2, 9, 0, 0, 0, time.UTC)

	s := ComputeHomeSummary(nil, now)

	want := []string{"S", "S", "M", "T", "W", "T", "F"}
	for i, l := range s.ChartLabels {
		if l != want[i] {
			t.Fatalf("label %d: want %q, got %q", i, want[i], l)
		}
	}
}

func TestComputeHomeSummaryDoesNotMutateInput(t *testing.T) {
	txs := []Transaction{
		{ID: "1", Label: "x", Amount: 100, Type: Income, CreatedAt: day(0, 8)},
	}

	s := ComputeHomeSummary(txs, testNow)
	s.Recent[0].Label = "changed"

	if txs[0].Label != "x" {
		t.Fatal("input slice was mutated through the recent list")
	}
}

func TestRoundThousands(t *testing.T) {
	cases := []struct {
		in   int64
		want int64
	}{
		{0, 0},
		{499, 0},
		{500, 1},
		{2500, 3},
		{-2500, -2}, // halves round toward positive infinity
		{-2600, -3},
		{-2400, -2},
	}
	for _, tc := range cases {
		if got := roundThousands(tc.in); got != tc.want {
			t.Fatalf("roundThousands(%d): want %d, got %d", tc.in, tc.want, got)
		}
	}
}
