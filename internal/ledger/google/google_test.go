package google

import (
	"testing"
	"time"

	"mobiflow/internal/core"
)

func TestYearPrefixedName(t *testing.T) {
	cases := []struct {
		base string
		year int
		want string
	}{
		{"Ledger", 2025, "2025 Ledger"},
		{"2024 Ledger", 2025, "2024 Ledger"},
		{"", 2025, ""},
		{"  Ledger  ", 2025, "2025 Ledger"},
		{"1850 Ledger", 2025, "2025 1850 Ledger"},
	}
	for _, tc := range cases {
		if got := yearPrefixedName(tc.base, tc.year); got != tc.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tc.base, tc.year, got, tc.want)
		}
	}
}

func TestLedgerSheetNameUsesTransactionYear(t *testing.T) {
	c := &Client{
		ledgerBase: "Ledger",
		now:        func() time.Time { return time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC) },
	}

	dated := core.Transaction{CreatedAt: time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC)}
	if got := c.ledgerSheetName(dated); got != "2025 Ledger" {
		t.Errorf("dated transaction: got %q", got)
	}

	if got := c.ledgerSheetName(core.Transaction{}); got != "2026 Ledger" {
		t.Errorf("undated transaction should fall back to current year: got %q", got)
	}
}

func TestRowValues(t *testing.T) {
	tx := core.Transaction{
		Label:     "Stock",
		Amount:    -2000,
		Type:      core.Expense,
		Category:  "Supplies",
		CreatedAt: time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC),
	}

	row := rowValues(tx)
	want := []any{"2025-03-12", "Stock", "expense", int64(-2000), "Supplies"}
	if len(row) != len(want) {
		t.Fatalf("row length %d, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] = %v, want %v", i, row[i], want[i])
		}
	}
}
