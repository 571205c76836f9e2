package core

import "strings"

const (
	FilterAll     FilterTab = "all"
	FilterIncome  FilterTab = "income"
	FilterExpense FilterTab = "expense"
)

// FilterTab selects which transaction types pass the filter.
type FilterTab string

func (f FilterTab) IsValid() bool {
	switch f {
	case FilterAll, FilterIncome, FilterExpense:
		return true
	}
	return false
}

// FilterTransactions keeps transactions matching the selected tab whose
// label contains the search text, case-insensitively. Both predicates are
// ANDed; an empty search passes everything. Matching is on the label only,
// never on amount, category or date.
func FilterTransactions(transactions []Transaction, tab FilterTab, search string) []Transaction {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if tab != FilterAll && TransactionType(tab) != t.Type {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(t.Label), term) {
			continue
		}
		out = append(out, t)
	}
	return out
}
