// Package sms parses mobile-money notification texts into transactions.
package sms

import (
	"fmt"
	"regexp"
	"strings"

	"mobiflow/internal/core"
)

// ParsedSMS is the result of parsing one notification body.
type ParsedSMS struct {
	Type   core.TransactionType
	Amount int64
	Party  string
}

// Patterns cover the wording variants seen in mobile-money notifications:
// - Optional transaction id prefix ("TxId: 123456.")
// - "Your payment of 2,000 RWF to SHOP NAME has been completed"
// - "payment of 2000 RWF to JOHN DOE 250788123456 was successful"
// - "You have received 5,000 RWF from JOHN DOE (250788123456)"
// The party capture stops before phone numbers in parentheses, trailing
// clauses and sentence punctuation.
var (
	paymentRe = regexp.MustCompile(`(?i)payment\s+of\s+([\d,. ]+?)\s*RWF\s+to\s+(.+?)(?:\s*\(|\s+has\s+been\b|\s+was\b|\s+on\b|[.,]|$)`)
	receiveRe = regexp.MustCompile(`(?i)received\s+([\d,. ]+?)\s*RWF\s+from\s+(.+?)(?:\s*\(|\s+has\s+been\b|\s+was\b|\s+on\b|[.,]|$)`)
)

// Parse extracts the direction, amount and counterparty from a notification
// body. Payments become expenses, receipts become income.
func Parse(body string) (*ParsedSMS, error) {
	if m := paymentRe.FindStringSubmatch(body); m != nil {
		return build(core.Expense, m[1], m[2])
	}
	if m := receiveRe.FindStringSubmatch(body); m != nil {
		return build(core.Income, m[1], m[2])
	}
	return nil, fmt.Errorf("not a recognized mobile-money message")
}

func build(txType core.TransactionType, amountStr, party string) (*ParsedSMS, error) {
	amount, err := core.ParseRWF(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}

	party = strings.Join(strings.Fields(party), " ")
	party = strings.TrimSuffix(party, ".")
	if party == "" {
		return nil, fmt.Errorf("missing counterparty")
	}

	return &ParsedSMS{Type: txType, Amount: amount, Party: party}, nil
}

// ToInput converts a parsed message into transaction input. SMS-derived
// entries land in the fallback category until the user reclassifies them.
func (p *ParsedSMS) ToInput() core.CreateTransactionInput {
	return core.CreateTransactionInput{
		Label:    p.Party,
		Amount:   p.Amount,
		Type:     p.Type,
		Category: "Other",
	}
}
