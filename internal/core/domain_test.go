package core

import (
	"errors"
	"testing"
)

func TestCreateTransactionInputValidate(t *testing.T) {
	valid := CreateTransactionInput{Label: "Stock", Amount: 500, Type: Expense, Category: "Supplies"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	cases := []struct {
		name string
		in   CreateTransactionInput
		want error
	}{
		{"blank label", CreateTransactionInput{Label: "   ", Amount: 500, Type: Expense, Category: "Supplies"}, ErrEmptyLabel},
		{"zero amount", CreateTransactionInput{Label: "Stock", Amount: 0, Type: Expense, Category: "Supplies"}, ErrInvalidAmount},
		{"negative amount", CreateTransactionInput{Label: "Stock", Amount: -10, Type: Expense, Category: "Supplies"}, ErrInvalidAmount},
		{"bad type", CreateTransactionInput{Label: "Stock", Amount: 500, Type: "transfer", Category: "Supplies"}, ErrInvalidType},
		{"blank category", CreateTransactionInput{Label: "Stock", Amount: 500, Type: Expense, Category: " "}, ErrEmptyCategory},
	}
	for _, tc := range cases {
		if err := tc.in.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestSignedAmountForcesDirection(t *testing.T) {
	exp := CreateTransactionInput{Label: "x", Amount: 2000, Type: Expense, Category: "Other"}
	if got := exp.SignedAmount(); got != -2000 {
		t.Fatalf("expense: want -2000, got %d", got)
	}
	inc := CreateTransactionInput{Label: "x", Amount: 2000, Type: Income, Category: "Other"}
	if got := inc.SignedAmount(); got != 2000 {
		t.Fatalf("income: want 2000, got %d", got)
	}
}

func TestHasDate(t *testing.T) {
	if (Transaction{}).HasDate() {
		t.Fatal("zero timestamp must report no date")
	}
	if !(Transaction{CreatedAt: testNow}).HasDate() {
		t.Fatal("committed timestamp must report a date")
	}
}
