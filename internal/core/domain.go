package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Transaction is one recorded financial event. Amount is whole RWF,
	// sign encodes direction: positive income, negative expense. The sign
	// and Type are coupled when the transaction is created and never
	// re-validated afterwards, so code reading Type must not assume it can
	// diverge from the sign.
	Transaction struct {
		ID        string
		UserID    string
		Label     string
		Amount    int64
		Type      TransactionType
		Category  string
		CreatedAt time.Time // zero until the store commits it
	}

	// CreateTransactionInput carries user input for a new transaction.
	// Amount is a magnitude; the store applies the direction from Type and
	// assigns ID and CreatedAt.
	CreateTransactionInput struct {
		Label    string
		Amount   int64
		Type     TransactionType
		Category string
	}

	// CustomCategory is a user-scoped category. Transactions reference it
	// by name only; renaming or deleting it never touches them.
	CustomCategory struct {
		ID   string
		Name string
	}
)

var (
	ErrEmptyLabel    = errors.New("empty label")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyCategory = errors.New("empty category name")
)

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	}
	return false
}

// Validate rejects input before it reaches the store.
func (in CreateTransactionInput) Validate() error {
	if strings.TrimSpace(in.Label) == "" {
		return ErrEmptyLabel
	}
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !in.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// SignedAmount applies the type's direction to the magnitude: expenses are
// stored negative, income positive.
func (in CreateTransactionInput) SignedAmount() int64 {
	if in.Type == Expense {
		return -absInt64(in.Amount)
	}
	return absInt64(in.Amount)
}

// HasDate reports whether the store has committed a timestamp yet.
func (t Transaction) HasDate() bool {
	return !t.CreatedAt.IsZero()
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
