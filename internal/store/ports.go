// Package store defines the document-store ports the application consumes
// and the subscription hub that stands in for the managed backend's
// real-time listener.
package store

import (
	"context"
	"errors"
	"time"

	"mobiflow/internal/core"
)

// UnsubscribeFunc tears down a live subscription. Implementations are
// idempotent and safe to call from teardown paths even if the
// subscription never became active.
type UnsubscribeFunc func()

var (
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrCategoryNotFound    = errors.New("custom category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// User is an account record backing the local identity provider.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Ports for the document store.
type (
	// TransactionWriter persists a new transaction. The store assigns ID
	// and CreatedAt and applies the direction from the input's type.
	TransactionWriter interface {
		CreateTransaction(ctx context.Context, userID string, in core.CreateTransactionInput) (core.Transaction, error)
	}

	// TransactionLister returns a user's complete transaction list sorted
	// newest-first; missing timestamps sort as oldest. The returned slice
	// is a fresh snapshot the caller may keep.
	TransactionLister interface {
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	}

	// TransactionGetter fetches a single transaction by ID.
	TransactionGetter interface {
		GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
	}

	// TransactionSubscriber pushes the complete refreshed list to onUpdate
	// on every change, starting with the current snapshot. When the store
	// fails, onError fires and an empty list is pushed so stale data never
	// stays visible.
	TransactionSubscriber interface {
		SubscribeTransactions(userID string, onUpdate func([]core.Transaction), onError func(error)) UnsubscribeFunc
	}

	// SnapshotRefresher re-reads a user's list and pushes it to local
	// subscribers. Used when a change is signalled from another process.
	SnapshotRefresher interface {
		RefreshTransactions(ctx context.Context, userID string)
	}

	// CategoryStore manages user-scoped custom categories. Renames and
	// deletes never cascade to transactions referencing the old name.
	CategoryStore interface {
		ListCustomCategories(ctx context.Context, userID string) ([]core.CustomCategory, error)
		CreateCustomCategory(ctx context.Context, userID, name string) (core.CustomCategory, error)
		RenameCustomCategory(ctx context.Context, userID, id, newName string) error
		DeleteCustomCategory(ctx context.Context, userID, id string) error
	}

	// UserStore backs the identity provider.
	UserStore interface {
		CreateUser(ctx context.Context, email, passwordHash string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
	}
)

// Store is the full document-store surface.
type Store interface {
	TransactionWriter
	TransactionLister
	TransactionGetter
	TransactionSubscriber
	SnapshotRefresher
	CategoryStore
	UserStore
	Close() error
}
