// Package services orchestrates operations across the store and the
// message broker.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"mobiflow/internal/core"
	"mobiflow/internal/store"
)

// ChangePublisher announces transaction changes to the ingest worker.
type ChangePublisher interface {
	PublishTransactionChanged(ctx context.Context, userID, transactionID string) error
	Close() error
}

// TransactionService saves transactions locally and publishes change
// notifications. Broker failures never fail the request, the local write
// is the source of truth.
type TransactionService struct {
	store     store.Store
	publisher ChangePublisher
}

func NewTransactionService(st store.Store, publisher ChangePublisher) *TransactionService {
	return &TransactionService{
		store:     st,
		publisher: publisher,
	}
}

// CreateTransaction saves the transaction and notifies the worker
func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, in core.CreateTransactionInput) (core.Transaction, error) {
	tx, err := s.store.CreateTransaction(ctx, userID, in)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publishChangeMessage(ctx, userID, tx.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"transaction_id", tx.ID, "error", err)
		// Don't fail the request, the transaction is saved locally
	}

	return tx, nil
}

func (s *TransactionService) publishChangeMessage(ctx context.Context, userID, transactionID string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Message broker not available, skipping change message")
		return nil
	}
	return s.publisher.PublishTransactionChanged(ctx, userID, transactionID)
}

// Close closes both the store and the broker connection
func (s *TransactionService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
