// Package worker consumes broker messages: it exports changed transactions
// to the external ledger and turns mobile-money SMS into transactions.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mobiflow/internal/amqp"
	"mobiflow/internal/ledger"
	"mobiflow/internal/sms"
	"mobiflow/internal/store"
)

// IngestWorker handles both queues of the ingest pipeline
type IngestWorker struct {
	store    store.Store
	exporter ledger.Exporter
}

func NewIngestWorker(st store.Store, exporter ledger.Exporter) *IngestWorker {
	return &IngestWorker{
		store:    st,
		exporter: exporter,
	}
}

// HandleTransactionChanged exports one changed transaction to the ledger
func (w *IngestWorker) HandleTransactionChanged(ctx context.Context, msg *amqp.TransactionChangedMessage) error {
	slog.InfoContext(ctx, "Processing change message",
		"user_id", msg.UserID,
		"transaction_id", msg.TransactionID)

	tx, err := w.store.GetTransaction(ctx, msg.UserID, msg.TransactionID)
	if err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			// The record vanished between publish and consume, nothing to export.
			slog.WarnContext(ctx, "Transaction no longer exists, skipping export",
				"transaction_id", msg.TransactionID)
			return nil
		}
		return fmt.Errorf("get transaction from store: %w", err)
	}

	if w.exporter == nil {
		slog.WarnContext(ctx, "No ledger exporter configured, skipping export",
			"transaction_id", msg.TransactionID)
		return nil
	}

	ref, err := w.exporter.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Successfully exported transaction",
		"transaction_id", tx.ID,
		"sheets_ref", ref,
		"label", tx.Label,
		"amount", tx.Amount)

	return nil
}

// HandleSMS parses a mobile-money notification and records the resulting
// transaction. Unrecognized messages are logged and dropped, they would
// never parse on retry.
func (w *IngestWorker) HandleSMS(ctx context.Context, msg *amqp.SMSMessage) error {
	slog.InfoContext(ctx, "Processing SMS message",
		"user_id", msg.UserID,
		"sender", msg.Sender)

	parsed, err := sms.Parse(msg.Body)
	if err != nil {
		slog.WarnContext(ctx, "Unrecognized SMS, dropping",
			"user_id", msg.UserID,
			"sender", msg.Sender,
			"error", err)
		return nil
	}

	tx, err := w.store.CreateTransaction(ctx, msg.UserID, parsed.ToInput())
	if err != nil {
		return fmt.Errorf("save transaction from SMS: %w", err)
	}

	slog.InfoContext(ctx, "Recorded transaction from SMS",
		"transaction_id", tx.ID,
		"user_id", tx.UserID,
		"type", string(tx.Type),
		"amount", tx.Amount)

	return nil
}
