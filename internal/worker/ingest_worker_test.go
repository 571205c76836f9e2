package worker

import (
	"context"
	"errors"
	"testing"

	"mobiflow/internal/amqp"
	"mobiflow/internal/core"
	ledgermem "mobiflow/internal/ledger/memory"
	"mobiflow/internal/store/memory"
)

func TestHandleTransactionChangedExports(t *testing.T) {
	st := memory.New()
	exp := ledgermem.New()
	w := NewIngestWorker(st, exp)
	ctx := context.Background()

	tx, _ := st.CreateTransaction(ctx, "u1", core.CreateTransactionInput{
		Label: "Stock", Amount: 2000, Type: core.Expense, Category: "Supplies",
	})

	msg := amqp.NewTransactionChangedMessage("u1", tx.ID)
	if err := w.HandleTransactionChanged(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	rows := exp.Rows()
	if len(rows) != 1 || rows[0].ID != tx.ID {
		t.Fatalf("expected exported transaction, got %+v", rows)
	}
}

func TestHandleTransactionChangedMissingRecord(t *testing.T) {
	w := NewIngestWorker(memory.New(), ledgermem.New())

	msg := amqp.NewTransactionChangedMessage("u1", "gone")
	if err := w.HandleTransactionChanged(context.Background(), msg); err != nil {
		t.Fatalf("missing record must not be retried: %v", err)
	}
}

func TestHandleTransactionChangedExportFailure(t *testing.T) {
	st := memory.New()
	exp := ledgermem.New()
	w := NewIngestWorker(st, exp)
	ctx := context.Background()

	tx, _ := st.CreateTransaction(ctx, "u1", core.CreateTransactionInput{
		Label: "Stock", Amount: 2000, Type: core.Expense, Category: "Supplies",
	})

	exp.FailNext = errors.New("sheets unavailable")
	msg := amqp.NewTransactionChangedMessage("u1", tx.ID)
	if err := w.HandleTransactionChanged(ctx, msg); err == nil {
		t.Fatal("export failure must surface so the delivery is requeued")
	}
}

func TestHandleSMSRecordsTransaction(t *testing.T) {
	st := memory.New()
	w := NewIngestWorker(st, ledgermem.New())
	ctx := context.Background()

	msg := amqp.NewSMSMessage("u1", "M-Money",
		"Your payment of 2,000 RWF to KIGALI WHOLESALE LTD has been completed.")
	if err := w.HandleSMS(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	list, _ := st.ListTransactions(ctx, "u1")
	if len(list) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(list))
	}
	got := list[0]
	if got.Label != "KIGALI WHOLESALE LTD" || got.Amount != -2000 || got.Type != core.Expense || got.Category != "Other" {
		t.Fatalf("unexpected transaction: %+v", got)
	}
}

func TestHandleSMSDropsUnrecognized(t *testing.T) {
	st := memory.New()
	w := NewIngestWorker(st, ledgermem.New())
	ctx := context.Background()

	msg := amqp.NewSMSMessage("u1", "M-Money", "Your airtime purchase was successful.")
	if err := w.HandleSMS(ctx, msg); err != nil {
		t.Fatalf("unparseable SMS must be dropped, not retried: %v", err)
	}

	list, _ := st.ListTransactions(ctx, "u1")
	if len(list) != 0 {
		t.Fatalf("no transaction expected, got %+v", list)
	}
}
