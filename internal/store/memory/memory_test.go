package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"mobiflow/internal/core"
	"mobiflow/internal/store"
)

func testClock() func() time.Time {
	t := time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestCreateTransactionAssignsIDAndSign(t *testing.T) {
	s := NewWithClock(testClock())
	ctx := context.Background()

	tx, err := s.CreateTransaction(ctx, "u1", core.CreateTransactionInput{
		Label: "  Stock  ", Amount: 2000, Type: core.Expense, Category: "Supplies",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.ID == "" || tx.CreatedAt.IsZero() {
		t.Fatalf("store must assign id and timestamp: %+v", tx)
	}
	if tx.Amount != -2000 {
		t.Fatalf("expense amount must be forced negative, got %d", tx.Amount)
	}
	if tx.Label != "Stock" {
		t.Fatalf("label must be trimmed, got %q", tx.Label)
	}
}

func TestCreateTransactionRejectsInvalidInput(t *testing.T) {
	s := New()
	_, err := s.CreateTransaction(context.Background(), "u1", core.CreateTransactionInput{
		Label: "", Amount: 100, Type: core.Income, Category: "Other",
	})
	if !errors.Is(err, core.ErrEmptyLabel) {
		t.Fatalf("want ErrEmptyLabel, got %v", err)
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	s := NewWithClock(testClock())
	ctx := context.Background()

	first, _ := s.CreateTransaction(ctx, "u1", core.CreateTransactionInput{Label: "a", Amount: 1, Type: core.Income, Category: "Other"})
	second, _ := s.CreateTransaction(ctx, "u1", core.CreateTransactionInput{Label: "b", Amount: 2, Type: core.Income, Category: "Other"})

	list, err := s.ListTransactions(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}
}

func TestListTransactionsReturnsSnapshot(t *testing.T) {
	s := NewWithClock(testClock())
	ctx := context.Background()
	s.CreateTransaction(ctx, "u1", core.CreateTransactionInput{Label: "a", Amount: 1, Type: core.Income, Category: "Other"})

	list, _ := s.ListTransactions(ctx, "u1")
	list[0].Label = "mutated"

	again, _ := s.ListTransactions(ctx, "u1")
	if again[0].Label != "a" {
		t.Fatal("list result aliases internal state")
	}
}

func TestSubscribePushesInitialSnapshotAndUpdates(t *testing.T) {
	s := NewWithClock(testClock())
	ctx := context.Background()
	s.CreateTransaction(ctx, "u1", core.CreateTransactionInput{Label: "a", Amount: 1, Type: core.Income, Category: "Other"})

	var pushes [][]core.Transaction
	unsub := s.SubscribeTransactions("u1", func(list []core.Transaction) {
		pushes = append(pushes, list)
	}, nil)
	defer unsub()

	if len(pushes) != 1 || len(pushes[0]) != 1 {
		t.Fatalf("expected initial snapshot with 1 entry, got %+v", pushes)
	}

	s.CreateTransaction(ctx, "u1", core.CreateTransactionInput{Label: "b", Amount: 2, Type: core.Income, Category: "Other"})
	if len(pushes) != 2 || len(pushes[1]) != 2 {
		t.Fatalf("expected full refreshed list on change, got %+v", pushes)
	}
}

func TestUnsubscribeStopsPushesAndIsIdempotent(t *testing.T) {
	s := NewWithClock(testClock())
	ctx := context.Background()

	calls := 0
	unsub := s.SubscribeTransactions("u1", func([]core.Transaction) { calls++ }, nil)
	unsub()
	unsub()

	s.CreateTransaction(ctx, "u1", core.CreateTransactionInput{Label: "a", Amount: 1, Type: core.Income, Category: "Other"})
	if calls != 1 { // the initial snapshot only
		t.Fatalf("push after unsubscribe: %d calls", calls)
	}
}

func TestCustomCategoryLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	cat, err := s.CreateCustomCategory(ctx, "u1", "  Marketing  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cat.ID == "" || cat.Name != "Marketing" {
		t.Fatalf("unexpected category: %+v", cat)
	}

	if _, err := s.CreateCustomCategory(ctx, "u1", "   "); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("blank name: want ErrEmptyCategory, got %v", err)
	}

	if err := s.RenameCustomCategory(ctx, "u1", cat.ID, "Ads"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	list, _ := s.ListCustomCategories(ctx, "u1")
	if len(list) != 1 || list[0].Name != "Ads" {
		t.Fatalf("after rename: %+v", list)
	}

	if err := s.DeleteCustomCategory(ctx, "u1", cat.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteCustomCategory(ctx, "u1", cat.ID); !errors.Is(err, store.ErrCategoryNotFound) {
		t.Fatalf("second delete: want ErrCategoryNotFound, got %v", err)
	}
}

func TestDeleteCategoryDoesNotTouchTransactions(t *testing.T) {
	s := NewWithClock(testClock())
	ctx := context.Background()

	cat, _ := s.CreateCustomCategory(ctx, "u1", "Marketing")
	s.CreateTransaction(ctx, "u1", core.CreateTransactionInput{Label: "Flyers", Amount: 500, Type: core.Expense, Category: "Marketing"})

	if err := s.DeleteCustomCategory(ctx, "u1", cat.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	list, _ := s.ListTransactions(ctx, "u1")
	if list[0].Category != "Marketing" {
		t.Fatalf("transaction category mutated on delete: %q", list[0].Category)
	}
}

func TestUserStore(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "owner@shop.rw", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.CreateUser(ctx, "Owner@Shop.RW", "hash2"); !errors.Is(err, store.ErrUserExists) {
		t.Fatalf("duplicate email: want ErrUserExists, got %v", err)
	}

	got, err := s.GetUserByEmail(ctx, " owner@shop.rw ")
	if err != nil || got.ID != u.ID {
		t.Fatalf("lookup: %+v %v", got, err)
	}
	if _, err := s.GetUserByEmail(ctx, "nobody@shop.rw"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("missing user: want ErrUserNotFound, got %v", err)
	}
}
