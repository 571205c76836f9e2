// Package storage implements the document-store ports on SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mobiflow/internal/core"
	"mobiflow/internal/log"
	"mobiflow/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db     *sql.DB
	hub    *store.Hub
	now    func() time.Time
	logger *log.Logger
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		hub:    store.NewHub(),
		now:    time.Now,
		logger: log.New(log.DefaultConfig()).WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, userID string, in core.CreateTransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Label:     strings.TrimSpace(in.Label),
		Amount:    in.SignedAmount(),
		Type:      in.Type,
		Category:  in.Category,
		CreatedAt: r.now(),
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, label, amount, type, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.Label, tx.Amount, string(tx.Type), tx.Category, tx.CreatedAt.Unix())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "Transaction saved",
		log.FieldTransactionID, tx.ID,
		log.FieldUserID, tx.UserID,
		log.FieldType, string(tx.Type),
		log.FieldAmount, tx.Amount,
		log.FieldCategory, tx.Category)

	r.RefreshTransactions(ctx, userID)
	return tx, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, label, amount, type, category, created_at
		 FROM transactions WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	list := []core.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return list, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, label, amount, type, category, created_at
		 FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrTransactionNotFound
	}
	return tx, err
}

func (r *SQLiteRepository) SubscribeTransactions(userID string, onUpdate func([]core.Transaction), onError func(error)) store.UnsubscribeFunc {
	unsub := r.hub.Subscribe(userID, onUpdate, onError)

	// Initial snapshot, delivered to this subscriber only.
	list, err := r.ListTransactions(context.Background(), userID)
	if err != nil {
		if onError != nil {
			onError(err)
		}
		onUpdate(nil)
		return unsub
	}
	onUpdate(list)
	return unsub
}

// RefreshTransactions re-reads the user's list and pushes it to every
// subscriber. A read failure resets the visible list to empty.
func (r *SQLiteRepository) RefreshTransactions(ctx context.Context, userID string) {
	list, err := r.ListTransactions(ctx, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Snapshot refresh failed", log.FieldUserID, userID, log.FieldError, err.Error())
		r.hub.PublishError(userID, err)
		return
	}
	r.hub.Publish(userID, list)
}

func (r *SQLiteRepository) ListCustomCategories(ctx context.Context, userID string) ([]core.CustomCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM custom_categories WHERE user_id = ? ORDER BY created_at, rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("query custom categories: %w", err)
	}
	defer rows.Close()

	list := []core.CustomCategory{}
	for rows.Next() {
		var c core.CustomCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan custom category: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate custom categories: %w", err)
	}
	return list, nil
}

func (r *SQLiteRepository) CreateCustomCategory(ctx context.Context, userID, name string) (core.CustomCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.CustomCategory{}, core.ErrEmptyCategory
	}
	cat := core.CustomCategory{ID: uuid.NewString(), Name: name}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO custom_categories (id, user_id, name, created_at) VALUES (?, ?, ?, ?)`,
		cat.ID, userID, cat.Name, r.now().Unix())
	if err != nil {
		return core.CustomCategory{}, fmt.Errorf("insert custom category: %w", err)
	}
	return cat, nil
}

func (r *SQLiteRepository) RenameCustomCategory(ctx context.Context, userID, id, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return core.ErrEmptyCategory
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE custom_categories SET name = ? WHERE user_id = ? AND id = ?`,
		newName, userID, id)
	if err != nil {
		return fmt.Errorf("rename custom category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrCategoryNotFound
	}
	return nil
}

// DeleteCustomCategory removes the category record only. Transactions
// referencing the name keep it; aggregate reporting resolves the orphaned
// string through the category hash fallback.
func (r *SQLiteRepository) DeleteCustomCategory(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM custom_categories WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete custom category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrCategoryNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, email, passwordHash string) (store.User, error) {
	u := store.User{
		ID:           uuid.NewString(),
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		CreatedAt:    r.now(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, email_lower, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, strings.ToLower(u.Email), u.PasswordHash, u.CreatedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.User{}, store.ErrUserExists
		}
		return store.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email_lower = ?`,
		strings.ToLower(strings.TrimSpace(email)))

	var u store.User
	var createdAt int64
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.User{}, store.ErrUserNotFound
		}
		return store.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = time.Unix(createdAt, 0)
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var txType string
	var createdAt int64
	if err := row.Scan(&tx.ID, &tx.UserID, &tx.Label, &tx.Amount, &txType, &tx.Category, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Type = core.TransactionType(txType)
	tx.CreatedAt = time.Unix(createdAt, 0)
	return tx, nil
}
