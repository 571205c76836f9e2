// Package memory provides an in-memory document store used for tests and
// local development. It implements the full store surface including live
// subscriptions.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mobiflow/internal/core"
	"mobiflow/internal/store"
)

type Store struct {
	mu           sync.Mutex
	now          func() time.Time
	hub          *store.Hub
	transactions map[string][]core.Transaction   // by user, insertion order
	categories   map[string][]core.CustomCategory // by user
	users        map[string]store.User            // by lowercased email
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock injects the timestamp source so tests can pin CreatedAt.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		now:          now,
		hub:          store.NewHub(),
		transactions: make(map[string][]core.Transaction),
		categories:   make(map[string][]core.CustomCategory),
		users:        make(map[string]store.User),
	}
}

func (s *Store) CreateTransaction(_ context.Context, userID string, in core.CreateTransactionInput) (core.Transaction, error) {
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
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.transactions[userID] = append(s.transactions[userID], tx)
	list := sortedCopy(s.transactions[userID])
	s.mu.Unlock()

	s.hub.Publish(userID, list)
	return tx, nil
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedCopy(s.transactions[userID]), nil
}

func (s *Store) GetTransaction(_ context.Context, userID, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.transactions[userID] {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, store.ErrTransactionNotFound
}

func (s *Store) SubscribeTransactions(userID string, onUpdate func([]core.Transaction), onError func(error)) store.UnsubscribeFunc {
	unsub := s.hub.Subscribe(userID, onUpdate, onError)
	list, _ := s.ListTransactions(context.Background(), userID)
	onUpdate(list) // initial snapshot
	return unsub
}

func (s *Store) RefreshTransactions(_ context.Context, userID string) {
	s.mu.Lock()
	list := sortedCopy(s.transactions[userID])
	s.mu.Unlock()
	s.hub.Publish(userID, list)
}

func (s *Store) ListCustomCategories(_ context.Context, userID string) ([]core.CustomCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CustomCategory(nil), s.categories[userID]...), nil
}

func (s *Store) CreateCustomCategory(_ context.Context, userID, name string) (core.CustomCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.CustomCategory{}, core.ErrEmptyCategory
	}
	cat := core.CustomCategory{ID: uuid.NewString(), Name: name}
	s.mu.Lock()
	s.categories[userID] = append(s.categories[userID], cat)
	s.mu.Unlock()
	return cat, nil
}

func (s *Store) RenameCustomCategory(_ context.Context, userID, id, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return core.ErrEmptyCategory
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cat := range s.categories[userID] {
		if cat.ID == id {
			s.categories[userID][i].Name = newName
			return nil
		}
	}
	return store.ErrCategoryNotFound
}

// DeleteCustomCategory removes the category record only; transactions
// referencing its name keep the now-orphaned string.
func (s *Store) DeleteCustomCategory(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := s.categories[userID]
	for i, cat := range cats {
		if cat.ID == id {
			s.categories[userID] = append(cats[:i:i], cats[i+1:]...)
			return nil
		}
	}
	return store.ErrCategoryNotFound
}

func (s *Store) CreateUser(_ context.Context, email, passwordHash string) (store.User, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[key]; exists {
		return store.User{}, store.ErrUserExists
	}
	u := store.User{
		ID:           uuid.NewString(),
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	s.users[key] = u
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return store.User{}, store.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) Close() error {
	return nil
}

// sortedCopy returns a newest-first snapshot; missing timestamps sort as
// oldest. Stable so same-timestamp entries keep insertion order.
func sortedCopy(list []core.Transaction) []core.Transaction {
	out := append([]core.Transaction(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
