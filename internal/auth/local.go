package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mobiflow/internal/log"
	"mobiflow/internal/store"
)

const (
	minPasswordLength = 6
	maxFailedAttempts = 5
	failureWindow     = 15 * time.Minute
)

type failureRecord struct {
	count int
	first time.Time
}

// LocalProvider implements Provider against a local user store with
// bcrypt-hashed passwords. Repeated sign-in failures for the same email
// are throttled inside a rolling window.
type LocalProvider struct {
	users  store.UserStore
	logger *log.Logger
	now    func() time.Time

	mu        sync.Mutex
	session   *Session
	failures  map[string]failureRecord
	observers map[int]func(*Session)
	nextID    int
}

func NewLocalProvider(users store.UserStore, logger *log.Logger) *LocalProvider {
	return &LocalProvider{
		users:     users,
		logger:    logger.WithComponent(log.ComponentAuth),
		now:       time.Now,
		failures:  make(map[string]failureRecord),
		observers: make(map[int]func(*Session)),
	}
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	key := normalizeEmail(email)
	if p.throttled(key) {
		p.logger.WarnContext(ctx, "Sign-in throttled", log.FieldOperation, log.OpSignIn)
		return Session{}, &Error{Code: CodeTooManyRequests}
	}

	user, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			p.recordFailure(key)
			return Session{}, &Error{Code: CodeInvalidCredential, Err: err}
		}
		return Session{}, &Error{Code: CodeUnknown, Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		p.recordFailure(key)
		return Session{}, &Error{Code: CodeInvalidCredential, Err: err}
	}

	p.clearFailures(key)
	session := Session{UserID: user.ID, Email: user.Email}
	p.setSession(&session)
	p.logger.InfoContext(ctx, "User signed in", log.FieldUserID, user.ID)
	return session, nil
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (Session, error) {
	if len([]rune(password)) < minPasswordLength {
		return Session{}, &Error{Code: CodeWeakPassword}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, &Error{Code: CodeUnknown, Err: err}
	}

	user, err := p.users.CreateUser(ctx, email, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return Session{}, &Error{Code: CodeEmailInUse, Err: err}
		}
		return Session{}, &Error{Code: CodeUnknown, Err: err}
	}

	session := Session{UserID: user.ID, Email: user.Email}
	p.setSession(&session)
	p.logger.InfoContext(ctx, "User signed up", log.FieldUserID, user.ID)
	return session, nil
}

func (p *LocalProvider) SignOut() {
	p.setSession(nil)
}

func (p *LocalProvider) ObserveAuthState(fn func(*Session)) UnsubscribeFunc {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.observers[id] = fn
	current := p.session
	p.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.observers, id)
			p.mu.Unlock()
		})
	}
}

func (p *LocalProvider) setSession(s *Session) {
	p.mu.Lock()
	p.session = s
	observers := make([]func(*Session), 0, len(p.observers))
	for _, fn := range p.observers {
		observers = append(observers, fn)
	}
	p.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
}

func (p *LocalProvider) throttled(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.failures[key]
	if !ok {
		return false
	}
	if p.now().Sub(rec.first) > failureWindow {
		delete(p.failures, key)
		return false
	}
	return rec.count >= maxFailedAttempts
}

func (p *LocalProvider) recordFailure(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.failures[key]
	if !ok || p.now().Sub(rec.first) > failureWindow {
		p.failures[key] = failureRecord{count: 1, first: p.now()}
		return
	}
	rec.count++
	p.failures[key] = rec
}

func (p *LocalProvider) clearFailures(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failures, key)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
