package http

import (
	"container/list"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"mobiflow/internal/auth"
	"mobiflow/internal/core"
	"mobiflow/internal/log"
	"mobiflow/internal/services"
	"mobiflow/internal/store"
)

// LRU cache with TTL and size-based eviction
type lruCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

func newLRUCache[T any](maxSize int, ttl time.Duration) *lruCache[T] {
	return &lruCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *lruCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])
	if time.Now().After(item.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}

	c.lru.MoveToFront(elem)
	return item.data, true
}

func (c *lruCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem[T]{
		key:       key,
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(item)
	c.items[key] = elem

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

func (c *lruCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.removeElement(elem)
	}
}

func (c *lruCache[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

// CleanExpired removes all expired entries
func (c *lruCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		item := elem.Value.(*cacheItem[T])
		if now.After(item.expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

// SMSPublisher forwards raw mobile-money notifications to the ingest queue.
type SMSPublisher interface {
	PublishSMS(ctx context.Context, userID, sender, body string) error
}

type Server struct {
	http.Server
	provider    auth.Provider
	store       store.Store
	txs         *services.TransactionService
	smsPub      SMSPublisher
	rateLimiter *rateLimiter
	security    *securityMonitor
	structLog   *log.StructuredLogger

	// Per-user dashboard caches, invalidated when the user writes.
	summaryCache *lruCache[core.HomeSummary]
	reportsCache *lruCache[core.ReportsData]

	sessionMu sync.Mutex
	sessions  map[string]auth.Session

	now func() time.Time

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
// writeLimit caps POST requests per client per minute; non-positive
// values select the default.
func NewServer(addr string, provider auth.Provider, st store.Store, txs *services.TransactionService, smsPub SMSPublisher, writeLimit int) *Server {
	mux := http.NewServeMux()
	logger := log.New(log.DefaultConfig())

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		provider:         provider,
		store:            st,
		txs:              txs,
		smsPub:           smsPub,
		rateLimiter:      newRateLimiter(writeLimit, logger),
		security:         newSecurityMonitor(logger),
		structLog:        log.NewStructuredLogger(logger),
		summaryCache:     newLRUCache[core.HomeSummary](500, 5*time.Minute),
		reportsCache:     newLRUCache[core.ReportsData](500, 5*time.Minute),
		sessions:         make(map[string]auth.Session),
		now:              time.Now,
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/signup", s.withSecurityHeaders(s.handleSignUp))
	mux.HandleFunc("POST /api/signin", s.withSecurityHeaders(s.handleSignIn))
	mux.HandleFunc("POST /api/signout", s.withSecurityHeaders(s.handleSignOut))
	mux.HandleFunc("GET /api/password-requirements", s.withSecurityHeaders(s.handlePasswordRequirements))

	mux.HandleFunc("GET /api/transactions", s.withSecurityHeaders(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/stream", s.withSecurityHeaders(s.handleTransactionStream))

	mux.HandleFunc("GET /api/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("GET /api/reports", s.withSecurityHeaders(s.handleReports))

	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withSecurityHeaders(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.withSecurityHeaders(s.handleRenameCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withSecurityHeaders(s.handleDeleteCategory))

	mux.HandleFunc("POST /api/sms", s.withSecurityHeaders(s.handleIngestSMS))

	return s
}

// startCacheCleanup runs periodic cleanup for both caches
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			summaryCleaned := s.summaryCache.CleanExpired()
			reportsCleaned := s.reportsCache.CleanExpired()
			if summaryCleaned > 0 || reportsCleaned > 0 {
				slog.Debug("Cache cleanup completed",
					"summary_entries_removed", summaryCleaned,
					"reports_entries_removed", reportsCleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		s.security.report()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := clientAddr(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.structLog.LogHTTPStart(ctx, r, clientIP)
		s.security.inspect(r, clientIP, requestID)

		// Rate limit mutating requests only; reads stay cheap through the caches.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.security) {
			TooManyRequestsError("Too many attempts. Please try again later.").Write(w)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.structLog.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the underlying writer so SSE streaming works.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// generateSessionToken creates an opaque bearer token.
func generateSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func (s *Server) createSession(session auth.Session) (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", err
	}
	s.sessionMu.Lock()
	s.sessions[token] = session
	s.sessionMu.Unlock()
	return token, nil
}

func (s *Server) dropSession(token string) {
	s.sessionMu.Lock()
	delete(s.sessions, token)
	s.sessionMu.Unlock()
}

func (s *Server) lookupSession(token string) (auth.Session, bool) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	session, ok := s.sessions[token]
	return session, ok
}

// bearerToken extracts the session token from the Authorization header or,
// for EventSource clients that cannot set headers, the token query param.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// requireSession resolves the caller's session or writes a 401.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	token := bearerToken(r)
	if token == "" {
		UnauthorizedError("authentication required").Write(w)
		return auth.Session{}, false
	}
	session, ok := s.lookupSession(token)
	if !ok {
		UnauthorizedError("session expired or invalid").Write(w)
		return auth.Session{}, false
	}
	return session, true
}

// invalidateUserCaches drops the cached dashboard data after a write.
func (s *Server) invalidateUserCaches(userID string) {
	s.summaryCache.Delete(userID)
	s.reportsCache.Delete(userID)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
