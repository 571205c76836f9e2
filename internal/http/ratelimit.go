package http

import (
	"sync"
	"time"

	"mobiflow/internal/log"
)

const (
	defaultWriteLimit = 60 // writes per window per client

	limitWindow      = time.Minute
	staleClientAfter = 10 * time.Minute
	cleanupInterval  = 5 * time.Minute
)

// rateLimiter caps writes per client IP over a fixed window. Reads are
// never limited, they are served from the per-user caches.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow

	limit  int
	logger *log.Logger

	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientWindow struct {
	windowStart time.Time
	count       int
	lastSeen    time.Time
}

// newRateLimiter builds a limiter allowing perWindow writes per client
// per minute. A non-positive perWindow selects the default of 60.
func newRateLimiter(perWindow int, logger *log.Logger) *rateLimiter {
	if perWindow <= 0 {
		perWindow = defaultWriteLimit
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	rl := &rateLimiter{
		clients:     make(map[string]*clientWindow),
		limit:       perWindow,
		logger:      logger.WithComponent(log.ComponentRateLimit),
		stopCleanup: make(chan struct{}),
	}
	go rl.runCleanup()
	return rl
}

// allow records one write attempt for the client and reports whether it
// fits the window. The first rejection per window is logged; repeats from
// the same client only count.
func (rl *rateLimiter) allow(clientIP string, monitor *securityMonitor) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[clientIP]
	if !ok || now.Sub(w.windowStart) >= limitWindow {
		rl.clients[clientIP] = &clientWindow{windowStart: now, count: 1, lastSeen: now}
		return true
	}

	w.count++
	w.lastSeen = now
	if w.count <= rl.limit {
		return true
	}

	if monitor != nil {
		monitor.recordRateLimited()
	}
	if w.count == rl.limit+1 {
		rl.logger.Warn("Write rate limit reached",
			log.FieldClientIP, clientIP,
			"limit", rl.limit)
	}
	return false
}

// runCleanup periodically drops clients that stopped sending requests.
func (rl *rateLimiter) runCleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropStaleClients()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) dropStaleClients() {
	cutoff := time.Now().Add(-staleClientAfter)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, w := range rl.clients {
		if w.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop terminates the cleanup goroutine. Safe to call more than once.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
