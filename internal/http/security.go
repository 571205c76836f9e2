package http

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"

	"mobiflow/internal/log"
)

// securityMonitor counts and logs hostile-looking traffic. Counters are
// read on shutdown for a final report.
type securityMonitor struct {
	logger      *log.Logger
	suspicious  atomic.Int64
	rateLimited atomic.Int64
}

func newSecurityMonitor(logger *log.Logger) *securityMonitor {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &securityMonitor{
		logger: logger.WithComponent(log.ComponentSecurity),
	}
}

// inspect flags requests that no legitimate mobile client would send and
// logs them with the request context. The request itself still proceeds,
// the API surface has nothing these probes can reach.
func (m *securityMonitor) inspect(r *http.Request, clientIP, requestID string) {
	reason := probeSignature(r)
	if reason == "" {
		return
	}

	m.suspicious.Add(1)
	m.logger.WarnContext(r.Context(), "Suspicious request",
		log.FieldRequestID, requestID,
		log.FieldClientIP, clientIP,
		log.FieldPath, r.URL.Path,
		"reason", reason)
}

// recordRateLimited counts a rejected write for the shutdown report.
func (m *securityMonitor) recordRateLimited() {
	m.rateLimited.Add(1)
}

// report logs the accumulated counters, called once at shutdown.
func (m *securityMonitor) report() {
	suspicious := m.suspicious.Load()
	rateLimited := m.rateLimited.Load()
	if suspicious == 0 && rateLimited == 0 {
		return
	}
	m.logger.Info("Security counters",
		"suspicious_requests", suspicious,
		"rate_limited_requests", rateLimited)
}

// probePaths are fragments only vulnerability scanners request against a
// JSON API: traversal, dotfile and admin-panel probes.
var probePaths = []string{
	"../", "..\\", ".env", ".git", ".ssh",
	"wp-admin", "phpmyadmin", ".php", "etc/passwd",
}

// probeAgents are user agents of common scanning tools. Generic HTTP
// clients (curl and friends) are deliberately not listed, they are how
// this API gets tested.
var probeAgents = []string{
	"sqlmap", "nikto", "nmap", "gobuster", "dirb", "masscan",
}

const maxRequestURLLength = 2048

// probeSignature names what makes a request look like scanner traffic, or
// returns "" for normal traffic.
func probeSignature(r *http.Request) string {
	target := strings.ToLower(r.URL.Path + "?" + r.URL.RawQuery)
	for _, fragment := range probePaths {
		if strings.Contains(target, fragment) {
			return "probe path " + fragment
		}
	}

	agent := strings.ToLower(r.Header.Get("User-Agent"))
	for _, tool := range probeAgents {
		if strings.Contains(agent, tool) {
			return "scanner user agent " + tool
		}
	}

	if len(r.URL.String()) > maxRequestURLLength {
		return "oversized request URL"
	}

	return ""
}

// proxyNets are the networks allowed to set forwarding headers: loopback
// and the RFC 1918 ranges the reverse proxy deploys into.
var proxyNets = func() []*net.IPNet {
	cidrs := []string{"127.0.0.0/8", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	nets := make([]*net.IPNet, len(cidrs))
	for i, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("bad proxy CIDR %s: %v", cidr, err))
		}
		nets[i] = network
	}
	return nets
}()

func fromTrustedProxy(ip net.IP) bool {
	for _, network := range proxyNets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// clientAddr resolves the caller's IP. Forwarding headers are honored
// only when the direct peer is a trusted proxy, otherwise a client could
// spoof its way past the rate limiter.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	peer := net.ParseIP(host)
	if peer == nil || !fromTrustedProxy(peer) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}

	return host
}
