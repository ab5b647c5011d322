package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"colorrush/internal/clock"
	"colorrush/internal/logger"
)

// abuseDetector counts failed auths and requests per client IP over a
// fixed rolling window. Counters reset together when the window lapses.
type abuseDetector struct {
	mu            sync.Mutex
	clk           clock.Clock
	failedAuth    map[string]int
	requests      map[string]int
	lastResetTime time.Time
}

func newAbuseDetector(clk clock.Clock) *abuseDetector {
	return &abuseDetector{
		clk:           clk,
		failedAuth:    make(map[string]int),
		requests:      make(map[string]int),
		lastResetTime: clk.Now(),
	}
}

// recordFailedAuth counts a failed authentication attempt and alerts
// once the per-IP threshold is crossed.
func (d *abuseDetector) recordFailedAuth(ip string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resetIfWindowLapsed()
	d.failedAuth[ip]++

	if d.failedAuth[ip] >= FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth,
			"ip", ip,
			"count", d.failedAuth[ip])
	}
}

// recordRequest counts a request and reports whether the client is
// still under the per-window limit. Over-limit traffic is logged every
// RateAlertLogInterval requests to keep the log volume bounded.
func (d *abuseDetector) recordRequest(ip string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resetIfWindowLapsed()
	d.requests[ip]++

	if d.requests[ip] > MaxRequestsPerWindow {
		if d.requests[ip]%RateAlertLogInterval == 0 {
			slog.Warn(SecurityAlertHighRate,
				"ip", ip,
				"count_in_window", d.requests[ip])
		}
		return false
	}
	return true
}

// resetIfWindowLapsed clears all counters once the window has passed.
// Caller holds the mutex.
func (d *abuseDetector) resetIfWindowLapsed() {
	now := d.clk.Now()
	if now.Sub(d.lastResetTime) > AbuseWindow {
		d.requests = make(map[string]int)
		d.failedAuth = make(map[string]int)
		d.lastResetTime = now
	}
}

// authMiddleware rejects requests without the configured API key.
// Paths in PublicPaths pass through unauthenticated. The key check is
// constant time.
func authMiddleware(apiKey string, trustedProxies []string, detector *abuseDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range PublicPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := clientIP(r, trustedProxies)
				detector.recordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware rejects clients that exceed the per-window
// request limit tracked by the detector.
func rateLimitMiddleware(trustedProxies []string, detector *abuseDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.recordRequest(clientIP(r, trustedProxies)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestSizeLimitMiddleware caps request body size
func requestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// securityHeadersMiddleware sets the standard response hardening headers
func securityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the client address. X-Forwarded-For is honored only
// when the direct peer is a trusted proxy, and then only its rightmost
// entry, the hop that proxy actually saw.
func clientIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if slices.Contains(trustedProxies, remoteIP) {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			hops := strings.Split(forwarded, ",")
			return strings.TrimSpace(hops[len(hops)-1])
		}
	}

	return remoteIP
}
