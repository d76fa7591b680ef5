package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"lezat-lumer/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Rate Limit Tiers
const (
	// payment_confirm / copy_account (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// Every other command (General)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

const visitorIdle = 3 * time.Minute

type tier struct {
	name  string
	limit rate.Limit
	burst int
}

var (
	tierStrict  = tier{name: "strict", limit: limitStrict, burst: burstStrict}
	tierGeneral = tier{name: "general", limit: limitGeneral, burst: burstGeneral}
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per session (or client ip) and tier.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Middleware applies the general tier to every request and rejects requests
// over quota with 429. It must run after SessionMiddleware so requests are
// bucketed per session.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(r, tierGeneral) {
			tooManyRequests(w, r, tierGeneral)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AllowStrict takes a token from the strict tier. The handler calls it once the
// command kind is known.
func (l *RateLimiter) AllowStrict(r *http.Request) bool {
	if l.allow(r, tierStrict) {
		return true
	}
	logger.FromCtx(r.Context()).Info("rate limited", zap.String("tier", tierStrict.name))
	return false
}

func (l *RateLimiter) allow(r *http.Request, t tier) bool {
	return l.bucket(identity(r)+":"+t.name, t).Allow()
}

func tooManyRequests(w http.ResponseWriter, r *http.Request, t tier) {
	logger.FromCtx(r.Context()).Info("rate limited", zap.String("tier", t.name))
	w.Header().Set("Retry-After", "1")
	http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}

func (l *RateLimiter) bucket(key string, t tier) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.limit, t.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

// Cleanup drops buckets idle for longer than visitorIdle and returns how many
// were removed.
func (l *RateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > visitorIdle {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (l *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

// identity keys a bucket on the session, or on the client ip when the request
// carried no valid token. A session issued for this very request is free to
// obtain, so it never earns its own bucket.
func identity(r *http.Request) string {
	ctx := r.Context()
	if sessionID := logger.SessionIDFrom(ctx); sessionID != "" && !isNewSession(ctx) {
		return "session:" + sessionID
	}
	return "ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
