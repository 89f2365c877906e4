package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/maraton/maraton-api/internal/httputil"
	"github.com/maraton/maraton-api/internal/logging"
	"github.com/maraton/maraton-api/internal/metrics"
)

// Limiter allows at most Max hits per key within Window. Every request
// counts, including successful ones.
type Limiter struct {
	store   Store
	name    string
	max     int
	window  time.Duration
	message string
	ew      *httputil.ErrorWriter
	hops    int
}

// Result describes the state of a key after a hit
type Result struct {
	Limit     int
	Remaining int
	Reset     time.Duration
	Exceeded  bool
}

// NewLimiter creates a limiter. name prefixes storage keys and labels
// metrics, message is returned to rejected clients.
func NewLimiter(store Store, name string, max int, window time.Duration, message string, ew *httputil.ErrorWriter) *Limiter {
	return &Limiter{
		store:   store,
		name:    name,
		max:     max,
		window:  window,
		message: message,
		ew:      ew,
	}
}

// TrustProxies sets how many reverse proxies in front of the server append
// to X-Forwarded-For. With zero the socket address is the key.
func (l *Limiter) TrustProxies(hops int) *Limiter {
	l.hops = hops
	return l
}

// Hit records one attempt for key
func (l *Limiter) Hit(ctx context.Context, key string) (Result, error) {
	count, ttl, err := l.store.Increment(ctx, "ratelimit:"+l.name+":"+key, l.window)
	if err != nil {
		return Result{Limit: l.max, Remaining: l.max}, err
	}

	remaining := l.max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Limit:     l.max,
		Remaining: remaining,
		Reset:     ttl,
		Exceeded:  count > int64(l.max),
	}, nil
}

// Middleware limits by client IP. Store failures let the request through.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())
		ip := ClientIP(r, l.hops)

		res, err := l.Hit(r.Context(), ip)
		if err != nil {
			logger.Error("rate limit store failed", "limiter", l.name, "error", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(res.Reset.Seconds())))

		if res.Exceeded {
			logger.Warn("rate limit exceeded", "limiter", l.name, "ip", ip)
			metrics.RateLimitRejections.WithLabelValues(l.name).Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(res.Reset.Seconds())))
			l.ew.Respond(w, r, http.StatusTooManyRequests, httputil.CodeTooManyRequests, l.message)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the address of the client as seen by the outermost of
// trustedHops proxies. Entries left of that hop are client controlled and
// never used, so rotating X-Forwarded-For does not change the key.
func ClientIP(r *http.Request, trustedHops int) string {
	addr := remoteHost(r.RemoteAddr)
	if trustedHops <= 0 {
		return addr
	}

	var chain []string
	for _, header := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(header, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				chain = append(chain, hop)
			}
		}
	}
	chain = append(chain, addr)

	idx := len(chain) - 1 - trustedHops
	if idx < 0 {
		idx = 0
	}
	return chain[idx]
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return strings.Trim(remoteAddr, "[]")
	}
	return host
}
