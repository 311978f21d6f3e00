package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// slowRequest is the duration above which a request is logged as a warning.
const slowRequest = 5 * time.Second

// RequestIDHeader carries the id of a request in its response.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the id assigned to the request by the logging middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// responseWriter captures the status code of a response.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// logRequests assigns a request id and logs every request with its status
// and duration.
func logRequests(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			w.Header().Set(RequestIDHeader, requestID)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID))

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			entry := logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			entry.WithField("remote_ip", clientIP(r)).Debug("request started")

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			entry = entry.WithFields(logrus.Fields{
				"status":      wrapped.statusCode,
				"duration_ms": duration.Milliseconds(),
			})
			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				entry.Error("request failed")
			case duration > slowRequest:
				entry.Warn("slow request")
			default:
				entry.Info("request completed")
			}
		})
	}
}

// clientIP returns the address a request came from, preferring the first
// X-Forwarded-For entry set by a proxy.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// rateLimiter holds one token bucket per client. Buckets of clients idle
// for longer than the expiry are dropped.
type rateLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients *gocache.Cache
}

// limiterExpiry is how long an idle client keeps its bucket.
const limiterExpiry = 10 * time.Minute

func newRateLimiter(perSecond float64, burst int) *rateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clients: gocache.New(limiterExpiry, 2*limiterExpiry),
	}
}

// allow reports whether key may make a request now.
func (l *rateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.clients.Get(key)
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
	}
	// Refresh the expiry on every request.
	l.clients.SetDefault(key, lim)
	return lim.(*rate.Limiter).Allow()
}

// limitRequests answers 429 to clients exceeding their rate.
func limitRequests(l *rateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				w.Header().Set("X-RateLimit-Limit", strconv.FormatFloat(float64(l.limit), 'f', -1, 64))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
