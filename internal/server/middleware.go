package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// loggingMiddleware logs HTTP requests and responses
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		s.logger.WithRequestID(requestID).Info("HTTP request started",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)

		next.ServeHTTP(rw, r)

		s.logger.WithRequestID(requestID).Info("HTTP request completed",
			zap.Int("status_code", rw.statusCode),
			zap.Duration("duration", time.Since(start)),
			zap.Int("response_size", rw.size),
		)
	})
}

// rateLimitMiddleware applies a per-tenant token bucket. The tenant key is
// the X-Company-ID header when present, otherwise the client IP.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.config.Server.RateLimit.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get("X-Company-ID")
		if key == "" {
			key = getClientIP(r)
		}

		if !s.limiters.allow(key) {
			s.logger.Warn("Rate limit exceeded", zap.String("tenant", key))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// tenantLimiters keeps one rate.Limiter per tenant key.
type tenantLimiters struct {
	perSec   float64
	burst    int
	mu       sync.Mutex
	limiters map[string]*tenantLimiter
}

type tenantLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newTenantLimiters(perSec float64, burst int) *tenantLimiters {
	if perSec <= 0 {
		perSec = 10
	}
	if burst <= 0 {
		burst = int(perSec) * 2
	}
	return &tenantLimiters{
		perSec:   perSec,
		burst:    burst,
		limiters: make(map[string]*tenantLimiter),
	}
}

func (t *tenantLimiters) allow(key string) bool {
	t.mu.Lock()
	entry, ok := t.limiters[key]
	if !ok {
		entry = &tenantLimiter{limiter: rate.NewLimiter(rate.Limit(t.perSec), t.burst)}
		t.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	t.mu.Unlock()

	return entry.limiter.Allow()
}

// cleanup removes limiters idle for more than an hour to bound memory.
func (t *tenantLimiters) cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-time.Hour)
	for key, entry := range t.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(t.limiters, key)
		}
	}
}

// StartLimiterCleanup runs periodic limiter cleanup until ctx is cancelled.
func (s *Server) StartLimiterCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.limiters.cleanup()
			}
		}
	}()
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// responseWriter wraps http.ResponseWriter to capture response data
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// getRequestID extracts request ID from context
func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return "unknown"
}
