package devserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"paylink/internal/domain"
)

const (
	headerPublicKey = "X-Public-Key"
	headerDeviceID  = "X-Device-Id"
	headerRequestID = "X-Request-Id"
)

// requireDevice rejects requests without a usable device key and id.
func (s *Server) requireDevice(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pub, err := domain.ParseX25519Public(r.Header.Get(headerPublicKey))
		if err != nil || pub.IsZero() {
			writeError(w, http.StatusBadRequest, "BAD_DEVICE_KEY", "Missing or invalid device key")
			return
		}
		id := strings.TrimSpace(r.Header.Get(headerDeviceID))
		if id == "" {
			writeError(w, http.StatusBadRequest, "BAD_DEVICE_ID", "Missing device id")
			return
		}
		ctx := context.WithValue(r.Context(), ctxDevice, deviceInfo{id: id, pub: pub})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(deviceFrom(r.Context()).id) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth validates the bearer token and its binding to the device.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		tok, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || tok == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Please log in")
			return
		}
		c, err := s.parseToken(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Session expired, please log in again")
			return
		}
		if c.Device != deviceFrom(r.Context()).id {
			writeError(w, http.StatusUnauthorized, "DEVICE_MISMATCH", "Session belongs to another device")
			return
		}
		s.mu.Lock()
		_, revoked := s.revoked[c.ID]
		acct := s.byID[c.Subject]
		s.mu.Unlock()
		if revoked || acct == nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Session expired, please log in again")
			return
		}
		ctx := context.WithValue(r.Context(), ctxAccount, acct)
		ctx = context.WithValue(ctx, ctxTokenID, c.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("device_id", r.Header.Get(headerDeviceID)).
			Str("request_id", r.Header.Get(headerRequestID)).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// multiLimiter keeps one token bucket per key and forgets idle keys.
type multiLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	entries map[string]*limBucket
}

type limBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newMultiLimiter(limit rate.Limit, burst int, ttl time.Duration) *multiLimiter {
	return &multiLimiter{
		limit:   limit,
		burst:   burst,
		ttl:     ttl,
		entries: make(map[string]*limBucket),
	}
}

func (m *multiLimiter) allow(key string) bool {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.entries[key]
	if b == nil {
		b = &limBucket{lim: rate.NewLimiter(m.limit, m.burst), lastSeen: now}
		m.entries[key] = b
	}
	b.lastSeen = now

	for k, v := range m.entries {
		if now.Sub(v.lastSeen) > m.ttl {
			delete(m.entries, k)
		}
	}
	return b.lim.Allow()
}
