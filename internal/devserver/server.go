package devserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"paylink/internal/domain"
)

// Fault alters SUCCESS responses to exercise client failure paths.
type Fault int

const (
	FaultNone Fault = iota
	// FaultDropHandshake sends SUCCESS envelopes without a handshake.
	FaultDropHandshake
	// FaultCorruptData flips a byte of the sealed payload.
	FaultCorruptData
)

type Config struct {
	Secret     []byte
	RatePerSec float64
	Burst      int
	TokenTTL   time.Duration
	Log        zerolog.Logger
}

type Server struct {
	cfg     Config
	router  *mux.Router
	limiter *multiLimiter
	log     zerolog.Logger

	mu       sync.Mutex
	accounts map[string]*account // by email
	byID     map[string]*account
	revoked  map[string]struct{} // token ids
	fault    Fault
}

// New returns a server seeded with the demo account.
func New(cfg Config) *Server {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 20
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 40
	}
	s := &Server{
		cfg:      cfg,
		router:   mux.NewRouter(),
		limiter:  newMultiLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst, 10*time.Minute),
		log:      cfg.Log.With().Str("component", "devserver").Logger(),
		accounts: seedAccounts(),
		byID:     make(map[string]*account),
		revoked:  make(map[string]struct{}),
	}
	for _, a := range s.accounts {
		s.byID[a.user.ID] = a
	}
	s.routes()
	return s
}

// Handler returns the root handler with access logging applied.
func (s *Server) Handler() http.Handler { return s.accessLog(s.router) }

// SetFault switches fault injection for subsequent responses.
func (s *Server) SetFault(f Fault) {
	s.mu.Lock()
	s.fault = f
	s.mu.Unlock()
}

func (s *Server) currentFault() Fault {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault
}

func (s *Server) routes() {
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})
	s.router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK\n"))
	}).Methods(http.MethodGet)

	device := s.router.NewRoute().Subrouter()
	device.Use(s.requireDevice, s.rateLimit)
	device.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := device.NewRoute().Subrouter()
	authed.Use(s.requireAuth)
	authed.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/user/me", s.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/wallets", s.handleWallets).Methods(http.MethodGet)
	authed.HandleFunc("/senders", s.handleSenders).Methods(http.MethodGet)
	authed.HandleFunc("/senders/{id}", s.handleSender).Methods(http.MethodGet)
}

type ctxKey int

const (
	ctxDevice ctxKey = iota
	ctxAccount
	ctxTokenID
)

type deviceInfo struct {
	id  string
	pub domain.X25519Public
}

func deviceFrom(ctx context.Context) deviceInfo {
	d, _ := ctx.Value(ctxDevice).(deviceInfo)
	return d
}

func accountFrom(ctx context.Context) *account {
	a, _ := ctx.Value(ctxAccount).(*account)
	return a
}
