// Package http exposes the JSON API: identity endpoints, ownership-scoped
// record CRUD, and the derived dashboard view.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ledgerly/internal/auth"
	"ledgerly/internal/log"
	"ledgerly/internal/services"
	"ledgerly/internal/session"
	"ledgerly/internal/storage"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Options carries the tunables the server does not own.
type Options struct {
	Addr               string
	RateLimitPerMinute int
	UpcomingWindowDays int
}

// Dependencies are the collaborators the server routes requests to.
type Dependencies struct {
	Auth     *auth.Service
	Tokens   *auth.TokenManager
	Sessions *session.Manager
	Stores   session.Stores
	Logger   *log.Logger
}

type Server struct {
	http.Server
	logger       *log.Logger
	authSvc      *auth.Service
	tokens       *auth.TokenManager
	sessions     *session.Manager
	transactions *storage.TransactionStore
	bills        *storage.BillStore
	reminders    *storage.ReminderStore
	windowDays   int
	rateLimiter  *rateLimiter
	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(opts Options, deps Dependencies) *Server {
	mux := http.NewServeMux()

	windowDays := opts.UpcomingWindowDays
	if windowDays <= 0 {
		windowDays = services.DefaultUpcomingWindowDays
	}

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger:       deps.Logger.WithComponent(log.ComponentHTTP),
		authSvc:      deps.Auth,
		tokens:       deps.Tokens,
		sessions:     deps.Sessions,
		transactions: deps.Stores.Transactions,
		bills:        deps.Stores.Bills,
		reminders:    deps.Stores.Reminders,
		windowDays:   windowDays,
		rateLimiter:  newRateLimiter(opts.RateLimitPerMinute),
		now:          time.Now,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/signup", s.withCommon(s.handleSignUp))
	mux.HandleFunc("POST /api/auth/signin", s.withCommon(s.handleSignIn))
	mux.HandleFunc("POST /api/auth/signout", s.withCommon(s.withAuth(s.handleSignOut)))

	mux.HandleFunc("GET /api/transactions", s.withCommon(s.withAuth(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withCommon(s.withAuth(s.handleCreateTransaction)))
	mux.HandleFunc("PATCH /api/transactions/{id}", s.withCommon(s.withAuth(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withCommon(s.withAuth(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /api/bills", s.withCommon(s.withAuth(s.handleListBills)))
	mux.HandleFunc("POST /api/bills", s.withCommon(s.withAuth(s.handleCreateBill)))
	mux.HandleFunc("PATCH /api/bills/{id}", s.withCommon(s.withAuth(s.handleUpdateBill)))
	mux.HandleFunc("POST /api/bills/{id}/paid", s.withCommon(s.withAuth(s.handleToggleBillPaid)))
	mux.HandleFunc("DELETE /api/bills/{id}", s.withCommon(s.withAuth(s.handleDeleteBill)))

	mux.HandleFunc("GET /api/reminders", s.withCommon(s.withAuth(s.handleListReminders)))
	mux.HandleFunc("GET /api/reminders/upcoming", s.withCommon(s.withAuth(s.handleUpcomingReminders)))
	mux.HandleFunc("POST /api/reminders", s.withCommon(s.withAuth(s.handleCreateReminder)))
	mux.HandleFunc("PATCH /api/reminders/{id}", s.withCommon(s.withAuth(s.handleUpdateReminder)))
	mux.HandleFunc("POST /api/reminders/{id}/read", s.withCommon(s.withAuth(s.handleMarkReminderRead)))
	mux.HandleFunc("POST /api/reminders/{id}/dismiss", s.withCommon(s.withAuth(s.handleDismissReminder)))
	mux.HandleFunc("POST /api/reminders/{id}/trigger", s.withCommon(s.withAuth(s.handleTriggerReminder)))
	mux.HandleFunc("DELETE /api/reminders/{id}", s.withCommon(s.withAuth(s.handleDeleteReminder)))

	mux.HandleFunc("GET /api/dashboard", s.withCommon(s.withAuth(s.handleDashboard)))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withCommon adds request IDs, security headers, rate limiting on write
// methods, and request logging.
func (s *Server) withCommon(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := clientAddr(r)
		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			"client_ip", clientIP)

		if isWrite(r.Method) && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldRequestID, requestID,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				"client_ip", clientIP)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.logger.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatus, rw.statusCode,
			log.FieldDuration, duration.Milliseconds())
	}
}

type authedHandler func(w http.ResponseWriter, r *http.Request, identity auth.Identity)

// withAuth resolves the bearer token to an identity. Requests without a
// valid token never reach the handler.
func (s *Server) withAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}
		identity, err := s.tokens.Verify(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}
		next(w, r, identity)
	}
}

// track flags a record operation as in flight on the caller's session for
// the duration of the request, so the session's per-record loading state
// reflects server-side work. Advisory only; it never blocks the store call.
func (s *Server) track(identity auth.Identity, op, recordID string) func() {
	return s.sessions.Get(identity).Begin(op, recordID)
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// clientAddr extracts the client IP, considering proxies.
func clientAddr(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if i := strings.IndexByte(ip, ','); i >= 0 {
			return strings.TrimSpace(ip[:i])
		}
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
