package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"expensetracker/internal/analysis"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
)

const defaultRequestTimeout = 10 * time.Second

// Deps are the collaborators the handlers call into.
type Deps struct {
	Engine    *analysis.Engine
	Budgets   *services.BudgetService
	Dashboard *services.DashboardService
	Reports   *services.ReportService
	Logger    *log.Logger

	// Ready reports whether the backing store can serve requests. Optional.
	Ready func(ctx context.Context) error
	// Now is the clock used for "today". Defaults to time.Now.
	Now func() time.Time
	// RequestTimeout bounds every API handler. Defaults to 10s.
	RequestTimeout time.Duration
}

type Server struct {
	http.Server
	engine      *analysis.Engine
	budgets     *services.BudgetService
	dashboard   *services.DashboardService
	reports     *services.ReportService
	logger      *log.Logger
	ready       func(ctx context.Context) error
	now         func() time.Time
	timeout     time.Duration
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		engine:      deps.Engine,
		budgets:     deps.Budgets,
		dashboard:   deps.Dashboard,
		reports:     deps.Reports,
		logger:      deps.Logger,
		ready:       deps.Ready,
		now:         deps.Now,
		timeout:     deps.RequestTimeout,
		rateLimiter: newRateLimiter(60),
		metrics:     &securityMetrics{},
	}
	if s.logger == nil {
		s.logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.timeout <= 0 {
		s.timeout = defaultRequestTimeout
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/insights", s.withSecurityHeaders(s.handleInsights))
	mux.HandleFunc("GET /api/dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("GET /api/reports", s.withSecurityHeaders(s.handleReport))
	mux.HandleFunc("GET /api/budgets", s.withSecurityHeaders(s.handleMonthBudgets))
	mux.HandleFunc("GET /api/budgets/usage", s.withSecurityHeaders(s.handleUsageHistory))
	mux.HandleFunc("GET /api/budgets/suggestion", s.withSecurityHeaders(s.handleSuggestion))
	mux.HandleFunc("POST /api/budgets/suggestion/apply", s.withSecurityHeaders(s.handleApplySuggestion))
	mux.HandleFunc("POST /api/budgets/clone", s.withSecurityHeaders(s.handleCloneBudgets))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           log.Middleware(s.logger)(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// today is the current calendar day in the server's clock.
func (s *Server) today() core.Date {
	return core.DateOf(s.now())
}

// withSecurityHeaders adds security headers, rate limiting of writes and
// the per-request deadline.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientIP := extractClientIP(r)

		if detectSuspiciousRequest(r, s.metrics) {
			log.FromContext(ctx).WarnContext(ctx, "Suspicious request",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			log.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
