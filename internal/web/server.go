// Package web provides the HTTP API of the timetable service: read-only
// schedule queries for everyone, and document ingestion plus maintenance
// operations for administrators.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/weifxx/timetable/internal/admins"
	"github.com/weifxx/timetable/internal/config"
	"github.com/weifxx/timetable/internal/files"
	"github.com/weifxx/timetable/internal/ingest"
	"github.com/weifxx/timetable/internal/store"
	mw "github.com/weifxx/timetable/internal/web/middleware"
)

// ScheduleStore is the query surface the handlers need.
type ScheduleStore interface {
	ListGroups(ctx context.Context) ([]string, error)
	ListDates(ctx context.Context) ([]string, error)
	LessonsForGroup(ctx context.Context, code string) ([]store.GroupLesson, error)
	LessonsForGroupOnDate(ctx context.Context, code, date string) ([]store.GroupLesson, error)
}

// Ingester processes uploaded schedule documents.
type Ingester interface {
	IngestUpload(ctx context.Context, fileName string, data []byte) (*ingest.Report, error)
}

// Fetcher pulls schedule documents from the college site on demand.
type Fetcher interface {
	FetchDay(ctx context.Context, day string) (*ingest.Report, error)
	FetchTomorrow(ctx context.Context) (*ingest.Report, error)
}

// Server is the HTTP server for the timetable API.
type Server struct {
	cfg     *config.Config
	store   ScheduleStore
	ingest  Ingester
	fetcher Fetcher // nil when no schedule page is configured
	files   *files.Manager
	admins  *admins.Registry
	router  *chi.Mux
	server  *http.Server
}

// NewServer wires the API routes. fetcher may be nil; the fetch endpoint
// then reports that fetching is not configured.
func NewServer(cfg *config.Config, st ScheduleStore, ing Ingester, fetcher Fetcher, fm *files.Manager, reg *admins.Registry) *Server {
	s := &Server{
		cfg:     cfg,
		store:   st,
		ingest:  ing,
		fetcher: fetcher,
		files:   fm,
		admins:  reg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Schedule queries
		r.Get("/groups", s.handleListGroups)
		r.Get("/dates", s.handleListDates)
		r.Get("/groups/{code}/lessons", s.handleGroupLessons)

		// Administrator operations
		r.Group(func(r chi.Router) {
			r.Use(mw.AdminOnly(s.admins))

			r.Post("/ingest", s.handleIngest)
			r.Post("/fetch", s.handleFetch)

			r.Get("/files", s.handleListFiles)
			r.Get("/files/stats", s.handleFileStats)
			r.Post("/cleanup", s.handleCleanup)

			r.Get("/admins", s.handleListAdmins)
			r.Post("/admins/{id}", s.handleAddAdmin)
			r.Delete("/admins/{id}", s.handleRemoveAdmin)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("http server listening", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every minute.
func (rl *rateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1,
			lastReset: time.Now(),
		}
		return true
	}

	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	if v.tokens <= 0 {
		return false
	}

	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by IP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
