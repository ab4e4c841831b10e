// Package http exposes the couple space as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"lovespace/internal/localstore"
	applog "lovespace/internal/log"
	"lovespace/internal/middleware/ratelimit"
	"lovespace/internal/middleware/security"
	"lovespace/internal/services"
)

type Server struct {
	http.Server
	space    *services.SpaceService
	settings *localstore.Store
	limiter  *ratelimit.Limiter

	// Cache cleanup management
	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and returns a ready-to-run server. settings
// may be nil when the process runs without a local settings database.
func NewServer(addr string, space *services.SpaceService, settings *localstore.Store) *Server {
	mux := http.NewServeMux()

	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	handler := headers.Middleware(limiter.Middleware(clientIP, rateLimited)(mux))

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: handler,
		},
		space:            space,
		settings:         settings,
		limiter:          limiter,
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/session", s.withRequestLog(s.handleGetSession))
	mux.HandleFunc("PUT /api/session", s.withRequestLog(s.handleSaveSession))
	mux.HandleFunc("DELETE /api/session", s.withRequestLog(s.handleClearSession))

	mux.HandleFunc("GET /api/diary", s.withRequestLog(s.handleListDiary))
	mux.HandleFunc("POST /api/diary", s.withRequestLog(s.handleCreateDiary))
	mux.HandleFunc("DELETE /api/diary/{id}", s.withRequestLog(s.handleDeleteDiary))

	mux.HandleFunc("GET /api/tasks", s.withRequestLog(s.handleListTasks))
	mux.HandleFunc("POST /api/tasks", s.withRequestLog(s.handleCreateTask))
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.withRequestLog(s.handleToggleTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.withRequestLog(s.handleDeleteTask))

	mux.HandleFunc("GET /api/expenses", s.withRequestLog(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withRequestLog(s.handleCreateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withRequestLog(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/moods", s.withRequestLog(s.handleListMoods))
	mux.HandleFunc("POST /api/moods", s.withRequestLog(s.handleCreateMood))
	mux.HandleFunc("DELETE /api/moods/{id}", s.withRequestLog(s.handleDeleteMood))

	mux.HandleFunc("GET /api/photos", s.withRequestLog(s.handleListPhotos))
	mux.HandleFunc("POST /api/photos", s.withRequestLog(s.handleCreatePhoto))
	mux.HandleFunc("DELETE /api/photos/{id}", s.withRequestLog(s.handleDeletePhoto))

	mux.HandleFunc("GET /api/calendar", s.withRequestLog(s.handleCalendar))
	mux.HandleFunc("GET /api/week", s.withRequestLog(s.handleWeek))
	mux.HandleFunc("GET /api/summary", s.withRequestLog(s.handleSummary))
	mux.HandleFunc("GET /api/overview", s.withRequestLog(s.handleOverview))
	mux.HandleFunc("POST /api/refresh", s.withRequestLog(s.handleRefresh))

	return s
}

// startCacheCleanup periodically drops cache entries past their stale
// retention window.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.space.CleanCache(); removed > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", removed)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withRequestLog adds a request ID and structured request logging.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP(r))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, duration.Milliseconds())
	}
}

type requestIDKey struct{}

// clientIP resolves the originating address, trusting proxy headers when
// present.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests, slow down"})
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

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
