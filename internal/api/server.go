package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bistro/internal/config"
	"bistro/internal/export"
	"bistro/internal/metrics"
	"bistro/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Server exposes the public site API and the /admin back-office API
// over a single HTTP listener.
type Server struct {
	cfg          *config.Config
	reservations *service.ReservationService
	schedule     *service.ScheduleService
	content      *service.ContentService
	exporter     *export.Exporter
	auth         *Auth
	limiter      *rateLimiter
	server       *http.Server
	logger       *zerolog.Logger
}

type ServerDeps struct {
	Reservations *service.ReservationService
	Schedule     *service.ScheduleService
	Content      *service.ContentService
	Exporter     *export.Exporter
	Auth         *Auth
}

func NewServer(cfg *config.Config, deps ServerDeps, logger *zerolog.Logger) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	s := &Server{
		cfg:          cfg,
		reservations: deps.Reservations,
		schedule:     deps.Schedule,
		content:      deps.Content,
		exporter:     deps.Exporter,
		auth:         deps.Auth,
		limiter:      newRateLimiter(cfg.HTTP.RateLimit),
		logger:       logger,
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           s.loggingMiddleware(s.routes()),
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadHeaderTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Public site.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /menu", s.handleGetMenu)
	mux.HandleFunc("GET /blogs", s.handleListBlogs)
	mux.HandleFunc("GET /blogs/{slug}", s.handleGetBlog)
	mux.HandleFunc("GET /opening-hours", s.handleGetOpeningHours)
	mux.HandleFunc("GET /reservations/slots", s.handleGetSlots)
	mux.HandleFunc("POST /reservations", s.handleCreateReservation)

	// Uploaded images are served as-is.
	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.Uploads.Path)))
	mux.Handle("GET /uploads/", uploads)

	// Back office. Everything except login sits behind JWT auth.
	mux.HandleFunc("POST /admin/login", s.handleAdminLogin)

	admin := http.NewServeMux()
	admin.HandleFunc("GET /admin/me", s.handleAdminMe)
	admin.HandleFunc("GET /admin/reservations", s.handleAdminListReservations)
	admin.HandleFunc("GET /admin/reservations/export", s.handleAdminExportReservations)
	admin.HandleFunc("PUT /admin/reservations/{id}/cancel", s.handleAdminCancelReservation)
	admin.HandleFunc("GET /admin/opening-hours", s.handleAdminGetSchedule)
	admin.HandleFunc("PUT /admin/opening-hours", s.handleAdminUpdateSchedule)
	admin.HandleFunc("GET /admin/menu/categories", s.handleAdminListCategories)
	admin.HandleFunc("POST /admin/menu/categories", s.handleAdminCreateCategory)
	admin.HandleFunc("PUT /admin/menu/categories/{id}", s.handleAdminUpdateCategory)
	admin.HandleFunc("DELETE /admin/menu/categories/{id}", s.handleAdminDeleteCategory)
	admin.HandleFunc("GET /admin/menu/items", s.handleAdminListMenuItems)
	admin.HandleFunc("POST /admin/menu/items", s.handleAdminCreateMenuItem)
	admin.HandleFunc("PUT /admin/menu/items/{id}", s.handleAdminUpdateMenuItem)
	admin.HandleFunc("DELETE /admin/menu/items/{id}", s.handleAdminDeleteMenuItem)
	admin.HandleFunc("GET /admin/blogs", s.handleAdminListBlogs)
	admin.HandleFunc("POST /admin/blogs", s.handleAdminCreateBlog)
	admin.HandleFunc("GET /admin/blogs/{id}", s.handleAdminGetBlog)
	admin.HandleFunc("PUT /admin/blogs/{id}", s.handleAdminUpdateBlog)
	admin.HandleFunc("DELETE /admin/blogs/{id}", s.handleAdminDeleteBlog)

	mux.Handle("/admin/", s.auth.Middleware(admin))

	return mux
}

func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		metrics.IncHTTP(r.Method + " " + r.URL.Path)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", clientKey(r)).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
