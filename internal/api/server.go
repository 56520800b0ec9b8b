// Package api exposes the gear query over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/service/bis"
	"go.uber.org/zap"
)

type QueryEngine interface {
	Query(ctx context.Context, q domain.BISQuery) domain.QueryResult
}

// HealthFunc reports component status for /healthz. A false ok turns the
// response into a 503.
type HealthFunc func(ctx context.Context) (status map[string]any, ok bool)

type Config struct {
	Addr         string
	QueryTimeout time.Duration
}

type Server struct {
	engine QueryEngine
	health HealthFunc
	cfg    Config
	logger *zap.Logger
	router chi.Router
	srv    *http.Server
}

// QueryResponse is the body of GET /api/bis.
type QueryResponse struct {
	Payload domain.Payload     `json:"payload"`
	Result  domain.QueryResult `json:"result"`
}

func NewServer(engine QueryEngine, health HealthFunc, cfg Config, logger *zap.Logger) *Server {
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 2 * time.Minute
	}
	s := &Server{
		engine: engine,
		health: health,
		cfg:    cfg,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.QueryTimeout))
		r.Get("/bis", s.handleBIS)
	})

	s.router = r
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background until Shutdown.
func (s *Server) Start() {
	s.srv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.logger.Info("HTTP API listening", zap.String("addr", s.cfg.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP API stopped", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleBIS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := domain.BISQuery{
		Class:      q.Get("class"),
		Spec:       q.Get("spec"),
		HeroTalent: firstNonEmpty(q.Get("hero"), q.Get("hero_talent")),
		Slot:       q.Get("slot"),
	}

	result := s.engine.Query(r.Context(), query)
	status := http.StatusOK
	if result.IsError() {
		status = http.StatusBadRequest
	}

	writeJSON(w, status, QueryResponse{
		Payload: bis.BuildPayload(result),
		Result:  result,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	ok := true
	if s.health != nil {
		var status map[string]any
		status, ok = s.health(r.Context())
		for k, v := range status {
			body[k] = v
		}
	}

	code := http.StatusOK
	if !ok {
		body["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, body)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
