package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/o3as/ensemble-service/internal/domain"
)

const maxRequestBytes = 1 << 20

// Service answers ensemble requests.
type Service interface {
	sharedobs.ReadinessChecker
	Models(filter string) []string
	Process(ctx context.Context, req domain.Request, kind domain.Kind) (domain.Result, error)
}

// Server exposes the ensemble API alongside health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	svc        Service
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API, /healthz, /readyz, and
// /metrics routes.
func NewServer(addr string, svc Service, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/models", s.handleModels)
	mux.HandleFunc("POST /api/v1/tco3_zm/raw", s.handleCompute(domain.KindRaw))
	mux.HandleFunc("POST /api/v1/tco3_zm", s.handleCompute(domain.KindPlot))
	mux.HandleFunc("POST /api/v1/tco3_return", s.handleCompute(domain.KindReturn))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.svc.Models(r.URL.Query().Get("select")))
}

// handleCompute decodes a request body over the defaults and writes the
// table matching kind. The request ID is echoed in X-Request-ID.
func (s *Server) handleCompute(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := domain.DefaultRequest()
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err := dec.Decode(&req); err != nil {
			s.writeError(w, fmt.Errorf("%w: decode body: %v", domain.ErrInvalidRequest, err))
			return
		}
		if req.ID == "" {
			req.ID = r.Header.Get("X-Request-ID")
		}

		res, err := s.svc.Process(r.Context(), req, kind)
		if err != nil {
			s.writeError(w, err)
			return
		}

		w.Header().Set("X-Request-ID", res.RequestID)
		switch kind {
		case domain.KindRaw:
			sharedobs.WriteJSON(w, http.StatusOK, res.Raw)
		case domain.KindPlot:
			sharedobs.WriteJSON(w, http.StatusOK, res.Plot)
		default:
			sharedobs.WriteJSON(w, http.StatusOK, res.Return)
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	sharedobs.WriteJSON(w, status, map[string]string{
		"status":  "error",
		"message": err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoDataForModel):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
