package app

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/RafaelHerrera7/buda/internal/domain"
	"github.com/RafaelHerrera7/buda/internal/infra"
)

// Valuer is the valuation surface the handlers depend on.
type Valuer interface {
	CalculateTotalValue(ctx context.Context, req domain.PortfolioRequest) (*domain.Valuation, error)
	CalculateTotalValueExact(ctx context.Context, req domain.PortfolioRequest) (*domain.Valuation, error)
}

// Server owns the HTTP listener and routes.
type Server struct {
	cfg  *infra.Config
	http *http.Server
}

// NewServer builds the router and wraps it with access logging.
func NewServer(cfg *infra.Config, valuer Valuer) *Server {
	handler := NewPortfolioHandler(valuer, cfg.StreamInterval())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", handler.Health)
	mux.HandleFunc("POST /v1/portfolio/value", handler.Value)
	mux.HandleFunc("POST /v1/portfolio/value/exact", handler.ValueExact)
	mux.HandleFunc("GET /v1/portfolio/stream", handler.Stream)
	mux.HandleFunc("GET /debug/metrics", handler.Metrics)

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: withAccessLog(mux),
		},
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		slog.Info("✅ HTTP server listening", slog.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack keeps the WebSocket upgrade working through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// withAccessLog tags every request with an id and records latency.
func withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		infra.GlobalMetrics.RecordRequest(elapsed.Nanoseconds())

		slog.Info("request handled",
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", elapsed),
		)
	})
}
