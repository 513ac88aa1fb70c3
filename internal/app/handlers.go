package app

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/RafaelHerrera7/buda/internal/domain"
	"github.com/RafaelHerrera7/buda/internal/infra"
)

// PortfolioHandler exposes the valuation service over HTTP.
type PortfolioHandler struct {
	valuer         Valuer
	streamInterval time.Duration
	logger         *slog.Logger
}

// NewPortfolioHandler creates the handler set.
func NewPortfolioHandler(valuer Valuer, streamInterval time.Duration) *PortfolioHandler {
	return &PortfolioHandler{
		valuer:         valuer,
		streamInterval: streamInterval,
		logger:         slog.Default().With("module", "http_handler"),
	}
}

// errorResponse is the error body shape: {"detail": message}.
type errorResponse struct {
	Detail string `json:"detail"`
}

// valueResponse is the approximate-mode result body. No breakdown field.
type valueResponse struct {
	PortfolioValue float64 `json:"portfolio_value"`
	FiatCurrency   string  `json:"fiat_currency"`
}

// exactValueResponse adds the per-asset breakdown, which is always present
// in exact mode, as an empty object for an empty portfolio.
type exactValueResponse struct {
	PortfolioValue float64            `json:"portfolio_value"`
	FiatCurrency   string             `json:"fiat_currency"`
	Breakdown      map[string]float64 `json:"breakdown"`
}

// Health handles GET /.
func (h *PortfolioHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Detail: "not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"Hello": "Hello Buda!"})
}

// Value handles POST /v1/portfolio/value (approximate mode).
func (h *PortfolioHandler) Value(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePortfolio(w, r)
	if !ok {
		return
	}

	valuation, err := h.valuer.CalculateTotalValue(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, valueResponse{
		PortfolioValue: valuation.Total,
		FiatCurrency:   valuation.FiatCurrency,
	})
}

// ValueExact handles POST /v1/portfolio/value/exact (order-book fill mode).
func (h *PortfolioHandler) ValueExact(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePortfolio(w, r)
	if !ok {
		return
	}

	valuation, err := h.valuer.CalculateTotalValueExact(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	breakdown := valuation.Breakdown
	if breakdown == nil {
		breakdown = map[string]float64{}
	}

	h.writeJSON(w, http.StatusOK, exactValueResponse{
		PortfolioValue: valuation.Total,
		FiatCurrency:   valuation.FiatCurrency,
		Breakdown:      breakdown,
	})
}

// Metrics handles GET /debug/metrics.
func (h *PortfolioHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, infra.GlobalMetrics.Snapshot())
}

// decodePortfolio parses and minimally checks the request body.
func (h *PortfolioHandler) decodePortfolio(w http.ResponseWriter, r *http.Request) (domain.PortfolioRequest, bool) {
	var req domain.PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return req, false
	}
	if req.Portfolio == nil {
		h.writeError(w, domain.NewValidationError("portfolio is required"))
		return req, false
	}
	if req.FiatCurrency == "" {
		h.writeError(w, domain.NewValidationError("fiat_currency is required"))
		return req, false
	}
	return req, true
}

func (h *PortfolioHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError maps the domain status classification 1:1 onto the HTTP
// response.
func (h *PortfolioHandler) writeError(w http.ResponseWriter, err error) {
	infra.GlobalMetrics.RecordError()

	status := domain.StatusOf(err)

	var ae *domain.APIError
	detail := err.Error()
	if errors.As(err, &ae) {
		detail = ae.Message
	}

	if status >= 500 {
		h.logger.Error("request failed", slog.Int("status", status), slog.Any("error", err))
	}

	h.writeJSON(w, status, errorResponse{Detail: detail})
}
