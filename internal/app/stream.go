package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RafaelHerrera7/buda/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Stream handles GET /v1/portfolio/stream. The client sends one portfolio
// request after the upgrade; the server pushes a fresh approximate
// valuation on every interval tick until the client disconnects.
func (h *PortfolioHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error.
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	var req domain.PortfolioRequest
	if err := conn.ReadJSON(&req); err != nil {
		if werr := conn.WriteJSON(errorResponse{Detail: "invalid portfolio request: " + err.Error()}); werr != nil {
			h.logger.Warn("failed to write stream error frame", slog.Any("error", werr))
		}
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Detect client disconnect; no further inbound messages are expected.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if !h.pushValuation(ctx, conn, req) {
		return
	}

	ticker := time.NewTicker(h.streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !h.pushValuation(ctx, conn, req) {
				return
			}
		}
	}
}

// pushValuation values the portfolio once and writes the result or error
// frame. Returns false when the stream should end.
func (h *PortfolioHandler) pushValuation(ctx context.Context, conn *websocket.Conn, req domain.PortfolioRequest) bool {
	valuation, err := h.valuer.CalculateTotalValue(ctx, req)
	if err != nil {
		if werr := conn.WriteJSON(errorResponse{Detail: err.Error()}); werr != nil {
			h.logger.Warn("failed to write stream error frame", slog.Any("error", werr))
			return false
		}
		// Caller mistakes are terminal; upstream hiccups are not.
		var ae *domain.APIError
		if errors.As(err, &ae) && ae.IsClientFault() {
			return false
		}
		return true
	}

	if err := conn.WriteJSON(valueResponse{
		PortfolioValue: valuation.Total,
		FiatCurrency:   valuation.FiatCurrency,
	}); err != nil {
		return false
	}
	return true
}
