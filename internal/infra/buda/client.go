package buda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/RafaelHerrera7/buda/internal/domain"
	"github.com/RafaelHerrera7/buda/internal/infra"
)

// Client is the Buda V2 market-data REST client (boundary layer). Every
// call is a single live request; retries, if desired, belong to the
// caller. All failures are normalized into domain.APIError with a status
// classification.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Buda API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		logger: slog.Default().With("module", "buda_client"),
	}
}

// FetchTickers retrieves the full bulk ticker snapshot.
func (c *Client) FetchTickers(ctx context.Context) (*domain.TickerSnapshot, error) {
	body, err := c.get(ctx, "/tickers")
	if err != nil {
		return nil, err
	}

	var resp tickersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewUpstreamError(500, "invalid response from server (not JSON)", err)
	}
	if resp.Tickers == nil {
		return nil, domain.NewUpstreamError(500, "invalid response: missing tickers field", nil)
	}

	snap := resp.toSnapshot()
	c.logger.Debug("fetched ticker snapshot", "markets", len(snap.Tickers))
	return snap, nil
}

// FetchOrderBook retrieves the live order book for one market. Order books
// are never cached on this side.
func (c *Client) FetchOrderBook(ctx context.Context, marketID string) (*domain.OrderBook, error) {
	body, err := c.get(ctx, "/markets/"+marketID+"/order_book")
	if err != nil {
		return nil, err
	}

	var resp orderBookResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewUpstreamError(500, "invalid response from server (not JSON)", err)
	}
	if resp.OrderBook == nil {
		return nil, domain.NewUpstreamError(400, "invalid response: missing order_book field", nil)
	}

	book, err := resp.OrderBook.toBook()
	if err != nil {
		return nil, domain.NewUpstreamError(400, fmt.Sprintf("invalid order book for %s: %v", marketID, err), err)
	}

	c.logger.Debug("fetched order book", "market", marketID, "bids", len(book.Bids), "asks", len(book.Asks))
	return book, nil
}

// get issues one GET and returns the response body, normalizing transport
// and HTTP failures into the error taxonomy.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, domain.NewUpstreamError(500, "failed to build request: "+err.Error(), err)
	}

	infra.GlobalMetrics.RecordUpstreamCall()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := classifyTransportError(err)
		c.logger.Warn("upstream request failed", "path", path, "status", apiErr.Status, "error", err)
		return nil, apiErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewUpstreamError(500, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("upstream returned error status", "path", path, "status", resp.StatusCode)
		return nil, domain.NewUpstreamError(resp.StatusCode, fmt.Sprintf("API error %d", resp.StatusCode), nil)
	}

	return body, nil
}

// classifyTransportError maps transport failures onto the status taxonomy:
// timeout 504, connection failure 503, anything else 500.
func classifyTransportError(err error) *domain.APIError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return domain.NewUpstreamError(504, "timeout connecting to Buda API", err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return domain.NewUpstreamError(503, "Buda API unavailable", err)
	}

	return domain.NewUpstreamError(500, "connection error: "+err.Error(), err)
}
