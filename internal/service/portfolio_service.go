package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/RafaelHerrera7/buda/internal/domain"
	"github.com/RafaelHerrera7/buda/internal/engine"
	"github.com/RafaelHerrera7/buda/internal/infra"
)

// MarketDataClient is the upstream gateway consumed by the service.
type MarketDataClient interface {
	FetchTickers(ctx context.Context) (*domain.TickerSnapshot, error)
	FetchOrderBook(ctx context.Context, marketID string) (*domain.OrderBook, error)
}

// PortfolioService values portfolios against live Buda market data.
//
// Last-traded prices come from a TTL-cached bulk snapshot; order books are
// always fetched fresh because they are far more volatile. That asymmetry
// is intentional.
type PortfolioService struct {
	client     MarketDataClient
	cache      *SnapshotCache
	pairs      domain.SupportedPairs
	allowShort bool
	logger     *slog.Logger

	// fetchMu serializes cache-miss fetches so concurrent misses produce
	// a single upstream call.
	fetchMu sync.Mutex
}

// Option configures a PortfolioService.
type Option func(*PortfolioService)

// WithSupportedPairs overrides the built-in pair table.
func WithSupportedPairs(pairs domain.SupportedPairs) Option {
	return func(s *PortfolioService) {
		s.pairs = pairs
	}
}

// WithShortPositions permits negative quantities, which model short
// positions. Off by default: a negative quantity is rejected as invalid.
func WithShortPositions(allow bool) Option {
	return func(s *PortfolioService) {
		s.allowShort = allow
	}
}

// NewPortfolioService creates a valuation service backed by the given
// gateway and snapshot cache.
func NewPortfolioService(client MarketDataClient, cache *SnapshotCache, opts ...Option) *PortfolioService {
	s := &PortfolioService{
		client: client,
		cache:  cache,
		pairs:  domain.DefaultSupportedPairs,
		logger: slog.Default().With("module", "portfolio_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CalculateTotalValue values the portfolio with last-traded prices.
//
// The whole portfolio is validated before any network call: a batch that
// will be rejected must not consume upstream quota. Quantities below zero
// are rejected unless short positions are enabled; pairs absent from the
// supported table are rejected outright.
func (s *PortfolioService) CalculateTotalValue(ctx context.Context, req domain.PortfolioRequest) (*domain.Valuation, error) {
	fiat := strings.ToUpper(req.FiatCurrency)

	if err := s.validate(req, fiat); err != nil {
		return nil, err
	}

	total := 0.0
	for base, quantity := range req.Portfolio {
		price, err := s.currentPrice(ctx, domain.MarketID(base, fiat))
		if err != nil {
			return nil, err
		}
		total += price * quantity
	}

	return &domain.Valuation{Total: total, FiatCurrency: fiat}, nil
}

// CalculateTotalValueExact values the portfolio by walking each market's
// live order book, producing the exact achievable value plus a per-asset
// breakdown. No pair pre-validation: the book fetch itself fails for
// unsupported markets with an upstream error. A failure on any one asset
// aborts the whole valuation.
func (s *PortfolioService) CalculateTotalValueExact(ctx context.Context, req domain.PortfolioRequest) (*domain.Valuation, error) {
	fiat := strings.ToUpper(req.FiatCurrency)

	total := 0.0
	breakdown := make(map[string]float64, len(req.Portfolio))

	for base, quantity := range req.Portfolio {
		marketID := domain.MarketID(base, fiat)

		book, err := s.client.FetchOrderBook(ctx, marketID)
		if err != nil {
			return nil, err
		}

		cost, err := engine.Fill(marketID, book, quantity)
		if err != nil {
			return nil, err
		}

		breakdown[strings.ToUpper(base)] = cost
		total += cost
	}

	return &domain.Valuation{Total: total, FiatCurrency: fiat, Breakdown: breakdown}, nil
}

// validate runs the fail-fast checks for approximate mode.
func (s *PortfolioService) validate(req domain.PortfolioRequest, fiat string) error {
	if !s.allowShort {
		for base, qty := range req.Portfolio {
			if qty < 0 {
				return domain.NewValidationError("invalid (negative) quantity for %s: %v", base, qty)
			}
		}
	}

	for base := range req.Portfolio {
		baseUpper := strings.ToUpper(base)

		if !s.pairs.SupportsBase(baseUpper) {
			return domain.NewValidationError("base currency '%s' is not supported", baseUpper)
		}
		if !s.pairs.Supports(baseUpper, fiat) {
			return domain.NewValidationError("pair '%s-%s' is not valid; supported fiat currencies for %s are: %s",
				baseUpper, fiat, baseUpper, strings.Join(s.pairs.Fiats(baseUpper), ", "))
		}
	}

	return nil
}

// currentPrice resolves the last-traded price for a market, consulting and
// refreshing the snapshot cache. Cache misses are single-flighted.
func (s *PortfolioService) currentPrice(ctx context.Context, marketID string) (float64, error) {
	if snap, ok := s.cache.Get(); ok {
		infra.GlobalMetrics.RecordCacheHit()
		return extractPrice(snap, marketID)
	}

	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	// Another request may have refreshed the snapshot while we waited.
	snap, ok := s.cache.Get()
	if !ok {
		infra.GlobalMetrics.RecordCacheMiss()

		fresh, err := s.client.FetchTickers(ctx)
		if err != nil {
			return 0, err
		}
		s.cache.Set(fresh)
		snap = fresh

		s.logger.Debug("ticker snapshot refreshed", "markets", len(snap.Tickers))
	}

	return extractPrice(snap, marketID)
}

// extractPrice scans the snapshot for an exact market id match and parses
// the first element of its last_price list.
func extractPrice(snap *domain.TickerSnapshot, marketID string) (float64, error) {
	ticker, ok := snap.Find(marketID)
	if !ok {
		return 0, domain.NewNotFoundError(marketID)
	}

	if len(ticker.LastPrice) == 0 {
		return 0, domain.NewUpstreamError(500, "invalid price for "+marketID, nil)
	}

	price, err := decimal.NewFromString(ticker.LastPrice[0])
	if err != nil {
		return 0, domain.NewUpstreamError(500, "invalid price for "+marketID, err)
	}

	return price.InexactFloat64(), nil
}
