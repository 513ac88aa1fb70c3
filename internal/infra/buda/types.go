package buda

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/RafaelHerrera7/buda/internal/domain"
)

// priceValue accepts a JSON string or number and keeps its textual form.
// Buda quotes prices as decimal strings but number elements appear in some
// payloads.
type priceValue string

func (p *priceValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = priceValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price value is neither string nor number: %s", data)
	}
	*p = priceValue(n.String())
	return nil
}

func (p priceValue) float() (float64, error) {
	d, err := decimal.NewFromString(string(p))
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// tickersResponse is the /tickers payload. Tickers is a pointer so a
// missing top-level field can be told apart from an empty list.
type tickersResponse struct {
	Tickers *[]wireTicker `json:"tickers"`
}

type wireTicker struct {
	MarketID  string       `json:"market_id"`
	LastPrice []priceValue `json:"last_price"`
}

func (r *tickersResponse) toSnapshot() *domain.TickerSnapshot {
	snap := &domain.TickerSnapshot{Tickers: make([]domain.Ticker, 0, len(*r.Tickers))}
	for _, wt := range *r.Tickers {
		prices := make([]string, len(wt.LastPrice))
		for i, p := range wt.LastPrice {
			prices[i] = string(p)
		}
		snap.Tickers = append(snap.Tickers, domain.Ticker{
			MarketID:  wt.MarketID,
			LastPrice: prices,
		})
	}
	return snap
}

// orderBookResponse is the /markets/{id}/order_book payload.
type orderBookResponse struct {
	OrderBook *wireOrderBook `json:"order_book"`
}

type wireOrderBook struct {
	Asks []wireLevel `json:"asks"`
	Bids []wireLevel `json:"bids"`
}

// wireLevel is a [price, size] pair.
type wireLevel []priceValue

func (l wireLevel) toLevel() (domain.BookLevel, error) {
	if len(l) < 2 {
		return domain.BookLevel{}, fmt.Errorf("order book level has %d elements, want 2", len(l))
	}
	price, err := l[0].float()
	if err != nil {
		return domain.BookLevel{}, fmt.Errorf("invalid level price %q: %w", l[0], err)
	}
	size, err := l[1].float()
	if err != nil {
		return domain.BookLevel{}, fmt.Errorf("invalid level size %q: %w", l[1], err)
	}
	return domain.BookLevel{Price: price, Size: size}, nil
}

func (b *wireOrderBook) toBook() (*domain.OrderBook, error) {
	book := &domain.OrderBook{
		Asks: make([]domain.BookLevel, 0, len(b.Asks)),
		Bids: make([]domain.BookLevel, 0, len(b.Bids)),
	}
	for _, wl := range b.Asks {
		level, err := wl.toLevel()
		if err != nil {
			return nil, err
		}
		book.Asks = append(book.Asks, level)
	}
	for _, wl := range b.Bids {
		level, err := wl.toLevel()
		if err != nil {
			return nil, err
		}
		book.Bids = append(book.Bids, level)
	}
	return book, nil
}
