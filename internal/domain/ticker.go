package domain

// Ticker is one market entry from a bulk /tickers fetch. LastPrice is kept
// as the raw decimal-string list the exchange returns; parsing to a number
// happens at resolution time so a single bad entry cannot poison a whole
// snapshot.
type Ticker struct {
	MarketID  string   `json:"market_id"`
	LastPrice []string `json:"last_price"`
}

// TickerSnapshot is an immutable point-in-time bulk fetch of all tickers.
// It is produced by the gateway and owned by the snapshot cache once stored.
type TickerSnapshot struct {
	Tickers []Ticker `json:"tickers"`
}

// Find returns the first ticker whose market id matches exactly. Market ids
// are expected unique, so first match wins.
func (s *TickerSnapshot) Find(marketID string) (Ticker, bool) {
	for _, t := range s.Tickers {
		if t.MarketID == marketID {
			return t, true
		}
	}
	return Ticker{}, false
}
