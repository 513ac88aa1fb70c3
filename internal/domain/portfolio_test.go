package domain

import "testing"

func TestMarketID(t *testing.T) {
	if got := MarketID("btc", "clp"); got != "BTC-CLP" {
		t.Errorf("MarketID = %q, want BTC-CLP", got)
	}
	if got := MarketID("USDT", "pen"); got != "USDT-PEN" {
		t.Errorf("MarketID = %q, want USDT-PEN", got)
	}
}

func TestSupportedPairs(t *testing.T) {
	pairs := DefaultSupportedPairs

	t.Run("known pair", func(t *testing.T) {
		if !pairs.Supports("BTC", "CLP") {
			t.Error("BTC-CLP should be supported")
		}
		if !pairs.Supports("btc", "clp") {
			t.Error("Lookup should be case-insensitive on input")
		}
	})

	t.Run("unknown base", func(t *testing.T) {
		if pairs.SupportsBase("XYZ") {
			t.Error("XYZ should not be a supported base")
		}
		if pairs.Supports("XYZ", "CLP") {
			t.Error("XYZ-CLP should not be supported")
		}
	})

	t.Run("unsupported fiat for known base", func(t *testing.T) {
		if pairs.Supports("BTC", "USD") {
			t.Error("BTC-USD should not be supported")
		}
	})
}

func TestSnapshotFind(t *testing.T) {
	snap := &TickerSnapshot{Tickers: []Ticker{
		{MarketID: "BTC-CLP", LastPrice: []string{"80000000.0"}},
		{MarketID: "ETH-CLP", LastPrice: []string{"3000000.0"}},
	}}

	if ticker, ok := snap.Find("ETH-CLP"); !ok || ticker.LastPrice[0] != "3000000.0" {
		t.Errorf("Find(ETH-CLP) = %+v, %v", ticker, ok)
	}
	if _, ok := snap.Find("btc-clp"); ok {
		t.Error("Find should be an exact, case-sensitive match")
	}
}
