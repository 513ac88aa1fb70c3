package domain

import "strings"

// PortfolioRequest is a caller-supplied set of holdings to value in a
// single fiat currency. Validated by the orchestrator before use.
type PortfolioRequest struct {
	Portfolio    map[string]float64 `json:"portfolio"`
	FiatCurrency string             `json:"fiat_currency"`
}

// Valuation is the result of valuing a portfolio. Breakdown carries the
// per-asset contribution; it is nil in approximate mode and a non-nil map
// (possibly empty) in exact mode. The presentation layer owns the wire
// shape of both variants.
type Valuation struct {
	Total        float64
	FiatCurrency string
	Breakdown    map[string]float64
}

// MarketID builds the exchange market identifier for a base/quote pair,
// e.g. MarketID("btc", "clp") == "BTC-CLP".
func MarketID(base, quote string) string {
	return strings.ToUpper(base) + "-" + strings.ToUpper(quote)
}

// SupportedPairs maps an upper-case base asset symbol to the fiat symbols
// it can be valued in. Consulted before any network call so unsupported
// combinations never reach the exchange.
type SupportedPairs map[string][]string

// DefaultSupportedPairs mirrors the markets Buda quotes in fiat.
var DefaultSupportedPairs = SupportedPairs{
	"BTC":  {"CLP", "COP", "PEN"},
	"ETH":  {"CLP", "COP", "PEN"},
	"BCH":  {"CLP", "COP", "PEN"},
	"LTC":  {"CLP", "COP", "PEN"},
	"USDC": {"CLP", "COP", "PEN"},
	"USDT": {"CLP", "COP", "PEN"},
}

// SupportsBase reports whether the base asset is known at all.
func (p SupportedPairs) SupportsBase(base string) bool {
	_, ok := p[strings.ToUpper(base)]
	return ok
}

// Supports reports whether the base asset can be valued in the given fiat.
func (p SupportedPairs) Supports(base, fiat string) bool {
	for _, f := range p[strings.ToUpper(base)] {
		if f == strings.ToUpper(fiat) {
			return true
		}
	}
	return false
}

// Fiats returns the fiat symbols supported for a base asset.
func (p SupportedPairs) Fiats(base string) []string {
	return p[strings.ToUpper(base)]
}
