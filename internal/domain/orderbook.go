package domain

// BookLevel is one resting price level of an order book.
type BookLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// OrderBook holds the resting liquidity of a single market, ordered by
// price priority as returned by the exchange (best bid first, best ask
// first). Order books are ephemeral: fetched per valuation call, never
// cached, since they are far more volatile than last-traded prices.
type OrderBook struct {
	Asks []BookLevel `json:"asks"`
	Bids []BookLevel `json:"bids"`
}
