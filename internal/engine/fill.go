package engine

import (
	"github.com/RafaelHerrera7/buda/internal/domain"
)

// FillEpsilon bounds the residual quantity considered fully filled.
// Floating subtraction will not reach exactly zero.
const FillEpsilon = 1e-12

// Fill simulates a market sell of quantity against the book's bids,
// consuming levels greedily in the order supplied (best price first).
// It returns the volume-weighted total cost, not an average price.
//
// Each level contributes min(levelSize, remaining) at its own price. If
// the bids are exhausted while more than FillEpsilon remains unfilled,
// the fill is impossible and an insufficient-liquidity error is returned
// with no partial cost.
func Fill(marketID string, book *domain.OrderBook, quantity float64) (float64, error) {
	remaining := quantity
	cost := 0.0

	for _, level := range book.Bids {
		filled := level.Size
		if remaining < filled {
			filled = remaining
		}
		cost += level.Price * filled
		remaining -= filled

		if remaining <= FillEpsilon {
			return cost, nil
		}
	}

	if remaining > FillEpsilon {
		return 0, domain.NewLiquidityError(marketID, quantity)
	}
	return cost, nil
}
