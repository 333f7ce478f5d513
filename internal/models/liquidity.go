package models

// MarketLiquidity summarises the depth and dispersion of quotes for one outcome.
type MarketLiquidity struct {
	QuoterCount      int     `json:"quoter_count"`
	PriceSpreadPct   float64 `json:"price_spread_pct"`
	AverageOverround float64 `json:"average_overround"`
}

// SummarizeLiquidity counts the distinct quoters with a valid price, measures the
// relative spread (max-min)/min of their prices and averages the supplied per-quoter
// book overrounds.
func SummarizeLiquidity(quotes []PriceQuote, overrounds []float64) MarketLiquidity {
	seen := make(map[string]struct{}, len(quotes))
	minPrice, maxPrice := 0.0, 0.0
	for _, q := range quotes {
		if !ValidPrice(q.DecimalPrice) {
			continue
		}
		seen[q.QuoterID] = struct{}{}
		if minPrice == 0 || q.DecimalPrice < minPrice {
			minPrice = q.DecimalPrice
		}
		if q.DecimalPrice > maxPrice {
			maxPrice = q.DecimalPrice
		}
	}

	liq := MarketLiquidity{QuoterCount: len(seen)}
	if minPrice > 0 {
		liq.PriceSpreadPct = (maxPrice - minPrice) / minPrice
	}
	if len(overrounds) > 0 {
		sum := 0.0
		for _, o := range overrounds {
			sum += o
		}
		liq.AverageOverround = sum / float64(len(overrounds))
	}
	return liq
}

// BookOverround returns Σ(1/price) - 1 over one quoter's complete book.
// Invalid prices are ignored.
func BookOverround(prices []float64) float64 {
	total := 0.0
	for _, p := range prices {
		if ValidPrice(p) {
			total += 1.0 / p
		}
	}
	if total == 0 {
		return 0
	}
	return total - 1.0
}
