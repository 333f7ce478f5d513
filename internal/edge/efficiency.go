package edge

import "github.com/yourusername/value-radar/internal/models"

// neutralEfficiency is reported when there are too few prices to compare.
const neutralEfficiency = 0.5

// MarketEfficiency scores agreement between quoters on one outcome: 1 when every
// implied probability is identical, falling to 0 once their population variance
// reaches 0.001.
func MarketEfficiency(prices []float64) float64 {
	implied := make([]float64, 0, len(prices))
	for _, p := range prices {
		if models.ValidPrice(p) {
			implied = append(implied, 1/p)
		}
	}
	if len(implied) < 2 {
		return neutralEfficiency
	}

	var mean float64
	for _, q := range implied {
		mean += q
	}
	mean /= float64(len(implied))

	var variance float64
	for _, q := range implied {
		variance += (q - mean) * (q - mean)
	}
	variance /= float64(len(implied))

	if variance*1000 > 1 {
		return 0
	}
	return 1 - variance*1000
}
