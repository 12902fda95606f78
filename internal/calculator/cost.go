package calculator

import "github.com/shopspring/decimal"

// ApplyFill updates a position and its moving-average cost for a
// hypothetical fill of units at price. Positive units buy, negative
// units sell. Sells never take the position below zero and leave the
// average cost unchanged; a flat position has zero cost.
func ApplyFill(position int, avgCost float64, units int, price float64) (int, float64) {
	if units == 0 {
		return position, avgCost
	}

	if units > 0 {
		newPosition := position + units
		cost := decimal.NewFromFloat(avgCost).Mul(decimal.NewFromInt(int64(position))).
			Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(units))))
		newCost := cost.Div(decimal.NewFromInt(int64(newPosition))).Round(4)
		return newPosition, newCost.InexactFloat64()
	}

	newPosition := position + units
	if newPosition <= 0 {
		return 0, 0
	}
	return newPosition, avgCost
}
