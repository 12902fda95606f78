package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// gridEpsilon absorbs float error so a price sitting exactly on a grid
// line is not floored onto the line below it.
const gridEpsilon = 1e-9

// GridIndex returns the grid line at or below price, where line g sits
// at basePrice * (1 + g*gridPct).
func GridIndex(price, basePrice, gridPct float64) int {
	return int(math.Floor((price/basePrice-1)/gridPct + gridEpsilon))
}

func LevelPrice(basePrice, gridPct float64, g int) float64 {
	level := decimal.NewFromFloat(basePrice).Mul(
		decimal.NewFromInt(1).Add(decimal.NewFromFloat(gridPct).Mul(decimal.NewFromInt(int64(g)))),
	)
	return level.Round(4).InexactFloat64()
}

// StepUnits is the suggested unit adjustment per crossed grid line.
func StepUnits(baseUnits int, stepPct float64) int {
	if baseUnits <= 0 {
		return 0
	}
	return int(math.Round(float64(baseUnits) * stepPct))
}

type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
)

// GridCrossings lists the lines crossed moving from lastGrid to
// currentGrid, nearest to lastGrid first.
func GridCrossings(lastGrid, currentGrid int) (Direction, []int) {
	switch {
	case currentGrid > lastGrid:
		out := make([]int, 0, currentGrid-lastGrid)
		for g := lastGrid + 1; g <= currentGrid; g++ {
			out = append(out, g)
		}
		return DirectionUp, out
	case currentGrid < lastGrid:
		out := make([]int, 0, lastGrid-currentGrid)
		for g := lastGrid - 1; g >= currentGrid; g-- {
			out = append(out, g)
		}
		return DirectionDown, out
	default:
		return DirectionNone, nil
	}
}
