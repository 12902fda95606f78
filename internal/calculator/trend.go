package calculator

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

const (
	TrendUp   = "up"
	TrendDown = "down"
)

// MovingAverage is the mean of the last period values.
func MovingAverage(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("invalid moving average period %d", period)
	}
	if len(values) < period {
		return 0, fmt.Errorf("need %d values for moving average, got %d", period, len(values))
	}
	return stats.Mean(values[len(values)-period:])
}

// TrendRegime compares the short and long moving averages of closes.
// Equal averages return previous so the regime does not flip on a tie.
func TrendRegime(closes []float64, shortPeriod, longPeriod int, previous string) (string, float64, float64, error) {
	short, err := MovingAverage(closes, shortPeriod)
	if err != nil {
		return previous, 0, 0, err
	}
	long, err := MovingAverage(closes, longPeriod)
	if err != nil {
		return previous, 0, 0, err
	}
	switch {
	case short > long:
		return TrendUp, short, long, nil
	case short < long:
		return TrendDown, short, long, nil
	default:
		return previous, short, long, nil
	}
}

// DetectTrendCross reports whether the regime changed from a known
// previous regime. The first observed regime is never a cross.
func DetectTrendCross(previous, current string) bool {
	return previous != "" && current != "" && previous != current
}
