package domain

import "fmt"

const (
	TierA       = "A"
	TierB       = "B"
	TierC       = "C"
	TierD       = "D"
	TierUnknown = "unknown"
)

// Tier is the valuation bracket derived from dividend yield. It sets
// the grid spacing and whether buys/sells may be signalled.
type Tier struct {
	Label         string   `json:"label"`
	GridPct       float64  `json:"gridPct"`
	CanBuy        bool     `json:"canBuy"`
	CanSell       bool     `json:"canSell"`
	DividendYield *float64 `json:"dividendYield,omitempty"`
}

func (t Tier) Describe() string {
	if t.DividendYield == nil {
		return t.Label
	}
	return fmt.Sprintf("%s (DY=%.1f%%)", t.Label, *t.DividendYield*100)
}
