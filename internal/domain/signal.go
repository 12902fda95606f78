package domain

import (
	"strings"
	"time"
)

type SignalKind string

const (
	SignalGridBuy   SignalKind = "grid_buy"
	SignalGridSell  SignalKind = "grid_sell"
	SignalTrendUp   SignalKind = "trend_up"
	SignalTrendDown SignalKind = "trend_down"
	SignalRotation  SignalKind = "rotation"
)

type Signal struct {
	Kind         SignalKind `json:"kind"`
	Asset        string     `json:"asset"`
	Symbol       string     `json:"symbol"`
	Time         time.Time  `json:"time"`
	Tier         string     `json:"tier"`
	GridIndex    int        `json:"gridIndex"`
	GridPct      float64    `json:"gridPct"`
	LevelPrice   float64    `json:"levelPrice"`
	CurrentPrice float64    `json:"currentPrice"`
	Units        int        `json:"units"`
	Message      string     `json:"message"`
}

// AssetResult is the outcome of evaluating one asset in a cycle.
// Err is set when the asset was skipped; State is then the unchanged
// prior state and Price is nil.
type AssetResult struct {
	Name    string
	Price   *float64
	State   AssetState
	Tier    Tier
	Grid    *int
	Signals []Signal
	Err     error
}

// JoinMessages joins signal texts with a blank line, the format used
// for a single outbound notification.
func JoinMessages(signals []Signal) string {
	parts := make([]string, 0, len(signals))
	for _, s := range signals {
		if s.Message != "" {
			parts = append(parts, s.Message)
		}
	}
	return strings.Join(parts, "\n\n")
}
