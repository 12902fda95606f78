package calculator

import (
	"testing"

	"etfgrid/internal/domain"

	"github.com/stretchr/testify/require"
)

func floatPointer(f float64) *float64 {
	return &f
}

func TestDecideTier(t *testing.T) {
	cases := []struct {
		name    string
		dy      *float64
		label   string
		gridPct float64
		canBuy  bool
	}{
		{"no yield", nil, domain.TierUnknown, 0.04, true},
		{"cheap", floatPointer(0.075), domain.TierA, 0.03, true},
		{"cheap lower bound", floatPointer(0.07), domain.TierA, 0.03, true},
		{"fair", floatPointer(0.065), domain.TierB, 0.04, true},
		{"fair lower bound", floatPointer(0.06), domain.TierB, 0.04, true},
		{"rich", floatPointer(0.055), domain.TierC, 0.05, true},
		{"rich lower bound", floatPointer(0.05), domain.TierC, 0.05, true},
		{"expensive", floatPointer(0.045), domain.TierD, 0.06, false},
		{"negative", floatPointer(-0.01), domain.TierD, 0.06, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tier := DecideTier(domain.AssetConfig{
				Symbol:        "SH510880",
				BasePrice:     3,
				DividendYield: c.dy,
			})
			require.Equal(t, c.label, tier.Label)
			require.Equal(t, c.gridPct, tier.GridPct)
			require.Equal(t, c.canBuy, tier.CanBuy)
			require.True(t, tier.CanSell)
		})
	}

	t.Run("configured spacings override defaults", func(t *testing.T) {
		tier := DecideTier(domain.AssetConfig{
			DividendYield: floatPointer(0.08),
			GridLow:       floatPointer(0.025),
		})
		require.Equal(t, 0.025, tier.GridPct)

		tier = DecideTier(domain.AssetConfig{GridPct: floatPointer(0.02)})
		require.Equal(t, 0.02, tier.GridPct)
	})

	t.Run("describe", func(t *testing.T) {
		require.Equal(t, "A (DY=8.0%)", DecideTier(domain.AssetConfig{DividendYield: floatPointer(0.08)}).Describe())
		require.Equal(t, "unknown", DecideTier(domain.AssetConfig{}).Describe())
	})
}
