package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Assets: map[string]AssetConfig{
			"dividend": {Symbol: "SH515080", BasePrice: 1.5},
			"bank":     {Symbol: "SZ159887", BasePrice: 1.2, Provider: ProviderYahoo},
		},
		AssetOrder: []string{"dividend", "bank"},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("empty assets", func(t *testing.T) {
		err := Config{}.Validate()
		require.True(t, errors.Is(err, ErrConfig))
	})

	t.Run("non-positive base price", func(t *testing.T) {
		c := validConfig()
		c.Assets["bank"] = AssetConfig{Symbol: "SZ159887", BasePrice: 0}
		err := c.Validate()
		require.True(t, errors.Is(err, ErrConfig))
		require.Contains(t, err.Error(), "base_price")
	})

	t.Run("zero grid spacing", func(t *testing.T) {
		c := validConfig()
		zero := 0.0
		c.Assets["bank"] = AssetConfig{Symbol: "SZ159887", BasePrice: 1, GridMid: &zero}
		err := c.Validate()
		require.True(t, errors.Is(err, ErrConfig))
		require.Contains(t, err.Error(), "grid_mid")
	})

	t.Run("unknown provider", func(t *testing.T) {
		c := validConfig()
		c.Assets["bank"] = AssetConfig{Symbol: "X", BasePrice: 1, Provider: "bloomberg"}
		require.True(t, errors.Is(c.Validate(), ErrConfig))
	})

	t.Run("inverted rotation bounds", func(t *testing.T) {
		c := validConfig()
		c.Rotation = &RotationConfig{MinWeight: floatPtr(0.8), MaxWeight: floatPtr(0.2)}
		require.True(t, errors.Is(c.Validate(), ErrConfig))
	})

	t.Run("strategy ma periods", func(t *testing.T) {
		c := validConfig()
		c.Strategy = &StrategyConfig{MaPeriodShort: intPtr(20), MaPeriodLong: intPtr(5)}
		require.True(t, errors.Is(c.Validate(), ErrConfig))
	})

	t.Run("strategy bad clock", func(t *testing.T) {
		c := validConfig()
		c.Strategy = &StrategyConfig{SessionStart: "9h30"}
		require.True(t, errors.Is(c.Validate(), ErrConfig))
	})
}

func TestConfig_Defaults(t *testing.T) {
	a := AssetConfig{Symbol: "SH515080", BasePrice: 1}
	require.Equal(t, 0.04, a.GridPctOrDefault())
	require.Equal(t, 0.03, a.GridLowOrDefault())
	require.Equal(t, 0.06, a.GridExpensiveOrDefault())
	require.Equal(t, 0.01, a.StepPctOrDefault())
	require.Equal(t, 0, a.BaseUnitsOrDefault())
	require.Equal(t, ProviderEastmoney, a.ProviderOrDefault())

	c := validConfig()
	require.Equal(t, 10*time.Second, c.LoopInterval())
	c.Strategy = &StrategyConfig{}
	require.Equal(t, 600*time.Second, c.LoopInterval())
	require.True(t, c.TrendEnabled())

	r := RotationConfig{}
	require.Equal(t, 0.3, r.MinWeightOrDefault())
	require.Equal(t, 0.7, r.MaxWeightOrDefault())
	require.Equal(t, 0.10, r.RebalanceThresholdOrDefault())
	require.Equal(t, "rotation", r.GroupNameOrDefault())
}

func TestConfig_AssetNames(t *testing.T) {
	c := validConfig()
	require.Equal(t, []string{"dividend", "bank"}, c.AssetNames())

	c.AssetOrder = nil
	require.Equal(t, []string{"bank", "dividend"}, c.AssetNames())
}
