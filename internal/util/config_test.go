package util

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"etfgrid/internal/domain"

	"github.com/stretchr/testify/require"
)

const jsonConfig = `{
  "ETF_CONFIG": {
    "dividend_low_vol": {
      "symbol": "SH515080",
      "base_price": 1.45,
      "dividend_yield": 0.065,
      "grid_low": 0.03,
      "step_pct": 0.02,
      "base_units": 10000
    },
    "coal": {
      "symbol": "SZ159930",
      "base_price": 2.1,
      "dividend_yield": null
    }
  },
  "ROTATION_CONFIG": {
    "enabled": true,
    "members": ["dividend_low_vol", "coal"],
    "min_weight": 0.3,
    "max_weight": 0.7,
    "group_name": "dividend pair"
  }
}`

const yamlConfig = `
ETF_CONFIG:
  zeta:
    symbol: SH520890
    base_price: 1.0
  alpha:
    symbol: SH515080
    base_price: 1.5
    provider: yahoo
STRATEGY:
  loop_interval: 300
  ma_period_short: 5
  ma_period_long: 20
  session_start: "09:30"
  session_end: "15:00"
  daily_push_time: "15:05"
`

func TestParseConfig(t *testing.T) {
	t.Run("json document", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(jsonConfig))
		require.NoError(t, err)

		require.Equal(t, []string{"dividend_low_vol", "coal"}, cfg.AssetNames())
		dlv := cfg.Assets["dividend_low_vol"]
		require.Equal(t, "SH515080", dlv.Symbol)
		require.Equal(t, 0.065, *dlv.DividendYield)
		require.Equal(t, 10000, dlv.BaseUnitsOrDefault())
		require.Equal(t, 0.02, dlv.StepPctOrDefault())
		require.Nil(t, cfg.Assets["coal"].DividendYield)

		require.NotNil(t, cfg.Rotation)
		require.True(t, cfg.Rotation.Enabled)
		require.Equal(t, "dividend pair", cfg.Rotation.GroupNameOrDefault())
		require.Nil(t, cfg.Strategy)
	})

	t.Run("yaml document keeps declaration order", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(yamlConfig))
		require.NoError(t, err)

		require.Equal(t, []string{"zeta", "alpha"}, cfg.AssetNames())
		require.Equal(t, domain.ProviderYahoo, cfg.Assets["alpha"].ProviderOrDefault())
		require.True(t, cfg.TrendEnabled())
		require.Equal(t, "15:05", cfg.Strategy.DailyPushTime)
	})

	t.Run("missing ETF_CONFIG is a config error", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{"ROTATION_CONFIG": {"enabled": false}}`))
		require.True(t, errors.Is(err, domain.ErrConfig))
	})

	t.Run("malformed document is a config error", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{"ETF_CONFIG": [`))
		require.True(t, errors.Is(err, domain.ErrConfig))
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "etf.conf"))
		require.True(t, errors.Is(err, domain.ErrConfig))
	})

	t.Run("reads from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "etf.conf")
		require.NoError(t, os.WriteFile(path, []byte(jsonConfig), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Len(t, cfg.Assets, 2)
	})
}
