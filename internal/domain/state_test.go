package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func strPtr(s string) *string     { return &s }

func TestState_JSON(t *testing.T) {
	t.Run("round trip keeps every known asset", func(t *testing.T) {
		s := &State{
			Assets: map[string]AssetState{
				"dividend": {LastPrice: floatPtr(1.234), Tick: 7},
				"bank":     {LastPrice: nil, Tick: 0},
				"coal": {
					LastPrice: floatPtr(2.5),
					Tick:      3,
					Position:  intPtr(1200),
					AvgCost:   floatPtr(2.41),
					Trend:     "up",
				},
			},
			Meta: GlobalMeta{LastDailyPushDate: strPtr("2025-12-01")},
		}

		b, err := json.Marshal(s)
		require.NoError(t, err)

		reloaded := &State{}
		require.NoError(t, json.Unmarshal(b, reloaded))

		require.Equal(t, "", cmp.Diff(s, reloaded))
	})

	t.Run("meta lives under the reserved key", func(t *testing.T) {
		b, err := json.Marshal(State{
			Assets: map[string]AssetState{"bank": NewAssetState()},
		})
		require.NoError(t, err)

		raw := map[string]map[string]interface{}{}
		require.NoError(t, json.Unmarshal(b, &raw))

		require.Contains(t, raw, MetaKey)
		require.Contains(t, raw[MetaKey], "last_daily_push_date")
		require.Nil(t, raw["bank"]["last_price"])
		require.Equal(t, float64(0), raw["bank"]["tick"])
	})

	t.Run("file written by older version without meta", func(t *testing.T) {
		s := &State{}
		err := json.Unmarshal([]byte(`{"bank": {"last_price": 1.01, "tick": 4}}`), s)
		require.NoError(t, err)

		require.Nil(t, s.Meta.LastDailyPushDate)
		require.Equal(t, 4, s.Assets["bank"].Tick)
		require.Equal(t, 1.01, *s.Assets["bank"].LastPrice)
	})
}

func TestState_Merge(t *testing.T) {
	s := &State{
		Assets: map[string]AssetState{
			"bank":  {LastPrice: floatPtr(1.1), Tick: 9},
			"stale": {LastPrice: floatPtr(3), Tick: 2},
		},
	}

	added := s.Merge([]string{"bank", "coal"})

	require.Equal(t, []string{"coal"}, added)
	require.Equal(t, "", cmp.Diff(
		map[string]AssetState{
			"bank":  {LastPrice: floatPtr(1.1), Tick: 9},
			"stale": {LastPrice: floatPtr(3), Tick: 2},
			"coal":  {LastPrice: nil, Tick: 0},
		},
		s.Assets,
	))
}

func TestState_DeepCopy(t *testing.T) {
	s := NewState([]string{"bank"})
	s.Assets["bank"] = AssetState{LastPrice: floatPtr(1), Tick: 1}

	c := s.DeepCopy()
	*c.Assets["bank"].LastPrice = 2

	require.Equal(t, float64(1), *s.Assets["bank"].LastPrice)
}
