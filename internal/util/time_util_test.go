package util

import (
	"testing"
	"time"

	"etfgrid/internal/domain"

	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 12, 1, hour, minute, 0, 0, time.UTC)
}

func TestInTradeSession(t *testing.T) {
	start := domain.TimeOfDay{Hour: 9, Minute: 30}
	end := domain.TimeOfDay{Hour: 15, Minute: 0}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before open", at(9, 29), false},
		{"at open", at(9, 30), true},
		{"midday", at(11, 45), true},
		{"at close", at(15, 0), true},
		{"seconds past close", time.Date(2025, 12, 1, 15, 0, 45, 0, time.UTC), false},
		{"after close", at(15, 1), false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, InTradeSession(tt.now, start, end))
		})
	}
}

func TestShouldDoDailyPush(t *testing.T) {
	pushAt := domain.TimeOfDay{Hour: 15, Minute: 10}

	t.Run("before push time", func(t *testing.T) {
		require.False(t, ShouldDoDailyPush(at(15, 9), pushAt, nil))
	})
	t.Run("never pushed", func(t *testing.T) {
		require.True(t, ShouldDoDailyPush(at(15, 10), pushAt, nil))
	})
	t.Run("already pushed today", func(t *testing.T) {
		today := "2025-12-01"
		require.False(t, ShouldDoDailyPush(at(20, 0), pushAt, &today))
	})
	t.Run("pushed yesterday", func(t *testing.T) {
		yesterday := "2025-11-30"
		require.True(t, ShouldDoDailyPush(at(15, 30), pushAt, &yesterday))
	})
}
