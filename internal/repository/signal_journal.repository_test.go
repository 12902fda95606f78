package repository

import (
	"context"
	"etfgrid/internal/domain"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_signalJournalRepositoryHandler(t *testing.T) {
	ctx := context.Background()
	repo := NewSignalJournalRepository(filepath.Join(t.TempDir(), "signals.csv"))
	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	rows, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, rows)

	runID := uuid.New()
	err = repo.Append(ctx, runID, []domain.Signal{
		{Kind: domain.SignalGridSell, Asset: "dividend", Symbol: "SH510880", Time: ts, Tier: "B", GridIndex: 1, GridPct: 0.04, LevelPrice: 104, CurrentPrice: 108, Units: 10},
		{Kind: domain.SignalGridSell, Asset: "dividend", Symbol: "SH510880", Time: ts, Tier: "B", GridIndex: 2, GridPct: 0.04, LevelPrice: 108, CurrentPrice: 108, Units: 10},
	})
	require.NoError(t, err)

	err = repo.Append(ctx, runID, []domain.Signal{
		{Kind: domain.SignalGridBuy, Asset: "dividend", Symbol: "SH510880", Time: ts, Tier: "B", GridIndex: 1, GridPct: 0.04, LevelPrice: 104, CurrentPrice: 103.5, Units: 10},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, runID, nil))

	rows, err = repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	rows, err = repo.List(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "", cmp.Diff([]SignalJournalRow{{
		RunID:        runID.String(),
		Time:         "2024-03-01T10:30:00Z",
		Kind:         "grid_buy",
		Asset:        "dividend",
		Symbol:       "SH510880",
		Tier:         "B",
		GridIndex:    1,
		GridPct:      0.04,
		LevelPrice:   104,
		CurrentPrice: 103.5,
		Units:        10,
	}}, rows))
}
