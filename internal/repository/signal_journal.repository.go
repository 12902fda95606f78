package repository

//go:generate mockgen -source=signal_journal.repository.go -destination=mocks/mock_signal_journal.repository.go -package=mock_repository

import (
	"context"
	"errors"
	"etfgrid/internal/domain"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

type SignalJournalRow struct {
	RunID        string  `csv:"run_id" json:"run_id"`
	Time         string  `csv:"time" json:"time"`
	Kind         string  `csv:"kind" json:"kind"`
	Asset        string  `csv:"asset" json:"asset"`
	Symbol       string  `csv:"symbol" json:"symbol"`
	Tier         string  `csv:"tier" json:"tier"`
	GridIndex    int     `csv:"grid_index" json:"grid_index"`
	GridPct      float64 `csv:"grid_pct" json:"grid_pct"`
	LevelPrice   float64 `csv:"level_price" json:"level_price"`
	CurrentPrice float64 `csv:"current_price" json:"current_price"`
	Units        int     `csv:"units" json:"units"`
}

// SignalJournalRepository keeps an append-only CSV record of every
// emitted signal.
type SignalJournalRepository interface {
	Append(ctx context.Context, runID uuid.UUID, signals []domain.Signal) error
	List(ctx context.Context, limit int) ([]SignalJournalRow, error)
}

func NewSignalJournalRepository(path string) SignalJournalRepository {
	return &signalJournalRepositoryHandler{path: path}
}

type signalJournalRepositoryHandler struct {
	mu   sync.Mutex
	path string
}

func (h *signalJournalRepositoryHandler) Append(ctx context.Context, runID uuid.UUID, signals []domain.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	rows := make([]SignalJournalRow, 0, len(signals))
	for _, s := range signals {
		rows = append(rows, SignalJournalRow{
			RunID:        runID.String(),
			Time:         s.Time.Format(time.RFC3339),
			Kind:         string(s.Kind),
			Asset:        s.Asset,
			Symbol:       s.Symbol,
			Tier:         s.Tier,
			GridIndex:    s.GridIndex,
			GridPct:      s.GridPct,
			LevelPrice:   s.LevelPrice,
			CurrentPrice: s.CurrentPrice,
			Units:        s.Units,
		})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	info, err := os.Stat(h.path)
	isNew := errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open signal journal %s: %w", h.path, err)
	}
	defer f.Close()

	if isNew {
		err = gocsv.Marshal(&rows, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(&rows, f)
	}
	if err != nil {
		return fmt.Errorf("failed to write signal journal: %w", err)
	}
	return nil
}

// List returns the most recent limit rows, oldest first. A limit of 0
// returns everything.
func (h *signalJournalRepositoryHandler) List(ctx context.Context, limit int) ([]SignalJournalRow, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return []SignalJournalRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open signal journal %s: %w", h.path, err)
	}
	defer f.Close()

	rows := []SignalJournalRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return rows, nil
		}
		return nil, fmt.Errorf("failed to read signal journal: %w", err)
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	return rows, nil
}
