package repository

//go:generate mockgen -source=state.repository.go -destination=mocks/mock_state.repository.go -package=mock_repository

import (
	"context"
	"encoding/json"
	"errors"
	"etfgrid/internal/domain"
	"etfgrid/internal/logger"
	"fmt"
	"os"
	"path/filepath"
)

// StateRepository persists the monitor state document between runs.
type StateRepository interface {
	// Load returns the stored state with an entry for every name. A
	// missing or unreadable document yields fresh state.
	Load(ctx context.Context, names []string) (*domain.State, error)
	Save(ctx context.Context, state *domain.State) error
	Path() string
}

func NewStateRepository(path string) StateRepository {
	return &stateRepositoryHandler{path: path}
}

type stateRepositoryHandler struct {
	path string
}

func (h stateRepositoryHandler) Path() string {
	return h.path
}

func (h stateRepositoryHandler) Load(ctx context.Context, names []string) (*domain.State, error) {
	log := logger.FromContext(ctx)

	b, err := os.ReadFile(h.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Infof("no state file at %s, starting fresh", h.path)
		return domain.NewState(names), nil
	}
	if err != nil {
		log.Errorf("failed to read state file %s, starting fresh: %v", h.path, err)
		return domain.NewState(names), nil
	}

	state := &domain.State{}
	if err := json.Unmarshal(b, state); err != nil {
		log.Errorf("failed to parse state file %s, starting fresh: %v", h.path, err)
		return domain.NewState(names), nil
	}

	if added := state.Merge(names); len(added) > 0 {
		log.Infof("added state for new assets %v", added)
	}
	return state, nil
}

// Save writes the document to a temp file and renames it over the old
// one, so a crash mid-write leaves the previous state intact.
func (h stateRepositoryHandler) Save(ctx context.Context, state *domain.State) error {
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	dir := filepath.Dir(h.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(h.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), h.path); err != nil {
		return fmt.Errorf("failed to replace state file %s: %w", h.path, err)
	}
	return nil
}
