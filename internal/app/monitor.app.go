package app

import (
	"context"
	"etfgrid/internal/calculator"
	"etfgrid/internal/domain"
	"etfgrid/internal/logger"
	"etfgrid/internal/metrics"
	"etfgrid/internal/repository"
	"etfgrid/internal/service"
	"etfgrid/internal/util"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MonitorApp owns the state document and drives evaluation cycles.
// Cycles are serialized; readers get deep copies and never wait on a
// running cycle.
type MonitorApp struct {
	Config                  domain.Config
	StateRepository         repository.StateRepository
	SignalJournalRepository repository.SignalJournalRepository
	GridService             service.GridService
	TrendService            service.TrendService
	RotationService         service.RotationService
	NotificationService     service.NotificationService
	Clock                   func() time.Time

	cycleMu sync.Mutex
	stateMu sync.RWMutex
	state   *domain.State
	last    *CycleResult
}

type CycleResult struct {
	RunID       uuid.UUID
	Time        time.Time
	InSession   bool
	DailyPushed bool
	Assets      []domain.AssetResult
	Rotation    *domain.RotationPlan
	Signals     []domain.Signal
	NotifyErr   error
}

func (h *MonitorApp) now() time.Time {
	now := time.Now()
	if h.Clock != nil {
		now = h.Clock()
	}
	if h.Config.Strategy != nil {
		if loc, err := h.Config.Strategy.Location(); err == nil {
			now = now.In(loc)
		}
	}
	return now
}

// Init loads persisted state. It is called lazily by the first cycle
// if not called explicitly.
func (h *MonitorApp) Init(ctx context.Context) error {
	state, err := h.StateRepository.Load(ctx, h.Config.AssetNames())
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	h.stateMu.Lock()
	h.state = state
	h.stateMu.Unlock()
	return nil
}

// State returns a copy of the current state document.
func (h *MonitorApp) State() *domain.State {
	h.stateMu.RLock()
	defer h.stateMu.RUnlock()
	if h.state == nil {
		return domain.NewState(h.Config.AssetNames())
	}
	return h.state.DeepCopy()
}

func (h *MonitorApp) LastCycle() *CycleResult {
	h.stateMu.RLock()
	defer h.stateMu.RUnlock()
	return h.last
}

func (h *MonitorApp) Tiers() map[string]domain.Tier {
	out := map[string]domain.Tier{}
	for name, cfg := range h.Config.Assets {
		out[name] = calculator.DecideTier(cfg)
	}
	return out
}

func (h *MonitorApp) Rotation(ctx context.Context) *domain.RotationPlan {
	plan, _ := h.RotationService.Suggest(ctx, h.Config, h.now())
	return plan
}

// RunCycle evaluates every asset once, then rotation, persists state
// and sends at most one combined notification. Per-asset failures are
// logged and reported in the result; the returned error is only set
// when state could not be persisted. A cycle always runs to completion:
// cancelling ctx does not abort fetches or delivery already under way.
func (h *MonitorApp) RunCycle(ctx context.Context) (*CycleResult, error) {
	ctx = context.WithoutCancel(ctx)

	h.cycleMu.Lock()
	defer h.cycleMu.Unlock()

	h.stateMu.RLock()
	loaded := h.state != nil
	h.stateMu.RUnlock()
	if !loaded {
		if err := h.Init(ctx); err != nil {
			return nil, err
		}
	}

	started := time.Now()
	runID := uuid.New()
	log := logger.FromContext(ctx).With("runId", runID.String())
	ctx = logger.WithContext(ctx, log)

	now := h.now()
	working := h.State()
	result := &CycleResult{
		RunID:     runID,
		Time:      now,
		InSession: true,
	}

	strategy := h.Config.Strategy
	if strategy != nil {
		h.dailyPush(ctx, working, now, result)

		sessionStart, _ := strategy.SessionStartOrDefault()
		sessionEnd, _ := strategy.SessionEndOrDefault()
		if !util.InTradeSession(now, sessionStart, sessionEnd) {
			result.InSession = false
			log.Debugf("outside trade session %s-%s", sessionStart, sessionEnd)

			var err error
			if result.DailyPushed {
				err = h.commit(ctx, working, result)
			}
			metrics.ObserveCycle(metrics.CycleSkipped, time.Since(started))
			return result, err
		}
	}

	signals := []domain.Signal{}
	for _, name := range h.Config.AssetNames() {
		r := h.evaluateAsset(ctx, name, working.Assets[name], now)
		if r.Err == nil {
			working.Assets[name] = r.State
			signals = append(signals, r.Signals...)
		}
		result.Assets = append(result.Assets, r)
	}

	plan, rotationSignal := h.RotationService.Suggest(ctx, h.Config, now)
	result.Rotation = plan
	if rotationSignal != nil {
		signals = append(signals, *rotationSignal)
	}
	result.Signals = signals

	saveErr := h.commit(ctx, working, result)

	if len(signals) > 0 {
		for _, s := range signals {
			metrics.IncSignal(string(s.Kind), s.Asset)
		}
		if h.SignalJournalRepository != nil {
			if err := h.SignalJournalRepository.Append(ctx, runID, signals); err != nil {
				log.Errorf("failed to journal %d signal(s): %v", len(signals), err)
			}
		}
		if err := h.NotificationService.Notify(ctx, domain.JoinMessages(signals)); err != nil {
			log.Errorf("failed to deliver %d signal(s): %v", len(signals), err)
			result.NotifyErr = err
		}
	}

	cycleResult := metrics.CycleOK
	if saveErr != nil {
		cycleResult = metrics.CycleFailed
	}
	metrics.ObserveCycle(cycleResult, time.Since(started))
	log.Infof("cycle done: %d asset(s), %d signal(s)", len(result.Assets), len(signals))

	return result, saveErr
}

func (h *MonitorApp) evaluateAsset(ctx context.Context, name string, state domain.AssetState, now time.Time) domain.AssetResult {
	log := logger.FromContext(ctx)
	cfg := h.Config.Assets[name]

	r := h.GridService.Evaluate(ctx, service.EvaluateAssetInput{
		Name:      name,
		Config:    cfg,
		State:     state,
		Now:       now,
		TrackCost: h.Config.TrendEnabled(),
	})
	if r.Err != nil {
		log.Errorw("asset skipped this cycle", "asset", name, "error", r.Err)
		metrics.IncPriceError(name)
		return r
	}
	metrics.SetLastPrice(name, *r.Price)
	metrics.SetGridIndex(name, *r.Grid)

	if h.Config.Strategy == nil {
		return r
	}

	trendState, signal, err := h.TrendService.Evaluate(ctx, service.TrendInput{
		Name:     name,
		Config:   cfg,
		Strategy: *h.Config.Strategy,
		State:    r.State,
		Tier:     r.Tier,
		Price:    *r.Price,
		Now:      now,
	})
	if err != nil {
		log.Warnw("trend check skipped", "asset", name, "error", err)
		return r
	}
	r.State = trendState
	if signal != nil {
		r.Signals = append(r.Signals, *signal)
	}
	return r
}

// dailyPush sends the snapshot once per day after the push time. The
// date is recorded even if delivery fails so a broken channel does not
// cause a push every cycle.
func (h *MonitorApp) dailyPush(ctx context.Context, working *domain.State, now time.Time, result *CycleResult) {
	log := logger.FromContext(ctx)

	pushAt, _ := h.Config.Strategy.DailyPushTimeOrDefault()
	if !util.ShouldDoDailyPush(now, pushAt, working.Meta.LastDailyPushDate) {
		return
	}

	msg := service.FormatDailySnapshot(h.Config, working, now)
	if err := h.NotificationService.Notify(ctx, msg); err != nil {
		log.Errorf("failed to deliver daily snapshot: %v", err)
	}
	today := util.DateKey(now)
	working.Meta.LastDailyPushDate = &today
	result.DailyPushed = true
}

// commit publishes the working state to readers and persists it.
func (h *MonitorApp) commit(ctx context.Context, working *domain.State, result *CycleResult) error {
	h.stateMu.Lock()
	h.state = working
	h.last = result
	h.stateMu.Unlock()

	if err := h.StateRepository.Save(ctx, working); err != nil {
		logger.FromContext(ctx).Errorf("failed to save state: %v", err)
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Run loops until ctx is cancelled, sleeping the configured interval
// between cycles. Cancellation is observed between cycles only.
func (h *MonitorApp) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if err := h.Init(ctx); err != nil {
		return err
	}

	interval := h.Config.LoopInterval()
	log.Infof("monitor started: %d asset(s), interval %s, trend=%v", len(h.Config.Assets), interval, h.Config.TrendEnabled())

	for {
		if ctx.Err() != nil {
			log.Info("monitor stopped")
			return nil
		}
		if _, err := h.RunCycle(ctx); err != nil {
			log.Errorf("cycle failed: %v", err)
		}

		select {
		case <-ctx.Done():
			log.Info("monitor stopped")
			return nil
		case <-time.After(interval):
		}
	}
}
