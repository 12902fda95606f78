package service

import (
	"context"
	"etfgrid/internal/calculator"
	"etfgrid/internal/domain"
	"etfgrid/internal/repository"
	"fmt"
	"time"
)

type TrendService interface {
	// Evaluate compares moving averages over recent closes plus the
	// current price and returns the updated state and, on a regime
	// change, a trend signal.
	Evaluate(ctx context.Context, in TrendInput) (domain.AssetState, *domain.Signal, error)
}

type TrendInput struct {
	Name     string
	Config   domain.AssetConfig
	Strategy domain.StrategyConfig
	State    domain.AssetState
	Tier     domain.Tier
	Price    float64
	Now      time.Time
}

type trendServiceHandler struct {
	PriceRepository repository.PriceRepository
}

func NewTrendService(priceRepository repository.PriceRepository) TrendService {
	return &trendServiceHandler{
		PriceRepository: priceRepository,
	}
}

func (h trendServiceHandler) Evaluate(ctx context.Context, in TrendInput) (domain.AssetState, *domain.Signal, error) {
	state := in.State.DeepCopy()
	shortPeriod := in.Strategy.MaPeriodShortOrDefault()
	longPeriod := in.Strategy.MaPeriodLongOrDefault()

	closes, err := h.PriceRepository.GetDailyCloses(ctx, in.Config.Symbol, in.Strategy.FetchHistoryDaysOrDefault())
	if err != nil {
		return state, nil, fmt.Errorf("failed to get history for %s: %w", in.Name, err)
	}
	closes = append(closes, in.Price)

	regime, shortMA, longMA, err := calculator.TrendRegime(closes, shortPeriod, longPeriod, state.Trend)
	if err != nil {
		return state, nil, fmt.Errorf("failed to compute trend for %s: %w", in.Name, err)
	}

	previous := state.Trend
	state.Trend = regime
	if !calculator.DetectTrendCross(previous, regime) {
		return state, nil, nil
	}

	kind := domain.SignalTrendDown
	if regime == calculator.TrendUp {
		if !in.Tier.CanBuy {
			return state, nil, nil
		}
		kind = domain.SignalTrendUp
	}

	signal := &domain.Signal{
		Kind:         kind,
		Asset:        in.Name,
		Symbol:       in.Config.Symbol,
		Time:         in.Now,
		Tier:         in.Tier.Label,
		GridPct:      in.Tier.GridPct,
		CurrentPrice: in.Price,
		Units:        calculator.StepUnits(in.Config.BaseUnitsOrDefault(), in.Config.StepPctOrDefault()),
		Message: formatTrend(trendMessageInput{
			Name:        in.Name,
			Symbol:      in.Config.Symbol,
			Now:         in.Now,
			Tier:        in.Tier,
			Regime:      regime,
			ShortPeriod: shortPeriod,
			LongPeriod:  longPeriod,
			ShortMA:     shortMA,
			LongMA:      longMA,
			Price:       in.Price,
		}),
	}
	return state, signal, nil
}
