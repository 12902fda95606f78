package service

import (
	"context"
	"etfgrid/internal/calculator"
	"etfgrid/internal/domain"
	"etfgrid/internal/logger"
	"etfgrid/internal/repository"
	"fmt"
	"time"
)

type GridService interface {
	// Evaluate runs one grid step for a single asset. The input state is
	// never modified; on a failed price fetch the result carries the
	// prior state unchanged and Err set.
	Evaluate(ctx context.Context, in EvaluateAssetInput) domain.AssetResult
}

type EvaluateAssetInput struct {
	Name      string
	Config    domain.AssetConfig
	State     domain.AssetState
	Now       time.Time
	TrackCost bool
}

type gridServiceHandler struct {
	PriceRepository repository.PriceRepository
}

func NewGridService(priceRepository repository.PriceRepository) GridService {
	return &gridServiceHandler{
		PriceRepository: priceRepository,
	}
}

func (h gridServiceHandler) Evaluate(ctx context.Context, in EvaluateAssetInput) domain.AssetResult {
	log := logger.FromContext(ctx).With("asset", in.Name, "symbol", in.Config.Symbol)

	cfg := in.Config
	tier := calculator.DecideTier(cfg)
	result := domain.AssetResult{
		Name:  in.Name,
		State: in.State.DeepCopy(),
		Tier:  tier,
	}

	price, err := h.PriceRepository.GetLatestPrice(ctx, cfg.Symbol)
	if err != nil {
		result.Err = fmt.Errorf("failed to get price for %s: %w", in.Name, err)
		return result
	}

	next := in.State.DeepCopy()
	next.Tick++
	current := price.Price
	baseUnits := cfg.BaseUnitsOrDefault()
	stepUnits := calculator.StepUnits(baseUnits, cfg.StepPctOrDefault())

	if in.TrackCost && (next.Position == nil || next.AvgCost == nil) {
		position, avgCost := baseUnits, cfg.BasePrice
		next.Position = &position
		next.AvgCost = &avgCost
	}

	currentGrid := calculator.GridIndex(current, cfg.BasePrice, tier.GridPct)
	result.Price = &current
	result.Grid = &currentGrid

	if next.LastPrice == nil {
		log.Infow(
			"first price observation",
			"price", current,
			"tier", tier.Describe(),
			"grid", currentGrid,
			"baseUnits", baseUnits,
			"stepUnits", stepUnits,
		)
		next.LastPrice = &current
		result.State = next
		return result
	}

	lastGrid := calculator.GridIndex(*next.LastPrice, cfg.BasePrice, tier.GridPct)
	log.Infow(
		"price observed",
		"price", current,
		"tier", tier.Describe(),
		"grid", currentGrid,
		"lastGrid", lastGrid,
		"stepUnits", stepUnits,
	)

	direction, lines := calculator.GridCrossings(lastGrid, currentGrid)
	for _, g := range lines {
		msgIn := gridMessageInput{
			Name:       in.Name,
			Symbol:     cfg.Symbol,
			Now:        in.Now,
			Tier:       tier,
			Grid:       g,
			LevelPrice: calculator.LevelPrice(cfg.BasePrice, tier.GridPct, g),
			Price:      current,
			StepUnits:  stepUnits,
			StepPct:    cfg.StepPctOrDefault(),
		}
		signal := domain.Signal{
			Asset:        in.Name,
			Symbol:       cfg.Symbol,
			Time:         in.Now,
			Tier:         tier.Label,
			GridIndex:    g,
			GridPct:      tier.GridPct,
			LevelPrice:   msgIn.LevelPrice,
			CurrentPrice: current,
			Units:        stepUnits,
		}

		switch {
		case direction == calculator.DirectionUp && tier.CanSell:
			signal.Kind = domain.SignalGridSell
			signal.Message = formatGridSell(msgIn)
			if in.TrackCost {
				applyFill(&next, -stepUnits, msgIn.LevelPrice)
			}
		case direction == calculator.DirectionDown && tier.CanBuy:
			signal.Kind = domain.SignalGridBuy
			signal.Message = formatGridBuy(msgIn)
			if in.TrackCost {
				applyFill(&next, stepUnits, msgIn.LevelPrice)
			}
		default:
			continue
		}
		result.Signals = append(result.Signals, signal)
	}

	if direction == calculator.DirectionDown && !tier.CanBuy {
		log.Infof("price fell %d grid line(s) but tier %s does not allow buys", len(lines), tier.Label)
	}

	next.LastPrice = &current
	result.State = next
	return result
}

func applyFill(state *domain.AssetState, units int, price float64) {
	position, avgCost := calculator.ApplyFill(*state.Position, *state.AvgCost, units, price)
	state.Position = &position
	state.AvgCost = &avgCost
}
