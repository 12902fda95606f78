package service

import (
	"context"
	"etfgrid/internal/calculator"
	"etfgrid/internal/domain"
	"etfgrid/internal/logger"
	"time"
)

type RotationService interface {
	// Suggest returns nil when rotation is not configured or disabled.
	// The signal is nil unless the plan carries a suggestion.
	Suggest(ctx context.Context, cfg domain.Config, now time.Time) (*domain.RotationPlan, *domain.Signal)
}

type rotationServiceHandler struct{}

func NewRotationService() RotationService {
	return &rotationServiceHandler{}
}

func (h rotationServiceHandler) Suggest(ctx context.Context, cfg domain.Config, now time.Time) (*domain.RotationPlan, *domain.Signal) {
	log := logger.FromContext(ctx)

	rc := cfg.Rotation
	if rc == nil || !rc.Enabled {
		return nil, nil
	}

	members := []domain.RotationMember{}
	names := []string{}
	for _, name := range rc.Members {
		assetCfg, ok := cfg.Assets[name]
		if !ok {
			continue
		}
		dy := 0.0
		if assetCfg.DividendYield != nil {
			dy = *assetCfg.DividendYield
		}
		members = append(members, domain.RotationMember{
			Name:          name,
			DividendYield: dy,
			BaseUnits:     assetCfg.BaseUnitsOrDefault(),
			StepUnits:     calculator.StepUnits(assetCfg.BaseUnitsOrDefault(), assetCfg.StepPctOrDefault()),
		})
		names = append(names, name)
	}

	plan := calculator.ComputeRotation(domain.RotationInput{
		Members:            members,
		TotalBaseUnits:     rc.TotalBaseUnitsOrDefault(),
		MinWeight:          rc.MinWeightOrDefault(),
		MaxWeight:          rc.MaxWeightOrDefault(),
		RebalanceThreshold: rc.RebalanceThresholdOrDefault(),
	})
	if plan.Suggestion == nil {
		log.Debugf("no rotation for %s: %s", rc.GroupNameOrDefault(), plan.AbstainReason)
		return &plan, nil
	}

	s := plan.Suggestion
	log.Infof("rotation suggested for %s: move %d units from %s to %s", rc.GroupNameOrDefault(), s.Units, s.From, s.To)

	signal := &domain.Signal{
		Kind:    domain.SignalRotation,
		Asset:   rc.GroupNameOrDefault(),
		Time:    now,
		Units:   s.Units,
		Message: formatRotation(rc.GroupNameOrDefault(), names, plan, now),
	}
	return &plan, signal
}
