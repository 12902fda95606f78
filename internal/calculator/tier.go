package calculator

import "etfgrid/internal/domain"

// DecideTier maps the configured dividend yield to a grid spacing and
// trading permissions. Brackets are inclusive on their lower bound and
// there is no hysteresis.
func DecideTier(cfg domain.AssetConfig) domain.Tier {
	dy := cfg.DividendYield
	if dy == nil {
		return domain.Tier{
			Label:   domain.TierUnknown,
			GridPct: cfg.GridPctOrDefault(),
			CanBuy:  true,
			CanSell: true,
		}
	}

	yield := *dy
	tier := domain.Tier{
		DividendYield: &yield,
		CanBuy:        true,
		CanSell:       true,
	}
	switch {
	case yield >= 0.07:
		tier.Label = domain.TierA
		tier.GridPct = cfg.GridLowOrDefault()
	case yield >= 0.06:
		tier.Label = domain.TierB
		tier.GridPct = cfg.GridMidOrDefault()
	case yield >= 0.05:
		tier.Label = domain.TierC
		tier.GridPct = cfg.GridHighOrDefault()
	default:
		// expensive: keep selling into strength, stop adding
		tier.Label = domain.TierD
		tier.GridPct = cfg.GridExpensiveOrDefault()
		tier.CanBuy = false
	}
	return tier
}
