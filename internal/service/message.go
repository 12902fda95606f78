package service

import (
	"etfgrid/internal/calculator"
	"etfgrid/internal/domain"
	"etfgrid/internal/util"
	"fmt"
	"strings"
	"time"
)

// NotificationTitle is the subject line of every outbound message.
const NotificationTitle = "ETF grid signal"

type gridMessageInput struct {
	Name       string
	Symbol     string
	Now        time.Time
	Tier       domain.Tier
	Grid       int
	LevelPrice float64
	Price      float64
	StepUnits  int
	StepPct    float64
}

func formatGridSell(in gridMessageInput) string {
	return formatGridMessage(in, "SELL", "reference sell price",
		fmt.Sprintf("trim one grid lot (about %d units, %.1f%% of base), keep the core position.", in.StepUnits, in.StepPct*100))
}

func formatGridBuy(in gridMessageInput) string {
	return formatGridMessage(in, "BUY", "reference buy price",
		fmt.Sprintf("add one grid lot (about %d units, %.1f%% of base), keep the core position.", in.StepUnits, in.StepPct*100))
}

func formatGridMessage(in gridMessageInput, side, priceLabel, advice string) string {
	lines := []string{
		fmt.Sprintf("%s (%s) grid %s triggered:", in.Name, in.Symbol, side),
		fmt.Sprintf("- time: %s", in.Now.Format(util.MessageTimeLayout)),
		fmt.Sprintf("- tier: %s", in.Tier.Describe()),
		fmt.Sprintf("- grid: %d", in.Grid),
		fmt.Sprintf("- spacing: %.2f%%", in.Tier.GridPct*100),
		fmt.Sprintf("- %s: %.4f", priceLabel, in.LevelPrice),
		fmt.Sprintf("- current price: %.4f", in.Price),
		fmt.Sprintf("- suggestion: %s", advice),
	}
	return strings.Join(lines, "\n")
}

type trendMessageInput struct {
	Name        string
	Symbol      string
	Now         time.Time
	Tier        domain.Tier
	Regime      string
	ShortPeriod int
	LongPeriod  int
	ShortMA     float64
	LongMA      float64
	Price       float64
}

func formatTrend(in trendMessageInput) string {
	advice := "short average crossed above long average, trend turning up; consider adding."
	if in.Regime == calculator.TrendDown {
		advice = "short average crossed below long average, trend turning down; consider trimming."
	}
	lines := []string{
		fmt.Sprintf("%s (%s) trend %s:", in.Name, in.Symbol, strings.ToUpper(in.Regime)),
		fmt.Sprintf("- time: %s", in.Now.Format(util.MessageTimeLayout)),
		fmt.Sprintf("- tier: %s", in.Tier.Describe()),
		fmt.Sprintf("- MA%d: %.4f", in.ShortPeriod, in.ShortMA),
		fmt.Sprintf("- MA%d: %.4f", in.LongPeriod, in.LongMA),
		fmt.Sprintf("- current price: %.4f", in.Price),
		fmt.Sprintf("- suggestion: %s", advice),
	}
	return strings.Join(lines, "\n")
}

func formatRotation(group string, members []string, plan domain.RotationPlan, now time.Time) string {
	s := plan.Suggestion
	from, _ := plan.Allocation(s.From)
	to, _ := plan.Allocation(s.To)

	lines := []string{
		fmt.Sprintf("%s rotation suggested:", group),
		fmt.Sprintf("- time: %s", now.Format(util.MessageTimeLayout)),
		fmt.Sprintf("- members: %s", strings.Join(members, ", ")),
		fmt.Sprintf("- current units: %s=%d, %s=%d", from.Name, from.CurrentUnits, to.Name, to.CurrentUnits),
		fmt.Sprintf("- target units: %s=%d, %s=%d", from.Name, from.TargetUnits, to.Name, to.TargetUnits),
		fmt.Sprintf("- current weights: %s=%.1f%%, %s=%.1f%%", from.Name, from.CurrentWeight*100, to.Name, to.CurrentWeight*100),
		fmt.Sprintf("- target weights: %s=%.1f%%, %s=%.1f%%", from.Name, from.TargetWeight*100, to.Name, to.TargetWeight*100),
		fmt.Sprintf("- suggestion: move about %d units from %s to %s.", s.Units, s.From, s.To),
		fmt.Sprintf("  %s is relatively cheaper on dividend yield.", s.To),
	}
	return strings.Join(lines, "\n")
}

// FormatDailySnapshot renders one block per asset describing where it
// currently sits. Assets without an observation yet are listed as such.
func FormatDailySnapshot(cfg domain.Config, state *domain.State, now time.Time) string {
	out := []string{fmt.Sprintf("Daily snapshot %s", now.Format(util.MessageTimeLayout))}
	for _, name := range cfg.AssetNames() {
		assetCfg := cfg.Assets[name]
		assetState := state.Assets[name]
		tier := calculator.DecideTier(assetCfg)

		lines := []string{fmt.Sprintf("%s (%s):", name, assetCfg.Symbol)}
		if assetState.LastPrice == nil {
			lines = append(lines, "- last price: not observed yet")
		} else {
			grid := calculator.GridIndex(*assetState.LastPrice, assetCfg.BasePrice, tier.GridPct)
			lines = append(lines,
				fmt.Sprintf("- last price: %.4f", *assetState.LastPrice),
				fmt.Sprintf("- grid: %d (level %.4f)", grid, calculator.LevelPrice(assetCfg.BasePrice, tier.GridPct, grid)),
			)
		}
		lines = append(lines,
			fmt.Sprintf("- tier: %s", tier.Describe()),
			fmt.Sprintf("- tick: %d", assetState.Tick),
		)
		if assetState.Trend != "" {
			lines = append(lines, fmt.Sprintf("- trend: %s", assetState.Trend))
		}
		if assetState.Position != nil && assetState.AvgCost != nil {
			lines = append(lines, fmt.Sprintf("- position: %d @ %.4f", *assetState.Position, *assetState.AvgCost))
		}
		out = append(out, strings.Join(lines, "\n"))
	}
	return strings.Join(out, "\n\n")
}
