package domain

import (
	"fmt"
	"sort"
	"time"
)

const (
	DefaultGridPct          = 0.04
	DefaultGridLow          = 0.03
	DefaultGridMid          = 0.04
	DefaultGridHigh         = 0.05
	DefaultGridExpensive    = 0.06
	DefaultStepPct          = 0.01
	DefaultMinWeight        = 0.3
	DefaultMaxWeight        = 0.7
	DefaultRebalanceThresh  = 0.10
	DefaultRotationGroup    = "rotation"
	DefaultLoopInterval     = 10 * time.Second
	DefaultStrategyInterval = 600 * time.Second
	DefaultHistoryDays      = 60
	DefaultMaPeriodShort    = 5
	DefaultMaPeriodLong     = 20
	DefaultSessionStart     = "09:30"
	DefaultSessionEnd       = "15:00"
	DefaultDailyPushTime    = "15:10"
)

const (
	ProviderEastmoney = "eastmoney"
	ProviderYahoo     = "yahoo"
	ProviderAlpaca    = "alpaca"
)

// Config is the whole configuration document. Optional fields are
// pointers; the accessor methods apply the documented defaults.
type Config struct {
	Assets   map[string]AssetConfig `yaml:"ETF_CONFIG" json:"ETF_CONFIG"`
	Rotation *RotationConfig        `yaml:"ROTATION_CONFIG" json:"ROTATION_CONFIG,omitempty"`
	Strategy *StrategyConfig        `yaml:"STRATEGY" json:"STRATEGY,omitempty"`

	// AssetOrder keeps the order assets were declared in the file
	AssetOrder []string `yaml:"-" json:"-"`
}

type AssetConfig struct {
	Symbol        string   `yaml:"symbol" json:"symbol"`
	BasePrice     float64  `yaml:"base_price" json:"base_price"`
	DividendYield *float64 `yaml:"dividend_yield" json:"dividend_yield,omitempty"`
	GridPct       *float64 `yaml:"grid_pct" json:"grid_pct,omitempty"`
	GridLow       *float64 `yaml:"grid_low" json:"grid_low,omitempty"`
	GridMid       *float64 `yaml:"grid_mid" json:"grid_mid,omitempty"`
	GridHigh      *float64 `yaml:"grid_high" json:"grid_high,omitempty"`
	GridExpensive *float64 `yaml:"grid_expensive" json:"grid_expensive,omitempty"`
	StepPct       *float64 `yaml:"step_pct" json:"step_pct,omitempty"`
	BaseUnits     *int     `yaml:"base_units" json:"base_units,omitempty"`
	Provider      string   `yaml:"provider" json:"provider,omitempty"`
}

type RotationConfig struct {
	Enabled            bool     `yaml:"enabled" json:"enabled"`
	Members            []string `yaml:"members" json:"members"`
	TotalBaseUnits     *int     `yaml:"total_base_units" json:"total_base_units,omitempty"`
	MinWeight          *float64 `yaml:"min_weight" json:"min_weight,omitempty"`
	MaxWeight          *float64 `yaml:"max_weight" json:"max_weight,omitempty"`
	RebalanceThreshold *float64 `yaml:"rebalance_threshold" json:"rebalance_threshold,omitempty"`
	GroupName          string   `yaml:"group_name" json:"group_name,omitempty"`
}

// StrategyConfig switches on the trend variant: session gating, daily
// snapshot, moving-average signals and cost tracking.
type StrategyConfig struct {
	LoopInterval     *int   `yaml:"loop_interval" json:"loop_interval,omitempty"` // seconds
	FetchHistoryDays *int   `yaml:"fetch_history_days" json:"fetch_history_days,omitempty"`
	MaPeriodShort    *int   `yaml:"ma_period_short" json:"ma_period_short,omitempty"`
	MaPeriodLong     *int   `yaml:"ma_period_long" json:"ma_period_long,omitempty"`
	SessionStart     string `yaml:"session_start" json:"session_start,omitempty"`
	SessionEnd       string `yaml:"session_end" json:"session_end,omitempty"`
	DailyPushTime    string `yaml:"daily_push_time" json:"daily_push_time,omitempty"`
	Timezone         string `yaml:"timezone" json:"timezone,omitempty"`
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func (a AssetConfig) GridPctOrDefault() float64       { return floatOr(a.GridPct, DefaultGridPct) }
func (a AssetConfig) GridLowOrDefault() float64       { return floatOr(a.GridLow, DefaultGridLow) }
func (a AssetConfig) GridMidOrDefault() float64       { return floatOr(a.GridMid, DefaultGridMid) }
func (a AssetConfig) GridHighOrDefault() float64      { return floatOr(a.GridHigh, DefaultGridHigh) }
func (a AssetConfig) GridExpensiveOrDefault() float64 { return floatOr(a.GridExpensive, DefaultGridExpensive) }
func (a AssetConfig) StepPctOrDefault() float64       { return floatOr(a.StepPct, DefaultStepPct) }
func (a AssetConfig) BaseUnitsOrDefault() int         { return intOr(a.BaseUnits, 0) }

func (a AssetConfig) ProviderOrDefault() string {
	if a.Provider == "" {
		return ProviderEastmoney
	}
	return a.Provider
}

func (a AssetConfig) Validate(name string) error {
	if a.Symbol == "" {
		return fmt.Errorf("%w: %s: symbol is required", ErrConfig, name)
	}
	if a.BasePrice <= 0 {
		return fmt.Errorf("%w: %s: base_price must be > 0, got %f", ErrConfig, name, a.BasePrice)
	}
	spacings := map[string]float64{
		"grid_pct":       a.GridPctOrDefault(),
		"grid_low":       a.GridLowOrDefault(),
		"grid_mid":       a.GridMidOrDefault(),
		"grid_high":      a.GridHighOrDefault(),
		"grid_expensive": a.GridExpensiveOrDefault(),
	}
	for field, v := range spacings {
		if v <= 0 {
			return fmt.Errorf("%w: %s: %s must be > 0, got %f", ErrConfig, name, field, v)
		}
	}
	if a.StepPctOrDefault() < 0 {
		return fmt.Errorf("%w: %s: step_pct must be >= 0", ErrConfig, name)
	}
	if a.BaseUnitsOrDefault() < 0 {
		return fmt.Errorf("%w: %s: base_units must be >= 0", ErrConfig, name)
	}
	switch a.ProviderOrDefault() {
	case ProviderEastmoney, ProviderYahoo, ProviderAlpaca:
	default:
		return fmt.Errorf("%w: %s: unknown provider %q", ErrConfig, name, a.Provider)
	}
	return nil
}

func (r RotationConfig) MinWeightOrDefault() float64 { return floatOr(r.MinWeight, DefaultMinWeight) }
func (r RotationConfig) MaxWeightOrDefault() float64 { return floatOr(r.MaxWeight, DefaultMaxWeight) }
func (r RotationConfig) RebalanceThresholdOrDefault() float64 {
	return floatOr(r.RebalanceThreshold, DefaultRebalanceThresh)
}
func (r RotationConfig) TotalBaseUnitsOrDefault() int { return intOr(r.TotalBaseUnits, 0) }

func (r RotationConfig) GroupNameOrDefault() string {
	if r.GroupName == "" {
		return DefaultRotationGroup
	}
	return r.GroupName
}

func (s StrategyConfig) LoopIntervalOrDefault() time.Duration {
	if s.LoopInterval == nil {
		return DefaultStrategyInterval
	}
	return time.Duration(*s.LoopInterval) * time.Second
}
func (s StrategyConfig) FetchHistoryDaysOrDefault() int { return intOr(s.FetchHistoryDays, DefaultHistoryDays) }
func (s StrategyConfig) MaPeriodShortOrDefault() int    { return intOr(s.MaPeriodShort, DefaultMaPeriodShort) }
func (s StrategyConfig) MaPeriodLongOrDefault() int     { return intOr(s.MaPeriodLong, DefaultMaPeriodLong) }

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (s StrategyConfig) SessionStartOrDefault() (TimeOfDay, error) {
	return ParseTimeOfDay(stringOr(s.SessionStart, DefaultSessionStart))
}
func (s StrategyConfig) SessionEndOrDefault() (TimeOfDay, error) {
	return ParseTimeOfDay(stringOr(s.SessionEnd, DefaultSessionEnd))
}
func (s StrategyConfig) DailyPushTimeOrDefault() (TimeOfDay, error) {
	return ParseTimeOfDay(stringOr(s.DailyPushTime, DefaultDailyPushTime))
}

// Location returns the configured timezone, or time.Local if unset.
func (s StrategyConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

func (s StrategyConfig) Validate() error {
	if s.LoopIntervalOrDefault() <= 0 {
		return fmt.Errorf("%w: STRATEGY.loop_interval must be > 0", ErrConfig)
	}
	short, long := s.MaPeriodShortOrDefault(), s.MaPeriodLongOrDefault()
	if short < 1 || long <= short {
		return fmt.Errorf("%w: STRATEGY: need 1 <= ma_period_short < ma_period_long, got %d/%d", ErrConfig, short, long)
	}
	if s.FetchHistoryDaysOrDefault() < long {
		return fmt.Errorf("%w: STRATEGY.fetch_history_days must be >= ma_period_long (%d)", ErrConfig, long)
	}
	start, err := s.SessionStartOrDefault()
	if err != nil {
		return fmt.Errorf("%w: STRATEGY.session_start: %v", ErrConfig, err)
	}
	end, err := s.SessionEndOrDefault()
	if err != nil {
		return fmt.Errorf("%w: STRATEGY.session_end: %v", ErrConfig, err)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: STRATEGY.session_end %s is before session_start %s", ErrConfig, end, start)
	}
	if _, err := s.DailyPushTimeOrDefault(); err != nil {
		return fmt.Errorf("%w: STRATEGY.daily_push_time: %v", ErrConfig, err)
	}
	if _, err := s.Location(); err != nil {
		return fmt.Errorf("%w: STRATEGY.timezone: %v", ErrConfig, err)
	}
	return nil
}

func (c Config) Validate() error {
	if len(c.Assets) == 0 {
		return fmt.Errorf("%w: ETF_CONFIG is missing or empty", ErrConfig)
	}
	for _, name := range c.AssetNames() {
		if err := c.Assets[name].Validate(name); err != nil {
			return err
		}
	}
	if c.Rotation != nil {
		minW, maxW := c.Rotation.MinWeightOrDefault(), c.Rotation.MaxWeightOrDefault()
		if minW < 0 || maxW <= 0 || minW > maxW {
			return fmt.Errorf("%w: ROTATION_CONFIG: invalid weight bounds [%f, %f]", ErrConfig, minW, maxW)
		}
		if c.Rotation.RebalanceThresholdOrDefault() < 0 {
			return fmt.Errorf("%w: ROTATION_CONFIG.rebalance_threshold must be >= 0", ErrConfig)
		}
	}
	if c.Strategy != nil {
		if err := c.Strategy.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TrendEnabled reports whether the STRATEGY section is present.
func (c Config) TrendEnabled() bool {
	return c.Strategy != nil
}

func (c Config) LoopInterval() time.Duration {
	if c.Strategy != nil {
		return c.Strategy.LoopIntervalOrDefault()
	}
	return DefaultLoopInterval
}

// AssetNames returns asset names in declaration order when known,
// falling back to sorted order.
func (c Config) AssetNames() []string {
	if len(c.AssetOrder) == len(c.Assets) {
		ok := true
		for _, name := range c.AssetOrder {
			if _, found := c.Assets[name]; !found {
				ok = false
				break
			}
		}
		if ok {
			out := make([]string, len(c.AssetOrder))
			copy(out, c.AssetOrder)
			return out
		}
	}
	names := make([]string, 0, len(c.Assets))
	for name := range c.Assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
