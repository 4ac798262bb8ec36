package backtest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type YAMLConfig struct {
	Backtest struct {
		InitialCapital float64  `yaml:"initial_capital"`
		PositionPct    float64  `yaml:"position_pct"`
		Lookback       int      `yaml:"lookback"`
		FeePct         *float64 `yaml:"fee_pct"` // pointer: an explicit 0 disables fees
		AllowShort     bool     `yaml:"allow_short"`
		StopLossPct    float64  `yaml:"stop_loss_pct"`
	} `yaml:"backtest"`

	Data struct {
		CSV string `yaml:"csv"`
		GBK bool   `yaml:"gbk"`
	} `yaml:"data"`

	Strategy struct {
		Type   string         `yaml:"type"`
		Params map[string]any `yaml:"params"`
	} `yaml:"strategy"`
}

// RunConfig configures one run. PositionPct is the fraction of realized
// capital committed per entry; FeePct is charged on both fills (taker
// fee convention); StopLossPct of 0 disables the stop; Lookback bars
// are skipped before the first signal.
type RunConfig struct {
	InitialCapital float64
	PositionPct    float64
	Lookback       int
	FeePct         float64
	AllowShort     bool
	StopLossPct    float64
	Strategy       Strategy

	// File-run options carried for the CLI, ignored by Run.
	DataPath string
	DataGBK  bool
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		InitialCapital: 10_000,
		PositionPct:    1.0,
		FeePct:         0.25,
		Strategy:       NewMACrossStrategy(MACrossParams{}),
	}
}

func (c RunConfig) validate() error {
	if c.Strategy == nil {
		return fmt.Errorf("no strategy configured")
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive, got %v", c.InitialCapital)
	}
	if c.PositionPct <= 0 || c.PositionPct > 1 {
		return fmt.Errorf("position_pct must be in (0, 1], got %v", c.PositionPct)
	}
	if c.FeePct < 0 {
		return fmt.Errorf("fee_pct must not be negative, got %v", c.FeePct)
	}
	if c.StopLossPct < 0 {
		return fmt.Errorf("stop_loss_pct must not be negative, got %v", c.StopLossPct)
	}
	if c.Lookback < 0 {
		return fmt.Errorf("lookback must not be negative, got %v", c.Lookback)
	}
	return nil
}

// LoadRunConfig reads a YAML run configuration. Omitted fields keep
// their defaults; a lookback of 0 derives from the strategy's minimum
// bars. Unknown strategy types and invalid parameters are errors.
func LoadRunConfig(path string) (RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read config: %w", err)
	}

	var yc YAMLConfig
	if err := yaml.Unmarshal(raw, &yc); err != nil {
		return RunConfig{}, fmt.Errorf("parse yaml: %w", err)
	}

	cfg := DefaultRunConfig()

	if yc.Backtest.InitialCapital > 0 {
		cfg.InitialCapital = yc.Backtest.InitialCapital
	}
	if yc.Backtest.PositionPct > 0 && yc.Backtest.PositionPct <= 1 {
		cfg.PositionPct = yc.Backtest.PositionPct
	}
	if yc.Backtest.FeePct != nil && *yc.Backtest.FeePct >= 0 {
		cfg.FeePct = *yc.Backtest.FeePct
	}
	cfg.AllowShort = yc.Backtest.AllowShort
	if yc.Backtest.StopLossPct > 0 {
		cfg.StopLossPct = yc.Backtest.StopLossPct
	}

	typ := yc.Strategy.Type
	if typ == "" {
		typ = "ma_cross"
	}
	strategy, err := NewStrategy(typ, yc.Strategy.Params)
	if err != nil {
		return RunConfig{}, err
	}
	cfg.Strategy = strategy

	if yc.Backtest.Lookback > 0 {
		cfg.Lookback = yc.Backtest.Lookback
	} else {
		cfg.Lookback = strategy.MinBars()
	}

	cfg.DataPath = yc.Data.CSV
	cfg.DataGBK = yc.Data.GBK

	if err := cfg.validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}
