package backtest

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Strategy turns the bar window ending at i into a signal. Strategies
// are pure functions of the window: no position state, no look-ahead,
// no side effects. Buy/Sell is emitted only on the bar where a
// crossover occurs.
type Strategy interface {
	Name() string

	// MinBars is the number of bars the strategy needs before its
	// indicators are defined; shorter windows yield an
	// insufficient-data hold.
	MinBars() int

	OnBar(i int, bars []Bar) Signal
}

// StrategyTypes lists the registered strategy type names accepted by
// NewStrategy, in stable order.
func StrategyTypes() []string {
	return []string{"ma_cross", "rsi", "macd", "bollinger", "stochastic", "adx"}
}

// NewStrategy builds a strategy from its type name and loosely-typed
// parameters (YAML or JSON maps). Unknown types and invalid parameters
// are errors — never silent defaults.
func NewStrategy(typ string, params map[string]any) (Strategy, error) {
	switch typ {
	case "ma_cross":
		var p MACrossParams
		if err := decodeParams(params, &p); err != nil {
			return nil, fmt.Errorf("ma_cross params: %w", err)
		}
		p = p.withDefaults()
		if p.MAType != "sma" && p.MAType != "ema" {
			return nil, fmt.Errorf("ma_cross: unknown ma_type %q", p.MAType)
		}
		if p.Fast >= p.Slow {
			return nil, fmt.Errorf("ma_cross: fast period %d must be below slow period %d", p.Fast, p.Slow)
		}
		return NewMACrossStrategy(p), nil
	case "rsi":
		var p RSIParams
		if err := decodeParams(params, &p); err != nil {
			return nil, fmt.Errorf("rsi params: %w", err)
		}
		p = p.withDefaults()
		if p.Oversold >= p.Overbought {
			return nil, fmt.Errorf("rsi: oversold %.1f must be below overbought %.1f", p.Oversold, p.Overbought)
		}
		return NewRSIStrategy(p), nil
	case "macd":
		var p MACDParams
		if err := decodeParams(params, &p); err != nil {
			return nil, fmt.Errorf("macd params: %w", err)
		}
		p = p.withDefaults()
		if p.Fast >= p.Slow {
			return nil, fmt.Errorf("macd: fast period %d must be below slow period %d", p.Fast, p.Slow)
		}
		return NewMACDStrategy(p), nil
	case "bollinger":
		var p BollingerParams
		if err := decodeParams(params, &p); err != nil {
			return nil, fmt.Errorf("bollinger params: %w", err)
		}
		return NewBollingerStrategy(p.withDefaults()), nil
	case "stochastic":
		var p StochasticParams
		if err := decodeParams(params, &p); err != nil {
			return nil, fmt.Errorf("stochastic params: %w", err)
		}
		p = p.withDefaults()
		if p.Oversold >= p.Overbought {
			return nil, fmt.Errorf("stochastic: oversold %.1f must be below overbought %.1f", p.Oversold, p.Overbought)
		}
		return NewStochasticStrategy(p), nil
	case "adx":
		var p ADXParams
		if err := decodeParams(params, &p); err != nil {
			return nil, fmt.Errorf("adx params: %w", err)
		}
		return NewADXStrategy(p.withDefaults()), nil
	default:
		return nil, fmt.Errorf("unknown strategy type: %s", typ)
	}
}

// decodeParams maps loose params onto a typed struct via a yaml
// round-trip, so YAML configs and JSON request bodies share one path.
func decodeParams(m map[string]any, out any) error {
	if len(m) == 0 {
		return nil
	}
	b, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

func insufficientData() Signal {
	return Signal{Action: SignalHold, Reason: "insufficient data", Confidence: 0}
}

func holdSignal(reason string) Signal {
	return Signal{Action: SignalHold, Reason: reason, Confidence: 0.5}
}

// clampConfidence bounds an actionable-signal heuristic to [0, 0.9].
func clampConfidence(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 0.9 {
		return 0.9
	}
	return x
}

// crossUp reports whether a flipped above b between bars i-1 and i.
func crossUp(a, b []float64, i int) bool {
	if i < 1 || anyNaN(a[i-1], b[i-1], a[i], b[i]) {
		return false
	}
	return a[i-1] <= b[i-1] && a[i] > b[i]
}

// crossDown reports whether a flipped below b between bars i-1 and i.
func crossDown(a, b []float64, i int) bool {
	if i < 1 || anyNaN(a[i-1], b[i-1], a[i], b[i]) {
		return false
	}
	return a[i-1] >= b[i-1] && a[i] < b[i]
}

func anyNaN(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

func lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}
