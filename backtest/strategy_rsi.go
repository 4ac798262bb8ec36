package backtest

import (
	"fmt"

	"tasim/indicator"
)

type RSIParams struct {
	Period     int     `yaml:"period" json:"period"`
	Oversold   float64 `yaml:"oversold" json:"oversold"`
	Overbought float64 `yaml:"overbought" json:"overbought"`
}

func (p RSIParams) withDefaults() RSIParams {
	if p.Period <= 0 {
		p.Period = 14
	}
	if p.Oversold <= 0 {
		p.Oversold = 30
	}
	if p.Overbought <= 0 {
		p.Overbought = 70
	}
	return p
}

// RSIStrategy buys when RSI exits the oversold zone upward and sells
// when it exits the overbought zone downward (threshold-exit, not
// threshold-touch).
type RSIStrategy struct {
	p RSIParams
}

func NewRSIStrategy(p RSIParams) *RSIStrategy {
	return &RSIStrategy{p: p.withDefaults()}
}

func (s *RSIStrategy) Name() string { return "rsi" }

func (s *RSIStrategy) MinBars() int { return s.p.Period + 2 }

func (s *RSIStrategy) OnBar(i int, bars []Bar) Signal {
	if i >= len(bars) || i+1 < s.MinBars() {
		return insufficientData()
	}
	rsi := indicator.RSI(closes(bars[:i+1]), s.p.Period)
	j := len(rsi) - 1
	if anyNaN(rsi[j-1], rsi[j]) {
		return insufficientData()
	}
	prev, cur := rsi[j-1], rsi[j]

	if prev <= s.p.Oversold && cur > s.p.Oversold {
		// deeper prior oversold reads as a stronger reversal
		conf := clampConfidence(0.4 + (s.p.Oversold-prev)/s.p.Oversold)
		return Signal{
			Action:     SignalBuy,
			Reason:     fmt.Sprintf("RSI(%d) recovered from oversold: %.1f -> %.1f", s.p.Period, prev, cur),
			Confidence: conf,
		}
	}
	if prev >= s.p.Overbought && cur < s.p.Overbought {
		conf := clampConfidence(0.4 + (prev-s.p.Overbought)/(100-s.p.Overbought))
		return Signal{
			Action:     SignalSell,
			Reason:     fmt.Sprintf("RSI(%d) fell from overbought: %.1f -> %.1f", s.p.Period, prev, cur),
			Confidence: conf,
		}
	}
	switch {
	case cur <= s.p.Oversold:
		return holdSignal(fmt.Sprintf("RSI %.1f in oversold zone, waiting for recovery", cur))
	case cur >= s.p.Overbought:
		return holdSignal(fmt.Sprintf("RSI %.1f in overbought zone, waiting for rollover", cur))
	default:
		return holdSignal(fmt.Sprintf("RSI %.1f in neutral zone", cur))
	}
}
