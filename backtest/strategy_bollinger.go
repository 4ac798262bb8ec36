package backtest

import (
	"fmt"

	"tasim/indicator"
)

type BollingerParams struct {
	Period int     `yaml:"period" json:"period"`
	K      float64 `yaml:"k" json:"k"`
}

func (p BollingerParams) withDefaults() BollingerParams {
	if p.Period <= 0 {
		p.Period = 20
	}
	if p.K <= 0 {
		p.K = 2.0
	}
	return p
}

// BollingerStrategy trades band bounces: a close that re-enters the
// bands from below the lower band is a buy, re-entry from above the
// upper band is a sell.
type BollingerStrategy struct {
	p BollingerParams
}

func NewBollingerStrategy(p BollingerParams) *BollingerStrategy {
	return &BollingerStrategy{p: p.withDefaults()}
}

func (s *BollingerStrategy) Name() string { return "bollinger" }

func (s *BollingerStrategy) MinBars() int { return s.p.Period + 1 }

func (s *BollingerStrategy) OnBar(i int, bars []Bar) Signal {
	if i >= len(bars) || i+1 < s.MinBars() {
		return insufficientData()
	}
	prices := closes(bars[:i+1])
	middle, upper, lower := indicator.Bollinger(prices, s.p.Period, s.p.K)
	j := len(prices) - 1
	if anyNaN(middle[j], upper[j], lower[j], upper[j-1], lower[j-1]) {
		return insufficientData()
	}
	prev, cur := prices[j-1], prices[j]
	width := upper[j] - lower[j]

	if prev < lower[j-1] && cur > lower[j] {
		conf := 0.45
		if width > 0 {
			// how far the close overshot the band before reverting
			conf = clampConfidence(0.4 + (lower[j-1]-prev)/width)
		}
		return Signal{
			Action:     SignalBuy,
			Reason:     fmt.Sprintf("price reverted above lower band (%.2f -> %.2f, band %.2f)", prev, cur, lower[j]),
			Confidence: conf,
		}
	}
	if prev > upper[j-1] && cur < upper[j] {
		conf := 0.45
		if width > 0 {
			conf = clampConfidence(0.4 + (prev-upper[j-1])/width)
		}
		return Signal{
			Action:     SignalSell,
			Reason:     fmt.Sprintf("price reverted below upper band (%.2f -> %.2f, band %.2f)", prev, cur, upper[j]),
			Confidence: conf,
		}
	}
	switch {
	case cur < lower[j]:
		return holdSignal(fmt.Sprintf("price %.2f below lower band %.2f, waiting for reversion", cur, lower[j]))
	case cur > upper[j]:
		return holdSignal(fmt.Sprintf("price %.2f above upper band %.2f, waiting for reversion", cur, upper[j]))
	default:
		return holdSignal(fmt.Sprintf("price %.2f inside bands (%.2f - %.2f)", cur, lower[j], upper[j]))
	}
}
