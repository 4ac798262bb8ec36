package backtest

import (
	"fmt"

	"tasim/indicator"
)

type StochasticParams struct {
	KPeriod    int     `yaml:"k_period" json:"k_period"`
	DPeriod    int     `yaml:"d_period" json:"d_period"`
	Oversold   float64 `yaml:"oversold" json:"oversold"`
	Overbought float64 `yaml:"overbought" json:"overbought"`
}

func (p StochasticParams) withDefaults() StochasticParams {
	if p.KPeriod <= 0 {
		p.KPeriod = 14
	}
	if p.DPeriod <= 0 {
		p.DPeriod = 3
	}
	if p.Oversold <= 0 {
		p.Oversold = 20
	}
	if p.Overbought <= 0 {
		p.Overbought = 80
	}
	return p
}

// StochasticStrategy trades %K/%D crossovers, but only those that
// happen inside an extreme zone: a bullish cross starting oversold or
// a bearish cross starting overbought.
type StochasticStrategy struct {
	p StochasticParams
}

func NewStochasticStrategy(p StochasticParams) *StochasticStrategy {
	return &StochasticStrategy{p: p.withDefaults()}
}

func (s *StochasticStrategy) Name() string { return "stochastic" }

func (s *StochasticStrategy) MinBars() int { return s.p.KPeriod + s.p.DPeriod }

func (s *StochasticStrategy) OnBar(i int, bars []Bar) Signal {
	if i >= len(bars) || i+1 < s.MinBars() {
		return insufficientData()
	}
	window := bars[:i+1]
	k, d := indicator.Stochastic(highs(window), lows(window), closes(window), s.p.KPeriod, s.p.DPeriod)
	j := len(k) - 1
	if anyNaN(k[j], d[j], k[j-1], d[j-1]) {
		return insufficientData()
	}

	fromOversold := k[j-1] <= s.p.Oversold || d[j-1] <= s.p.Oversold
	fromOverbought := k[j-1] >= s.p.Overbought || d[j-1] >= s.p.Overbought

	if crossUp(k, d, j) && fromOversold {
		conf := clampConfidence(0.4 + (s.p.Oversold-k[j-1])/s.p.Oversold)
		return Signal{
			Action:     SignalBuy,
			Reason:     fmt.Sprintf("%%K crossed above %%D in oversold zone (%.1f / %.1f)", k[j], d[j]),
			Confidence: conf,
		}
	}
	if crossDown(k, d, j) && fromOverbought {
		conf := clampConfidence(0.4 + (k[j-1]-s.p.Overbought)/(100-s.p.Overbought))
		return Signal{
			Action:     SignalSell,
			Reason:     fmt.Sprintf("%%K crossed below %%D in overbought zone (%.1f / %.1f)", k[j], d[j]),
			Confidence: conf,
		}
	}
	switch {
	case k[j] <= s.p.Oversold:
		return holdSignal(fmt.Sprintf("%%K %.1f oversold, no bullish cross yet", k[j]))
	case k[j] >= s.p.Overbought:
		return holdSignal(fmt.Sprintf("%%K %.1f overbought, no bearish cross yet", k[j]))
	default:
		return holdSignal(fmt.Sprintf("%%K %.1f / %%D %.1f mid-range", k[j], d[j]))
	}
}
