package backtest

import (
	"fmt"

	"tasim/indicator"
)

type ADXParams struct {
	Period    int     `yaml:"period" json:"period"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
}

func (p ADXParams) withDefaults() ADXParams {
	if p.Period <= 0 {
		p.Period = 14
	}
	if p.Threshold <= 0 {
		p.Threshold = 25
	}
	return p
}

// ADXStrategy trades +DI/-DI crossovers, gated by ADX above the
// trend-strength threshold: crosses in a weak trend are ignored.
type ADXStrategy struct {
	p ADXParams
}

func NewADXStrategy(p ADXParams) *ADXStrategy {
	return &ADXStrategy{p: p.withDefaults()}
}

func (s *ADXStrategy) Name() string { return "adx" }

func (s *ADXStrategy) MinBars() int { return 2 * s.p.Period }

func (s *ADXStrategy) OnBar(i int, bars []Bar) Signal {
	if i >= len(bars) || i+1 < s.MinBars() {
		return insufficientData()
	}
	window := bars[:i+1]
	adx, plusDI, minusDI := indicator.ADX(highs(window), lows(window), closes(window), s.p.Period)
	j := len(adx) - 1
	if anyNaN(adx[j], plusDI[j], minusDI[j], plusDI[j-1], minusDI[j-1]) {
		return insufficientData()
	}

	trending := adx[j] > s.p.Threshold
	conf := clampConfidence(0.3 + (adx[j]-s.p.Threshold)/50)
	if crossUp(plusDI, minusDI, j) && trending {
		return Signal{
			Action:     SignalBuy,
			Reason:     fmt.Sprintf("+DI crossed above -DI with ADX %.1f above %.1f", adx[j], s.p.Threshold),
			Confidence: conf,
		}
	}
	if crossDown(plusDI, minusDI, j) && trending {
		return Signal{
			Action:     SignalSell,
			Reason:     fmt.Sprintf("-DI crossed above +DI with ADX %.1f above %.1f", adx[j], s.p.Threshold),
			Confidence: conf,
		}
	}
	if !trending {
		return holdSignal(fmt.Sprintf("weak trend: ADX %.1f below threshold %.1f", adx[j], s.p.Threshold))
	}
	if plusDI[j] > minusDI[j] {
		return holdSignal(fmt.Sprintf("uptrend in force: +DI %.1f over -DI %.1f, ADX %.1f", plusDI[j], minusDI[j], adx[j]))
	}
	return holdSignal(fmt.Sprintf("downtrend in force: -DI %.1f over +DI %.1f, ADX %.1f", minusDI[j], plusDI[j], adx[j]))
}
