package backtest

import (
	"fmt"
	"math"
	"strings"

	"tasim/indicator"
)

type MACrossParams struct {
	MAType string `yaml:"ma_type" json:"ma_type"` // sma | ema
	Fast   int    `yaml:"fast" json:"fast"`
	Slow   int    `yaml:"slow" json:"slow"`
}

func (p MACrossParams) withDefaults() MACrossParams {
	if p.MAType == "" {
		p.MAType = "sma"
	}
	if p.Fast <= 0 {
		p.Fast = 10
	}
	if p.Slow <= 0 {
		p.Slow = 30
	}
	return p
}

// MACrossStrategy buys when the fast moving average crosses above the
// slow one and sells on the opposite cross.
type MACrossStrategy struct {
	p MACrossParams
}

func NewMACrossStrategy(p MACrossParams) *MACrossStrategy {
	return &MACrossStrategy{p: p.withDefaults()}
}

func (s *MACrossStrategy) Name() string { return "ma_cross" }

func (s *MACrossStrategy) MinBars() int { return s.p.Slow + 1 }

func (s *MACrossStrategy) OnBar(i int, bars []Bar) Signal {
	if i >= len(bars) || i+1 < s.MinBars() {
		return insufficientData()
	}
	prices := closes(bars[:i+1])
	var fast, slow []float64
	if s.p.MAType == "ema" {
		fast = indicator.EMA(prices, s.p.Fast)
		slow = indicator.EMA(prices, s.p.Slow)
	} else {
		fast = indicator.SMA(prices, s.p.Fast)
		slow = indicator.SMA(prices, s.p.Slow)
	}
	j := len(prices) - 1
	if anyNaN(fast[j], slow[j]) {
		return insufficientData()
	}
	label := strings.ToUpper(s.p.MAType)

	// crossover strength relative to the slow average
	conf := clampConfidence(math.Abs(fast[j]-slow[j]) / math.Abs(slow[j]) * 50)
	if crossUp(fast, slow, j) {
		return Signal{
			Action:     SignalBuy,
			Reason:     fmt.Sprintf("%s(%d) crossed above %s(%d)", label, s.p.Fast, label, s.p.Slow),
			Confidence: conf,
		}
	}
	if crossDown(fast, slow, j) {
		return Signal{
			Action:     SignalSell,
			Reason:     fmt.Sprintf("%s(%d) crossed below %s(%d)", label, s.p.Fast, label, s.p.Slow),
			Confidence: conf,
		}
	}
	if fast[j] > slow[j] {
		return holdSignal(fmt.Sprintf("%s(%d) above %s(%d), uptrend intact", label, s.p.Fast, label, s.p.Slow))
	}
	return holdSignal(fmt.Sprintf("%s(%d) below %s(%d), downtrend intact", label, s.p.Fast, label, s.p.Slow))
}
