package backtest

import (
	"fmt"
	"math"

	"tasim/indicator"
)

type MACDParams struct {
	Fast   int `yaml:"fast" json:"fast"`
	Slow   int `yaml:"slow" json:"slow"`
	Signal int `yaml:"signal" json:"signal"`
}

func (p MACDParams) withDefaults() MACDParams {
	if p.Fast <= 0 {
		p.Fast = 12
	}
	if p.Slow <= 0 {
		p.Slow = 26
	}
	if p.Signal <= 0 {
		p.Signal = 9
	}
	return p
}

// MACDStrategy trades MACD line / signal line crossovers.
type MACDStrategy struct {
	p MACDParams
}

func NewMACDStrategy(p MACDParams) *MACDStrategy {
	return &MACDStrategy{p: p.withDefaults()}
}

func (s *MACDStrategy) Name() string { return "macd" }

func (s *MACDStrategy) MinBars() int { return s.p.Slow + s.p.Signal }

func (s *MACDStrategy) OnBar(i int, bars []Bar) Signal {
	if i >= len(bars) || i+1 < s.MinBars() {
		return insufficientData()
	}
	macd, signal, hist := indicator.MACD(closes(bars[:i+1]), s.p.Fast, s.p.Slow, s.p.Signal)
	j := len(macd) - 1
	if anyNaN(macd[j], signal[j], hist[j]) {
		return insufficientData()
	}

	// histogram size relative to price scales the confidence
	conf := clampConfidence(math.Abs(hist[j]) / bars[i].Close * 200)
	if crossUp(macd, signal, j) {
		return Signal{
			Action:     SignalBuy,
			Reason:     fmt.Sprintf("MACD crossed above signal (histogram %.4f)", hist[j]),
			Confidence: conf,
		}
	}
	if crossDown(macd, signal, j) {
		return Signal{
			Action:     SignalSell,
			Reason:     fmt.Sprintf("MACD crossed below signal (histogram %.4f)", hist[j]),
			Confidence: conf,
		}
	}
	if macd[j] > signal[j] {
		return holdSignal(fmt.Sprintf("MACD above signal, bullish momentum (histogram %.4f)", hist[j]))
	}
	return holdSignal(fmt.Sprintf("MACD below signal, bearish momentum (histogram %.4f)", hist[j]))
}
