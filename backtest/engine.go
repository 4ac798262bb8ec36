package backtest

import (
	"encoding/json"
	"io"
	"time"
)

// Run replays cfg.Strategy bar by bar over bars and returns the closed
// trade ledger, equity curve and summary metrics.
//
// The machine holds at most one position. Each bar from cfg.Lookback
// onward is processed in a fixed order: stop-loss check first (a
// triggered stop consumes the bar and the strategy is not evaluated),
// then the strategy signal, then equity bookkeeping. Fills happen at
// the bar close except for stops, which fill at the theoretical stop
// price — a modeling assumption, not a guaranteed real-world fill.
//
// A series shorter than the lookback yields an empty result and no
// error; invalid configuration fails fast.
func Run(bars []Bar, cfg RunConfig) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}

	s := &session{cfg: cfg, cash: cfg.InitialCapital}
	for i := cfg.Lookback; i < len(bars); i++ {
		bar := bars[i]
		if !s.checkStop(bar) {
			s.apply(cfg.Strategy.OnBar(i, bars), bar)
		}
		s.mark(bar)
	}
	return s.result(bars), nil
}

// session owns the mutable state of one run: realized capital, the
// open position (nil when flat) and the accumulating ledger. All
// transitions go through openPosition/closePosition.
type session struct {
	cfg    RunConfig
	cash   float64
	pos    *Position
	trades []Trade
	curve  []EquityPoint
}

func (s *session) feeRate() float64 {
	return s.cfg.FeePct / 100
}

// checkStop closes an open position at the theoretical stop price when
// the bar's range breaches it. Returns true if the stop fired, in
// which case the bar is consumed and no strategy signal is taken.
func (s *session) checkStop(bar Bar) bool {
	if s.pos == nil || s.cfg.StopLossPct <= 0 {
		return false
	}
	switch s.pos.Side {
	case SideLong:
		stop := s.pos.EntryPrice * (1 - s.cfg.StopLossPct/100)
		if bar.Low <= stop {
			s.closePosition(bar.Time, stop, "stop loss triggered", ExitStopLoss)
			return true
		}
	case SideShort:
		stop := s.pos.EntryPrice * (1 + s.cfg.StopLossPct/100)
		if bar.High >= stop {
			s.closePosition(bar.Time, stop, "stop loss triggered", ExitStopLoss)
			return true
		}
	}
	return false
}

func (s *session) apply(sig Signal, bar Bar) {
	switch sig.Action {
	case SignalBuy:
		switch {
		case s.pos == nil:
			s.openPosition(SideLong, bar, sig.Reason)
		case s.pos.Side == SideShort:
			// reversal in one bar
			s.closePosition(bar.Time, bar.Close, sig.Reason, ExitSignal)
			s.openPosition(SideLong, bar, sig.Reason)
		}
	case SignalSell:
		switch {
		case s.pos != nil && s.pos.Side == SideLong:
			s.closePosition(bar.Time, bar.Close, sig.Reason, ExitSignal)
			if s.cfg.AllowShort {
				s.openPosition(SideShort, bar, sig.Reason)
			}
		case s.pos == nil && s.cfg.AllowShort:
			s.openPosition(SideShort, bar, sig.Reason)
		}
	}
}

func (s *session) openPosition(side Side, bar Bar, reason string) {
	if bar.Close <= 0 {
		return
	}
	notional := s.cash * s.cfg.PositionPct
	fee := notional * s.feeRate()
	size := (notional - fee) / bar.Close
	if size <= 0 {
		return
	}
	s.cash -= fee
	s.pos = &Position{
		Side:        side,
		EntryTime:   bar.Time,
		EntryPrice:  bar.Close,
		Size:        size,
		EntryFee:    fee,
		EntryReason: reason,
	}
}

func (s *session) closePosition(exitTime time.Time, exitPrice float64, reason string, exitType ExitType) {
	p := s.pos
	gross := grossPnL(p.Side, p.EntryPrice, exitPrice, p.Size)
	exitFee := exitPrice * p.Size * s.feeRate()
	net := gross - p.EntryFee - exitFee
	s.cash += gross - exitFee

	pnlPct := 0.0
	if notional := p.EntryPrice * p.Size; notional > 0 {
		pnlPct = net / notional * 100
	}
	s.trades = append(s.trades, Trade{
		Side:        p.Side,
		EntryTime:   p.EntryTime,
		ExitTime:    exitTime,
		EntryPrice:  p.EntryPrice,
		ExitPrice:   exitPrice,
		Size:        p.Size,
		GrossPnL:    gross,
		EntryFee:    p.EntryFee,
		ExitFee:     exitFee,
		TotalFees:   p.EntryFee + exitFee,
		NetPnL:      net,
		PnLPct:      pnlPct,
		EntryReason: p.EntryReason,
		ExitReason:  reason,
		ExitType:    exitType,
	})
	s.pos = nil
}

// unrealized marks the open position to price: gross move minus the
// exit fee a close at that price would cost. The entry fee is already
// reflected in realized capital.
func (s *session) unrealized(price float64) float64 {
	if s.pos == nil {
		return 0
	}
	gross := grossPnL(s.pos.Side, s.pos.EntryPrice, price, s.pos.Size)
	return gross - price*s.pos.Size*s.feeRate()
}

func (s *session) mark(bar Bar) {
	unreal := s.unrealized(bar.Close)
	s.curve = append(s.curve, EquityPoint{
		Time:            bar.Time,
		Equity:          s.cash + unreal,
		RealizedCapital: s.cash,
		UnrealizedPnL:   unreal,
	})
}

func (s *session) result(bars []Bar) Result {
	res := Result{
		Strategy:       s.cfg.Strategy.Name(),
		InitialCapital: s.cfg.InitialCapital,
		FinalCapital:   s.cash,
		Trades:         s.trades,
		EquityCurve:    s.curve,
	}
	if s.pos != nil && len(bars) > 0 {
		last := bars[len(bars)-1]
		unreal := s.unrealized(last.Close)
		pct := 0.0
		if notional := s.pos.EntryPrice * s.pos.Size; notional > 0 {
			pct = unreal / notional * 100
		}
		res.OpenPosition = &OpenPosition{
			Side:             s.pos.Side,
			EntryTime:        s.pos.EntryTime,
			EntryPrice:       s.pos.EntryPrice,
			Size:             s.pos.Size,
			EntryFee:         s.pos.EntryFee,
			EntryReason:      s.pos.EntryReason,
			CurrentPrice:     last.Close,
			UnrealizedPnL:    unreal,
			UnrealizedPnLPct: pct,
		}
	}
	summarize(&res)
	return res
}

func grossPnL(side Side, entry, exit, size float64) float64 {
	if side == SideShort {
		return (entry - exit) * size
	}
	return (exit - entry) * size
}

// WriteResultJSON writes an indented JSON rendering of a result.
func WriteResultJSON(w io.Writer, res Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
