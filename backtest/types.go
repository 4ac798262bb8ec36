package backtest

import (
	"encoding/json"
	"math"
	"time"
)

type Side string

const (
	SideFlat  Side = "flat"
	SideLong  Side = "long"
	SideShort Side = "short"
)

type SignalAction string

const (
	SignalBuy  SignalAction = "buy"
	SignalSell SignalAction = "sell"
	SignalHold SignalAction = "hold"
)

type ExitType string

const (
	ExitSignal   ExitType = "signal"
	ExitStopLoss ExitType = "stop_loss"
)

// Bar is one immutable OHLCV sample. The engine never mutates bars.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Signal is a strategy's decision for one bar. Confidence is a bounded
// heuristic: at most 0.9 for actionable signals, exactly 0.5 for
// ambient holds and 0.0 for insufficient data.
type Signal struct {
	Action     SignalAction `json:"action"`
	Reason     string       `json:"reason"`
	Confidence float64      `json:"confidence"`
}

// Position is the engine's single open position. At most one exists at
// any bar; it is converted into a Trade on close.
type Position struct {
	Side        Side
	EntryTime   time.Time
	EntryPrice  float64
	Size        float64
	EntryFee    float64
	EntryReason string
}

// Trade is an immutable closed-position record.
type Trade struct {
	Side        Side      `json:"side"`
	EntryTime   time.Time `json:"entry_time"`
	ExitTime    time.Time `json:"exit_time"`
	EntryPrice  float64   `json:"entry_price"`
	ExitPrice   float64   `json:"exit_price"`
	Size        float64   `json:"size"`
	GrossPnL    float64   `json:"gross_pnl"`
	EntryFee    float64   `json:"entry_fee"`
	ExitFee     float64   `json:"exit_fee"`
	TotalFees   float64   `json:"total_fees"`
	NetPnL      float64   `json:"net_pnl"`
	PnLPct      float64   `json:"pnl_pct"`
	EntryReason string    `json:"entry_reason"`
	ExitReason  string    `json:"exit_reason"`
	ExitType    ExitType  `json:"exit_type"`
}

// EquityPoint is one sample of the equity curve. RealizedCapital
// carries the entry-fee debit of an open position; UnrealizedPnL is the
// gross mark-to-market move minus the potential exit fee at the current
// close.
type EquityPoint struct {
	Time            time.Time `json:"time"`
	Equity          float64   `json:"equity"`
	RealizedCapital float64   `json:"realized_capital"`
	UnrealizedPnL   float64   `json:"unrealized_pnl"`
}

// OpenPosition describes a position still open after the last bar. It
// is never force-closed and is excluded from all trade statistics.
type OpenPosition struct {
	Side             Side      `json:"side"`
	EntryTime        time.Time `json:"entry_time"`
	EntryPrice       float64   `json:"entry_price"`
	Size             float64   `json:"size"`
	EntryFee         float64   `json:"entry_fee"`
	EntryReason      string    `json:"entry_reason"`
	CurrentPrice     float64   `json:"current_price"`
	UnrealizedPnL    float64   `json:"unrealized_pnl"`
	UnrealizedPnLPct float64   `json:"unrealized_pnl_pct"`
}

// Result aggregates the trade ledger, equity curve and summary metrics
// of one run. Realized figures (FinalCapital, TotalReturnPct) reflect
// closed trades only; TotalEquity adds the open position's unrealized
// P&L on top.
type Result struct {
	Strategy             string        `json:"strategy"`
	InitialCapital       float64       `json:"initial_capital"`
	FinalCapital         float64       `json:"final_capital"`
	TotalReturnPct       float64       `json:"total_return_pct"`
	TotalTrades          int           `json:"total_trades"`
	WinningTrades        int           `json:"winning_trades"`
	LosingTrades         int           `json:"losing_trades"`
	WinRatePct           float64       `json:"win_rate_pct"`
	MaxDrawdownPct       float64       `json:"max_drawdown_pct"`
	SharpeRatio          float64       `json:"sharpe_ratio"`
	ProfitFactor         float64       `json:"profit_factor"`
	TotalFees            float64       `json:"total_fees"`
	TotalEquity          float64       `json:"total_equity"`
	TotalEquityReturnPct float64       `json:"total_equity_return_pct"`
	Trades               []Trade       `json:"trades"`
	EquityCurve          []EquityPoint `json:"equity_curve"`
	OpenPosition         *OpenPosition `json:"open_position,omitempty"`
}

// MarshalJSON renders an infinite profit factor (all wins, no losses)
// as the string "inf"; encoding/json rejects IEEE infinities.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	out := struct {
		alias
		ProfitFactor any `json:"profit_factor"`
	}{alias: alias(r), ProfitFactor: r.ProfitFactor}
	if math.IsInf(r.ProfitFactor, 1) {
		out.ProfitFactor = "inf"
	}
	return json.Marshal(out)
}
