package backtest

import "math"

// periodsPerYear annualizes per-step Sharpe by convention; the caller's
// timeframe decides what a "step" is.
const periodsPerYear = 252

// summarize reduces the trade ledger and equity curve into the scalar
// metrics of a result. Numeric edge cases resolve explicitly: no trades
// means zero rates and a zero profit factor, wins with no losses means
// an infinite profit factor, fewer than two equity points or zero
// return variance means a zero Sharpe.
func summarize(res *Result) {
	var winsAmt, lossAmt, fees float64
	for _, t := range res.Trades {
		if t.NetPnL > 0 {
			res.WinningTrades++
			winsAmt += t.NetPnL
		} else {
			res.LosingTrades++
			lossAmt += -t.NetPnL
		}
		fees += t.EntryFee + t.ExitFee
	}
	res.TotalTrades = len(res.Trades)
	res.TotalFees = fees

	if res.TotalTrades > 0 {
		res.WinRatePct = float64(res.WinningTrades) / float64(res.TotalTrades) * 100
	}
	if lossAmt > 0 {
		res.ProfitFactor = winsAmt / lossAmt
	} else if winsAmt > 0 {
		res.ProfitFactor = math.Inf(1)
	}

	if res.InitialCapital > 0 {
		res.TotalReturnPct = (res.FinalCapital - res.InitialCapital) / res.InitialCapital * 100
	}
	res.TotalEquity = res.FinalCapital
	if res.OpenPosition != nil {
		res.TotalEquity += res.OpenPosition.UnrealizedPnL
	}
	if res.InitialCapital > 0 {
		res.TotalEquityReturnPct = (res.TotalEquity - res.InitialCapital) / res.InitialCapital * 100
	}

	res.MaxDrawdownPct = maxDrawdown(res.EquityCurve)
	res.SharpeRatio = sharpe(res.EquityCurve)
}

// maxDrawdown scans the curve tracking the running peak and returns the
// largest percentage decline from it. Always >= 0.
func maxDrawdown(curve []EquityPoint) float64 {
	if len(curve) == 0 {
		return 0
	}
	peak := curve[0].Equity
	maxDD := 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			if dd := (peak - p.Equity) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpe computes mean/stddev of per-step equity returns, annualized by
// sqrt(periodsPerYear). Population standard deviation.
func sharpe(curve []EquityPoint) float64 {
	var returns []float64
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev <= 0 {
			continue
		}
		returns = append(returns, curve[i].Equity/prev-1)
	}
	if len(returns) < 2 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance) * math.Sqrt(periodsPerYear)
}
