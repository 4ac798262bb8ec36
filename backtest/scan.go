package backtest

import (
	"encoding/json"
	"io"
	"time"
)

// ScanResult is one strategy's decision on the latest bar of a series.
type ScanResult struct {
	Strategy   string       `json:"strategy"`
	LastTime   time.Time    `json:"last_time"`
	LastClose  float64      `json:"last_close"`
	Action     SignalAction `json:"action"`
	Reason     string       `json:"reason"`
	Confidence float64      `json:"confidence"`
}

// Scan evaluates each strategy on the latest bar only. This is the
// live-decision boundary: no position state, no fills, no ledger —
// exactly what a polling loop would ask a strategy before placing an
// order elsewhere.
func Scan(bars []Bar, strategies []Strategy) []ScanResult {
	if len(bars) == 0 {
		return nil
	}
	i := len(bars) - 1
	last := bars[i]
	out := make([]ScanResult, 0, len(strategies))
	for _, st := range strategies {
		sig := st.OnBar(i, bars)
		out = append(out, ScanResult{
			Strategy:   st.Name(),
			LastTime:   last.Time,
			LastClose:  last.Close,
			Action:     sig.Action,
			Reason:     sig.Reason,
			Confidence: sig.Confidence,
		})
	}
	return out
}

// WriteScanJSON writes an indented JSON rendering of scan results.
func WriteScanJSON(w io.Writer, results []ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
