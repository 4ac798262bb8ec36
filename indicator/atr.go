package indicator

import "math"

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|)
// per bar. The first bar has no previous close and uses high-low.
func TrueRange(high, low, close []float64) []float64 {
	n := len(close)
	out := nanSeries(n)
	if n == 0 || len(high) != n || len(low) != n {
		return out
	}
	out[0] = high[0] - low[0]
	for i := 1; i < n; i++ {
		out[i] = math.Max(high[i]-low[i],
			math.Max(math.Abs(high[i]-close[i-1]), math.Abs(low[i]-close[i-1])))
	}
	return out
}

// ATR returns the EMA of the true range over period bars.
func ATR(high, low, close []float64, period int) []float64 {
	return EMA(TrueRange(high, low, close), period)
}
