package indicator

import "math"

// RSI returns the relative strength index: average gain / average loss
// over close-to-close deltas, both smoothed with the package EMA, then
// 100 - 100/(1+RS). Index 0 has no delta and stays NaN.
//
// Division follows native float semantics: a zero average loss yields
// RS = +Inf and RSI = 100, and a fully flat window yields NaN. Callers
// guard with math.IsNaN.
func RSI(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < 2 {
		return out
	}
	alpha := 2.0 / (float64(period) + 1.0)
	avgGain := math.NaN()
	avgLoss := 0.0
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		if math.IsNaN(avgGain) {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain = alpha*gain + (1-alpha)*avgGain
			avgLoss = alpha*loss + (1-alpha)*avgLoss
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}
