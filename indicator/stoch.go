package indicator

import "math"

// Stochastic returns the %K and %D lines of the stochastic oscillator:
// %K = (close - lowest low) / (highest high - lowest low) * 100 over
// kPeriod bars, %D = SMA(%K, dPeriod). A window with zero range divides
// by zero per native float semantics; callers guard with math.IsNaN.
func Stochastic(high, low, close []float64, kPeriod, dPeriod int) (k, d []float64) {
	n := len(close)
	k = nanSeries(n)
	if kPeriod <= 0 || len(high) != n || len(low) != n {
		return k, nanSeries(n)
	}
	for i := kPeriod - 1; i < n; i++ {
		hh := math.Inf(-1)
		ll := math.Inf(1)
		for j := i - kPeriod + 1; j <= i; j++ {
			if high[j] > hh {
				hh = high[j]
			}
			if low[j] < ll {
				ll = low[j]
			}
		}
		k[i] = (close[i] - ll) / (hh - ll) * 100
	}
	d = SMA(k, dPeriod)
	return k, d
}
