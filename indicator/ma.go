// Package indicator implements pure technical indicators over numeric
// series. Every function returns a series aligned index-for-index with
// its input; positions inside the warm-up window are NaN. Callers are
// expected to skip the warm-up region (the engine's lookback) before
// reading values.
package indicator

import "math"

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA returns the trailing arithmetic mean over period values.
// Windows containing NaN (e.g. a derived series with its own warm-up)
// stay NaN.
func SMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				ok = false
				break
			}
			sum += values[j]
		}
		if ok {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA returns a span-style exponential moving average with
// alpha = 2/(period+1), seeded from the first finite value with no
// bias adjustment. Leading NaNs are preserved; the average is defined
// from the seed onward.
func EMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}
	alpha := 2.0 / (float64(period) + 1.0)
	prev := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(prev) {
			prev = v
		} else {
			prev = alpha*v + (1-alpha)*prev
		}
		out[i] = prev
	}
	return out
}

// StdDev returns the rolling population standard deviation over period
// values.
func StdDev(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				ok = false
				break
			}
			sum += values[j]
		}
		if !ok {
			continue
		}
		mean := sum / float64(period)
		ss := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(period))
	}
	return out
}
