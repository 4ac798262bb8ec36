package indicator

import "math"

// ADX returns the average directional index together with the +DI and
// -DI lines. True range and directional movement are smoothed with the
// package EMA over period bars; DX = 100*|DI+ - DI-|/(DI+ + DI-) and
// ADX is the EMA of DX. Index 0 has no directional movement and stays
// NaN on all three series.
func ADX(high, low, close []float64, period int) (adx, plusDI, minusDI []float64) {
	n := len(close)
	adx = nanSeries(n)
	plusDI = nanSeries(n)
	minusDI = nanSeries(n)
	if period <= 0 || n < 2 || len(high) != n || len(low) != n {
		return adx, plusDI, minusDI
	}

	tr := nanSeries(n)
	plusDM := nanSeries(n)
	minusDM := nanSeries(n)
	for i := 1; i < n; i++ {
		tr[i] = math.Max(high[i]-low[i],
			math.Max(math.Abs(high[i]-close[i-1]), math.Abs(low[i]-close[i-1])))
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		p, m := 0.0, 0.0
		if up > down && up > 0 {
			p = up
		}
		if down > up && down > 0 {
			m = down
		}
		plusDM[i] = p
		minusDM[i] = m
	}

	atr := EMA(tr, period)
	smoothPlus := EMA(plusDM, period)
	smoothMinus := EMA(minusDM, period)

	dx := nanSeries(n)
	for i := 1; i < n; i++ {
		pd := 100 * smoothPlus[i] / atr[i]
		md := 100 * smoothMinus[i] / atr[i]
		plusDI[i] = pd
		minusDI[i] = md
		dx[i] = 100 * math.Abs(pd-md) / (pd + md)
	}
	adx = EMA(dx, period)
	return adx, plusDI, minusDI
}
