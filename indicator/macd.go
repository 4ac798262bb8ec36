package indicator

// MACD returns the moving average convergence/divergence line
// (EMA(fast) - EMA(slow)), its signal line (EMA of the MACD line over
// signalPeriod) and the histogram (macd - signal).
func MACD(values []float64, fast, slow, signalPeriod int) (macd, signal, hist []float64) {
	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)
	macd = nanSeries(len(values))
	for i := range values {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	signal = EMA(macd, signalPeriod)
	hist = nanSeries(len(values))
	for i := range values {
		hist[i] = macd[i] - signal[i]
	}
	return macd, signal, hist
}
