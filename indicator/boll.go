package indicator

// Bollinger returns the middle band (SMA over period) and the upper and
// lower bands at middle +/- k rolling standard deviations.
func Bollinger(values []float64, period int, k float64) (middle, upper, lower []float64) {
	middle = SMA(values, period)
	std := StdDev(values, period)
	upper = nanSeries(len(values))
	lower = nanSeries(len(values))
	for i := range values {
		upper[i] = middle[i] + k*std[i]
		lower[i] = middle[i] - k*std[i]
	}
	return middle, upper, lower
}
