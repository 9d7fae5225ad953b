package indicator

// Full-series variants used by the backtester. Each returns a value slice and
// a parallel validity slice of the same length as the input; positions before
// the warm-up period are marked invalid.

// SMASeries computes a rolling simple moving average over the whole series.
func SMASeries(series []float64, period int) ([]float64, []bool) {
	out := make([]float64, len(series))
	ok := make([]bool, len(series))
	if period <= 0 {
		return out, ok
	}
	sum := 0.0
	for i, v := range series {
		sum += v
		if i >= period {
			sum -= series[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
			ok[i] = true
		}
	}
	return out, ok
}

// EMASeries computes an exponential moving average over the whole series,
// seeded with the simple mean of the first period values.
func EMASeries(series []float64, period int) ([]float64, []bool) {
	out := make([]float64, len(series))
	ok := make([]bool, len(series))
	if period <= 0 {
		return out, ok
	}
	k := 2.0 / (float64(period) + 1)
	var e float64
	seeded := false
	for i, v := range series {
		if !seeded {
			if i >= period-1 {
				sum := 0.0
				for _, x := range series[i-period+1 : i+1] {
					sum += x
				}
				e = sum / float64(period)
				seeded = true
			}
		} else {
			e = v*k + e*(1-k)
		}
		if seeded {
			out[i] = e
			ok[i] = true
		}
	}
	return out, ok
}

// RSISeries computes a Wilder-smoothed RSI over the whole series.
func RSISeries(series []float64, period int) ([]float64, []bool) {
	n := len(series)
	out := make([]float64, n)
	ok := make([]bool, n)
	if period <= 0 || n < period+1 {
		return out, ok
	}
	gain, loss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		d := series[i] - series[i-1]
		if d >= 0 {
			gain += d
		} else {
			loss += -d
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	out[period] = rsiFrom(avgGain, avgLoss)
	ok[period] = true
	for i := period + 1; i < n; i++ {
		d := series[i] - series[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
		out[i] = rsiFrom(avgGain, avgLoss)
		ok[i] = true
	}
	return out, ok
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// MACDSeries computes the MACD line, signal line and histogram over the whole
// series from fast/slow EMA series.
func MACDSeries(series []float64, fast, slow, signal int) (macd, sig, hist []float64, ok []bool) {
	n := len(series)
	ef, okF := EMASeries(series, fast)
	es, okS := EMASeries(series, slow)
	macd = make([]float64, n)
	line := make([]float64, n)
	lineOK := make([]bool, n)
	for i := 0; i < n; i++ {
		if okF[i] && okS[i] {
			line[i] = ef[i] - es[i]
			lineOK[i] = true
		}
	}
	copy(macd, line)
	sig, sigOK := EMASeries(line, signal)
	hist = make([]float64, n)
	ok = make([]bool, n)
	for i := 0; i < n; i++ {
		if lineOK[i] && sigOK[i] {
			hist[i] = macd[i] - sig[i]
			ok[i] = true
		}
	}
	return macd, sig, hist, ok
}
