// Package indicator provides pure, stateless technical indicator functions
// over ordered close-price series. Every function reports availability
// explicitly: when the series is too short for the requested period the
// boolean result is false and the value must not be used.
package indicator

import "math"

// SMA returns the arithmetic mean of the last period values.
func SMA(series []float64, period int) (float64, bool) {
	if period <= 0 || len(series) < period {
		return 0, false
	}
	sum := 0.0
	for _, v := range series[len(series)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// EMA returns the exponential moving average over the full series, seeded
// with the simple mean of the first period values and smoothed forward with
// k = 2/(period+1).
func EMA(series []float64, period int) (float64, bool) {
	if period <= 0 || len(series) < period {
		return 0, false
	}
	k := 2.0 / (float64(period) + 1)
	e := 0.0
	for _, v := range series[:period] {
		e += v
	}
	e /= float64(period)
	for _, v := range series[period:] {
		e = v*k + e*(1-k)
	}
	return e, true
}

// RSI returns the relative strength index over the trailing period deltas.
// The result is 100 when there are no losses and 0 when there are no gains.
func RSI(series []float64, period int) (float64, bool) {
	if period <= 0 || len(series) < period+1 {
		return 0, false
	}
	gain, loss := 0.0, 0.0
	for i := len(series) - period; i < len(series); i++ {
		d := series[i] - series[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100, true
	}
	if gain == 0 {
		return 0, true
	}
	rs := gain / loss
	return 100 - 100/(1+rs), true
}

// MACD returns the MACD line, signal line and histogram for the given fast,
// slow and signal periods. The MACD line is rebuilt from scratch over each
// growing prefix of the series (O(n·slow)), which is acceptable at bar-close
// cadence.
func MACD(series []float64, fast, slow, signal int) (macd, sig, hist float64, ok bool) {
	need := slow
	if fast > need {
		need = fast
	}
	if signal > need {
		need = signal
	}
	if len(series) < need+1 {
		return 0, 0, 0, false
	}
	var line []float64
	for i := slow; i < len(series); i++ {
		ef, okF := EMA(series[:i+1], fast)
		es, okS := EMA(series[:i+1], slow)
		if okF && okS {
			line = append(line, ef-es)
		}
	}
	if len(line) < signal {
		return 0, 0, 0, false
	}
	sig, ok = EMA(line, signal)
	if !ok {
		return 0, 0, 0, false
	}
	macd = line[len(line)-1]
	return macd, sig, macd - sig, true
}

// ATR returns the average true range of the trailing period bars. The inputs
// are parallel high/low/close series; the true range of bar i uses the close
// of bar i-1.
func ATR(highs, lows, closes []float64, period int) (float64, bool) {
	n := len(closes)
	if period <= 0 || n < period+1 || len(highs) != n || len(lows) != n {
		return 0, false
	}
	sum := 0.0
	for i := n - period; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr := hl
		if hc > tr {
			tr = hc
		}
		if lc > tr {
			tr = lc
		}
		sum += tr
	}
	return sum / float64(period), true
}
