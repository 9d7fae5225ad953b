package types

// Candle represents a single OHLCV bar. Candles are immutable once produced
// and sequences passed to the core are ordered by ascending timestamp.
type Candle struct {
	Timestamp int64   `json:"ts"` // milliseconds since epoch
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Closes extracts the close series from a candle window.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Balance represents the account margin-currency balance as reported by the
// exchange. Total may be zero when the exchange omits it.
type Balance struct {
	Total float64 `json:"total"`
}

// Position summarizes an open exchange position for status reporting.
type Position struct {
	Side          string   `json:"side"` // "long" or "short"
	Size          float64  `json:"size"`
	EntryPrice    float64  `json:"entry_price"`
	MarkPrice     float64  `json:"mark_price"`
	Leverage      float64  `json:"leverage,omitempty"`
	UnrealizedPnL float64  `json:"unrealized_pnl"`
	ROE           *float64 `json:"roe,omitempty"` // percent, nil when margin unknown
}

// EquityPoint is one point of the realised equity curve: cumulative realised
// equity after a closing fill. Points are produced in non-decreasing
// timestamp order, one per realised match event.
type EquityPoint struct {
	Timestamp int64   `json:"ts"`
	Equity    float64 `json:"equity"`
}
