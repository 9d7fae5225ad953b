// Package finance computes realised and unrealised PnL from the trade
// journal using FIFO lot matching, and derives the realised equity curve.
// All functions are pure: they take a record slice in timestamp order and
// never mutate it.
package finance

import (
	"github.com/Hootan504/bingx-bot/types"
)

// lot is an open buy waiting to be matched against later sells.
type lot struct {
	amount float64
	price  float64
}

// fifoState tracks open lots per symbol while replaying records.
type fifoState map[string][]lot

// applyBuy queues a new lot at the tail.
func (s fifoState) applyBuy(r types.TradeRecord) {
	s[r.Symbol] = append(s[r.Symbol], lot{amount: r.Amount, price: r.Price})
}

// applySell matches the sell against open lots from the head and returns the
// realised profit of the matched portion. A sell larger than the open
// inventory realises only the covered part; the excess is dropped.
func (s fifoState) applySell(r types.TradeRecord) float64 {
	lots := s[r.Symbol]
	remaining := r.Amount
	profit := 0.0

	for remaining > 0 && len(lots) > 0 {
		head := lots[0]
		matched := head.amount
		if matched > remaining {
			matched = remaining
		}
		profit += (r.Price - head.price) * matched
		remaining -= matched
		head.amount -= matched
		if head.amount > 0 {
			lots[0] = head
		} else {
			lots = lots[1:]
		}
	}

	s[r.Symbol] = lots
	return profit
}

// RealisedPnL replays the records and returns the total realised profit of
// all closed FIFO matches.
func RealisedPnL(records []types.TradeRecord) float64 {
	state := make(fifoState)
	total := 0.0
	for _, r := range records {
		switch r.Side {
		case types.SideBuy:
			state.applyBuy(r)
		case types.SideSell:
			total += state.applySell(r)
		}
	}
	return total
}

// UnrealisedPnL values the lots still open after replaying the records
// against the given mark prices. Symbols without a mark price contribute
// nothing.
func UnrealisedPnL(records []types.TradeRecord, marks map[string]float64) float64 {
	state := make(fifoState)
	for _, r := range records {
		switch r.Side {
		case types.SideBuy:
			state.applyBuy(r)
		case types.SideSell:
			state.applySell(r)
		}
	}

	total := 0.0
	for symbol, lots := range state {
		mark, ok := marks[symbol]
		if !ok {
			continue
		}
		for _, l := range lots {
			total += (mark - l.price) * l.amount
		}
	}
	return total
}

// EquityCurve replays the records and emits one point of cumulative realised
// equity per closing sell, starting from zero. Points carry the timestamp of
// the sell that realised them.
func EquityCurve(records []types.TradeRecord) []types.EquityPoint {
	state := make(fifoState)
	equity := 0.0
	var curve []types.EquityPoint

	for _, r := range records {
		switch r.Side {
		case types.SideBuy:
			state.applyBuy(r)
		case types.SideSell:
			matched := len(state[r.Symbol]) > 0
			equity += state.applySell(r)
			if matched {
				curve = append(curve, types.EquityPoint{Timestamp: r.Timestamp, Equity: equity})
			}
		}
	}
	return curve
}
