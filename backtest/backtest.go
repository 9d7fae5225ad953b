// Package backtest replays a strategy over a fixed candle series with a
// simplified fee and PnL model. The simulator is a pure function over its
// inputs and shares the indicator library with the live signal path, but
// derives crossover-style signals from the bar-over-bar change of each
// indicator family rather than from single-bar thresholds.
package backtest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/Hootan504/bingx-bot/indicator"
	"github.com/Hootan504/bingx-bot/strategy"
	"github.com/Hootan504/bingx-bot/types"
)

// Request describes one backtest run.
type Request struct {
	Symbol       string          `json:"symbol"`
	Timeframe    string          `json:"timeframe"`
	Bars         int             `json:"bars"`
	StartingCash float64         `json:"starting_cash"`
	USDPerTrade  float64         `json:"usd_per_trade"`
	TakerFeePct  float64         `json:"taker_fee_pct"`
	Strategy     string          `json:"strategy"`
	Params       strategy.Params `json:"params,omitempty"`
}

// SimTrade is one completed simulated round trip.
type SimTrade struct {
	EntryTimestamp int64   `json:"entry_ts"`
	ExitTimestamp  int64   `json:"exit_ts"`
	Side           string  `json:"side"` // "long" or "short"
	EntryPrice     float64 `json:"entry_price"`
	ExitPrice      float64 `json:"exit_price"`
	PnL            float64 `json:"pnl"` // net of entry and exit fees
}

// Result aggregates one backtest run.
type Result struct {
	Symbol      string     `json:"symbol"`
	Strategy    string     `json:"strategy"`
	TradeCount  int        `json:"trade_count"`
	Wins        int        `json:"wins"`
	Losses      int        `json:"losses"`
	WinRate     float64    `json:"win_rate"`
	NetPnL      float64    `json:"net_pnl"`
	StartEquity float64    `json:"start_equity"`
	FinalEquity float64    `json:"final_equity"`
	MaxDrawdown float64    `json:"max_drawdown"`
	Sharpe      float64    `json:"sharpe"`
	Trades      []SimTrade `json:"trades"`
}

// signals holds the per-bar vote of every indicator family, precomputed once
// over the full close series.
type signals struct {
	votes [][4]int // per bar: sma, ema, rsi, macd
}

// crossUp reports a bar-over-bar upward cross of a over b.
func crossUp(aPrev, bPrev, aCur, bCur float64) bool {
	return aPrev <= bPrev && aCur > bCur
}

func crossDown(aPrev, bPrev, aCur, bCur float64) bool {
	return aPrev >= bPrev && aCur < bCur
}

// precompute builds all four family vote series. Votes are zero wherever an
// indicator is not yet valid at both the previous and current bar.
func precompute(closes []float64, p strategy.Params) signals {
	smaFast, smaFastOK := indicator.SMASeries(closes, p.GetInt("sma_fast", 9))
	smaSlow, smaSlowOK := indicator.SMASeries(closes, p.GetInt("sma_slow", 21))
	emaFast, emaFastOK := indicator.EMASeries(closes, p.GetInt("ema_fast", 9))
	emaSlow, emaSlowOK := indicator.EMASeries(closes, p.GetInt("ema_slow", 21))
	rsi, rsiOK := indicator.RSISeries(closes, p.GetInt("rsi_period", 14))
	_, _, macdHist, macdOK := indicator.MACDSeries(closes,
		p.GetInt("macd_fast", 12), p.GetInt("macd_slow", 26), p.GetInt("macd_signal", 9))

	overbought := p.Get("rsi_overbought", 70)
	oversold := p.Get("rsi_oversold", 30)

	s := signals{votes: make([][4]int, len(closes))}
	for i := 1; i < len(closes); i++ {
		if smaFastOK[i-1] && smaSlowOK[i-1] && smaFastOK[i] && smaSlowOK[i] {
			if crossUp(smaFast[i-1], smaSlow[i-1], smaFast[i], smaSlow[i]) {
				s.votes[i][0] = 1
			} else if crossDown(smaFast[i-1], smaSlow[i-1], smaFast[i], smaSlow[i]) {
				s.votes[i][0] = -1
			}
		}
		if emaFastOK[i-1] && emaSlowOK[i-1] && emaFastOK[i] && emaSlowOK[i] {
			if crossUp(emaFast[i-1], emaSlow[i-1], emaFast[i], emaSlow[i]) {
				s.votes[i][1] = 1
			} else if crossDown(emaFast[i-1], emaSlow[i-1], emaFast[i], emaSlow[i]) {
				s.votes[i][1] = -1
			}
		}
		if rsiOK[i-1] && rsiOK[i] {
			// Long on recovery out of oversold, short on rolling over
			// out of overbought.
			if rsi[i-1] <= oversold && rsi[i] > oversold {
				s.votes[i][2] = 1
			} else if rsi[i-1] >= overbought && rsi[i] < overbought {
				s.votes[i][2] = -1
			}
		}
		if macdOK[i-1] && macdOK[i] {
			histPrev := macdHist[i-1]
			histCur := macdHist[i]
			if histPrev <= 0 && histCur > 0 {
				s.votes[i][3] = 1
			} else if histPrev >= 0 && histCur < 0 {
				s.votes[i][3] = -1
			}
		}
	}
	return s
}

// signalAt resolves the chosen family's signal at bar i.
func (s signals) signalAt(i int, family string) types.Signal {
	vote := 0
	switch family {
	case "sma":
		vote = s.votes[i][0]
	case "ema":
		vote = s.votes[i][1]
	case "rsi":
		vote = s.votes[i][2]
	case "macd":
		vote = s.votes[i][3]
	case "composite":
		for _, v := range s.votes[i] {
			vote += v
		}
	}
	if vote > 0 {
		return types.SignalLong
	}
	if vote < 0 {
		return types.SignalShort
	}
	return types.SignalFlat
}

// families lists the supported strategy names.
var families = map[string]bool{"sma": true, "ema": true, "rsi": true, "macd": true, "composite": true}

// Run executes one backtest over the given candles.
func Run(req Request, candles []types.Candle) (Result, error) {
	if !families[req.Strategy] {
		return Result{}, fmt.Errorf("unknown backtest strategy: %s", req.Strategy)
	}
	if req.USDPerTrade <= 0 {
		return Result{}, fmt.Errorf("usd_per_trade must be positive, got %v", req.USDPerTrade)
	}
	if len(candles) < 2 {
		return Result{}, fmt.Errorf("need at least 2 candles, got %d", len(candles))
	}

	closes := types.Closes(candles)
	sigs := precompute(closes, req.Params)
	feeRate := req.TakerFeePct / 100.0

	res := Result{
		Symbol:      req.Symbol,
		Strategy:    req.Strategy,
		StartEquity: req.StartingCash,
	}
	equity := req.StartingCash
	peak := equity

	type openPosition struct {
		side    types.Signal
		entryTS int64
		entry   float64
		qty     float64
		fee     float64 // entry fee, already deducted from equity
	}
	var pos *openPosition

	openPos := func(sig types.Signal, bar types.Candle) {
		qty := req.USDPerTrade / bar.Close
		fee := req.USDPerTrade * feeRate
		equity -= fee
		pos = &openPosition{side: sig, entryTS: bar.Timestamp, entry: bar.Close, qty: qty, fee: fee}
	}

	closePos := func(bar types.Candle) {
		gross := (bar.Close - pos.entry) * pos.qty
		if pos.side == types.SignalShort {
			gross = -gross
		}
		exitFee := bar.Close * pos.qty * feeRate
		equity += gross - exitFee

		side := "long"
		if pos.side == types.SignalShort {
			side = "short"
		}
		res.Trades = append(res.Trades, SimTrade{
			EntryTimestamp: pos.entryTS,
			ExitTimestamp:  bar.Timestamp,
			Side:           side,
			EntryPrice:     pos.entry,
			ExitPrice:      bar.Close,
			PnL:            gross - exitFee - pos.fee,
		})
		pos = nil
	}

	for i := 1; i < len(candles); i++ {
		sig := sigs.signalAt(i, req.Strategy)
		if sig != types.SignalFlat {
			if pos != nil && pos.side != sig {
				closePos(candles[i])
			}
			if pos == nil {
				openPos(sig, candles[i])
			}
		}

		if equity > peak {
			peak = equity
		}
		if dd := peak - equity; dd > res.MaxDrawdown {
			res.MaxDrawdown = dd
		}
	}

	if pos != nil {
		closePos(candles[len(candles)-1])
		if equity > peak {
			peak = equity
		}
		if dd := peak - equity; dd > res.MaxDrawdown {
			res.MaxDrawdown = dd
		}
	}

	res.FinalEquity = equity
	res.NetPnL = equity - req.StartingCash
	res.TradeCount = len(res.Trades)
	for _, tr := range res.Trades {
		if tr.PnL > 0 {
			res.Wins++
		} else {
			res.Losses++
		}
	}
	if res.TradeCount > 0 {
		res.WinRate = float64(res.Wins) / float64(res.TradeCount)
	}
	res.Sharpe = sharpe(res.Trades, req.USDPerTrade)
	return res, nil
}

// sharpe computes mean/stddev * sqrt(n) over per-trade returns normalised by
// the fixed notional, using sample variance. Fewer than 2 trades yields 0.
func sharpe(trades []SimTrade, usdPerTrade float64) float64 {
	if len(trades) < 2 {
		return 0
	}
	returns := make([]float64, len(trades))
	for i, tr := range trades {
		returns[i] = tr.PnL / usdPerTrade
	}
	mean := stat.Mean(returns, nil)
	sd := stat.StdDev(returns, nil)
	if sd < 1e-12 {
		sd = 1e-12
	}
	return mean / sd * math.Sqrt(float64(len(returns)))
}
