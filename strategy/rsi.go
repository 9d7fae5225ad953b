package strategy

import (
	"fmt"

	"github.com/Hootan504/bingx-bot/indicator"
	"github.com/Hootan504/bingx-bot/types"
)

func init() {
	Register("rsi", func(params Params) Strategy {
		return &RSI{
			Period:     params.GetInt("period", 14),
			Oversold:   params.Get("oversold", 30),
			Overbought: params.Get("overbought", 70),
		}
	})
}

// RSI is a mean-reversion rule, not a crossover: it signals long while RSI is
// below the oversold threshold and short while above the overbought
// threshold, re-firing on every bar the condition holds.
type RSI struct {
	Period     int
	Oversold   float64
	Overbought float64
}

func (s *RSI) Name() string { return "rsi" }

func (s *RSI) Description() string {
	return fmt.Sprintf("RSI strategy with period=%d, oversold=%g, overbought=%g.",
		s.Period, s.Oversold, s.Overbought)
}

func (s *RSI) ComputeSignal(closesTF, closesTrend []float64) types.Signal {
	val, ok := indicator.RSI(closesTF, s.Period)
	if !ok {
		return types.SignalFlat
	}
	if val < s.Oversold {
		return types.SignalLong
	}
	if val > s.Overbought {
		return types.SignalShort
	}
	return types.SignalFlat
}
