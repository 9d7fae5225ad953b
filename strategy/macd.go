package strategy

import (
	"fmt"

	"github.com/Hootan504/bingx-bot/indicator"
	"github.com/Hootan504/bingx-bot/types"
)

func init() {
	Register("macd", func(params Params) Strategy {
		return &MACD{
			Fast:   params.GetInt("fast", 12),
			Slow:   params.GetInt("slow", 26),
			Signal: params.GetInt("signal", 9),
		}
	})
}

// MACD signals on the sign of the MACD histogram: long above zero, short
// below zero.
type MACD struct {
	Fast   int
	Slow   int
	Signal int
}

func (s *MACD) Name() string { return "macd" }

func (s *MACD) Description() string {
	return fmt.Sprintf("MACD strategy with fast=%d, slow=%d, signal=%d. Produces long when histogram > 0, short when histogram < 0.",
		s.Fast, s.Slow, s.Signal)
}

func (s *MACD) ComputeSignal(closesTF, closesTrend []float64) types.Signal {
	_, _, hist, ok := indicator.MACD(closesTF, s.Fast, s.Slow, s.Signal)
	if !ok {
		return types.SignalFlat
	}
	if hist > 0 {
		return types.SignalLong
	}
	if hist < 0 {
		return types.SignalShort
	}
	return types.SignalFlat
}
