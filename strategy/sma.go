package strategy

import (
	"fmt"

	"github.com/Hootan504/bingx-bot/indicator"
	"github.com/Hootan504/bingx-bot/types"
)

func init() {
	Register("sma", func(params Params) Strategy {
		return &SMACrossover{
			TFFast:    params.GetInt("tf_fast", 10),
			TFSlow:    params.GetInt("tf_slow", 20),
			TrendFast: params.GetInt("trend_fast", 50),
			TrendSlow: params.GetInt("trend_slow", 200),
		}
	})
}

// SMACrossover signals on a fast/slow SMA cross of the trading timeframe,
// filtered by the trend bias of a slower timeframe: long entries only in an
// uptrend, short entries only in a downtrend.
type SMACrossover struct {
	TFFast    int
	TFSlow    int
	TrendFast int
	TrendSlow int
}

func (s *SMACrossover) Name() string { return "sma" }

func (s *SMACrossover) Description() string {
	return fmt.Sprintf("SMA crossover strategy using TF (%d/%d) and trend filter (%d/%d).",
		s.TFFast, s.TFSlow, s.TrendFast, s.TrendSlow)
}

func (s *SMACrossover) ComputeSignal(closesTF, closesTrend []float64) types.Signal {
	t1, ok1 := indicator.SMA(closesTrend, s.TrendFast)
	t2, ok2 := indicator.SMA(closesTrend, s.TrendSlow)
	if !ok1 || !ok2 {
		return types.SignalFlat
	}
	bias := 1
	if t1 <= t2 {
		bias = -1
	}

	fast, okF := indicator.SMA(closesTF, s.TFFast)
	slow, okS := indicator.SMA(closesTF, s.TFSlow)
	if !okF || !okS {
		return types.SignalFlat
	}
	if bias > 0 && fast > slow {
		return types.SignalLong
	}
	if bias < 0 && fast < slow {
		return types.SignalShort
	}
	return types.SignalFlat
}
