package strategy

import (
	"strings"

	"github.com/Hootan504/bingx-bot/types"
)

func init() {
	Register("composite", func(params Params) Strategy {
		subs := make([]Strategy, 0, 3)
		for _, name := range []string{"sma", "rsi", "macd"} {
			if sub, err := Create(name, params); err == nil {
				subs = append(subs, sub)
			}
		}
		return &Composite{Strategies: subs}
	})
}

// Composite holds an ordered list of strategies, each contributing one vote:
// long = +1, short = -1, flat = 0. A strict majority of one side is required;
// equal nonzero counts resolve to flat.
type Composite struct {
	Strategies []Strategy
}

func (s *Composite) Name() string {
	names := make([]string, len(s.Strategies))
	for i, sub := range s.Strategies {
		names[i] = sub.Name()
	}
	return "composite(" + strings.Join(names, ",") + ")"
}

func (s *Composite) Description() string {
	descs := make([]string, len(s.Strategies))
	for i, sub := range s.Strategies {
		descs[i] = sub.Description()
	}
	return "Composite of: " + strings.Join(descs, ", ")
}

func (s *Composite) ComputeSignal(closesTF, closesTrend []float64) types.Signal {
	longVotes, shortVotes := 0, 0
	for _, sub := range s.Strategies {
		switch sub.ComputeSignal(closesTF, closesTrend) {
		case types.SignalLong:
			longVotes++
		case types.SignalShort:
			shortVotes++
		}
	}
	if longVotes > shortVotes && longVotes > 0 {
		return types.SignalLong
	}
	if shortVotes > longVotes && shortVotes > 0 {
		return types.SignalShort
	}
	return types.SignalFlat
}
