package strategy

import (
	"testing"

	"github.com/Hootan504/bingx-bot/types"
)

// fixedStrategy always returns the same signal, used to drive composite votes.
type fixedStrategy struct {
	signal types.Signal
}

func (f fixedStrategy) Name() string        { return "fixed" }
func (f fixedStrategy) Description() string { return "fixed test strategy" }
func (f fixedStrategy) ComputeSignal(_, _ []float64) types.Signal {
	return f.signal
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"sma", "rsi", "macd", "composite"} {
		s, err := Create(name, nil)
		if err != nil {
			t.Fatalf("Create(%q) error: %v", name, err)
		}
		if s.Description() == "" {
			t.Errorf("Create(%q) has empty description", name)
		}
	}

	if _, err := Create("does-not-exist", nil); err == nil {
		t.Error("Create() should fail for unknown strategy name")
	}
}

func TestSMACrossover(t *testing.T) {
	up := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = float64(i + 1)
		}
		return out
	}
	down := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = float64(n - i)
		}
		return out
	}

	s := &SMACrossover{TFFast: 3, TFSlow: 5, TrendFast: 5, TrendSlow: 10}

	tests := []struct {
		name        string
		closesTF    []float64
		closesTrend []float64
		want        types.Signal
	}{
		{"Uptrend with fast above slow", up(10), up(20), types.SignalLong},
		{"Downtrend with fast below slow", down(10), down(20), types.SignalShort},
		{"Uptrend but tactical down", down(10), up(20), types.SignalFlat},
		{"Trend series too short", up(10), up(5), types.SignalFlat},
		{"Trading series too short", up(3), up(20), types.SignalFlat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ComputeSignal(tt.closesTF, tt.closesTrend); got != tt.want {
				t.Errorf("ComputeSignal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRSIStrategy(t *testing.T) {
	s := &RSI{Period: 14, Oversold: 30, Overbought: 70}

	up := make([]float64, 20)
	down := make([]float64, 20)
	for i := range up {
		up[i] = float64(i + 1)
		down[i] = float64(20 - i)
	}

	if got := s.ComputeSignal(up, nil); got != types.SignalShort {
		t.Errorf("RSI on monotonic gains = %v, want short", got)
	}
	if got := s.ComputeSignal(down, nil); got != types.SignalLong {
		t.Errorf("RSI on monotonic losses = %v, want long", got)
	}
	if got := s.ComputeSignal(up[:10], nil); got != types.SignalFlat {
		t.Errorf("RSI on short series = %v, want flat", got)
	}
}

func TestCompositeVoting(t *testing.T) {
	tests := []struct {
		name string
		subs []types.Signal
		want types.Signal
	}{
		{"Majority long", []types.Signal{types.SignalLong, types.SignalLong, types.SignalShort, types.SignalFlat}, types.SignalLong},
		{"Tie goes flat", []types.Signal{types.SignalLong, types.SignalShort}, types.SignalFlat},
		{"Majority short", []types.Signal{types.SignalShort, types.SignalShort, types.SignalLong}, types.SignalShort},
		{"All flat", []types.Signal{types.SignalFlat, types.SignalFlat}, types.SignalFlat},
		{"No strategies", nil, types.SignalFlat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Composite{}
			for _, sig := range tt.subs {
				c.Strategies = append(c.Strategies, fixedStrategy{signal: sig})
			}
			if got := c.ComputeSignal(nil, nil); got != tt.want {
				t.Errorf("ComputeSignal() = %v, want %v", got, tt.want)
			}
		})
	}
}
