// Package strategy implements the pluggable signal generators. A strategy is
// polymorphic over a single capability: computing a directional signal from
// the recent close series of the trading timeframe and of the slower trend
// timeframe.
package strategy

import (
	"fmt"
	"sort"

	"github.com/Hootan504/bingx-bot/types"
)

// Strategy defines the interface for all signal generators.
type Strategy interface {
	// Name returns the short registry name of the strategy.
	Name() string

	// Description returns a human-readable description including the
	// configured parameters.
	Description() string

	// ComputeSignal evaluates the strategy over the trading-timeframe and
	// trend-timeframe close series. Insufficient data degrades to flat.
	ComputeSignal(closesTF, closesTrend []float64) types.Signal
}

// Params holds per-strategy numeric parameters keyed by name. Parameters are
// immutable after construction; missing keys fall back to defaults.
type Params map[string]float64

// Get returns the named parameter or the default when absent.
func (p Params) Get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// GetInt returns the named parameter truncated to int, or the default.
func (p Params) GetInt(key string, def int) int {
	if v, ok := p[key]; ok {
		return int(v)
	}
	return def
}

// FactoryFunc creates a strategy from its parameters.
type FactoryFunc func(params Params) Strategy

// strategyRegistry maintains the registry of available strategies, resolved
// once at startup from a configuration key.
var strategyRegistry = make(map[string]FactoryFunc)

// Register registers a strategy factory function under a name.
func Register(name string, factory FactoryFunc) {
	strategyRegistry[name] = factory
}

// Create creates a new strategy of the given name.
func Create(name string, params Params) (Strategy, error) {
	factory, exists := strategyRegistry[name]
	if !exists {
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
	return factory(params), nil
}

// Registered returns the sorted names of all registered strategies.
func Registered() []string {
	names := make([]string, 0, len(strategyRegistry))
	for name := range strategyRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
