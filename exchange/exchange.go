// Package exchange defines the MarketClient capability the trading core
// consumes and the concrete clients that implement it. Clients are resolved
// once at startup through an explicit constructor registry keyed by the
// configured exchange name.
package exchange

import (
	"fmt"
	"sort"

	"github.com/Hootan504/bingx-bot/types"
)

// MarketClient is the narrow interface between the trading core and an
// exchange. Every call may fail; callers treat unavailability as a routine
// skip-this-cycle condition, not an exception.
type MarketClient interface {
	// GetLastPrice returns the latest traded price, or false when no price
	// is available.
	GetLastPrice() (float64, bool)

	// FetchCandles returns up to limit candles of the given timeframe in
	// ascending timestamp order, or false when history is unavailable.
	FetchCandles(timeframe string, limit int) ([]types.Candle, bool)

	// GetBalance returns the total margin-currency balance, or false when
	// the account cannot be read.
	GetBalance() (types.Balance, bool)

	// GetOpenPosition returns the open position for the symbol, or false
	// when there is none or the query failed.
	GetOpenPosition(symbol string) (types.Position, bool)

	// CreateOrder submits one order. Failures are reported in the outcome,
	// never raised.
	CreateOrder(intent types.TradeIntent) types.OrderOutcome
}

// Config is the explicit client configuration threaded to constructors.
type Config struct {
	Symbol    string
	APIKey    string
	APISecret string
	BaseURL   string
	DryRun    bool
}

// Constructor builds a MarketClient from configuration.
type Constructor func(cfg Config) (MarketClient, error)

// clientRegistry maps configuration keys to client constructors.
var clientRegistry = make(map[string]Constructor)

// RegisterClient registers a client constructor under a configuration key.
func RegisterClient(name string, ctor Constructor) {
	clientRegistry[name] = ctor
}

// NewClient resolves the named constructor and builds a client. When DryRun
// is set the client is wrapped so that order submission is simulated while
// market data still flows through.
func NewClient(name string, cfg Config) (MarketClient, error) {
	ctor, exists := clientRegistry[name]
	if !exists {
		return nil, fmt.Errorf("unknown exchange: %s (registered: %v)", name, RegisteredClients())
	}
	client, err := ctor(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.DryRun {
		return NewDryRun(client), nil
	}
	return client, nil
}

// RegisteredClients returns the sorted names of all registered clients.
func RegisteredClients() []string {
	names := make([]string, 0, len(clientRegistry))
	for name := range clientRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
