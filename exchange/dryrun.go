package exchange

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/Hootan504/bingx-bot/types"
)

// DryRun wraps a real client so market data flows through unchanged while
// order submission is simulated. Simulated orders always succeed.
type DryRun struct {
	inner MarketClient
	seq   atomic.Int64
}

// NewDryRun wraps a client in dry-run mode.
func NewDryRun(inner MarketClient) *DryRun {
	return &DryRun{inner: inner}
}

func (d *DryRun) GetLastPrice() (float64, bool) {
	return d.inner.GetLastPrice()
}

func (d *DryRun) FetchCandles(timeframe string, limit int) ([]types.Candle, bool) {
	return d.inner.FetchCandles(timeframe, limit)
}

func (d *DryRun) GetBalance() (types.Balance, bool) {
	return d.inner.GetBalance()
}

func (d *DryRun) GetOpenPosition(symbol string) (types.Position, bool) {
	return d.inner.GetOpenPosition(symbol)
}

// CreateOrder logs the intent and reports a simulated fill without touching
// the exchange. Execution flags are validated the same way a real client
// would, so a dry run surfaces misconfigured orders.
func (d *DryRun) CreateOrder(intent types.TradeIntent) types.OrderOutcome {
	if err := checkExecParams(intent); err != nil {
		return types.OrderOutcome{OK: false, DryRun: true, Error: err.Error()}
	}
	id := fmt.Sprintf("dry-%d", d.seq.Add(1))
	price := "market"
	if intent.LimitPrice != nil {
		price = fmt.Sprintf("%.2f", *intent.LimitPrice)
	}
	log.Printf("[DRY RUN] %s %s %v %s @ %s", intent.Side, intent.Type, intent.Amount, intent.Symbol, price)
	return types.OrderOutcome{OK: true, DryRun: true, OrderID: id}
}
