// Package trader runs the live execution loop: once per interval it checks
// the risk gate, polls market state, evaluates the entry detector and submits
// orders through a bounded retry policy. A single-cycle failure never
// terminates the loop.
package trader

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Hootan504/bingx-bot/exchange"
	"github.com/Hootan504/bingx-bot/indicator"
	"github.com/Hootan504/bingx-bot/metrics"
	"github.com/Hootan504/bingx-bot/notification"
	"github.com/Hootan504/bingx-bot/risk"
	"github.com/Hootan504/bingx-bot/types"
)

// Config configures the execution loop.
type Config struct {
	Symbol        string
	Timeframe     string
	CandleLimit   int // close window for the entry detector
	IntervalSec   int
	RunOnce       bool
	OrderType     types.OrderType
	SlippagePct   float64 // protective limit offset from mark price
	TimeInForce   string
	ReduceOnly    bool
	PostOnly      bool
	MaxRetries    int
	RetryDelaySec int
}

func (c *Config) applyDefaults() {
	if c.CandleLimit <= 0 {
		c.CandleLimit = 25
	}
	if c.IntervalSec <= 0 {
		c.IntervalSec = 60
	}
	if c.OrderType == "" {
		c.OrderType = types.OrderLimit
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelaySec <= 0 {
		c.RetryDelaySec = 5
	}
}

// Recorder receives successfully submitted orders for PnL accounting.
type Recorder interface {
	Append(record types.TradeRecord) error
}

// Deps bundles the collaborators the loop drives.
type Deps struct {
	Client    exchange.MarketClient
	Gate      *risk.Gate
	Collector *metrics.Collector
	Journal   Recorder              // optional
	Notifier  *notification.Manager // optional
	Sink      Sink                  // optional, defaults to the log sink
}

// Trader is the execution loop state machine.
type Trader struct {
	cfg   Config
	deps  Deps
	sleep func(time.Duration)
	now   func() time.Time
}

// New creates a trader. Zero config fields fall back to defaults.
func New(cfg Config, deps Deps) *Trader {
	cfg.applyDefaults()
	if deps.Sink == nil {
		deps.Sink = LogSink{}
	}
	return &Trader{
		cfg:   cfg,
		deps:  deps,
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// Run drives cycles until the context is cancelled, or for a single pass in
// run-once mode.
func (t *Trader) Run(ctx context.Context) {
	log.Printf("Starting trading loop for %s (%s, every %ds)", t.cfg.Symbol, t.cfg.Timeframe, t.cfg.IntervalSec)
	for {
		t.safeCycle()
		if t.cfg.RunOnce {
			return
		}
		select {
		case <-ctx.Done():
			log.Printf("Trading loop for %s stopped: %v", t.cfg.Symbol, ctx.Err())
			return
		case <-time.After(time.Duration(t.cfg.IntervalSec) * time.Second):
		}
	}
}

// safeCycle runs one cycle, absorbing panics so the loop survives.
func (t *Trader) safeCycle() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Cycle error for %s: %v", t.cfg.Symbol, r)
		}
	}()
	t.runCycle()
}

func (t *Trader) runCycle() {
	if !t.deps.Gate.SessionOpen() {
		log.Printf("Session closed for %s, skipping cycle", t.cfg.Symbol)
		return
	}
	if !t.deps.Gate.CooldownOK() {
		log.Printf("Cooldown active for %s, skipping cycle", t.cfg.Symbol)
		return
	}
	if !t.deps.Gate.DailyRiskOK() {
		log.Printf("Daily risk limit reached for %s, skipping cycle", t.cfg.Symbol)
		return
	}

	snapshot := t.collectStatus()
	t.deps.Sink.EmitStatus(snapshot)
	if snapshot.Balance != nil {
		t.deps.Collector.RecordEquity(snapshot.Balance.Total)
	}
	if snapshot.Price == nil {
		log.Printf("No price for %s, skipping cycle", t.cfg.Symbol)
		return
	}
	price := *snapshot.Price

	candles, ok := t.deps.Client.FetchCandles(t.cfg.Timeframe, t.cfg.CandleLimit)
	if !ok || len(candles) == 0 {
		log.Printf("No candles for %s, skipping cycle", t.cfg.Symbol)
		return
	}
	if !t.deps.Gate.FiltersOK(candles) {
		log.Printf("Market filters rejected %s, skipping cycle", t.cfg.Symbol)
		return
	}

	signal := DetectCross(types.Closes(candles), 20)
	if signal == types.SignalFlat {
		return
	}
	log.Printf("Signal %s for %s at %.4f", signal, t.cfg.Symbol, price)
	if t.deps.Notifier != nil {
		t.deps.Notifier.Add(notification.NewSignal(t.cfg.Symbol, signal, "sma20 cross"))
	}

	if !t.deps.Gate.DailyCapOK() {
		log.Printf("Daily position cap reached for %s, signal dropped", t.cfg.Symbol)
		return
	}

	var balance *float64
	if snapshot.Balance != nil {
		balance = &snapshot.Balance.Total
	}
	usd := t.deps.Gate.PositionSizeUSD(balance)
	if usd <= 0 {
		log.Printf("Position size is zero for %s, skipping cycle", t.cfg.Symbol)
		return
	}

	intent := t.buildIntent(signal, price, usd)
	outcome := t.SendOrder(intent)
	t.deps.Sink.EmitEvent(OrderEvent{Event: "order", Result: outcome})
	if t.deps.Notifier != nil {
		t.deps.Notifier.Add(notification.NewOrder(intent, outcome))
	}
	if !outcome.OK {
		log.Printf("Order failed for %s: %s", t.cfg.Symbol, outcome.Error)
		return
	}

	t.deps.Gate.RecordTrade()
	if t.deps.Journal != nil {
		record := types.TradeRecord{
			Timestamp: t.now().UnixMilli(),
			Symbol:    intent.Symbol,
			Side:      intent.Side,
			Type:      intent.Type,
			Amount:    intent.Amount,
			Price:     price,
			DryRun:    outcome.DryRun,
			OK:        outcome.OK,
		}
		if intent.LimitPrice != nil {
			record.Price = *intent.LimitPrice
		}
		if err := t.deps.Journal.Append(record); err != nil {
			log.Printf("Warning: Failed to journal trade: %v", err)
		}
	}
}

// collectStatus gathers the per-cycle observability snapshot.
func (t *Trader) collectStatus() StatusSnapshot {
	snapshot := StatusSnapshot{Timestamp: t.now().UnixMilli(), Symbol: t.cfg.Symbol}
	if price, ok := t.deps.Client.GetLastPrice(); ok {
		snapshot.Price = &price
	}
	if pos, ok := t.deps.Client.GetOpenPosition(t.cfg.Symbol); ok {
		snapshot.Position = &pos
	}
	if bal, ok := t.deps.Client.GetBalance(); ok {
		snapshot.Balance = &bal
	}
	return snapshot
}

// buildIntent constructs the order for a signal. Limit prices are offset from
// the mark by the slippage percent, below for buys and above for sells.
func (t *Trader) buildIntent(signal types.Signal, price, usd float64) types.TradeIntent {
	intent := types.TradeIntent{
		Symbol: t.cfg.Symbol,
		Side:   types.SideFor(signal),
		Type:   t.cfg.OrderType,
		Amount: usd / price,
		Params: types.ExecParams{
			ReduceOnly:  t.cfg.ReduceOnly,
			PostOnly:    t.cfg.PostOnly,
			TimeInForce: t.cfg.TimeInForce,
		},
	}
	if t.cfg.OrderType == types.OrderLimit {
		limit := price * (1 - t.cfg.SlippagePct/100)
		if intent.Side == types.SideSell {
			limit = price * (1 + t.cfg.SlippagePct/100)
		}
		intent.LimitPrice = &limit
	}
	return intent
}

// SendOrder submits an order with up to MaxRetries attempts and a fixed delay
// between them. Every attempt's duration is recorded as a latency sample and
// every failed attempt increments the error counter. The last attempt's
// outcome is returned.
func (t *Trader) SendOrder(intent types.TradeIntent) types.OrderOutcome {
	var outcome types.OrderOutcome
	for attempt := 1; attempt <= t.cfg.MaxRetries; attempt++ {
		start := t.now()
		outcome = t.submitOnce(intent)
		t.deps.Collector.RecordOrderLatency(float64(t.now().Sub(start).Milliseconds()))
		if outcome.OK {
			return outcome
		}
		t.deps.Collector.RecordError()
		log.Printf("Order attempt %d/%d for %s failed: %s", attempt, t.cfg.MaxRetries, intent.Symbol, outcome.Error)
		if attempt < t.cfg.MaxRetries {
			t.sleep(time.Duration(t.cfg.RetryDelaySec) * time.Second)
		}
	}
	return outcome
}

// submitOnce performs one CreateOrder call, converting a panic in the client
// into a failed outcome.
func (t *Trader) submitOnce(intent types.TradeIntent) (outcome types.OrderOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = types.OrderOutcome{OK: false, Error: fmt.Sprintf("create_order panic: %v", r)}
		}
	}()
	return t.deps.Client.CreateOrder(intent)
}

// DetectCross runs the fixed entry detector: long on an upward close cross of
// the period SMA, short on a downward cross, flat otherwise. Comparisons are
// strict, so a close sitting exactly on the average is not a cross. Requires
// five bars of history beyond the averaging period.
func DetectCross(closes []float64, period int) types.Signal {
	if len(closes) < period+5 {
		return types.SignalFlat
	}
	sma, ok := indicator.SMA(closes, period)
	if !ok {
		return types.SignalFlat
	}
	prev := closes[len(closes)-2]
	cur := closes[len(closes)-1]
	if prev < sma && cur > sma {
		return types.SignalLong
	}
	if prev > sma && cur < sma {
		return types.SignalShort
	}
	return types.SignalFlat
}
