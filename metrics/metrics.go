// Package metrics collects runtime metrics for the trading loop: order
// submission latency, error counts, websocket reconnects, price drift and an
// equity history used for drawdown. A Collector is constructed explicitly
// and passed to the components that record into it; the loop writes while a
// lower-priority monitor reads concurrently, so counters are atomic and the
// sample slices are mutex-guarded.
package metrics

import (
	"sync"
	"sync/atomic"
)

// Collector accumulates runtime metrics. The zero value is not usable;
// construct with NewCollector.
type Collector struct {
	orderCount   atomic.Int64
	errorCount   atomic.Int64
	wsReconnects atomic.Int64

	mu        sync.Mutex
	latencies []float64
	drifts    []float64
	equity    []float64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordOrderLatency records the wall-clock duration of one order submission
// attempt in milliseconds and counts the attempt.
func (c *Collector) RecordOrderLatency(latencyMs float64) {
	c.mu.Lock()
	c.latencies = append(c.latencies, latencyMs)
	c.mu.Unlock()
	c.orderCount.Add(1)
}

// RecordError increments the global order error count.
func (c *Collector) RecordError() {
	c.errorCount.Add(1)
}

// IncrementWSReconnect counts a websocket reconnect event from the stream
// layer.
func (c *Collector) IncrementWSReconnect() {
	c.wsReconnects.Add(1)
}

// ResetWSReconnects zeroes the reconnect counter after an alert fires so the
// same burst is not reported twice.
func (c *Collector) ResetWSReconnects() {
	c.wsReconnects.Store(0)
}

// RecordPriceDrift records a drift sample between stream and REST prices.
func (c *Collector) RecordPriceDrift(drift float64) {
	c.mu.Lock()
	c.drifts = append(c.drifts, drift)
	c.mu.Unlock()
}

// RecordEquity appends an equity value to the history used for drawdown.
func (c *Collector) RecordEquity(equity float64) {
	c.mu.Lock()
	c.equity = append(c.equity, equity)
	c.mu.Unlock()
}

// OrderCount returns the number of order attempts recorded.
func (c *Collector) OrderCount() int64 { return c.orderCount.Load() }

// ErrorCount returns the number of order errors recorded.
func (c *Collector) ErrorCount() int64 { return c.errorCount.Load() }

// Drawdown returns the maximum peak-to-trough drawdown of the recorded
// equity history, or false when no equity has been recorded.
func (c *Collector) Drawdown() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.equity) == 0 {
		return 0, false
	}
	peak := c.equity[0]
	maxDD := 0.0
	for _, eq := range c.equity {
		if eq > peak {
			peak = eq
		}
		if dd := peak - eq; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD, true
}

// Summary is an on-demand snapshot of the collected metrics. Averages and
// rates are nil until at least one sample exists.
type Summary struct {
	OrderCount     int64    `json:"order_count"`
	AvgLatencyMs   *float64 `json:"order_latency_avg_ms,omitempty"`
	OrderErrorRate *float64 `json:"order_error_rate,omitempty"`
	WSReconnects   int64    `json:"ws_reconnects"`
	AvgPriceDrift  *float64 `json:"price_drift_avg,omitempty"`
	EquityDrawdown *float64 `json:"equity_drawdown,omitempty"`
}

// GetSummary computes the current metric summary.
func (c *Collector) GetSummary() Summary {
	s := Summary{
		OrderCount:   c.orderCount.Load(),
		WSReconnects: c.wsReconnects.Load(),
	}

	c.mu.Lock()
	if len(c.latencies) > 0 {
		sum := 0.0
		for _, v := range c.latencies {
			sum += v
		}
		avg := sum / float64(len(c.latencies))
		s.AvgLatencyMs = &avg
	}
	if len(c.drifts) > 0 {
		sum := 0.0
		for _, v := range c.drifts {
			sum += v
		}
		avg := sum / float64(len(c.drifts))
		s.AvgPriceDrift = &avg
	}
	c.mu.Unlock()

	if s.OrderCount > 0 {
		rate := float64(c.errorCount.Load()) / float64(s.OrderCount)
		s.OrderErrorRate = &rate
	}
	if dd, ok := c.Drawdown(); ok {
		s.EquityDrawdown = &dd
	}
	return s
}
