// Package monitor periodically inspects the metrics summary and raises
// system alerts when an operational threshold is breached: order error rate,
// websocket reconnect bursts and equity drawdown.
package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Hootan504/bingx-bot/metrics"
	"github.com/Hootan504/bingx-bot/notification"
)

// Thresholds configures when the monitor alerts. Zero values fall back to
// the defaults.
type Thresholds struct {
	ErrorRate    float64 // fraction of failed order attempts
	WSReconnects int64   // reconnects since the last alert
	DrawdownUSD  float64 // peak-to-trough equity drop
	IntervalSec  int
}

func (t *Thresholds) applyDefaults() {
	if t.ErrorRate <= 0 {
		t.ErrorRate = 0.02
	}
	if t.WSReconnects <= 0 {
		t.WSReconnects = 10
	}
	if t.DrawdownUSD <= 0 {
		t.DrawdownUSD = 0.05
	}
	if t.IntervalSec <= 0 {
		t.IntervalSec = 60
	}
}

// Monitor watches one collector.
type Monitor struct {
	thresholds Thresholds
	collector  *metrics.Collector
	notifier   *notification.Manager
}

// New creates a monitor over the given collector. The notifier may be nil,
// in which case alerts only go to the log.
func New(thresholds Thresholds, collector *metrics.Collector, notifier *notification.Manager) *Monitor {
	thresholds.applyDefaults()
	return &Monitor{thresholds: thresholds, collector: collector, notifier: notifier}
}

// Run checks the thresholds on a fixed interval until the context is
// cancelled. Intended to run as a goroutine beside the trading loop.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(m.thresholds.IntervalSec) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check()
		}
	}
}

// Check runs one threshold pass and returns the alerts raised.
func (m *Monitor) Check() []string {
	summary := m.collector.GetSummary()
	var alerts []string

	if summary.OrderErrorRate != nil && *summary.OrderErrorRate > m.thresholds.ErrorRate {
		alerts = append(alerts, fmt.Sprintf("order error rate %.4f exceeds %.4f", *summary.OrderErrorRate, m.thresholds.ErrorRate))
	}
	if summary.WSReconnects > m.thresholds.WSReconnects {
		alerts = append(alerts, fmt.Sprintf("%d websocket reconnects exceed %d", summary.WSReconnects, m.thresholds.WSReconnects))
		// Reset so the same burst does not alert every pass.
		m.collector.ResetWSReconnects()
	}
	if summary.EquityDrawdown != nil && *summary.EquityDrawdown > m.thresholds.DrawdownUSD {
		alerts = append(alerts, fmt.Sprintf("equity drawdown %.2f exceeds %.2f", *summary.EquityDrawdown, m.thresholds.DrawdownUSD))
	}

	for _, alert := range alerts {
		log.Printf("ALERT %s", alert)
		if m.notifier != nil {
			m.notifier.Add(notification.NewAlert("Monitor Alert", alert))
		}
	}
	return alerts
}
