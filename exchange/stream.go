package exchange

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Hootan504/bingx-bot/metrics"
)

// streamTick is the wire format of the trade feed.
type streamTick struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// DriftWatcher consumes a websocket price feed and records the relative
// drift between streamed prices and the REST last price. Connection drops
// are counted as reconnects and retried until the context is cancelled.
type DriftWatcher struct {
	url       string
	symbol    string
	client    MarketClient
	collector *metrics.Collector

	reconnectDelay time.Duration
}

// NewDriftWatcher creates a watcher for one symbol.
func NewDriftWatcher(url, symbol string, client MarketClient, collector *metrics.Collector) *DriftWatcher {
	return &DriftWatcher{
		url:            url,
		symbol:         symbol,
		client:         client,
		collector:      collector,
		reconnectDelay: 5 * time.Second,
	}
}

// Run connects and reads ticks until the context is cancelled.
func (w *DriftWatcher) Run(ctx context.Context) {
	for {
		if err := w.consume(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Price stream for %s dropped: %v", w.symbol, err)
			w.collector.IncrementWSReconnect()
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.reconnectDelay):
		}
	}
}

// consume holds one connection open, recording a drift sample per tick.
func (w *DriftWatcher) consume(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var tick streamTick
		if err := json.Unmarshal(data, &tick); err != nil {
			log.Printf("Warning: Failed to parse stream tick: %v", err)
			continue
		}
		if tick.Symbol != "" && tick.Symbol != w.symbol {
			continue
		}
		w.recordDrift(tick.Price)
	}
}

func (w *DriftWatcher) recordDrift(streamPrice float64) {
	if streamPrice <= 0 {
		return
	}
	restPrice, ok := w.client.GetLastPrice()
	if !ok || restPrice <= 0 {
		return
	}
	w.collector.RecordPriceDrift(math.Abs(streamPrice-restPrice) / restPrice)
}
