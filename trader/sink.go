package trader

import (
	"encoding/json"
	"log"

	"github.com/Hootan504/bingx-bot/types"
)

// StatusSnapshot is the per-cycle observability snapshot. Nil fields mean the
// corresponding query was unavailable this cycle.
type StatusSnapshot struct {
	Timestamp int64           `json:"ts"`
	Symbol    string          `json:"symbol"`
	Price     *float64        `json:"price,omitempty"`
	Position  *types.Position `json:"position,omitempty"`
	Balance   *types.Balance  `json:"balance,omitempty"`
}

// OrderEvent reports one order submission result.
type OrderEvent struct {
	Event  string             `json:"event"`
	Result types.OrderOutcome `json:"result"`
}

// Sink receives the structured snapshots and events the loop produces for an
// external dashboard or log collector.
type Sink interface {
	EmitStatus(snapshot StatusSnapshot)
	EmitEvent(event OrderEvent)
}

// LogSink writes snapshots and events as prefixed JSON lines on the standard
// logger, the format the dashboard collector tails.
type LogSink struct{}

func (LogSink) EmitStatus(snapshot StatusSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("Warning: Failed to marshal status: %v", err)
		return
	}
	log.Printf("STATUS %s", data)
}

func (LogSink) EmitEvent(event OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Warning: Failed to marshal event: %v", err)
		return
	}
	log.Printf("LOG %s", data)
}

// FanoutSink forwards to multiple sinks, letting the websocket hub observe
// the same stream the logs carry.
type FanoutSink []Sink

func (f FanoutSink) EmitStatus(snapshot StatusSnapshot) {
	for _, s := range f {
		s.EmitStatus(snapshot)
	}
}

func (f FanoutSink) EmitEvent(event OrderEvent) {
	for _, s := range f {
		s.EmitEvent(event)
	}
}
