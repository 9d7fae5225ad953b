// Package server exposes the HTTP API consumed by the dashboard: metrics,
// PnL, trade history, strategies, notifications, on-demand backtests and a
// websocket stream of the loop's status snapshots.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/Hootan504/bingx-bot/backtest"
	"github.com/Hootan504/bingx-bot/exchange"
	"github.com/Hootan504/bingx-bot/finance"
	"github.com/Hootan504/bingx-bot/journal"
	"github.com/Hootan504/bingx-bot/metrics"
	"github.com/Hootan504/bingx-bot/notification"
	"github.com/Hootan504/bingx-bot/strategy"
	"github.com/Hootan504/bingx-bot/trader"
	"github.com/Hootan504/bingx-bot/types"
)

// Server wires the API handlers to the running components. It also acts as a
// status sink so the websocket stream and /api/status reflect the loop's
// latest snapshot.
type Server struct {
	symbol   string
	client   exchange.MarketClient
	journal  *journal.Journal
	metrics  *metrics.Collector
	notifier *notification.Manager
	hub      *Hub

	mu         sync.RWMutex
	lastStatus *trader.StatusSnapshot
}

// New creates a server over the given components.
func New(symbol string, client exchange.MarketClient, jl *journal.Journal, collector *metrics.Collector, notifier *notification.Manager) *Server {
	return &Server{
		symbol:   symbol,
		client:   client,
		journal:  jl,
		metrics:  collector,
		notifier: notifier,
		hub:      NewHub(),
	}
}

// Hub exposes the websocket hub so main can run its pump.
func (s *Server) Hub() *Hub { return s.hub }

// EmitStatus implements trader.Sink: remembers the latest snapshot and
// broadcasts it to websocket clients.
func (s *Server) EmitStatus(snapshot trader.StatusSnapshot) {
	s.mu.Lock()
	s.lastStatus = &snapshot
	s.mu.Unlock()

	if data, err := json.Marshal(map[string]interface{}{"type": "status", "data": snapshot}); err == nil {
		s.hub.Broadcast(data)
	}
}

// EmitEvent implements trader.Sink: broadcasts order events.
func (s *Server) EmitEvent(event trader.OrderEvent) {
	if data, err := json.Marshal(map[string]interface{}{"type": "event", "data": event}); err == nil {
		s.hub.Broadcast(data)
	}
}

func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Routes registers all handlers on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", corsMiddleware(s.handleStatus))
	mux.HandleFunc("/api/metrics", corsMiddleware(s.handleMetrics))
	mux.HandleFunc("/api/pnl", corsMiddleware(s.handlePnL))
	mux.HandleFunc("/api/equity", corsMiddleware(s.handleEquity))
	mux.HandleFunc("/api/history", corsMiddleware(s.handleHistory))
	mux.HandleFunc("/api/strategies", corsMiddleware(s.handleStrategies))
	mux.HandleFunc("/api/backtest", corsMiddleware(s.handleBacktest))
	mux.HandleFunc("/ws/status", s.hub.handleWS)

	notification.NewHandler(s.notifier).RegisterRoutes(mux)

	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	status := s.lastStatus
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if status == nil {
		json.NewEncoder(w).Encode(map[string]interface{}{"symbol": s.symbol, "ready": false})
		return
	}
	json.NewEncoder(w).Encode(status)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.metrics.GetSummary())
}

func (s *Server) handlePnL(w http.ResponseWriter, r *http.Request) {
	records := liveFills(s.journal)
	realised := finance.RealisedPnL(records)

	marks := map[string]float64{}
	if price, ok := s.client.GetLastPrice(); ok {
		marks[s.symbol] = price
	}
	unrealised := finance.UnrealisedPnL(records, marks)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]float64{
		"realised":   realised,
		"unrealised": unrealised,
	})
}

func (s *Server) handleEquity(w http.ResponseWriter, r *http.Request) {
	curve := finance.EquityCurve(liveFills(s.journal))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(curve)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.journal.Records())
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	type info struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	var out []info
	for _, name := range strategy.Registered() {
		st, err := strategy.Create(name, nil)
		if err != nil {
			continue
		}
		out = append(out, info{Name: st.Name(), Description: st.Description()})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req backtest.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Symbol == "" {
		req.Symbol = s.symbol
	}
	if req.Bars <= 0 {
		req.Bars = 500
	}
	if req.USDPerTrade <= 0 {
		req.USDPerTrade = 50
	}
	if req.StartingCash <= 0 {
		req.StartingCash = 10000
	}
	if req.TakerFeePct <= 0 {
		req.TakerFeePct = 0.05
	}

	candles, ok := s.client.FetchCandles(req.Timeframe, req.Bars)
	if !ok {
		http.Error(w, "Candle history unavailable", http.StatusBadGateway)
		return
	}

	result, err := backtest.Run(req, candles)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("Backtest %s/%s over %d candles: %d trades, net %.2f",
		req.Symbol, req.Strategy, len(candles), result.TradeCount, result.NetPnL)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// liveFills filters the journal down to the confirmed, non-simulated records
// PnL accounting operates on.
func liveFills(jl *journal.Journal) []types.TradeRecord {
	var out []types.TradeRecord
	for _, r := range jl.Filled() {
		if !r.DryRun {
			out = append(out, r)
		}
	}
	return out
}
