package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Hootan504/bingx-bot/exchange"
	"github.com/Hootan504/bingx-bot/journal"
	"github.com/Hootan504/bingx-bot/metrics"
	"github.com/Hootan504/bingx-bot/monitor"
	"github.com/Hootan504/bingx-bot/notification"
	"github.com/Hootan504/bingx-bot/risk"
	"github.com/Hootan504/bingx-bot/server"
	"github.com/Hootan504/bingx-bot/trader"
	"github.com/Hootan504/bingx-bot/types"
)

const (
	defaultPort      = "8080"
	paperTradingURL  = "https://paper-api.alpaca.markets"
	liveTradingURL   = "https://api.alpaca.markets"
	maxNotifications = 100
	journalPath      = "./data/trades.json"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	port := flag.String("port", defaultPort, "Port to listen on")
	symbol := flag.String("symbol", "BTC/USD", "Symbol to trade")
	timeframe := flag.String("timeframe", "15m", "Candle timeframe for the entry detector")
	interval := flag.Int("interval", 60, "Seconds between trading cycles")
	runOnce := flag.Bool("run-once", false, "Run a single cycle and exit")
	exchangeName := flag.String("exchange", "alpaca", "Exchange client to use")
	usePaperTrading := flag.Bool("paper", true, "Use paper trading (true) or live trading (false)")
	dryRun := flag.Bool("dry-run", false, "Simulate order submission")
	apiKey := flag.String("alpaca-key", "", "Alpaca API key (overrides env var)")
	apiSecret := flag.String("alpaca-secret", "", "Alpaca secret key (overrides env var)")

	profile := flag.String("profile", "paper", "Risk profile: paper, shadow, live-small, live-normal")
	sessionStart := flag.String("session-start", "", "Session window start, HH:MM local")
	sessionEnd := flag.String("session-end", "", "Session window end, HH:MM local")
	cooldown := flag.Int("cooldown", 300, "Seconds between entries")
	minVolume := flag.Float64("min-volume", 0, "Minimum volume on the latest candle")
	maxATRPct := flag.Float64("max-atr-pct", 0, "Maximum 14-bar ATR as percent of close")
	sizingMode := flag.String("sizing-mode", risk.SizingFixed, "Position sizing: fixed or percent")
	sizingValue := flag.Float64("sizing-value", 100, "USD notional or percent of balance")

	orderType := flag.String("order-type", "limit", "Order type: market or limit")
	slippage := flag.Float64("slippage", 0.05, "Protective limit offset percent")
	reduceOnly := flag.Bool("reduce-only", false, "Submit orders as reduce-only")
	postOnly := flag.Bool("post-only", false, "Submit limit orders as post-only")
	retries := flag.Int("retries", 3, "Order submission attempts")
	retryDelay := flag.Int("retry-delay", 5, "Seconds between order attempts")
	streamURL := flag.String("stream-url", "", "Optional websocket trade feed for drift monitoring")
	journalFile := flag.String("journal", journalPath, "Trade journal file")
	flag.Parse()

	key, secret := resolveCredentials(*apiKey, *apiSecret, *usePaperTrading)
	baseURL := liveTradingURL
	if *usePaperTrading {
		baseURL = paperTradingURL
	}

	client, err := exchange.NewClient(*exchangeName, exchange.Config{
		Symbol:    *symbol,
		APIKey:    key,
		APISecret: secret,
		BaseURL:   baseURL,
		DryRun:    *dryRun,
	})
	if err != nil {
		log.Fatalf("Failed to create exchange client: %v", err)
	}

	gate := risk.NewGate(risk.GateConfig{
		Profile:      *profile,
		SessionStart: *sessionStart,
		SessionEnd:   *sessionEnd,
		CooldownSec:  *cooldown,
		MinVolume:    *minVolume,
		MaxATRPct:    *maxATRPct,
		SizingMode:   *sizingMode,
		SizingValue:  *sizingValue,
	})

	collector := metrics.NewCollector()
	notifier := notification.NewManager(maxNotifications)

	jl, err := journal.New(*journalFile)
	if err != nil {
		log.Fatalf("Failed to open trade journal: %v", err)
	}

	srv := server.New(*symbol, client, jl, collector, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go srv.Hub().Run(ctx)
	go monitor.New(monitor.Thresholds{}, collector, notifier).Run(ctx)
	if *streamURL != "" {
		go exchange.NewDriftWatcher(*streamURL, *symbol, client, collector).Run(ctx)
	}

	bot := trader.New(trader.Config{
		Symbol:        *symbol,
		Timeframe:     *timeframe,
		IntervalSec:   *interval,
		RunOnce:       *runOnce,
		OrderType:     types.OrderType(*orderType),
		SlippagePct:   *slippage,
		ReduceOnly:    *reduceOnly,
		PostOnly:      *postOnly,
		MaxRetries:    *retries,
		RetryDelaySec: *retryDelay,
	}, trader.Deps{
		Client:    client,
		Gate:      gate,
		Collector: collector,
		Journal:   jl,
		Notifier:  notifier,
		Sink:      trader.FanoutSink{trader.LogSink{}, srv},
	})
	go func() {
		bot.Run(ctx)
		if *runOnce {
			stop()
		}
	}()

	httpServer := &http.Server{Addr: ":" + *port, Handler: srv.Routes()}
	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	log.Printf("Listening on :%s (symbol %s, profile %s, dry-run %v)", *port, *symbol, *profile, *dryRun)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server error: %v", err)
	}
}

// resolveCredentials prefers explicit flags, then the mode-specific env vars,
// then the generic ones.
func resolveCredentials(key, secret string, paper bool) (string, string) {
	if key != "" && secret != "" {
		return key, secret
	}
	if paper {
		if k, s := os.Getenv("PAPER_ALPACA_API_KEY"), os.Getenv("PAPER_ALPACA_SECRET_KEY"); k != "" && s != "" {
			return k, s
		}
	}
	return os.Getenv("ALPACA_API_KEY"), os.Getenv("ALPACA_SECRET_KEY")
}
