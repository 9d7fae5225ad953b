package exchange

import (
	"fmt"
	"log"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/Hootan504/bingx-bot/types"
)

func init() {
	RegisterClient("alpaca", func(cfg Config) (MarketClient, error) {
		return NewAlpacaClient(cfg)
	})
}

// AlpacaClient implements MarketClient against the Alpaca trading and market
// data APIs.
type AlpacaClient struct {
	symbol   string
	client   *alpaca.Client
	mdClient *marketdata.Client
}

// NewAlpacaClient creates an Alpaca-backed market client.
func NewAlpacaClient(cfg Config) (*AlpacaClient, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("alpaca client requires API key and secret")
	}
	return &AlpacaClient{
		symbol: cfg.Symbol,
		client: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    cfg.APIKey,
			APISecret: cfg.APISecret,
			BaseURL:   cfg.BaseURL,
		}),
		mdClient: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    cfg.APIKey,
			APISecret: cfg.APISecret,
		}),
	}, nil
}

// GetLastPrice returns the price of the latest trade.
func (c *AlpacaClient) GetLastPrice() (float64, bool) {
	trade, err := c.mdClient.GetLatestTrade(c.symbol, marketdata.GetLatestTradeRequest{})
	if err != nil || trade == nil {
		return 0, false
	}
	if trade.Price <= 0 {
		return 0, false
	}
	return trade.Price, true
}

// FetchCandles fetches the most recent bars for the configured symbol.
func (c *AlpacaClient) FetchCandles(timeframe string, limit int) ([]types.Candle, bool) {
	tf, err := parseTimeFrame(timeframe)
	if err != nil {
		log.Printf("Warning: %v", err)
		return nil, false
	}
	start := time.Now().Add(-time.Duration(limit) * timeFrameDuration(tf))
	bars, err := c.mdClient.GetBars(c.symbol, marketdata.GetBarsRequest{
		TimeFrame:  tf,
		Start:      start,
		TotalLimit: limit,
	})
	if err != nil || len(bars) == 0 {
		return nil, false
	}
	candles := make([]types.Candle, len(bars))
	for i, bar := range bars {
		candles[i] = types.Candle{
			Timestamp: bar.Timestamp.UnixMilli(),
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    float64(bar.Volume),
		}
	}
	return candles, true
}

// GetBalance returns the account equity as the total balance.
func (c *AlpacaClient) GetBalance() (types.Balance, bool) {
	account, err := c.client.GetAccount()
	if err != nil {
		return types.Balance{}, false
	}
	total, _ := account.Equity.Float64()
	return types.Balance{Total: total}, true
}

// GetOpenPosition returns the open position for the symbol, if any.
func (c *AlpacaClient) GetOpenPosition(symbol string) (types.Position, bool) {
	pos, err := c.client.GetPosition(symbol)
	if err != nil || pos == nil {
		return types.Position{}, false
	}
	qty, _ := pos.Qty.Float64()
	if qty == 0 {
		return types.Position{}, false
	}
	entry, _ := pos.AvgEntryPrice.Float64()
	upnl := 0.0
	if pos.UnrealizedPL != nil {
		upnl, _ = pos.UnrealizedPL.Float64()
	}
	mark := 0.0
	if pos.CurrentPrice != nil {
		mark, _ = pos.CurrentPrice.Float64()
	}
	side := "long"
	if qty < 0 {
		side = "short"
		qty = -qty
	}
	return types.Position{
		Side:          side,
		Size:          qty,
		EntryPrice:    entry,
		MarkPrice:     mark,
		UnrealizedPnL: upnl,
	}, true
}

// CreateOrder places one order. The quantity and limit price are converted
// to decimals to avoid float formatting artifacts in the API payload.
// Reduce-only intents are mapped to closing position intents; post-only only
// makes sense for limit orders and is rejected otherwise.
func (c *AlpacaClient) CreateOrder(intent types.TradeIntent) types.OrderOutcome {
	if err := checkExecParams(intent); err != nil {
		return types.OrderOutcome{OK: false, Error: err.Error()}
	}

	qty := intent.AmountDecimal()
	req := alpaca.PlaceOrderRequest{
		Symbol:         intent.Symbol,
		Qty:            &qty,
		Side:           alpaca.Side(intent.Side),
		Type:           alpaca.OrderType(intent.Type),
		TimeInForce:    parseTimeInForce(intent.Params.TimeInForce),
		PositionIntent: positionIntentFor(intent.Side, intent.Params.ReduceOnly),
	}
	if limit, ok := intent.LimitPriceDecimal(2); ok {
		req.LimitPrice = &limit
	}

	order, err := c.client.PlaceOrder(req)
	if err != nil {
		return types.OrderOutcome{OK: false, Error: err.Error()}
	}
	return types.OrderOutcome{OK: true, OrderID: order.ID}
}

// checkExecParams validates the execution flags before submission.
func checkExecParams(intent types.TradeIntent) error {
	if intent.Params.PostOnly && intent.Type != types.OrderLimit {
		return fmt.Errorf("post-only requires a limit order, got %s", intent.Type)
	}
	return nil
}

// positionIntentFor maps the order side and the reduce-only flag onto the
// opening or closing position intent.
func positionIntentFor(side types.Side, reduceOnly bool) alpaca.PositionIntent {
	switch {
	case side == types.SideBuy && reduceOnly:
		return alpaca.BuyToClose
	case side == types.SideBuy:
		return alpaca.BuyToOpen
	case reduceOnly:
		return alpaca.SellToClose
	default:
		return alpaca.SellToOpen
	}
}

func parseTimeInForce(tif string) alpaca.TimeInForce {
	switch tif {
	case "IOC":
		return alpaca.IOC
	case "FOK":
		return alpaca.FOK
	case "DAY":
		return alpaca.Day
	default:
		return alpaca.GTC
	}
}

// parseTimeFrame converts a bot timeframe (e.g. "15m") to Alpaca's TimeFrame.
func parseTimeFrame(timeframe string) (marketdata.TimeFrame, error) {
	switch timeframe {
	case "1m":
		return marketdata.OneMin, nil
	case "5m":
		return marketdata.NewTimeFrame(5, marketdata.Min), nil
	case "15m":
		return marketdata.NewTimeFrame(15, marketdata.Min), nil
	case "1h":
		return marketdata.OneHour, nil
	case "4h":
		return marketdata.NewTimeFrame(4, marketdata.Hour), nil
	case "1d":
		return marketdata.OneDay, nil
	default:
		return marketdata.TimeFrame{}, fmt.Errorf("unrecognized timeframe: %s", timeframe)
	}
}

func timeFrameDuration(tf marketdata.TimeFrame) time.Duration {
	switch tf.Unit {
	case marketdata.Min:
		return time.Duration(tf.N) * time.Minute
	case marketdata.Hour:
		return time.Duration(tf.N) * time.Hour
	default:
		return time.Duration(tf.N) * 24 * time.Hour
	}
}
