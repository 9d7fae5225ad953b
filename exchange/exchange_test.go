package exchange

import (
	"testing"

	"github.com/Hootan504/bingx-bot/types"
)

type stubClient struct {
	orders []types.TradeIntent
}

func (s *stubClient) GetLastPrice() (float64, bool) { return 42000, true }

func (s *stubClient) FetchCandles(timeframe string, limit int) ([]types.Candle, bool) {
	return []types.Candle{{Timestamp: 1, Close: 42000, Volume: 10}}, true
}

func (s *stubClient) GetBalance() (types.Balance, bool) {
	return types.Balance{Total: 1000}, true
}

func (s *stubClient) GetOpenPosition(symbol string) (types.Position, bool) {
	return types.Position{}, false
}

func (s *stubClient) CreateOrder(intent types.TradeIntent) types.OrderOutcome {
	s.orders = append(s.orders, intent)
	return types.OrderOutcome{OK: true, OrderID: "live-1"}
}

func TestNewClientUnknown(t *testing.T) {
	if _, err := NewClient("nope", Config{}); err == nil {
		t.Error("NewClient() should fail for an unregistered exchange")
	}
}

func TestNewClientRegistry(t *testing.T) {
	stub := &stubClient{}
	RegisterClient("stub", func(cfg Config) (MarketClient, error) { return stub, nil })

	client, err := NewClient("stub", Config{Symbol: "BTC-USDT"})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if client != MarketClient(stub) {
		t.Error("NewClient() should return the registered client unwrapped")
	}
}

func TestDryRunWrapping(t *testing.T) {
	stub := &stubClient{}
	RegisterClient("stub-dry", func(cfg Config) (MarketClient, error) { return stub, nil })

	client, err := NewClient("stub-dry", Config{DryRun: true})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	if price, ok := client.GetLastPrice(); !ok || price != 42000 {
		t.Errorf("GetLastPrice() = %v, %v; dry run should delegate market data", price, ok)
	}

	outcome := client.CreateOrder(types.TradeIntent{Symbol: "BTC-USDT", Side: types.SideBuy, Type: types.OrderMarket, Amount: 0.01})
	if !outcome.OK || !outcome.DryRun {
		t.Errorf("CreateOrder() outcome = %+v, want simulated success", outcome)
	}
	if len(stub.orders) != 0 {
		t.Error("dry run must not pass orders to the inner client")
	}
}

func TestPositionIntentFor(t *testing.T) {
	tests := []struct {
		side       types.Side
		reduceOnly bool
		want       string
	}{
		{types.SideBuy, false, "buy_to_open"},
		{types.SideBuy, true, "buy_to_close"},
		{types.SideSell, false, "sell_to_open"},
		{types.SideSell, true, "sell_to_close"},
	}
	for _, tt := range tests {
		if got := positionIntentFor(tt.side, tt.reduceOnly); string(got) != tt.want {
			t.Errorf("positionIntentFor(%s, %v) = %s, want %s", tt.side, tt.reduceOnly, got, tt.want)
		}
	}
}

func TestCheckExecParams(t *testing.T) {
	market := types.TradeIntent{Type: types.OrderMarket, Params: types.ExecParams{PostOnly: true}}
	if err := checkExecParams(market); err == nil {
		t.Error("checkExecParams() should reject a post-only market order")
	}

	limit := types.TradeIntent{Type: types.OrderLimit, Params: types.ExecParams{PostOnly: true, ReduceOnly: true}}
	if err := checkExecParams(limit); err != nil {
		t.Errorf("checkExecParams() = %v, want nil for a post-only limit order", err)
	}
}

func TestDryRunRejectsPostOnlyMarket(t *testing.T) {
	d := NewDryRun(&stubClient{})
	outcome := d.CreateOrder(types.TradeIntent{
		Symbol: "BTC-USDT", Side: types.SideBuy, Type: types.OrderMarket,
		Amount: 1, Params: types.ExecParams{PostOnly: true},
	})
	if outcome.OK || !outcome.DryRun || outcome.Error == "" {
		t.Errorf("CreateOrder() = %+v, want a simulated rejection", outcome)
	}
}

func TestParseTimeFrame(t *testing.T) {
	for _, tf := range []string{"1m", "5m", "15m", "1h", "4h", "1d"} {
		if _, err := parseTimeFrame(tf); err != nil {
			t.Errorf("parseTimeFrame(%q) error: %v", tf, err)
		}
	}
	if _, err := parseTimeFrame("7w"); err == nil {
		t.Error("parseTimeFrame should reject unknown timeframes")
	}
}
