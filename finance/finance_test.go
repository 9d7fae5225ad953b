package finance

import (
	"math"
	"testing"

	"github.com/Hootan504/bingx-bot/types"
)

func buy(ts int64, amount, price float64) types.TradeRecord {
	return types.TradeRecord{Timestamp: ts, Symbol: "BTC-USDT", Side: types.SideBuy, Amount: amount, Price: price, OK: true}
}

func sell(ts int64, amount, price float64) types.TradeRecord {
	return types.TradeRecord{Timestamp: ts, Symbol: "BTC-USDT", Side: types.SideSell, Amount: amount, Price: price, OK: true}
}

func TestRealisedPnL(t *testing.T) {
	tests := []struct {
		name    string
		records []types.TradeRecord
		want    float64
	}{
		{
			"Simple round trip",
			[]types.TradeRecord{buy(1, 1.0, 100), sell(2, 1.0, 110)},
			10.0,
		},
		{
			"Partial close leaves open lot",
			[]types.TradeRecord{buy(1, 1.0, 100), sell(2, 0.4, 110)},
			4.0,
		},
		{
			"FIFO matches oldest lot first",
			[]types.TradeRecord{buy(1, 1.0, 100), buy(2, 1.0, 200), sell(3, 1.0, 150)},
			50.0,
		},
		{
			"Sell spanning two lots",
			[]types.TradeRecord{buy(1, 1.0, 100), buy(2, 1.0, 200), sell(3, 1.5, 150)},
			50.0 - 25.0,
		},
		{
			"Excess sell discarded",
			[]types.TradeRecord{buy(1, 1.0, 100), sell(2, 2.0, 110)},
			10.0,
		},
		{
			"Sell without inventory",
			[]types.TradeRecord{sell(1, 1.0, 110)},
			0.0,
		},
		{
			"Losing trade",
			[]types.TradeRecord{buy(1, 2.0, 100), sell(2, 2.0, 90)},
			-20.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RealisedPnL(tt.records); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RealisedPnL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnrealisedPnL(t *testing.T) {
	records := []types.TradeRecord{buy(1, 1.0, 100), sell(2, 0.4, 110)}
	marks := map[string]float64{"BTC-USDT": 120}

	// 0.6 remaining on the 100 lot, marked at 120.
	if got := UnrealisedPnL(records, marks); math.Abs(got-12.0) > 1e-9 {
		t.Errorf("UnrealisedPnL() = %v, want 12", got)
	}

	if got := UnrealisedPnL(records, map[string]float64{}); got != 0 {
		t.Errorf("UnrealisedPnL() without marks = %v, want 0", got)
	}
}

func TestEquityCurve(t *testing.T) {
	records := []types.TradeRecord{
		buy(10, 1.0, 100),
		sell(20, 1.0, 110),
		buy(30, 1.0, 100),
		sell(40, 1.0, 95),
		sell(50, 1.0, 200), // no inventory left
	}

	curve := EquityCurve(records)
	if len(curve) != 2 {
		t.Fatalf("EquityCurve() returned %d points, want 2", len(curve))
	}
	if curve[0].Timestamp != 20 || math.Abs(curve[0].Equity-10.0) > 1e-9 {
		t.Errorf("first point = %+v, want ts 20 equity 10", curve[0])
	}
	if curve[1].Timestamp != 40 || math.Abs(curve[1].Equity-5.0) > 1e-9 {
		t.Errorf("second point = %+v, want ts 40 equity 5", curve[1])
	}
	if curve[0].Timestamp > curve[1].Timestamp {
		t.Error("curve timestamps should be non-decreasing")
	}
}
