package risk

import (
	"testing"
	"time"

	"github.com/Hootan504/bingx-bot/types"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestProfileByName(t *testing.T) {
	tests := []struct {
		name         string
		wantMax      int
		wantLossPct  float64
	}{
		{"paper", 0, 0.0},
		{"shadow", 0, 0.0},
		{"live-small", 1, 5.0},
		{"live-normal", 3, 3.0},
		{"bogus", 1, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProfileByName(tt.name)
			if p.MaxPositions != tt.wantMax {
				t.Errorf("MaxPositions = %d, want %d", p.MaxPositions, tt.wantMax)
			}
			if p.DailyLossPct != tt.wantLossPct {
				t.Errorf("DailyLossPct = %v, want %v", p.DailyLossPct, tt.wantLossPct)
			}
		})
	}
}

func TestSessionWindow(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2024, 3, 15, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		start, end string
		now        time.Time
		want       bool
	}{
		{"No window configured", "", "", at(3, 0), true},
		{"Inside plain window", "09:00", "17:00", at(12, 0), true},
		{"Outside plain window", "09:00", "17:00", at(18, 0), false},
		{"Window edges inclusive", "09:00", "17:00", at(9, 0), true},
		{"Wrapped window, late night", "22:00", "06:00", at(23, 30), true},
		{"Wrapped window, early morning", "22:00", "06:00", at(5, 0), true},
		{"Wrapped window, midday closed", "22:00", "06:00", at(12, 0), false},
		{"Malformed start ignored", "banana", "17:00", at(3, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGateWithClock(GateConfig{SessionStart: tt.start, SessionEnd: tt.end}, fixedClock(tt.now))
			if got := g.SessionOpen(); got != tt.want {
				t.Errorf("SessionOpen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCooldown(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	clock := now
	g := NewGateWithClock(GateConfig{CooldownSec: 60, Profile: "live-normal"}, func() time.Time { return clock })

	if !g.CooldownOK() {
		t.Fatal("cooldown should pass before any trade")
	}

	g.RecordTrade()
	clock = now.Add(30 * time.Second)
	if g.CooldownOK() {
		t.Error("cooldown should reject 30s after a trade with 60s configured")
	}

	clock = now.Add(61 * time.Second)
	if !g.CooldownOK() {
		t.Error("cooldown should pass 61s after a trade")
	}
}

func TestDailyCapResetsOnDateRollover(t *testing.T) {
	clock := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	one := 1
	g := NewGateWithClock(GateConfig{MaxPositions: &one}, func() time.Time { return clock })

	if !g.DailyCapOK() {
		t.Fatal("first entry of the day should be allowed")
	}
	g.RecordTrade()
	if g.DailyCapOK() {
		t.Error("second entry on the same calendar day should be rejected")
	}

	clock = clock.Add(24 * time.Hour)
	if !g.DailyCapOK() {
		t.Error("counter should reset after the date rolls over")
	}
}

func TestPaperProfileBlocksEntries(t *testing.T) {
	g := NewGate(GateConfig{Profile: "paper"})
	if g.DailyCapOK() {
		t.Error("paper profile should allow no live entries")
	}
}

func TestFilters(t *testing.T) {
	flat := func(n int, vol float64) []types.Candle {
		out := make([]types.Candle, n)
		for i := range out {
			out[i] = types.Candle{Timestamp: int64(i), Open: 100, High: 101, Low: 99, Close: 100, Volume: vol}
		}
		return out
	}

	t.Run("Volume below minimum rejected", func(t *testing.T) {
		g := NewGate(GateConfig{MinVolume: 50})
		if g.FiltersOK(flat(20, 10)) {
			t.Error("FiltersOK() should reject low volume")
		}
	})

	t.Run("Volume at minimum accepted", func(t *testing.T) {
		g := NewGate(GateConfig{MinVolume: 50})
		if !g.FiltersOK(flat(20, 50)) {
			t.Error("FiltersOK() should accept volume >= minimum")
		}
	})

	t.Run("Calm market passes ATR cap", func(t *testing.T) {
		g := NewGate(GateConfig{MaxATRPct: 5})
		// 2-point range on a 100 close is a 2% ATR.
		if !g.FiltersOK(flat(20, 100)) {
			t.Error("FiltersOK() should accept ATR below the cap")
		}
	})

	t.Run("Volatile market rejected by ATR cap", func(t *testing.T) {
		g := NewGate(GateConfig{MaxATRPct: 1})
		if g.FiltersOK(flat(20, 100)) {
			t.Error("FiltersOK() should reject ATR above the cap")
		}
	})

	t.Run("No candles passes", func(t *testing.T) {
		g := NewGate(GateConfig{MinVolume: 50, MaxATRPct: 1})
		if !g.FiltersOK(nil) {
			t.Error("FiltersOK() should pass with no candles")
		}
	})
}

func TestPositionSizeUSD(t *testing.T) {
	bal := 1000.0

	tests := []struct {
		name    string
		cfg     GateConfig
		balance *float64
		want    float64
	}{
		{"Fixed mode", GateConfig{SizingMode: SizingFixed, SizingValue: 50}, &bal, 50},
		{"Fixed mode ignores balance", GateConfig{SizingMode: SizingFixed, SizingValue: 50}, nil, 50},
		{"Percent of balance", GateConfig{SizingMode: SizingPercent, SizingValue: 10}, &bal, 100},
		{"Percent without balance", GateConfig{SizingMode: SizingPercent, SizingValue: 10}, nil, 0},
		{"Negative fixed clamps to zero", GateConfig{SizingMode: SizingFixed, SizingValue: -5}, &bal, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(tt.cfg)
			if got := g.PositionSizeUSD(tt.balance); got != tt.want {
				t.Errorf("PositionSizeUSD() = %v, want %v", got, tt.want)
			}
		})
	}
}
