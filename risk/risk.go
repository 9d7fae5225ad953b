// Package risk implements the entry gate evaluated once per execution cycle:
// session window, cooldown, per-day position cap, market filters and
// position sizing.
package risk

import (
	"fmt"
	"sync"
	"time"

	"github.com/Hootan504/bingx-bot/indicator"
	"github.com/Hootan504/bingx-bot/types"
)

// Sizing modes.
const (
	SizingFixed   = "fixed"   // configured value is a USD notional
	SizingPercent = "percent" // configured value is a percent of balance
)

// Profile holds the risk defaults selected by a named trading profile.
type Profile struct {
	MaxPositions int
	DailyLossPct float64
}

// profiles maps profile names to their defaults. Paper and shadow profiles
// allow no live entries.
var profiles = map[string]Profile{
	"paper":       {MaxPositions: 0, DailyLossPct: 0.0},
	"shadow":      {MaxPositions: 0, DailyLossPct: 0.0},
	"live-small":  {MaxPositions: 1, DailyLossPct: 5.0},
	"live-normal": {MaxPositions: 3, DailyLossPct: 3.0},
}

// ProfileByName returns the defaults for a named profile. Unknown names get
// a conservative one-position, zero-loss-limit profile.
func ProfileByName(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return Profile{MaxPositions: 1, DailyLossPct: 0.0}
}

// GateConfig configures a Gate. Zero values disable the corresponding check.
type GateConfig struct {
	Profile      string  `json:"profile"`
	SessionStart string  `json:"session_start"` // "HH:MM", empty = no window
	SessionEnd   string  `json:"session_end"`
	CooldownSec  int     `json:"cooldown_sec"`
	MaxPositions *int    `json:"max_positions,omitempty"` // overrides the profile default
	MinVolume    float64 `json:"min_volume"`              // 0 disables the volume filter
	MaxATRPct    float64 `json:"max_atr_pct"`             // 0 disables the volatility filter
	SizingMode   string  `json:"sizing_mode"`             // fixed | percent
	SizingValue  float64 `json:"sizing_value"`
}

// Gate evaluates entry conditions and tracks the per-day trade counter and
// the cooldown stamp. The clock is injected so tests can control the
// calendar-day rollover.
type Gate struct {
	cfg          GateConfig
	maxPositions int
	dailyLossPct float64
	now          func() time.Time

	mu          sync.Mutex
	lastTradeAt time.Time
	tradesToday int
	tradesDate  string // "2006-01-02" of the counter
}

// NewGate creates a gate from explicit configuration, filling unset limits
// from the named profile.
func NewGate(cfg GateConfig) *Gate {
	return NewGateWithClock(cfg, time.Now)
}

// NewGateWithClock is NewGate with an injectable clock.
func NewGateWithClock(cfg GateConfig, now func() time.Time) *Gate {
	defaults := ProfileByName(cfg.Profile)
	maxPositions := defaults.MaxPositions
	if cfg.MaxPositions != nil {
		maxPositions = *cfg.MaxPositions
	}
	g := &Gate{
		cfg:          cfg,
		maxPositions: maxPositions,
		dailyLossPct: defaults.DailyLossPct,
		now:          now,
	}
	g.tradesDate = now().Format("2006-01-02")
	return g
}

// MaxPositions returns the effective per-day entry cap.
func (g *Gate) MaxPositions() int { return g.maxPositions }

// SessionOpen reports whether the current time of day falls inside the
// configured session window. A window whose start is after its end wraps
// midnight. No configured window means always open.
func (g *Gate) SessionOpen() bool {
	start, okS := parseHHMM(g.cfg.SessionStart)
	end, okE := parseHHMM(g.cfg.SessionEnd)
	if !okS || !okE {
		return true
	}
	now := g.now()
	cur := now.Hour()*60 + now.Minute()
	if start <= end {
		return start <= cur && cur <= end
	}
	// Wrapped window: inside means NOT inside the complementary interval.
	return !(end < cur && cur < start)
}

func parseHHMM(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	var h, m int
	if n, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil || n != 2 {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// CooldownOK reports whether enough time has passed since the last trade.
func (g *Gate) CooldownOK() bool {
	if g.cfg.CooldownSec <= 0 {
		return true
	}
	g.mu.Lock()
	last := g.lastTradeAt
	g.mu.Unlock()
	if last.IsZero() {
		return true
	}
	return g.now().Sub(last) >= time.Duration(g.cfg.CooldownSec)*time.Second
}

// DailyRiskOK reports whether the daily loss limit allows trading. The limit
// is carried from the profile but enforcement requires a realised-PnL feed
// the gate does not have, so this always passes.
func (g *Gate) DailyRiskOK() bool {
	return true
}

// DailyCapOK reports whether another entry is allowed today. The counter
// resets automatically when the calendar date advances.
func (g *Gate) DailyCapOK() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rollDateLocked()
	return g.tradesToday < g.maxPositions
}

// RecordTrade counts a successful entry and stamps the cooldown clock.
func (g *Gate) RecordTrade() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rollDateLocked()
	g.tradesToday++
	g.lastTradeAt = g.now()
}

func (g *Gate) rollDateLocked() {
	today := g.now().Format("2006-01-02")
	if today != g.tradesDate {
		g.tradesDate = today
		g.tradesToday = 0
	}
}

// FiltersOK applies the market filters to the most recent candle window:
// minimum volume on the latest bar and a cap on the 14-bar average true
// range expressed as a percent of the latest close.
func (g *Gate) FiltersOK(candles []types.Candle) bool {
	if len(candles) == 0 {
		return true
	}
	last := candles[len(candles)-1]
	if g.cfg.MinVolume > 0 && last.Volume < g.cfg.MinVolume {
		return false
	}
	if g.cfg.MaxATRPct > 0 && len(candles) >= 15 {
		highs := make([]float64, len(candles))
		lows := make([]float64, len(candles))
		closes := make([]float64, len(candles))
		for i, c := range candles {
			highs[i] = c.High
			lows[i] = c.Low
			closes[i] = c.Close
		}
		if atr, ok := indicator.ATR(highs, lows, closes, 14); ok && last.Close > 0 {
			if atr/last.Close*100.0 > g.cfg.MaxATRPct {
				return false
			}
		}
	}
	return true
}

// PositionSizeUSD computes the order notional. Fixed mode returns the
// configured USD value; percent mode returns balance*value/100 and falls
// back to 0 without a balance, which callers must treat as "do not trade".
func (g *Gate) PositionSizeUSD(balance *float64) float64 {
	if g.cfg.SizingMode == SizingPercent {
		if balance == nil {
			return 0
		}
		v := *balance * g.cfg.SizingValue / 100.0
		if v < 0 {
			return 0
		}
		return v
	}
	if g.cfg.SizingValue < 0 {
		return 0
	}
	return g.cfg.SizingValue
}
