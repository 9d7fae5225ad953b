package notification

import (
	"testing"

	"github.com/Hootan504/bingx-bot/types"
)

func TestManagerRetention(t *testing.T) {
	m := NewManager(2)
	m.Add(NewAlert("a", "first"))
	m.Add(NewAlert("b", "second"))
	m.Add(NewAlert("c", "third"))

	all := m.All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d notifications, want 2", len(all))
	}
	if all[0].Title != "c" || all[1].Title != "b" {
		t.Errorf("expected newest first with the oldest dropped, got %+v", all)
	}
}

func TestByType(t *testing.T) {
	m := NewManager(10)
	m.Add(NewAlert("alert", "x"))
	m.Add(NewSignal("BTC-USDT", types.SignalLong, "sma cross"))
	m.Add(NewOrder(types.TradeIntent{Symbol: "BTC-USDT", Side: types.SideBuy, Type: types.OrderMarket, Amount: 0.1}, types.OrderOutcome{OK: true}))

	if got := m.ByType(TypeSignal); len(got) != 1 || got[0].Type != TypeSignal {
		t.Errorf("ByType(signal) = %+v, want one signal notification", got)
	}
	if got := m.ByType(TypeOrder); len(got) != 1 {
		t.Errorf("ByType(order) = %+v, want one order notification", got)
	}
}

func TestMarkAsRead(t *testing.T) {
	m := NewManager(10)
	m.Add(NewAlert("a", "x"))
	id := m.All()[0].ID

	if !m.MarkAsRead(id) {
		t.Fatal("MarkAsRead() should find the notification")
	}
	if !m.All()[0].Read {
		t.Error("notification should be marked read")
	}
	if m.MarkAsRead("missing") {
		t.Error("MarkAsRead() should report a missing ID")
	}
}
