package journal

import (
	"path/filepath"
	"testing"

	"github.com/Hootan504/bingx-bot/types"
)

func TestAppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.json")

	j, err := New(path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	records := []types.TradeRecord{
		{Timestamp: 100, Symbol: "BTC-USDT", Side: types.SideBuy, Type: types.OrderLimit, Amount: 0.5, Price: 40000, OK: true},
		{Timestamp: 200, Symbol: "BTC-USDT", Side: types.SideSell, Type: types.OrderLimit, Amount: 0.5, Price: 41000, OK: true},
		{Timestamp: 300, Symbol: "BTC-USDT", Side: types.SideBuy, Type: types.OrderLimit, Amount: 0.1, Price: 40500, OK: false},
	}
	for _, r := range records {
		if err := j.Append(r); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	reloaded, err := New(path)
	if err != nil {
		t.Fatalf("New() reload error: %v", err)
	}
	got := reloaded.Records()
	if len(got) != 3 {
		t.Fatalf("Records() returned %d records, want 3", len(got))
	}
	if got[0] != records[0] || got[2] != records[2] {
		t.Errorf("reloaded records differ from appended ones: %+v", got)
	}
}

func TestRecordsSortedByTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.json")
	j, _ := New(path)

	j.Append(types.TradeRecord{Timestamp: 300, Side: types.SideBuy, OK: true})
	j.Append(types.TradeRecord{Timestamp: 100, Side: types.SideBuy, OK: true})

	reloaded, _ := New(path)
	got := reloaded.Records()
	if got[0].Timestamp != 100 || got[1].Timestamp != 300 {
		t.Errorf("records should be sorted by timestamp on load, got %+v", got)
	}
}

func TestFilledFiltersFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.json")
	j, _ := New(path)

	j.Append(types.TradeRecord{Timestamp: 1, Side: types.SideBuy, OK: true})
	j.Append(types.TradeRecord{Timestamp: 2, Side: types.SideBuy, OK: false})

	if got := j.Filled(); len(got) != 1 || got[0].Timestamp != 1 {
		t.Errorf("Filled() = %+v, want only the successful record", got)
	}
}

func TestMissingFileIsEmptyJournal(t *testing.T) {
	j, err := New(filepath.Join(t.TempDir(), "nope", "trades.json"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := j.Records(); len(got) != 0 {
		t.Errorf("Records() = %+v, want empty", got)
	}
}
