package strategy

import (
	"encoding/json"
	"testing"
	"time"
)

func testTime(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Hour)
}

func TestSortNewestFirst(t *testing.T) {
	list := []Strategy{
		{ID: "old", CreatedAt: testTime(1)},
		{ID: "new", CreatedAt: testTime(3)},
		{ID: "mid", CreatedAt: testTime(2)},
	}
	SortNewestFirst(list)
	if list[0].ID != "new" || list[1].ID != "mid" || list[2].ID != "old" {
		t.Fatalf("order %s,%s,%s, expected new,mid,old", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestWinRate(t *testing.T) {
	s := Strategy{}
	if s.WinRate() != 0 {
		t.Fatalf("WinRate=%v, expected 0 with no trades", s.WinRate())
	}
	s.Performance = Performance{Trades: 8, Wins: 6}
	if s.WinRate() != 0.75 {
		t.Fatalf("WinRate=%v, expected 0.75", s.WinRate())
	}
}

func TestCloneDoesNotAliasSlices(t *testing.T) {
	orig := Strategy{
		Pairs:  []string{"BTC/USDT"},
		Config: Config{TradingPairs: []string{"BTC/USDT"}},
	}
	cp := orig.Clone()
	cp.Pairs[0] = "ETH/USDT"
	cp.Config.TradingPairs[0] = "ETH/USDT"
	if orig.Pairs[0] != "BTC/USDT" || orig.Config.TradingPairs[0] != "BTC/USDT" {
		t.Fatal("Clone shares backing arrays with the original")
	}
}

func TestJSONShape(t *testing.T) {
	s := Strategy{
		ID:        "s-1",
		Name:      "Grid Bot A",
		Type:      TypeGrid,
		Status:    StatusPaused,
		Pairs:     []string{"BTC/USDT"},
		CreatedAt: testTime(0),
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]any
	_ = json.Unmarshal(data, &m)
	for _, key := range []string{"id", "name", "type", "status", "pairs", "config", "performance", "createdAt"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("missing %q in persisted shape: %s", key, data)
		}
	}
}
