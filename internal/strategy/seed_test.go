package strategy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seeds.yaml")
	content := `strategies:
  - name: Arbitrage Hunter
    type: Arbitrage
    risk_level: Low
    max_position_size: 3
    stop_loss: 1.5
    take_profit: 2.5
    leverage: 1x
    pairs: ["BNB/USDT", "MATIC/USDT"]
  - name: DCA Steady
    type: DCA
    risk_level: Medium
    max_position_size: 10
    stop_loss: 8
    take_profit: 20
    leverage: 2x
    pairs: ["BTC/USDT"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	seeds, err := LoadSeeds(path)
	if err != nil {
		t.Fatalf("LoadSeeds: %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("len=%d, expected 2", len(seeds))
	}
	first := seeds[0]
	if first.Name != "Arbitrage Hunter" || first.Type != TypeArbitrage || first.Status != StatusPaused {
		t.Fatalf("unexpected first seed: %+v", first)
	}
	if first.ID == "" || first.ID == seeds[1].ID {
		t.Fatal("seed IDs must be fresh and unique")
	}
	if len(first.Config.TradingPairs) != 2 {
		t.Fatalf("TradingPairs=%v", first.Config.TradingPairs)
	}
}

func TestLoadSeedsRejectsInvalidEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seeds.yaml")
	content := `strategies:
  - name: Broken
    type: Arbitrage
    risk_level: Low
    max_position_size: 3
    stop_loss: 1.5
    take_profit: 2.5
    leverage: 7x
    pairs: ["BNB/USDT"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadSeeds(path); err == nil {
		t.Fatal("expected error for unsupported leverage")
	}
}
