package strategy

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// seedEntry is one strategy in a YAML seed file.
type seedEntry struct {
	Name            string   `yaml:"name"`
	Type            string   `yaml:"type"`
	RiskLevel       string   `yaml:"risk_level"`
	MaxPositionSize float64  `yaml:"max_position_size"`
	StopLoss        float64  `yaml:"stop_loss"`
	TakeProfit      float64  `yaml:"take_profit"`
	Leverage        string   `yaml:"leverage"`
	Pairs           []string `yaml:"pairs"`
}

// seedFile is the top-level YAML structure.
type seedFile struct {
	Strategies []seedEntry `yaml:"strategies"`
}

// LoadSeeds reads first-run strategies from a YAML file. Entries are
// validated like any form submission; a bad entry fails the whole file.
func LoadSeeds(path string) ([]Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	now := time.Now().UTC()
	out := make([]Strategy, 0, len(file.Strategies))
	for i, e := range file.Strategies {
		cfg := Config{
			RiskLevel:       RiskLevel(e.RiskLevel),
			MaxPositionSize: e.MaxPositionSize,
			StopLoss:        e.StopLoss,
			TakeProfit:      e.TakeProfit,
			Leverage:        e.Leverage,
			TradingPairs:    e.Pairs,
		}
		if err := ValidateInput(e.Name, Type(e.Type), cfg); err != nil {
			return nil, fmt.Errorf("seed entry %d (%q): %w", i, e.Name, err)
		}
		out = append(out, Strategy{
			ID:        uuid.NewString(),
			Name:      e.Name,
			Type:      Type(e.Type),
			Status:    StatusPaused,
			Pairs:     append([]string(nil), e.Pairs...),
			Config:    cfg,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	return out, nil
}
