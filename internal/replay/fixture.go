package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/quadbreak/internal/substitution"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string         `json:"description"`
	Search      *FixtureSearch `json:"search,omitempty"`
	Cases       []FixtureCase  `json:"cases"`
}

// FixtureSearch overrides fields of the pipeline's search tuning. Zero fields
// keep the pipeline's value.
type FixtureSearch struct {
	Restarts           int     `json:"restarts,omitempty"`
	Iterations         int     `json:"iterations,omitempty"`
	InitialTemperature float64 `json:"initial_temperature,omitempty"`
	CoolingRate        float64 `json:"cooling_rate,omitempty"`
	CoolingInterval    int     `json:"cooling_interval,omitempty"`
	StallThreshold     int     `json:"stall_threshold,omitempty"`
	ReheatFloor        float64 `json:"reheat_floor,omitempty"`
	MinTemperature     float64 `json:"min_temperature,omitempty"`
	Workers            int     `json:"workers,omitempty"`
	Seed               uint64  `json:"seed,omitempty"`
}

// FixtureCase is one ciphertext with its known plaintext.
type FixtureCase struct {
	Name        string  `json:"name"`
	Encoded     string  `json:"encoded"`
	Plaintext   string  `json:"plaintext"`
	Shift       *int    `json:"shift,omitempty"`        // expected Caesar shift, if checked
	MinAccuracy float64 `json:"min_accuracy,omitempty"` // 0 uses the eval default
	// Search overrides the fixture's tuning for this case only.
	Search *FixtureSearch `json:"search,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("fixture %s has no cases", path)
	}
	return &f, nil
}

// SearchFromConfig records every field of c as an override.
func SearchFromConfig(c substitution.Config) *FixtureSearch {
	return &FixtureSearch{
		Restarts:           c.Restarts,
		Iterations:         c.Iterations,
		InitialTemperature: c.InitialTemperature,
		CoolingRate:        c.CoolingRate,
		CoolingInterval:    c.CoolingInterval,
		StallThreshold:     c.StallThreshold,
		ReheatFloor:        c.ReheatFloor,
		MinTemperature:     c.MinTemperature,
		Workers:            c.Workers,
		Seed:               c.Seed,
	}
}

// Apply overlays the non-zero fields of s onto base.
func (s *FixtureSearch) Apply(base substitution.Config) substitution.Config {
	if s == nil {
		return base
	}
	if s.Restarts != 0 {
		base.Restarts = s.Restarts
	}
	if s.Iterations != 0 {
		base.Iterations = s.Iterations
	}
	if s.InitialTemperature != 0 {
		base.InitialTemperature = s.InitialTemperature
	}
	if s.CoolingRate != 0 {
		base.CoolingRate = s.CoolingRate
	}
	if s.CoolingInterval != 0 {
		base.CoolingInterval = s.CoolingInterval
	}
	if s.StallThreshold != 0 {
		base.StallThreshold = s.StallThreshold
	}
	if s.ReheatFloor != 0 {
		base.ReheatFloor = s.ReheatFloor
	}
	if s.MinTemperature != 0 {
		base.MinTemperature = s.MinTemperature
	}
	if s.Workers != 0 {
		base.Workers = s.Workers
	}
	if s.Seed != 0 {
		base.Seed = s.Seed
	}
	return base
}

// #endregion fixture-loader
