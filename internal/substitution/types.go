package substitution

import (
	"github.com/danielpatrickdp/quadbreak/internal/cipher"
)

// #region config

// Config tunes the annealing search.
type Config struct {
	Restarts           int     // independent runs; the best one wins
	Iterations         int     // proposals per run
	InitialTemperature float64 // starting temperature of every run
	CoolingRate        float64 // multiplicative decay, in (0, 1]
	CoolingInterval    int     // iterations between decays
	StallThreshold     int     // consecutive rejections before reheating
	ReheatFloor        float64 // minimum temperature after a reheat
	MinTemperature     float64 // at or below this, worse candidates are never accepted
	Workers            int     // concurrent runs; 0 uses GOMAXPROCS
	Seed               uint64  // 0 draws a seed from the clock
}

// DefaultConfig returns the classic tuning: three runs of 4000 proposals,
// starting hot at 20 and cooling by 5% every 100 iterations.
func DefaultConfig() Config {
	return Config{
		Restarts:           3,
		Iterations:         4000,
		InitialTemperature: 20,
		CoolingRate:        0.95,
		CoolingInterval:    100,
		StallThreshold:     500,
		ReheatFloor:        5,
		MinTemperature:     0.01,
	}
}

// ThoroughConfig returns a slower tuning that reliably breaks a few hundred
// letters of English: six runs of 15000 proposals starting cool at 5. The
// classic tuning often stalls far from the key on text it was not trained on.
func ThoroughConfig() Config {
	return Config{
		Restarts:           6,
		Iterations:         15000,
		InitialTemperature: 5,
		CoolingRate:        0.95,
		CoolingInterval:    100,
		StallThreshold:     1000,
		ReheatFloor:        2,
		MinTemperature:     0.01,
	}
}

// Validate rejects parameters the search cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Restarts < 1:
		return &cipher.ConfigurationError{Field: "restarts", Reason: "must be at least 1"}
	case c.Iterations < 1:
		return &cipher.ConfigurationError{Field: "iterations", Reason: "must be at least 1"}
	case !(c.InitialTemperature > 0):
		return &cipher.ConfigurationError{Field: "initial_temperature", Reason: "must be positive"}
	case !(c.CoolingRate > 0 && c.CoolingRate <= 1):
		return &cipher.ConfigurationError{Field: "cooling_rate", Reason: "must be in (0, 1]"}
	case c.CoolingInterval < 1:
		return &cipher.ConfigurationError{Field: "cooling_interval", Reason: "must be at least 1"}
	case c.StallThreshold < 1:
		return &cipher.ConfigurationError{Field: "stall_threshold", Reason: "must be at least 1"}
	case !(c.ReheatFloor >= 0):
		return &cipher.ConfigurationError{Field: "reheat_floor", Reason: "must not be negative"}
	case !(c.MinTemperature > 0):
		return &cipher.ConfigurationError{Field: "min_temperature", Reason: "must be positive"}
	case c.Workers < 0:
		return &cipher.ConfigurationError{Field: "workers", Reason: "must not be negative"}
	}
	return nil
}

// #endregion config

// #region result

// RunStats summarizes one restart.
type RunStats struct {
	Restart          int
	Score            float64 // best score accepted during the run
	Accepted         int
	Reheats          int
	FinalTemperature float64
}

// Result is the best key found across all restarts.
type Result struct {
	Key     Key
	Text    string // ciphertext decoded with Key, uppercased
	Score   float64
	Seed    uint64 // seed the search ran with; reuse it to reproduce the result
	Restart int    // index of the winning restart
	Runs    []RunStats
}

// #endregion result
