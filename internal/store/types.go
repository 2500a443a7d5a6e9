package store

import "time"

// #region run-record
// RunRecord is one persisted pipeline run.
type RunRecord struct {
	RunID       string
	InputSHA256 string
	Encoded     string // binary input as submitted; empty if not kept
	Shift       int
	Key         string
	Plaintext   string
	Score       float64
	Fitness     float64
	Seed        uint64
	ConfigJSON  string
	Duration    time.Duration
	CreatedAt   time.Time
}
// #endregion run-record
