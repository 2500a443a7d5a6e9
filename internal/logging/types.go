package logging

import "time"

// TimeLayout formats stored timestamps. It is fixed width so that text order
// matches time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region stage-entry
// StageEntry is a single row in the stage_log table.
type StageEntry struct {
	RunID      string
	Stage      string // "binary" | "caesar" | "substitution"
	Outcome    string // "ok" | "error"
	Score      float64
	Fitness    float64
	DurationMS int64
	DetailJSON string
	CreatedAt  time.Time
}

// #endregion stage-entry

// #region stage-detail
// StageDetail is serialized into stage_log.detail_json so a run can be
// inspected without re-running it.
type StageDetail struct {
	Shift   *int   `json:"shift,omitempty"`
	Key     string `json:"key,omitempty"`
	Seed    uint64 `json:"seed,omitempty"`
	Restart *int   `json:"restart,omitempty"`
	Chars   int    `json:"chars,omitempty"`
	Error   string `json:"error,omitempty"`
}

// #endregion stage-detail
