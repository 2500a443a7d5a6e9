package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-stage
// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// LogStage writes a stage entry to the stage_log table.
func LogStage(db Execer, entry StageEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO stage_log (run_id, stage, outcome, score, fitness, duration_ms, detail_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Stage,
		entry.Outcome,
		entry.Score,
		entry.Fitness,
		entry.DurationMS,
		nullIfEmpty(entry.DetailJSON),
		entry.CreatedAt.UTC().Format(TimeLayout),
	)
	if err != nil {
		return fmt.Errorf("log stage %s: %w", entry.Stage, err)
	}
	return nil
}
// #endregion log-stage

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
