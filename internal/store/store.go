package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/quadbreak/internal/logging"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	input_sha256  TEXT NOT NULL,
	encoded       TEXT,
	shift         INTEGER NOT NULL,
	sub_key       TEXT NOT NULL,
	plaintext     TEXT NOT NULL,
	score         REAL NOT NULL,
	fitness       REAL NOT NULL,
	seed          TEXT NOT NULL,
	config_json   TEXT,
	duration_ms   INTEGER NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stage_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	stage         TEXT NOT NULL,
	outcome       TEXT NOT NULL,
	score         REAL NOT NULL,
	fitness       REAL NOT NULL,
	duration_ms   INTEGER NOT NULL,
	detail_json   TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input_sha256);
`
// #endregion schema

// #region store-struct
// Store keeps the history of pipeline runs in SQLite.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region save-run
// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// HashInput returns the hex SHA-256 digest identifying an encoded input.
func HashInput(encoded string) string {
	sum := sha256.Sum256([]byte(encoded))
	return hex.EncodeToString(sum[:])
}

// SaveRun inserts rec and its stage entries in one transaction. An empty
// RunID is replaced with a new one; the ID used is returned.
func (s *Store) SaveRun(rec RunRecord, stages []logging.StageEntry) (string, error) {
	if rec.RunID == "" {
		rec.RunID = NewRunID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, input_sha256, encoded, shift, sub_key, plaintext, score, fitness, seed, config_json, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.InputSHA256, nullIfEmpty(rec.Encoded), rec.Shift, rec.Key, rec.Plaintext, rec.Score, rec.Fitness,
		strconv.FormatUint(rec.Seed, 10), nullIfEmpty(rec.ConfigJSON), rec.Duration.Milliseconds(),
		rec.CreatedAt.UTC().Format(logging.TimeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, st := range stages {
		st.RunID = rec.RunID
		if st.CreatedAt.IsZero() {
			st.CreatedAt = rec.CreatedAt
		}
		if err := logging.LogStage(tx, st); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return rec.RunID, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion save-run

// #region get-run
const runColumns = `run_id, input_sha256, encoded, shift, sub_key, plaintext, score, fitness, seed, config_json, duration_ms, created_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (RunRecord, error) {
	var rec RunRecord
	var seedStr, createdStr string
	var encoded, configJSON sql.NullString
	var durationMS int64

	err := row.Scan(&rec.RunID, &rec.InputSHA256, &encoded, &rec.Shift, &rec.Key, &rec.Plaintext,
		&rec.Score, &rec.Fitness, &seedStr, &configJSON, &durationMS, &createdStr)
	if err != nil {
		return RunRecord{}, err
	}
	rec.Seed, err = strconv.ParseUint(seedStr, 10, 64)
	if err != nil {
		return RunRecord{}, fmt.Errorf("parse seed %q: %w", seedStr, err)
	}
	rec.Encoded = encoded.String
	rec.ConfigJSON = configJSON.String
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.CreatedAt, _ = time.Parse(logging.TimeLayout, createdStr)
	return rec, nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (RunRecord, error) {
	rec, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, id))
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}
// #endregion get-run

// #region list-runs
// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListStages returns the stage entries of a run in pipeline order.
func (s *Store) ListStages(runID string) ([]logging.StageEntry, error) {
	rows, err := s.db.Query(
		`SELECT run_id, stage, outcome, score, fitness, duration_ms, detail_json, created_at
		 FROM stage_log WHERE run_id = ? ORDER BY id ASC`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var entries []logging.StageEntry
	for rows.Next() {
		var e logging.StageEntry
		var detail sql.NullString
		var createdStr string
		if err := rows.Scan(&e.RunID, &e.Stage, &e.Outcome, &e.Score, &e.Fitness, &e.DurationMS, &detail, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if detail.Valid {
			e.DetailJSON = detail.String
		}
		e.CreatedAt, _ = time.Parse(logging.TimeLayout, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
// #endregion list-runs
