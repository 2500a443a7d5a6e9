package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/quadbreak/internal/logging"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(created time.Time) RunRecord {
	return RunRecord{
		InputSHA256: HashInput("01001000 01101001"),
		Encoded:     "01001000 01101001",
		Shift:       3,
		Key:         "QWERTYUIOPASDFGHJKLZXCVBNM",
		Plaintext:   "FOUR SCORE AND SEVEN YEARS AGO",
		Score:       -98.25,
		Fitness:     -4.09,
		Seed:        1<<63 + 17,
		ConfigJSON:  `{"restarts":3}`,
		Duration:    1500 * time.Millisecond,
		CreatedAt:   created,
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := tempDB(t)
	rec := sampleRun(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	id, err := s.SaveRun(rec, nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.GetRun(id)
	require.NoError(t, err)

	rec.RunID = id
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("run mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRunKeepsGivenID(t *testing.T) {
	s := tempDB(t)
	rec := sampleRun(time.Now().UTC())
	rec.RunID = "fixed-id"

	id, err := s.SaveRun(rec, nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)

	_, err = s.SaveRun(rec, nil)
	assert.Error(t, err, "duplicate run id")
}

func TestSaveRunWithStages(t *testing.T) {
	s := tempDB(t)
	stages := []logging.StageEntry{
		{Stage: "binary", Outcome: "ok", DurationMS: 1},
		{Stage: "caesar", Outcome: "ok", Score: -200, Fitness: -4.5, DetailJSON: `{"shift":3}`},
		{Stage: "substitution", Outcome: "ok", Score: -98, Fitness: -4.1, DetailJSON: `{"key":"QWERTYUIOPASDFGHJKLZXCVBNM"}`},
	}

	id, err := s.SaveRun(sampleRun(time.Now().UTC()), stages)
	require.NoError(t, err)

	got, err := s.ListStages(id)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, e := range got {
		assert.Equal(t, id, e.RunID)
		assert.Equal(t, stages[i].Stage, e.Stage)
		assert.Equal(t, stages[i].DetailJSON, e.DetailJSON)
		assert.False(t, e.CreatedAt.IsZero())
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := tempDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.SaveRun(sampleRun(base.Add(time.Duration(i)*time.Hour)), nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := s.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].RunID)
	assert.Equal(t, ids[1], runs[1].RunID)
}

func TestListRunsOrdersWithinOneSecond(t *testing.T) {
	s := tempDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 5, 0, time.UTC)

	// Saved out of time order, so only created_at can order them.
	later, err := s.SaveRun(sampleRun(base.Add(120*time.Millisecond)), nil)
	require.NoError(t, err)
	earlier, err := s.SaveRun(sampleRun(base.Add(100*time.Millisecond)), nil)
	require.NoError(t, err)

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, later, runs[0].RunID)
	assert.Equal(t, earlier, runs[1].RunID)

	var created string
	require.NoError(t, s.DB().QueryRow(`SELECT created_at FROM runs WHERE run_id = ?`, earlier).Scan(&created))
	assert.Equal(t, "2026-01-01T00:00:05.100000000Z", created)
}

func TestGetRunNotFound(t *testing.T) {
	s := tempDB(t)
	_, err := s.GetRun("nonexistent-id")
	assert.Error(t, err)
}

func TestListStagesEmpty(t *testing.T) {
	s := tempDB(t)
	got, err := s.ListStages("nothing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHashInputIsStable(t *testing.T) {
	assert.Equal(t, HashInput("abc"), HashInput("abc"))
	assert.NotEqual(t, HashInput("abc"), HashInput("abd"))
	assert.Len(t, HashInput(""), 64)
}

func TestNewStoreInvalidPath(t *testing.T) {
	_, err := NewStore(filepath.Join(string(os.PathSeparator), "nonexistent", "deep", "path", "test.db"))
	assert.Error(t, err)
}

func TestDBAccessor(t *testing.T) {
	assert.NotNil(t, tempDB(t).DB())
}
