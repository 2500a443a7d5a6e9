package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/danielpatrickdp/quadbreak/internal/logging"
	"github.com/danielpatrickdp/quadbreak/internal/store"
)

// #region persist
// Persist saves rep and its stages to s and returns the new run ID.
func (p *Pipeline) Persist(s *store.Store, encoded string, rep Report) (string, error) {
	cfgJSON, err := json.Marshal(p.Search())
	if err != nil {
		return "", fmt.Errorf("marshal search config: %w", err)
	}

	var fitness float64
	if n := len(rep.Stages); n > 0 {
		fitness = rep.Stages[n-1].Fitness
	}

	rec := store.RunRecord{
		InputSHA256: store.HashInput(encoded),
		Encoded:     encoded,
		Shift:       rep.Caesar.Shift,
		Key:         rep.Substitution.Key.String(),
		Plaintext:   rep.Plaintext(),
		Score:       rep.Substitution.Score,
		Fitness:     fitness,
		Seed:        rep.Substitution.Seed,
		ConfigJSON:  string(cfgJSON),
		Duration:    rep.Duration,
	}
	entries, err := rep.StageEntries()
	if err != nil {
		return "", err
	}
	return s.SaveRun(rec, entries)
}

// StageEntries converts the stage reports into stage_log rows.
func (r Report) StageEntries() ([]logging.StageEntry, error) {
	entries := make([]logging.StageEntry, 0, len(r.Stages))
	for _, st := range r.Stages {
		detail, err := json.Marshal(st.Detail)
		if err != nil {
			return nil, fmt.Errorf("marshal %s stage detail: %w", st.Stage, err)
		}
		entries = append(entries, logging.StageEntry{
			Stage:      st.Stage,
			Outcome:    "ok",
			Score:      st.Score,
			Fitness:    st.Fitness,
			DurationMS: st.Duration.Milliseconds(),
			DetailJSON: string(detail),
		})
	}
	return entries, nil
}

// #endregion persist
