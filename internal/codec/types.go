package codec

// #region messages
// BreakRequest carries one binary-encoded ciphertext. Zero-valued overrides
// keep the server's search tuning.
type BreakRequest struct {
	Encoded    string `json:"encoded"`
	Seed       uint64 `json:"seed,omitempty"`
	Restarts   int    `json:"restarts,omitempty"`
	Iterations int    `json:"iterations,omitempty"`
}

// BreakResponse is the outcome of a full pipeline run.
type BreakResponse struct {
	RunID      string  `json:"run_id,omitempty"` // empty when the server keeps no history
	Decoded    string  `json:"decoded"`
	Shift      int     `json:"shift"`
	CaesarText string  `json:"caesar_text"`
	Key        string  `json:"key"`
	Plaintext  string  `json:"plaintext"`
	Score      float64 `json:"score"`
	Fitness    float64 `json:"fitness"`
	Seed       uint64  `json:"seed"`
}

// #endregion messages
