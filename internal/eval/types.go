package eval

// #region eval-config
// EvalConfig holds thresholds for judging a decode.
type EvalConfig struct {
	MinLetterAccuracy float64 // fail if accuracy against a known plaintext is below this
	MinFitness        float64 // informational: mean log10 score per quadgram expected of English
}

// DefaultEvalConfig returns thresholds suited to the built-in English model.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MinLetterAccuracy: 0.95,
		MinFitness:        -5.0,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single check result.
type EvalMetric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the outcome of judging one decode.
type EvalResult struct {
	Passed  bool
	Metrics []EvalMetric
	Reason  string
}

// #endregion eval-result
