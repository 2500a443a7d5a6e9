package eval

import (
	"fmt"

	"github.com/danielpatrickdp/quadbreak/internal/cipher"
)

// #region eval-harness
// EvalHarness judges decoded text against a known plaintext and the language model.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run scores decoded against expected. score is the model score of decoded.
// Letter accuracy is only checked when expected is non-empty; fitness is
// reported but never fails a decode, since short or unusual text can be
// correct and still score poorly.
func (h *EvalHarness) Run(decoded, expected string, score float64) EvalResult {
	var metrics []EvalMetric
	passed := true
	reason := "all checks passed"

	if expected != "" {
		acc := LetterAccuracy(decoded, expected)
		accPass := acc >= h.config.MinLetterAccuracy
		metrics = append(metrics, EvalMetric{
			Name:  "letter_accuracy",
			Value: acc,
			Pass:  accPass,
		})
		if !accPass {
			passed = false
			reason = fmt.Sprintf("eval failed: letter accuracy %.4f below %.4f", acc, h.config.MinLetterAccuracy)
		}
	}

	fit := Fitness(score, len(cipher.Letters(decoded)))
	metrics = append(metrics, EvalMetric{
		Name:  "fitness",
		Value: fit,
		Pass:  fit >= h.config.MinFitness,
	})

	return EvalResult{
		Passed:  passed,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion eval-harness

// #region measures

// LetterAccuracy compares the normalized letters of decoded and expected
// position by position and returns the matching fraction of expected.
// An empty expected text yields 0.
func LetterAccuracy(decoded, expected string) float64 {
	got, want := cipher.Letters(decoded), cipher.Letters(expected)
	if len(want) == 0 {
		return 0
	}
	match := 0
	for i := 0; i < len(got) && i < len(want); i++ {
		if got[i] == want[i] {
			match++
		}
	}
	return float64(match) / float64(len(want))
}

// Fitness is the mean log10 score per quadgram window of a text with the given
// letter count. It lets scores of texts of different lengths be compared.
func Fitness(score float64, letters int) float64 {
	windows := letters - 3
	if windows <= 0 {
		return 0
	}
	return score / float64(windows)
}

// #endregion measures
