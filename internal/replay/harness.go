// Package replay runs the pipeline over fixtures of known ciphertexts and
// reports which ones no longer decode.
package replay

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/quadbreak/internal/eval"
	"github.com/danielpatrickdp/quadbreak/internal/pipeline"
)

// #region types

// CaseResult captures the outcome of replaying one fixture case.
type CaseResult struct {
	Name      string
	Passed    bool
	Reason    string
	Shift     int
	Key       string
	Plaintext string
	Accuracy  float64
	Fitness   float64
	Eval      *eval.EvalResult // nil if the pipeline failed
	Err       error
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalCases   int
	Passed       int
	Failed       int
	Errors       int
	MeanAccuracy float64 // over cases that ran
}

// #endregion types

// #region replay

// Replay runs every case of f through p in order. Search overrides in the
// fixture apply to all cases, and a case's own overrides apply on top of
// them. A case whose input fails to decode or whose overrides are invalid is
// reported in its CaseResult; cancellation stops the replay and returns the
// results so far with the context error.
func Replay(ctx context.Context, p *pipeline.Pipeline, f *Fixture) ([]CaseResult, error) {
	if f.Search != nil {
		var err error
		if p, err = p.WithSearch(f.Search.Apply(p.Search())); err != nil {
			return nil, fmt.Errorf("fixture search: %w", err)
		}
	}

	results := make([]CaseResult, 0, len(f.Cases))
	for _, c := range f.Cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		cp := p
		if c.Search != nil {
			var err error
			if cp, err = p.WithSearch(c.Search.Apply(p.Search())); err != nil {
				err = fmt.Errorf("case search: %w", err)
				results = append(results, CaseResult{Name: c.Name, Reason: err.Error(), Err: err})
				continue
			}
		}

		rep, err := cp.Run(ctx, c.Encoded)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return results, ctxErr
			}
			results = append(results, CaseResult{
				Name:   c.Name,
				Reason: err.Error(),
				Err:    err,
			})
			continue
		}

		cfg := eval.DefaultEvalConfig()
		if c.MinAccuracy > 0 {
			cfg.MinLetterAccuracy = c.MinAccuracy
		}
		ev := eval.NewEvalHarness(cfg).Run(rep.Plaintext(), c.Plaintext, rep.Substitution.Score)

		res := CaseResult{
			Name:      c.Name,
			Passed:    ev.Passed,
			Reason:    ev.Reason,
			Shift:     rep.Caesar.Shift,
			Key:       rep.Substitution.Key.String(),
			Plaintext: rep.Plaintext(),
			Eval:      &ev,
		}
		for _, m := range ev.Metrics {
			switch m.Name {
			case "letter_accuracy":
				res.Accuracy = m.Value
			case "fitness":
				res.Fitness = m.Value
			}
		}
		if c.Shift != nil && *c.Shift != rep.Caesar.Shift {
			res.Passed = false
			res.Reason = fmt.Sprintf("caesar shift %d, expected %d", rep.Caesar.Shift, *c.Shift)
		}
		results = append(results, res)
	}
	return results, nil
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []CaseResult) ReplaySummary {
	s := ReplaySummary{TotalCases: len(results)}
	var acc float64
	ran := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Errors++
			continue
		case r.Passed:
			s.Passed++
		default:
			s.Failed++
		}
		acc += r.Accuracy
		ran++
	}
	if ran > 0 {
		s.MeanAccuracy = acc / float64(ran)
	}
	return s
}

// #endregion replay
