package pipeline

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/quadbreak/internal/caesar"
	"github.com/danielpatrickdp/quadbreak/internal/cipher"
	"github.com/danielpatrickdp/quadbreak/internal/decoder"
	"github.com/danielpatrickdp/quadbreak/internal/eval"
	"github.com/danielpatrickdp/quadbreak/internal/logging"
	"github.com/danielpatrickdp/quadbreak/internal/metrics"
	"github.com/danielpatrickdp/quadbreak/internal/substitution"
)

// #region pipeline
// Pipeline runs binary decoding, Caesar breaking and substitution breaking in
// that order. It is safe for concurrent use.
type Pipeline struct {
	model   Model
	breaker *substitution.Breaker
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger stage boundaries are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithMetrics sets the collectors stage timings are reported to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New builds a pipeline scoring with model and searching with search.
func New(model Model, search substitution.Config, opts ...Option) (*Pipeline, error) {
	breaker, err := substitution.NewBreaker(model, search)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{model: model, breaker: breaker, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// WithSearch returns a copy of p that searches with a different tuning.
func (p *Pipeline) WithSearch(search substitution.Config) (*Pipeline, error) {
	breaker, err := substitution.NewBreaker(p.model, search)
	if err != nil {
		return nil, err
	}
	cp := *p
	cp.breaker = breaker
	return &cp, nil
}

// Search returns the substitution tuning in use.
func (p *Pipeline) Search() substitution.Config {
	return p.breaker.Config()
}

// #endregion pipeline

// #region run
// Run decodes encoded through all three stages. A stage failure stops the run
// and is returned wrapped with the stage name.
func (p *Pipeline) Run(ctx context.Context, encoded string) (Report, error) {
	start := time.Now()
	var rep Report

	// 1. Binary tokens to characters
	t0 := time.Now()
	decoded, err := decoder.DecodeBinary(encoded)
	if err != nil {
		return rep, p.fail(StageBinary, err)
	}
	rep.Decoded = decoded
	p.record(&rep, StageBinary, decoded, t0, logging.StageDetail{Chars: utf8.RuneCountInString(decoded)})

	// 2. Caesar shift
	t0 = time.Now()
	rep.Caesar = caesar.Break(decoded, p.model)
	shift := rep.Caesar.Shift
	p.record(&rep, StageCaesar, rep.Caesar.Text, t0, logging.StageDetail{Shift: &shift})

	// 3. Substitution key
	t0 = time.Now()
	rep.Substitution, err = p.breaker.Break(ctx, rep.Caesar.Text)
	if err != nil {
		return rep, p.fail(StageSubstitution, err)
	}
	restart := rep.Substitution.Restart
	p.record(&rep, StageSubstitution, rep.Substitution.Text, t0, logging.StageDetail{
		Key:     rep.Substitution.Key.String(),
		Seed:    rep.Substitution.Seed,
		Restart: &restart,
	})

	rep.Duration = time.Since(start)
	p.metrics.ObserveRun("ok")
	p.logger.Info("pipeline complete",
		zap.Int("shift", rep.Caesar.Shift),
		zap.Stringer("key", rep.Substitution.Key),
		zap.Float64("score", rep.Substitution.Score),
		zap.Duration("elapsed", rep.Duration))
	return rep, nil
}

func (p *Pipeline) record(rep *Report, stage, output string, started time.Time, detail logging.StageDetail) {
	score := p.model.Score(output)
	sr := StageReport{
		Stage:    stage,
		Score:    score,
		Fitness:  eval.Fitness(score, len(cipher.Letters(output))),
		Duration: time.Since(started),
		Detail:   detail,
	}
	rep.Stages = append(rep.Stages, sr)
	p.metrics.ObserveStage(stage, sr.Duration, sr.Fitness)
	p.logger.Debug("stage complete",
		zap.String("stage", stage),
		zap.Float64("score", sr.Score),
		zap.Float64("fitness", sr.Fitness),
		zap.Duration("elapsed", sr.Duration))
}

func (p *Pipeline) fail(stage string, err error) error {
	p.metrics.ObserveRun(stage)
	p.logger.Warn("stage failed", zap.String("stage", stage), zap.Error(err))
	return fmt.Errorf("%s stage: %w", stage, err)
}

// #endregion run
