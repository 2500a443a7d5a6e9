package pipeline

import (
	"time"

	"github.com/danielpatrickdp/quadbreak/internal/caesar"
	"github.com/danielpatrickdp/quadbreak/internal/logging"
	"github.com/danielpatrickdp/quadbreak/internal/substitution"
)

// #region stages
const (
	StageBinary       = "binary"
	StageCaesar       = "caesar"
	StageSubstitution = "substitution"
)

// #endregion stages

// #region model
// Model scores text for both breakers. *quadgram.Model satisfies it.
type Model interface {
	Score(text string) float64
	ScoreLetters(letters []byte) float64
}

// #endregion model

// #region report
// StageReport describes the output of one stage.
type StageReport struct {
	Stage    string
	Score    float64 // model score of the stage output
	Fitness  float64 // Score per quadgram window
	Duration time.Duration
	Detail   logging.StageDetail
}

// Report is the outcome of a full pipeline run.
type Report struct {
	Decoded      string // binary stage output
	Caesar       caesar.Result
	Substitution substitution.Result
	Stages       []StageReport
	Duration     time.Duration
}

// Plaintext returns the final decoded text.
func (r Report) Plaintext() string {
	return r.Substitution.Text
}

// #endregion report
