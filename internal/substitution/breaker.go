package substitution

import (
	"context"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/quadbreak/internal/cipher"
)

const reheatFactor = 2

// #region breaker

// LetterScorer rates normalized letter indices; higher is more language-like.
type LetterScorer interface {
	ScoreLetters(letters []byte) float64
}

// Breaker searches substitution keys. It holds no per-search state and may be
// shared between goroutines.
type Breaker struct {
	scorer LetterScorer
	config Config
}

// NewBreaker validates config and returns a breaker scoring with scorer.
func NewBreaker(scorer LetterScorer, config Config) (*Breaker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Breaker{scorer: scorer, config: config}, nil
}

// Config returns the tuning the breaker was built with.
func (b *Breaker) Config() Config {
	return b.config
}

// Break runs Config.Restarts independent annealing searches over ciphertext and
// returns the best key found. Each run reports the best key it accepted, not
// the key it ended on; since improvements are always accepted, this is also
// the best key the run evaluated. Runs are reduced by score with ties going to
// the lowest restart, so a fixed seed gives the same result whatever the
// worker count.
//
// Ciphertext with fewer than four letters scores 0 under every key. The
// search still runs to its iteration cap and returns the first run's initial
// key.
func (b *Breaker) Break(ctx context.Context, ciphertext string) (Result, error) {
	letters := cipher.Letters(ciphertext)

	seed := b.config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) | 1
	}
	workers := b.config.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	runs := make([]run, b.config.Restarts)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range runs {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(i)))
			r, err := b.anneal(gctx, letters, rng)
			if err != nil {
				return err
			}
			r.stats.Restart = i
			runs[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	best := 0
	stats := make([]RunStats, len(runs))
	for i, r := range runs {
		stats[i] = r.stats
		if r.score > runs[best].score {
			best = i
		}
	}

	return Result{
		Key:     runs[best].key,
		Text:    Decrypt(ciphertext, runs[best].key),
		Score:   runs[best].score,
		Seed:    seed,
		Restart: best,
		Runs:    stats,
	}, nil
}

// #endregion breaker

// #region anneal

type run struct {
	key   Key
	score float64
	stats RunStats
}

func (b *Breaker) anneal(ctx context.Context, letters []byte, rng *rand.Rand) (run, error) {
	cfg := b.config
	buf := make([]byte, len(letters))
	score := func(k Key) float64 {
		inv := k.Inverse()
		decryptLetters(buf, letters, &inv)
		return b.scorer.ScoreLetters(buf)
	}

	current := RandomKey(rng)
	currentScore := score(current)
	best := run{key: current, score: currentScore}

	temperature := cfg.InitialTemperature
	stall := 0
	for it := 0; it < cfg.Iterations; it++ {
		if it%cfg.CoolingInterval == 0 {
			if err := ctx.Err(); err != nil {
				return run{}, err
			}
		}

		candidate := ProposeNeighbor(current, rng)
		candidateScore := score(candidate)
		if Accept(candidateScore-currentScore, temperature, cfg.MinTemperature, rng) {
			current, currentScore = candidate, candidateScore
			stall = 0
			best.stats.Accepted++
			if currentScore > best.score {
				best.key, best.score = current, currentScore
			}
		} else {
			stall++
		}

		if it%cfg.CoolingInterval == 0 {
			temperature *= cfg.CoolingRate
		}
		if stall > cfg.StallThreshold {
			temperature = max(temperature*reheatFactor, cfg.ReheatFloor)
			stall = 0
			best.stats.Reheats++
		}
	}

	best.stats.Score = best.score
	best.stats.FinalTemperature = temperature
	return best, nil
}

// #endregion anneal
