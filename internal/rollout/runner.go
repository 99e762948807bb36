// Package rollout runs batches of independent level instances in parallel
// and records or replays their action streams.
package rollout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-coinrun/internal/config"
	"github.com/vovakirdan/tui-coinrun/internal/engine"
	"github.com/vovakirdan/tui-coinrun/internal/games/coinrun"
	"github.com/vovakirdan/tui-coinrun/internal/storage"
)

// Result is the outcome of one episode.
type Result struct {
	EpisodeID     string
	GameID        string
	Policy        string
	Seed          uint64
	Difficulty    int
	Hazard        string
	Outcome       string
	Cause         string
	Ticks         int
	Reward        float64
	LevelComplete bool
	Hash          uint64 // final checkpoint hash
	Actions       []int  // set when recording
}

// Episode converts the result for storage.
func (r Result) Episode(source string) storage.Episode {
	return storage.Episode{
		ID:            r.EpisodeID,
		GameID:        r.GameID,
		Seed:          r.Seed,
		Difficulty:    r.Difficulty,
		Hazard:        r.Hazard,
		Outcome:       r.Outcome,
		Cause:         r.Cause,
		Ticks:         r.Ticks,
		Reward:        r.Reward,
		LevelComplete: r.LevelComplete,
		Source:        source,
	}
}

// EpisodeSaver persists finished episodes. *storage.Store implements it.
type EpisodeSaver interface {
	SaveEpisode(e storage.Episode) (string, error)
}

var _ EpisodeSaver = (*storage.Store)(nil)

// Options configures a batch.
type Options struct {
	Config    config.CoinrunConfig
	GameID    string
	Policy    string
	Episodes  int
	FirstSeed uint64
	// Workers bounds parallel episodes; zero uses GOMAXPROCS.
	Workers int
	// Record keeps every episode's action codes in its result.
	Record bool
	// Store receives every result after the batch completes.
	Store  EpisodeSaver
	Logger *log.Logger
}

// Summary aggregates a batch.
type Summary struct {
	Episodes  int
	Completed int
	Deaths    int
	Timeouts  int
	AvgTicks  float64
	AvgReward float64
}

// CompletionRate is the fraction of episodes that reached the goal.
func (s Summary) CompletionRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Episodes)
}

// Summarize aggregates results.
func Summarize(results []Result) Summary {
	var s Summary
	var ticks int
	for _, r := range results {
		s.Episodes++
		ticks += r.Ticks
		s.AvgReward += r.Reward
		switch r.Outcome {
		case coinrun.OutcomeGoal.String():
			s.Completed++
		case coinrun.OutcomeDeath.String():
			s.Deaths++
		case coinrun.OutcomeTimeout.String():
			s.Timeouts++
		}
	}
	if s.Episodes > 0 {
		s.AvgTicks = float64(ticks) / float64(s.Episodes)
		s.AvgReward /= float64(s.Episodes)
	}
	return s
}

// Run plays opts.Episodes episodes with seeds FirstSeed, FirstSeed+1, ...
// on a bounded worker pool. Results are returned in seed order.
func Run(ctx context.Context, opts Options) ([]Result, Summary, error) {
	if opts.Episodes <= 0 {
		return nil, Summary{}, errors.New("rollout: episode count must be positive")
	}
	if _, err := NewPolicy(opts.Policy, 0); err != nil {
		return nil, Summary{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, opts.Episodes)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range opts.Episodes {
		seed := opts.FirstSeed + uint64(i) //#nosec G115 -- i is non-negative
		g.Go(func() error {
			p, err := NewPolicy(opts.Policy, seed)
			if err != nil {
				return err
			}
			res, err := RunEpisode(gctx, opts.Config, seed, p, opts.Record)
			if err != nil {
				return err
			}
			res.GameID = opts.GameID
			results[i] = res
			logger.Debug("episode", "seed", seed, "outcome", res.Outcome, "ticks", res.Ticks)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	if opts.Store != nil {
		for _, r := range results {
			if _, err := opts.Store.SaveEpisode(r.Episode(storage.SourceRollout)); err != nil {
				return results, Summarize(results), err
			}
		}
	}

	sum := Summarize(results)
	logger.Info("rollout finished",
		"game", opts.GameID,
		"policy", opts.Policy,
		"episodes", sum.Episodes,
		"completed", sum.Completed,
		"deaths", sum.Deaths,
		"timeouts", sum.Timeouts,
		"avg_ticks", fmt.Sprintf("%.1f", sum.AvgTicks),
	)
	return results, sum, nil
}

// ctxCheckEvery is how many ticks run between cancellation checks.
const ctxCheckEvery = 256

// RunEpisode builds the level for seed and steps it with p until the
// episode ends. A configuration without a tick ceiling gets the default
// one so the loop always terminates.
func RunEpisode(ctx context.Context, cfg config.CoinrunConfig, seed uint64, p Policy, record bool) (Result, error) {
	if cfg.World.Timeout <= 0 {
		cfg.World.Timeout = engine.DefaultTimeout
	}
	l, err := coinrun.Build(cfg, seed, nil)
	if err != nil {
		return Result{}, fmt.Errorf("rollout: seed %d: %w", seed, err)
	}

	var actions []int
	for !l.Done() {
		if l.Ticks()%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		code := p.Act(l)
		if record {
			actions = append(actions, code)
		}
		l.Step(code)
	}

	params := l.Params()
	return Result{
		EpisodeID:     uuid.NewString(),
		Policy:        p.Name(),
		Seed:          seed,
		Difficulty:    params.Difficulty,
		Hazard:        params.Hazard.String(),
		Outcome:       l.Outcome().String(),
		Cause:         l.Cause(),
		Ticks:         l.Ticks(),
		Reward:        l.TotalReward(),
		LevelComplete: l.Outcome() == coinrun.OutcomeGoal,
		Hash:          l.Hash(),
		Actions:       actions,
	}, nil
}
