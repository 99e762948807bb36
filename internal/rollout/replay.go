package rollout

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-coinrun/internal/config"
)

// ReplayVersion is the current replay file format.
const ReplayVersion = 1

// ErrReplayMismatch is returned when re-simulating a replay does not
// reproduce its recorded ending.
var ErrReplayMismatch = errors.New("rollout: replay does not reproduce")

// Replay is everything needed to re-simulate an episode exactly.
type Replay struct {
	Version int                  `yaml:"version"`
	GameID  string               `yaml:"game_id"`
	Seed    uint64               `yaml:"seed"`
	Config  config.CoinrunConfig `yaml:"config"`
	Actions []int                `yaml:"actions,flow"`

	// Recorded ending, checked by Verify.
	Outcome string  `yaml:"outcome"`
	Ticks   int     `yaml:"ticks"`
	Reward  float64 `yaml:"reward"`
	Hash    uint64  `yaml:"hash"`
}

// NewReplay captures a recorded result and the configuration it ran with.
func NewReplay(cfg config.CoinrunConfig, r Result) Replay {
	return Replay{
		Version: ReplayVersion,
		GameID:  r.GameID,
		Seed:    r.Seed,
		Config:  cfg,
		Actions: append([]int(nil), r.Actions...),
		Outcome: r.Outcome,
		Ticks:   r.Ticks,
		Reward:  r.Reward,
		Hash:    r.Hash,
	}
}

// SaveReplay writes a replay as YAML.
func SaveReplay(path string, r Replay) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("rollout: marshal replay: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("rollout: write replay %s: %w", path, err)
	}
	return nil
}

// LoadReplay reads a replay written by SaveReplay.
func LoadReplay(path string) (Replay, error) {
	var r Replay
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("rollout: read replay %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("rollout: parse replay %s: %w", path, err)
	}
	if r.Version != ReplayVersion {
		return r, fmt.Errorf("rollout: replay %s: unsupported version %d", path, r.Version)
	}
	return r, nil
}

// Verify re-simulates the replay and checks that it ends exactly as recorded.
func Verify(ctx context.Context, r Replay) (Result, error) {
	res, err := RunEpisode(ctx, r.Config, r.Seed, &scriptPolicy{actions: r.Actions}, false)
	if err != nil {
		return res, err
	}
	res.GameID = r.GameID

	switch {
	case res.Ticks != r.Ticks:
		return res, fmt.Errorf("%w: %d ticks, recorded %d", ErrReplayMismatch, res.Ticks, r.Ticks)
	case res.Outcome != r.Outcome:
		return res, fmt.Errorf("%w: outcome %s, recorded %s", ErrReplayMismatch, res.Outcome, r.Outcome)
	case res.Reward != r.Reward:
		return res, fmt.Errorf("%w: reward %v, recorded %v", ErrReplayMismatch, res.Reward, r.Reward)
	case res.Hash != r.Hash:
		return res, fmt.Errorf("%w: state hash %x, recorded %x", ErrReplayMismatch, res.Hash, r.Hash)
	}
	return res, nil
}
