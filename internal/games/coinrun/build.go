package coinrun

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-coinrun/internal/config"
)

// ParamsFromConfig converts and validates the level section of a config.
func ParamsFromConfig(cfg config.LevelConfig) (Parameters, error) {
	hazard, err := ParseHazard(cfg.Hazard)
	if err != nil {
		return Parameters{}, err
	}
	sections := make([]SectionParameters, len(cfg.Sections))
	for i, s := range cfg.Sections {
		sections[i] = SectionParameters{
			EnemyDirection:   s.EnemyDirection,
			DY:               s.DY,
			InvertDY:         s.InvertDY,
			DXCoefficient:    s.DXCoefficient,
			Pit:              s.Pit,
			PitX1:            s.PitX1,
			PitX2:            s.PitX2,
			PitLavaHeight:    s.PitLavaHeight,
			PitPlatformX3:    s.PitPlatformX3,
			PitPlatformW1:    s.PitPlatformW1,
			SawProbability:   s.SawProbability,
			SawPos:           s.SawPos,
			EnemyProbability: s.EnemyProbability,
			EnemyPos:         s.EnemyPos,
			CratePos:         s.CratePos,
			CratePile:        s.CratePile,
			PileHeight:       s.PileHeight,
		}
	}
	return NewParameters(cfg.Difficulty, hazard, cfg.GroundTheme, sections)
}

// OptionsFromConfig converts the host sections of a config.
func OptionsFromConfig(cfg config.CoinrunConfig, logger *log.Logger) (Options, error) {
	dist, err := ParseDistribution(cfg.Mode.Distribution)
	if err != nil {
		return Options{}, err
	}
	opts := Options{
		Distribution: dist,
		DebugMode:    cfg.Mode.DebugMode,
		Physics: Physics{
			Gravity:    cfg.Physics.Gravity,
			MaxJump:    cfg.Physics.MaxJump,
			MaxSpeed:   cfg.Physics.MaxSpeed,
			AirControl: cfg.Physics.AirControl,
			MixRate:    cfg.Physics.MixRate,
		},
		Width:    cfg.World.Width,
		Height:   cfg.World.Height,
		SubSteps: cfg.World.SubSteps,
		Timeout:  cfg.World.Timeout,
		Logger:   logger,
	}
	if err := opts.validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// ParamsForSeed returns the parameters of episode seed: either the fixed
// configured sections or a fresh sample drawn from the seed.
func ParamsForSeed(cfg config.CoinrunConfig, seed uint64) (Parameters, error) {
	if !cfg.Level.RandomSections {
		return ParamsFromConfig(cfg.Level)
	}
	hazard, err := ParseHazard(cfg.Level.Hazard)
	if err != nil {
		return Parameters{}, err
	}
	if err := (Parameters{Difficulty: cfg.Level.Difficulty, Hazard: hazard}).Validate(); err != nil {
		return Parameters{}, err
	}
	return SampleSeed(seed, cfg.Level.Difficulty, hazard), nil
}

// Build creates a level for one episode and resets it with seed.
func Build(cfg config.CoinrunConfig, seed uint64, logger *log.Logger) (*Level, error) {
	params, err := ParamsForSeed(cfg, seed)
	if err != nil {
		return nil, err
	}
	opts, err := OptionsFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	l, err := NewLevel(params, opts)
	if err != nil {
		return nil, err
	}
	l.Reset(seed)
	return l, nil
}
