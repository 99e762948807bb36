package config

import (
	_ "embed"
)

//go:embed defaults/coinrun.yaml
var defaultCoinrunYAML []byte

// DefaultSection returns the stock section record.
func DefaultSection() SectionConfig {
	return SectionConfig{
		EnemyDirection:   1,
		DY:               1,
		InvertDY:         true,
		DXCoefficient:    3,
		Pit:              18,
		PitX1:            1,
		PitX2:            2,
		PitLavaHeight:    0.7,
		PitPlatformX3:    1,
		PitPlatformW1:    1,
		SawProbability:   9,
		SawPos:           0.5,
		EnemyProbability: 1,
		EnemyPos:         0.5,
		CratePos:         0.5,
		CratePile:        true,
		PileHeight:       2,
	}
}

// DefaultCoinrunConfig returns the default CoinRun configuration.
func DefaultCoinrunConfig() CoinrunConfig {
	sections := make([]SectionConfig, 6)
	for i := range sections {
		sections[i] = DefaultSection()
	}
	return CoinrunConfig{
		Level: LevelConfig{
			Difficulty:     3,
			Hazard:         "saw",
			GroundTheme:    0,
			RandomSections: false,
			Sections:       sections,
		},
		Physics: PhysicsConfig{
			Gravity:    0.2,
			MaxJump:    1.5,
			MaxSpeed:   0.5,
			AirControl: 0.15,
			MixRate:    0.2,
		},
		World: WorldConfig{
			Width:    64,
			Height:   64,
			Timeout:  1000,
			SubSteps: 4,
			TickRate: 15,
		},
		Mode: ModeConfig{
			Distribution: "hard",
			DebugMode:    0,
		},
	}
}
