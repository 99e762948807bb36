// Package config provides YAML-based level configuration loading and
// difficulty presets.
package config

// CoinrunConfig contains all configuration for CoinRun levels.
type CoinrunConfig struct {
	Level   LevelConfig   `yaml:"level"`
	Physics PhysicsConfig `yaml:"physics"`
	World   WorldConfig   `yaml:"world"`
	Mode    ModeConfig    `yaml:"mode"`
}

// LevelConfig defines what gets generated.
type LevelConfig struct {
	Difficulty  int    `yaml:"difficulty"`   // 1..3
	Hazard      string `yaml:"hazard"`       // "lava", "saw" or "enemy"
	GroundTheme int    `yaml:"ground_theme"` // 0..5
	// RandomSections draws a fresh section list per episode seed instead of
	// using Sections.
	RandomSections bool            `yaml:"random_sections"`
	Sections       []SectionConfig `yaml:"sections"`
}

// SectionConfig mirrors one section parameter record.
type SectionConfig struct {
	EnemyDirection   int     `yaml:"enemy_direction"`
	DY               int     `yaml:"dy"`
	InvertDY         bool    `yaml:"invert_dy"`
	DXCoefficient    int     `yaml:"dx_coefficient"`
	Pit              int     `yaml:"pit"`
	PitX1            int     `yaml:"pit_x1"`
	PitX2            int     `yaml:"pit_x2"`
	PitLavaHeight    float64 `yaml:"pit_lava_height"`
	PitPlatformX3    int     `yaml:"pit_platform_x3"`
	PitPlatformW1    int     `yaml:"pit_platform_w1"`
	SawProbability   int     `yaml:"saw_probability"`
	SawPos           float64 `yaml:"saw_pos"`
	EnemyProbability int     `yaml:"enemy_probability"`
	EnemyPos         float64 `yaml:"enemy_pos"`
	CratePos         float64 `yaml:"crate_pos"`
	CratePile        bool    `yaml:"crate_pile"`
	PileHeight       int     `yaml:"pile_height"`
}

// PhysicsConfig defines the motion constants. The generator derives its
// jump envelope from the same values.
type PhysicsConfig struct {
	Gravity    float64 `yaml:"gravity"`
	MaxJump    float64 `yaml:"max_jump"`
	MaxSpeed   float64 `yaml:"max_speed"`
	AirControl float64 `yaml:"air_control"`
	MixRate    float64 `yaml:"mix_rate"`
}

// WorldConfig defines the host simulation.
type WorldConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Timeout  int `yaml:"timeout"`   // tick ceiling, 0 disables
	SubSteps int `yaml:"sub_steps"` // movement sub-steps per tick
	TickRate int `yaml:"tick_rate"` // interactive ticks per second
}

// ModeConfig holds global simulation switches.
type ModeConfig struct {
	Distribution string `yaml:"distribution"` // "easy" or "hard"
	DebugMode    int    `yaml:"debug_mode"`   // bit 1 no pits, bit 2 no crates, bit 3 flat
}
