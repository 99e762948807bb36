package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string means fixed.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	case "":
		return DifficultyFixed, nil
	}
	return "", fmt.Errorf("config: unknown difficulty preset %q", s)
}

// DifficultyForPreset returns the level difficulty for a preset. Fixed
// reports false and leaves the configured value alone.
func DifficultyForPreset(preset DifficultyPreset) (int, bool) {
	switch preset {
	case DifficultyEasy:
		return 1, true
	case DifficultyNormal:
		return 2, true
	case DifficultyHard:
		return 3, true
	default:
		return 0, false
	}
}

// IsFixedPreset returns true if the preset keeps the configured difficulty.
func IsFixedPreset(preset DifficultyPreset) bool {
	_, ok := DifficultyForPreset(preset)
	return !ok
}

// ApplyCoinrunPreset modifies the config based on a difficulty preset.
// Section records whose dx_coefficient no longer fits the lower difficulty
// are clipped, and the easy preset also switches to the easy distribution.
func ApplyCoinrunPreset(cfg *CoinrunConfig, preset DifficultyPreset) {
	d, ok := DifficultyForPreset(preset)
	if !ok {
		return
	}
	cfg.Level.Difficulty = d
	for i := range cfg.Level.Sections {
		if limit := 2*d - 1; cfg.Level.Sections[i].DXCoefficient > limit {
			cfg.Level.Sections[i].DXCoefficient = limit
		}
	}
	if preset == DifficultyEasy {
		cfg.Mode.Distribution = "easy"
	}
}
