package coinrun

import (
	"fmt"
	"math"
	"strings"
)

// Hazard selects what fills generated pits.
type Hazard int

const (
	HazardLava Hazard = iota
	HazardSaw
	HazardEnemy
	numHazards
)

var hazardNames = [...]string{"lava", "saw", "enemy"}

func (h Hazard) String() string {
	if h >= 0 && h < numHazards {
		return hazardNames[h]
	}
	return fmt.Sprintf("hazard(%d)", int(h))
}

// ParseHazard accepts a hazard name or its numeric selector.
func ParseHazard(s string) (Hazard, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range hazardNames {
		if s == name || s == fmt.Sprint(i) {
			return Hazard(i), nil
		}
	}
	return 0, ValidationError{Code: "HAZARD", Message: fmt.Sprintf("unknown hazard %q", s)}
}

// Theme counts for cosmetic choices.
const (
	NumGroundThemes = 6
	NumPlayerThemes = 5
	NumEnemyThemes  = 9
	NumCrateThemes  = 4
)

// GroundThemes names the ground palettes by index.
var GroundThemes = [NumGroundThemes]string{"Dirt", "Grass", "Planet", "Sand", "Snow", "Stone"}

// SectionParameters drives the layout of one generated section.
type SectionParameters struct {
	EnemyDirection   int     // 0 walks left, 1 walks right
	DY               int     // 0..3
	InvertDY         bool    // step down instead of up once above height 5
	DXCoefficient    int     // 0 <= v < 2*difficulty
	Pit              int     // roll 0..19, compared against difficulty
	PitX1            int     // 0..2
	PitX2            int     // 0..2
	PitLavaHeight    float64 // 0..1
	PitPlatformX3    int     // 0..1
	PitPlatformW1    int     // 0..1
	SawProbability   int     // roll 0..9
	SawPos           float64 // 0..1
	EnemyProbability int     // roll 0..9
	EnemyPos         float64 // 0..1
	CratePos         float64 // 0..1
	CratePile        bool
	PileHeight       int // 0..2
}

// Parameters is a validated level configuration.
type Parameters struct {
	Difficulty  int
	Hazard      Hazard
	GroundTheme int
	Sections    []SectionParameters
}

// ValidationError reports a configuration value outside its legal range.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewParameters validates every field and returns an immutable configuration.
// Invalid configurations are rejected, never adjusted.
func NewParameters(difficulty int, hazard Hazard, groundTheme int, sections []SectionParameters) (Parameters, error) {
	p := Parameters{
		Difficulty:  difficulty,
		Hazard:      hazard,
		GroundTheme: groundTheme,
		Sections:    append([]SectionParameters(nil), sections...),
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// MustParameters is like NewParameters but panics on invalid input.
func MustParameters(difficulty int, hazard Hazard, groundTheme int, sections []SectionParameters) Parameters {
	p, err := NewParameters(difficulty, hazard, groundTheme, sections)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate checks all fields against their ranges.
func (p Parameters) Validate() error {
	if p.Difficulty < 1 || p.Difficulty > 3 {
		return ValidationError{Code: "DIFFICULTY", Message: fmt.Sprintf("difficulty %d not in [1, 3]", p.Difficulty)}
	}
	if p.Hazard < 0 || p.Hazard >= numHazards {
		return ValidationError{Code: "HAZARD", Message: fmt.Sprintf("hazard %d not in [0, 2]", int(p.Hazard))}
	}
	if p.GroundTheme < 0 || p.GroundTheme >= NumGroundThemes {
		return ValidationError{
			Code:    "GROUND_THEME",
			Message: fmt.Sprintf("ground theme %d not in [0, %d)", p.GroundTheme, NumGroundThemes),
		}
	}
	for i, s := range p.Sections {
		if err := s.validate(i, p.Difficulty); err != nil {
			return err
		}
	}
	return nil
}

func (s SectionParameters) validate(idx, difficulty int) error {
	ints := []struct {
		name   string
		v, max int
	}{
		{"enemy_direction", s.EnemyDirection, 1},
		{"dy", s.DY, 3},
		{"dx_coefficient", s.DXCoefficient, 2*difficulty - 1},
		{"pit", s.Pit, 19},
		{"pit_x1", s.PitX1, 2},
		{"pit_x2", s.PitX2, 2},
		{"pit_platform_x3", s.PitPlatformX3, 1},
		{"pit_platform_w1", s.PitPlatformW1, 1},
		{"saw_probability", s.SawProbability, 9},
		{"enemy_probability", s.EnemyProbability, 9},
		{"pile_height", s.PileHeight, 2},
	}
	for _, f := range ints {
		if f.v < 0 || f.v > f.max {
			return ValidationError{
				Code:    "SECTION_RANGE",
				Message: fmt.Sprintf("section %d: %s = %d not in [0, %d]", idx, f.name, f.v, f.max),
			}
		}
	}

	units := []struct {
		name string
		v    float64
	}{
		{"pit_lava_height", s.PitLavaHeight},
		{"saw_pos", s.SawPos},
		{"enemy_pos", s.EnemyPos},
		{"crate_pos", s.CratePos},
	}
	for _, f := range units {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return ValidationError{
				Code:    "SECTION_RANGE",
				Message: fmt.Sprintf("section %d: %s = %v not in [0, 1]", idx, f.name, f.v),
			}
		}
	}
	return nil
}

// DefaultSection is the fixed section record used when no sampler is involved.
func DefaultSection() SectionParameters {
	return SectionParameters{
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

// DefaultSections returns six copies of DefaultSection.
func DefaultSections() []SectionParameters {
	out := make([]SectionParameters, 6)
	for i := range out {
		out[i] = DefaultSection()
	}
	return out
}

// DefaultParameters is difficulty 3 with saw pits on the first ground theme.
func DefaultParameters() Parameters {
	return MustParameters(3, HazardSaw, 0, DefaultSections())
}
