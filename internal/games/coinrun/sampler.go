package coinrun

import "github.com/vovakirdan/tui-coinrun/internal/engine"

// SampleSections draws rand(difficulty)+difficulty section records, every
// field uniform over its legal range.
func SampleSections(rng *engine.RNG, difficulty int) []SectionParameters {
	n := rng.Intn(difficulty) + difficulty
	out := make([]SectionParameters, n)
	for i := range out {
		out[i] = SectionParameters{
			EnemyDirection:   rng.Intn(2),
			DY:               rng.Intn(4),
			InvertDY:         rng.Bool(),
			DXCoefficient:    rng.Intn(2 * difficulty),
			Pit:              rng.Intn(20),
			PitX1:            rng.Intn(3),
			PitX2:            rng.Intn(3),
			PitLavaHeight:    rng.Float(),
			PitPlatformX3:    rng.Intn(2),
			PitPlatformW1:    rng.Intn(2),
			SawProbability:   rng.Intn(10),
			SawPos:           rng.Float(),
			EnemyProbability: rng.Intn(10),
			EnemyPos:         rng.Float(),
			CratePos:         rng.Float(),
			CratePile:        rng.Bool(),
			PileHeight:       rng.Intn(3),
		}
	}
	return out
}

// SampleParameters draws a ground theme and a section list for one level.
// It panics if difficulty or hazard is out of range.
func SampleParameters(rng *engine.RNG, difficulty int, hazard Hazard) Parameters {
	theme := rng.Intn(NumGroundThemes)
	return MustParameters(difficulty, hazard, theme, SampleSections(rng, difficulty))
}

// SampleSeed builds the parameters of level number seed for a difficulty.
// The same seed always yields the same level.
func SampleSeed(seed uint64, difficulty int, hazard Hazard) Parameters {
	return SampleParameters(engine.NewRNG(seed), difficulty, hazard)
}
