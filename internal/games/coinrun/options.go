package coinrun

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-coinrun/internal/engine"
)

// Distribution is the global simulation mode.
type Distribution int

const (
	DistributionHard Distribution = iota
	// DistributionEasy suppresses enemies and pins every theme to index 0.
	DistributionEasy
)

func (d Distribution) String() string {
	if d == DistributionEasy {
		return "easy"
	}
	return "hard"
}

// ParseDistribution accepts "easy" or "hard".
func ParseDistribution(s string) (Distribution, error) {
	switch s {
	case "easy":
		return DistributionEasy, nil
	case "hard", "":
		return DistributionHard, nil
	}
	return 0, ValidationError{Code: "DISTRIBUTION", Message: fmt.Sprintf("unknown distribution %q", s)}
}

// Debug bits that simplify generated levels.
const (
	DebugNoPits   = 1 << 1
	DebugNoCrates = 1 << 2
	DebugNoDY     = 1 << 3
)

// Options configures the host side of a level.
type Options struct {
	Distribution Distribution
	DebugMode    int
	Physics      Physics
	Width        int
	Height       int
	SubSteps     int
	// Timeout is the tick ceiling; zero disables it.
	Timeout int
	Logger  *log.Logger
}

// DefaultOptions returns a 64x64 hard-mode level with standard physics.
func DefaultOptions() Options {
	return Options{
		Distribution: DistributionHard,
		Physics:      DefaultPhysics(),
		Width:        64,
		Height:       64,
		SubSteps:     engine.DefaultSubSteps,
		Timeout:      engine.DefaultTimeout,
	}
}

func (o Options) validate() error {
	if err := o.Physics.Validate(); err != nil {
		return err
	}
	if minH := MinHeight(o.Physics); o.Width < 20 || o.Height < minH {
		return ValidationError{Code: "WORLD_SIZE", Message: fmt.Sprintf("world %dx%d too small (need at least 20x%d)", o.Width, o.Height, minH)}
	}
	if o.SubSteps < 1 {
		return ValidationError{Code: "SUB_STEPS", Message: fmt.Sprintf("sub steps %d must be positive", o.SubSteps)}
	}
	if o.Timeout < 0 {
		return ValidationError{Code: "TIMEOUT", Message: fmt.Sprintf("timeout %d must not be negative", o.Timeout)}
	}
	return nil
}

// MinHeight is the smallest grid that fits the highest ground the generator
// can reach with ph, a full crate pile on it and the agent on top of the pile.
// The standing row climbs while below forceInvertY, so it peaks at
// forceInvertY-1+maxDY; the top row of the grid is wall.
func MinHeight(ph Physics) int {
	_, maxDY := ph.Envelope()
	return forceInvertY - 1 + maxDY + maxPileHeight + agentRoom + 1
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
