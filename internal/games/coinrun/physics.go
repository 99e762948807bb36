package coinrun

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-coinrun/internal/core"
)

// GoalReward is granted once when the agent reaches the goal tile.
const GoalReward = 10.0

// Agent and entity geometry.
const (
	agentRX    = 0.5
	agentRY    = 0.5787
	objectR    = 0.5
	enemySpeed = 0.15
)

// envelopeEps keeps exact products like 7.0 from flooring to 6.
const envelopeEps = 1e-9

// Physics holds the motion constants shared by the generator and the stepper.
type Physics struct {
	Gravity    float64
	MaxJump    float64
	MaxSpeed   float64
	AirControl float64
	MixRate    float64
}

// DefaultPhysics returns the standard constants.
func DefaultPhysics() Physics {
	return Physics{
		Gravity:    0.2,
		MaxJump:    1.5,
		MaxSpeed:   0.5,
		AirControl: 0.15,
		MixRate:    0.2,
	}
}

// Validate rejects constants that would make the jump envelope meaningless.
func (ph Physics) Validate() error {
	switch {
	case !(ph.Gravity > 0):
		return ValidationError{Code: "PHYSICS", Message: fmt.Sprintf("gravity %v must be positive", ph.Gravity)}
	case !(ph.MaxJump > 0):
		return ValidationError{Code: "PHYSICS", Message: fmt.Sprintf("max jump %v must be positive", ph.MaxJump)}
	case !(ph.MaxSpeed > 0):
		return ValidationError{Code: "PHYSICS", Message: fmt.Sprintf("max speed %v must be positive", ph.MaxSpeed)}
	case !(ph.MixRate > 0 && ph.MixRate <= 1):
		return ValidationError{Code: "PHYSICS", Message: fmt.Sprintf("mix rate %v not in (0, 1]", ph.MixRate)}
	case !(ph.AirControl >= 0 && ph.AirControl <= 1):
		return ValidationError{Code: "PHYSICS", Message: fmt.Sprintf("air control %v not in [0, 1]", ph.AirControl)}
	}
	return nil
}

// Envelope returns the widest gap and tallest step a single jump can clear.
func (ph Physics) Envelope() (maxDX, maxDY int) {
	dy := ph.MaxJump*ph.MaxJump/(2*ph.Gravity) - 0.5
	dx := ph.MaxSpeed*2*ph.MaxJump/ph.Gravity - 0.5
	return int(math.Floor(dx + envelopeEps)), int(math.Floor(dy + envelopeEps))
}

// Velocity advances the agent velocity by one tick of input.
// ax and ay are the decoded intents; a positive ay has already been
// cleared by the caller when the agent is unsupported.
func (ph Physics) Velocity(vx, vy float64, ax, ay int, supported bool) (float64, float64) {
	mix := ph.MixRate
	if !supported {
		mix *= ph.AirControl
	}
	vx = (1-mix)*vx + mix*ph.MaxSpeed*float64(ax)
	if math.Abs(vx) < mix*ph.MaxSpeed {
		vx = 0
	}

	if ay > 0 {
		vy = ph.MaxJump
	} else if supported {
		vy += 0.2 * float64(ay)
	}

	if !(supported && ay > 0) {
		vy -= ph.Gravity
		vy = core.ClipAbs(vy, ph.MaxJump)
	}
	return vx, vy
}
