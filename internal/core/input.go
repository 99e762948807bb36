package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - move left
	ActionRight          // D, Right arrow - move right
	ActionJump           // Space, W, Up - jump
	ActionDuck           // S, Down - drop through crates
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart after the episode ended
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionDuck:
		return "Duck"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// NumActionCodes is the size of the discrete movement action space.
const NumActionCodes = 9

// DecodeAction splits a discrete action code in [0, 8] into horizontal and
// vertical intents, each in {-1, 0, 1}.
func DecodeAction(code int) (vx, vy int) {
	return code/3 - 1, code%3 - 1
}

// EncodeAction is the inverse of DecodeAction.
func EncodeAction(vx, vy int) int {
	return (vx+1)*3 + (vy + 1)
}

// InputFrame represents the input state for a single player during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// ActionCode folds the movement actions of this frame into a discrete action code.
// Opposing directions cancel out; jump wins over duck.
func (f InputFrame) ActionCode() int {
	vx, vy := 0, 0
	if f.Has(ActionLeft) {
		vx--
	}
	if f.Has(ActionRight) {
		vx++
	}
	switch {
	case f.Has(ActionJump):
		vy = 1
	case f.Has(ActionDuck):
		vy = -1
	}
	return EncodeAction(vx, vy)
}
