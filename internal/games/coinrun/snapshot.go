package coinrun

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-coinrun/internal/engine"
)

// ErrSnapshotMismatch is returned when a snapshot does not fit this level.
var ErrSnapshotMismatch = errors.New("coinrun: snapshot does not match level")

// State is the level-type runtime record, in stream order.
type State struct {
	LastAgentY  float64
	WallTheme   int
	HasSupport  bool
	FacingRight bool
	IsOnCrate   bool
	Gravity     float64
	AirControl  float64
}

// State returns the current runtime record.
func (l *Level) State() State {
	return State{
		LastAgentY:  l.lastAgentY,
		WallTheme:   l.wallTheme,
		HasSupport:  l.hasSupport,
		FacingRight: l.facingRight,
		IsOnCrate:   l.isOnCrate,
		Gravity:     l.gravity,
		AirControl:  l.airControl,
	}
}

// Serialize appends the host state followed by the runtime record.
func (l *Level) Serialize(b *engine.WriteBuffer) {
	l.world.Serialize(b)
	b.WriteFloat(l.lastAgentY)
	b.WriteInt(l.wallTheme)
	b.WriteBool(l.hasSupport)
	b.WriteBool(l.facingRight)
	b.WriteBool(l.isOnCrate)
	b.WriteFloat(l.gravity)
	b.WriteFloat(l.airControl)
}

// Deserialize restores state written by Serialize. On error the level is
// left exactly as it was.
func (l *Level) Deserialize(b *engine.ReadBuffer) error {
	w, st, err := l.decode(b)
	if err != nil {
		return err
	}
	l.restore(w, st)
	return nil
}

func (l *Level) decode(b *engine.ReadBuffer) (*engine.World, State, error) {
	w, err := engine.DecodeWorld(b)
	if err != nil {
		return nil, State{}, fmt.Errorf("coinrun: restore host state: %w", err)
	}
	if w.Grid.Width() != l.opts.Width || w.Grid.Height() != l.opts.Height {
		return nil, State{}, fmt.Errorf("%w: grid %dx%d, level %dx%d", ErrSnapshotMismatch,
			w.Grid.Width(), w.Grid.Height(), l.opts.Width, l.opts.Height)
	}

	var st State
	st.LastAgentY = b.ReadFloat()
	st.WallTheme = b.ReadInt()
	st.HasSupport = b.ReadBool()
	st.FacingRight = b.ReadBool()
	st.IsOnCrate = b.ReadBool()
	st.Gravity = b.ReadFloat()
	st.AirControl = b.ReadFloat()
	if err := b.Err(); err != nil {
		return nil, State{}, fmt.Errorf("coinrun: restore runtime state: %w", err)
	}
	return w, st, nil
}

// restore commits a decoded snapshot. The death cause is not part of the
// stream and reads empty afterwards.
func (l *Level) restore(w *engine.World, st State) {
	l.world.Restore(w)
	l.lastAgentY = st.LastAgentY
	l.wallTheme = st.WallTheme
	l.hasSupport = st.HasSupport
	l.facingRight = st.FacingRight
	l.isOnCrate = st.IsOnCrate
	l.gravity = st.Gravity
	l.airControl = st.AirControl

	l.goal = nil
	for _, e := range l.world.Entities {
		if e.Kind == engine.KindGoal {
			l.goal = e
		}
	}

	l.cause = ""
	switch data := l.world.Data; {
	case !data.Done:
		l.outcome = OutcomeRunning
	case data.LevelComplete:
		l.outcome = OutcomeGoal
	case data.TimedOut:
		l.outcome = OutcomeTimeout
	default:
		l.outcome = OutcomeDeath
	}
}

// Save returns a complete checkpoint of the level.
func (l *Level) Save() []byte {
	b := engine.NewWriteBuffer()
	l.Serialize(b)
	return b.Bytes()
}

// Load restores a checkpoint produced by Save on a level of the same size.
// A rejected checkpoint leaves the level untouched.
func (l *Level) Load(data []byte) error {
	b := engine.NewReadBuffer(data)
	w, st, err := l.decode(b)
	if err != nil {
		return err
	}
	if b.Remaining() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrSnapshotMismatch, b.Remaining())
	}
	l.restore(w, st)
	return nil
}

// Hash returns a simple hash of the checkpoint for determinism testing.
func (l *Level) Hash() uint64 {
	var h uint64
	for _, c := range l.Save() {
		h = h*31 + uint64(c)
	}
	return h
}
