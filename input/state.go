// Package input turns keyboard, mouse and gamepad activity into one per-frame
// movement intent.
package input

// State is the normalized intent for one frame.
//
// Forward is in [-1,1] with negative values meaning forward. Right is in [-1,1].
// The rotation fields are per-frame deltas and are not bounded. Thrust is in [0,1].
type State struct {
	Forward          float32
	Right            float32
	RotateHorizontal float32
	RotateVertical   float32
	Thrust           float32
	Jump             bool
	Cast             bool
	Boost            bool
}

// Source is anything that can report an intent. Reading never changes the source.
type Source interface {
	InputState() State
}

// Merge folds states in priority order: each numeric field takes the first
// non-zero value, booleans are OR-ed.
func Merge(states ...State) State {
	var out State
	for _, s := range states {
		out.Forward = firstNonZero(out.Forward, s.Forward)
		out.Right = firstNonZero(out.Right, s.Right)
		out.RotateHorizontal = firstNonZero(out.RotateHorizontal, s.RotateHorizontal)
		out.RotateVertical = firstNonZero(out.RotateVertical, s.RotateVertical)
		out.Thrust = firstNonZero(out.Thrust, s.Thrust)
		out.Jump = out.Jump || s.Jump
		out.Cast = out.Cast || s.Cast
		out.Boost = out.Boost || s.Boost
	}
	return out
}

func (s State) Idle() bool {
	return s == State{}
}

func firstNonZero(current, candidate float32) float32 {
	if current != 0 {
		return current
	}
	return candidate
}
