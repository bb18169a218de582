package input

// Action is a logical binding target. Device key codes are mapped onto actions
// by the window layer.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionLeft
	ActionRight
	ActionJump
	ActionCast
	ActionBoost
)

func (a Action) String() string {
	switch a {
	case ActionForward:
		return "forward"
	case ActionBackward:
		return "backward"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionJump:
		return "jump"
	case ActionCast:
		return "cast"
	case ActionBoost:
		return "boost"
	default:
		return "none"
	}
}

// Keyboard holds the state produced by key edge events. The most recent event on
// an axis decides its value.
type Keyboard struct {
	state State
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

func (k *Keyboard) Press(a Action) {
	k.apply(a, true)
}

func (k *Keyboard) Release(a Action) {
	k.apply(a, false)
}

func (k *Keyboard) apply(a Action, down bool) {
	var axis float32
	switch a {
	case ActionForward, ActionLeft:
		axis = -1
	case ActionBackward, ActionRight:
		axis = 1
	}
	if !down {
		axis = 0
	}

	switch a {
	case ActionForward, ActionBackward:
		k.state.Forward = axis
	case ActionLeft, ActionRight:
		k.state.Right = axis
	case ActionJump:
		k.state.Jump = down
	case ActionCast:
		k.state.Cast = down
	case ActionBoost:
		k.state.Boost = down
	}
}

// Clear drops every held key, e.g. when the window loses focus.
func (k *Keyboard) Clear() {
	k.state = State{}
}

func (k *Keyboard) InputState() State {
	return k.state
}
