package input

const (
	sourceKeyboard = iota
	sourceMouse
	sourceGamepad
	sourceCount
)

// Aggregator merges the three devices into the state the rest of the frame reads.
// Keyboard wins over gamepad for movement, mouse wins over gamepad for rotation.
type Aggregator struct {
	keyboard *Keyboard
	mouse    *Mouse
	gamepad  *Gamepad
	sources  [sourceCount]Source
	merged   State
}

// NewAggregator accepts nil devices; a missing device contributes a neutral state.
func NewAggregator(keyboard *Keyboard, mouse *Mouse, gamepad *Gamepad) *Aggregator {
	if keyboard == nil {
		keyboard = NewKeyboard()
	}
	if mouse == nil {
		mouse = NewMouse(0)
	}
	if gamepad == nil {
		gamepad = NewGamepad(nil, DefaultDeadzones())
	}

	a := &Aggregator{keyboard: keyboard, mouse: mouse, gamepad: gamepad}
	a.sources[sourceKeyboard] = keyboard
	a.sources[sourceMouse] = mouse
	a.sources[sourceGamepad] = gamepad
	return a
}

// Poll advances the frame: it samples the gamepad, publishes accumulated mouse
// motion and stores the merged result.
func (a *Aggregator) Poll() {
	a.gamepad.Poll()
	a.mouse.Consume()

	kb := a.sources[sourceKeyboard].InputState()
	mouse := a.sources[sourceMouse].InputState()
	pad := a.sources[sourceGamepad].InputState()

	// Movement comes from the keyboard, rotation from the mouse, before the pad.
	movement := Merge(kb, pad)
	rotation := Merge(mouse, pad)

	a.merged = State{
		Forward:          movement.Forward,
		Right:            movement.Right,
		Thrust:           movement.Thrust,
		RotateHorizontal: rotation.RotateHorizontal,
		RotateVertical:   rotation.RotateVertical,
		Jump:             kb.Jump || mouse.Jump || pad.Jump,
		Cast:             kb.Cast || mouse.Cast || pad.Cast,
		Boost:            kb.Boost || mouse.Boost || pad.Boost,
	}
}

// InputState returns the state stored by the last Poll.
func (a *Aggregator) InputState() State {
	return a.merged
}

func (a *Aggregator) Keyboard() *Keyboard { return a.keyboard }
func (a *Aggregator) Mouse() *Mouse       { return a.mouse }
func (a *Aggregator) Gamepad() *Gamepad   { return a.gamepad }
