package input

// GamepadReading is one snapshot of a controller. Sticks are in [-1,1] with +Y
// pointing down, LeftTrigger is in [0,1].
type GamepadReading struct {
	LeftX, LeftY   float32
	RightX, RightY float32
	LeftTrigger    float32
	South          bool
	West           bool
	LeftStick      bool
}

// GamepadReader returns false when no controller is connected.
type GamepadReader interface {
	ReadGamepad() (GamepadReading, bool)
}

// Deadzones are magnitudes at or below which an axis reads exactly zero.
type Deadzones struct {
	Forward float32
	Strafe  float32
	Rotate  float32
}

func DefaultDeadzones() Deadzones {
	return Deadzones{Forward: 0.2, Strafe: 0.5, Rotate: 0.2}
}

type Gamepad struct {
	Deadzones Deadzones

	reader    GamepadReader
	connected bool
	state     State
}

func NewGamepad(reader GamepadReader, deadzones Deadzones) *Gamepad {
	return &Gamepad{reader: reader, Deadzones: deadzones}
}

// Poll samples the controller once. A missing reader or controller leaves the
// pad neutral.
func (g *Gamepad) Poll() {
	if g.reader == nil {
		g.connected = false
		g.state = State{}
		return
	}

	r, ok := g.reader.ReadGamepad()
	g.connected = ok
	if !ok {
		g.state = State{}
		return
	}

	dz := g.Deadzones
	g.state = State{
		Forward:          applyDeadzone(r.LeftY, dz.Forward),
		Right:            applyDeadzone(r.LeftX, dz.Strafe),
		RotateHorizontal: applyDeadzone(r.RightX, dz.Rotate),
		RotateVertical:   applyDeadzone(r.RightY, dz.Rotate),
		Thrust:           clamp(r.LeftTrigger, 0, 1),
		Jump:             r.South,
		Cast:             r.West,
		Boost:            r.LeftStick,
	}
}

func (g *Gamepad) Connected() bool {
	return g.connected
}

func (g *Gamepad) InputState() State {
	return g.state
}

func applyDeadzone(v, deadzone float32) float32 {
	if v > deadzone || v < -deadzone {
		return v
	}
	return 0
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
