package input

// Mouse accumulates relative pointer motion while the pointer is locked and
// publishes it once per frame through Consume.
type Mouse struct {
	// Smoothing blends the previous frame's published rotation into the next one.
	// Zero makes each frame's rotation exactly the motion seen since the last frame.
	Smoothing float32

	locked  bool
	rawH    float32
	rawV    float32
	buttons int
	state   State
}

func NewMouse(smoothing float32) *Mouse {
	return &Mouse{Smoothing: clampSmoothing(smoothing)}
}

// SetLocked engages or releases pointer lock. Motion gathered under a lock is
// dropped when it is released.
func (m *Mouse) SetLocked(locked bool) {
	m.locked = locked
	if !locked {
		m.rawH, m.rawV = 0, 0
	}
}

func (m *Mouse) Locked() bool {
	return m.locked
}

// Move records relative motion in screen units; +dy is downwards.
func (m *Mouse) Move(dx, dy float32) {
	if !m.locked {
		return
	}
	m.rawH += dx
	m.rawV -= dy
}

func (m *Mouse) ButtonDown() {
	m.buttons++
	m.state.Cast = true
}

func (m *Mouse) ButtonUp() {
	if m.buttons > 0 {
		m.buttons--
	}
	m.state.Cast = m.buttons > 0
}

// Consume publishes the motion accumulated since the previous call and resets
// the accumulator. It must run exactly once per frame.
func (m *Mouse) Consume() {
	s := clampSmoothing(m.Smoothing)
	m.state.RotateHorizontal = m.rawH + s*m.state.RotateHorizontal
	m.state.RotateVertical = m.rawV + s*m.state.RotateVertical
	m.rawH, m.rawV = 0, 0
}

func (m *Mouse) InputState() State {
	return m.state
}

func clampSmoothing(s float32) float32 {
	if s < 0 {
		return 0
	}
	if s > 0.99 {
		return 0.99
	}
	return s
}
