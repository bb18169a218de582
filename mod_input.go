package roam

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/roam/input"
)

const (
	KeyA int = iota
	KeyD
	KeyF
	KeyN
	KeyP
	KeyS
	KeyV
	KeyW
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF5
	KeyShift
	KeyControl
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// Input is the per-frame snapshot of raw keys and buttons, for bindings that sit
// outside the movement intent (debug toggles, pointer lock).
type Input struct {
	Pressed      [256]bool
	JustPressed  [256]bool
	JustReleased [256]bool

	MouseX, MouseY float64
	// ScrollY is the wheel travel since the previous frame.
	ScrollY       float32
	MouseCaptured bool
}

func (in *Input) beginFrame() {
	in.JustPressed = [256]bool{}
	in.JustReleased = [256]bool{}
	in.ScrollY = 0
}

func (in *Input) record(key int, down bool) {
	if down {
		if !in.Pressed[key] {
			in.JustPressed[key] = true
		}
		in.Pressed[key] = true
		return
	}
	if in.Pressed[key] {
		in.JustReleased[key] = true
	}
	in.Pressed[key] = false
}

var keyToGlfw = map[int]glfw.Key{
	KeyA:         glfw.KeyA,
	KeyD:         glfw.KeyD,
	KeyF:         glfw.KeyF,
	KeyN:         glfw.KeyN,
	KeyP:         glfw.KeyP,
	KeyS:         glfw.KeyS,
	KeyV:         glfw.KeyV,
	KeyW:         glfw.KeyW,
	KeySpace:     glfw.KeySpace,
	KeyEnter:     glfw.KeyEnter,
	KeyEscape:    glfw.KeyEscape,
	KeyTab:       glfw.KeyTab,
	KeyBackspace: glfw.KeyBackspace,
	KeyRight:     glfw.KeyRight,
	KeyLeft:      glfw.KeyLeft,
	KeyDown:      glfw.KeyDown,
	KeyUp:        glfw.KeyUp,
	KeyF1:        glfw.KeyF1,
	KeyF5:        glfw.KeyF5,
	KeyShift:     glfw.KeyLeftShift,
	KeyControl:   glfw.KeyLeftControl,
}

var glfwToKey = func() map[glfw.Key]int {
	m := make(map[glfw.Key]int, len(keyToGlfw))
	for k, g := range keyToGlfw {
		m[g] = k
	}
	return m
}()

var mouseButtonToKey = map[glfw.MouseButton]int{
	glfw.MouseButtonLeft:   MouseButtonLeft,
	glfw.MouseButtonRight:  MouseButtonRight,
	glfw.MouseButtonMiddle: MouseButtonMiddle,
}

// DefaultBindings maps keys onto movement actions.
var DefaultBindings = map[glfw.Key]input.Action{
	glfw.KeyW:         input.ActionForward,
	glfw.KeyUp:        input.ActionForward,
	glfw.KeyS:         input.ActionBackward,
	glfw.KeyDown:      input.ActionBackward,
	glfw.KeyA:         input.ActionLeft,
	glfw.KeyLeft:      input.ActionLeft,
	glfw.KeyD:         input.ActionRight,
	glfw.KeyRight:     input.ActionRight,
	glfw.KeySpace:     input.ActionJump,
	glfw.KeyF:         input.ActionCast,
	glfw.KeyLeftShift: input.ActionBoost,
}

// glfwGamepad reads the first joystick through GLFW's gamepad mapping.
type glfwGamepad struct {
	joystick glfw.Joystick
}

func (g glfwGamepad) ReadGamepad() (input.GamepadReading, bool) {
	if !g.joystick.IsGamepad() {
		return input.GamepadReading{}, false
	}
	st := g.joystick.GetGamepadState()
	if st == nil {
		return input.GamepadReading{}, false
	}
	return input.GamepadReading{
		LeftX:  st.Axes[glfw.AxisLeftX],
		LeftY:  st.Axes[glfw.AxisLeftY],
		RightX: st.Axes[glfw.AxisRightX],
		RightY: st.Axes[glfw.AxisRightY],
		// GLFW reports triggers in [-1, 1] with -1 at rest.
		LeftTrigger: (st.Axes[glfw.AxisLeftTrigger] + 1) / 2,
		South:       st.Buttons[glfw.ButtonA] == glfw.Press,
		West:        st.Buttons[glfw.ButtonX] == glfw.Press,
		LeftStick:   st.Buttons[glfw.ButtonLeftThumb] == glfw.Press,
	}, true
}

// inputBinder turns window events into device adapter calls.
type inputBinder struct {
	agg      *input.Aggregator
	keys     *Input
	bindings map[glfw.Key]input.Action
	window   *glfw.Window

	haveCursor bool
	lastX      float64
	lastY      float64
}

func newInputBinder(agg *input.Aggregator, keys *Input, bindings map[glfw.Key]input.Action) *inputBinder {
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &inputBinder{agg: agg, keys: keys, bindings: bindings}
}

func (b *inputBinder) attach(win *glfw.Window) {
	b.window = win
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		b.key(key, action)
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		b.mouseButton(button, action)
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		b.cursor(x, y)
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		b.scroll(yoff)
	})
	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if !focused {
			b.agg.Keyboard().Clear()
			b.setLocked(false)
		}
	})
}

func (b *inputBinder) key(key glfw.Key, action glfw.Action) {
	if action == glfw.Repeat {
		return
	}
	down := action == glfw.Press
	if k, ok := glfwToKey[key]; ok {
		b.keys.record(k, down)
	}

	switch {
	case key == glfw.KeyTab && down:
		b.setLocked(!b.agg.Mouse().Locked())
	case key == glfw.KeyEscape && down:
		b.setLocked(false)
	}

	if a, ok := b.bindings[key]; ok {
		if down {
			b.agg.Keyboard().Press(a)
		} else {
			b.agg.Keyboard().Release(a)
		}
	}
}

func (b *inputBinder) mouseButton(button glfw.MouseButton, action glfw.Action) {
	down := action == glfw.Press
	if k, ok := mouseButtonToKey[button]; ok {
		b.keys.record(k, down)
	}
	if button != glfw.MouseButtonLeft {
		return
	}
	if down {
		b.agg.Mouse().ButtonDown()
	} else {
		b.agg.Mouse().ButtonUp()
	}
}

func (b *inputBinder) cursor(x, y float64) {
	b.keys.MouseX, b.keys.MouseY = x, y
	if b.haveCursor {
		b.agg.Mouse().Move(float32(x-b.lastX), float32(y-b.lastY))
	}
	b.lastX, b.lastY = x, y
	b.haveCursor = true
}

func (b *inputBinder) scroll(yoff float64) {
	b.keys.ScrollY += float32(yoff)
}

func (b *inputBinder) setLocked(locked bool) {
	b.agg.Mouse().SetLocked(locked)
	b.keys.MouseCaptured = locked
	// the first position after a mode switch is a jump, not motion
	b.haveCursor = false

	if b.window == nil {
		return
	}
	if locked {
		b.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			b.window.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
	} else {
		b.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

type InputModule struct {
	MouseSmoothing float32
	// Deadzones for the gamepad; the zero value uses input.DefaultDeadzones.
	Deadzones input.Deadzones
	Gamepad   bool
	// Bindings replace DefaultBindings when set.
	Bindings map[glfw.Key]input.Action
}

// Install wires the window created by PlatformWindowModule, when present, so
// that module must be installed first.
func (mod InputModule) Install(app *App, cmd *Commands) {
	dz := mod.Deadzones
	if dz == (input.Deadzones{}) {
		dz = input.DefaultDeadzones()
	}

	ws, hasWindow := Resource[WindowState](app)

	var reader input.GamepadReader
	if mod.Gamepad && hasWindow {
		reader = glfwGamepad{joystick: glfw.Joystick1}
	}

	agg := input.NewAggregator(input.NewKeyboard(), input.NewMouse(mod.MouseSmoothing), input.NewGamepad(reader, dz))
	keys := &Input{}
	binder := newInputBinder(agg, keys, mod.Bindings)
	if hasWindow {
		binder.attach(ws.windowGlfw)
	}
	cmd.AddResources(agg, keys, binder)

	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func inputSystem(keys *Input, agg *input.Aggregator, binder *inputBinder) {
	keys.beginFrame()
	if binder.window != nil {
		glfw.PollEvents()
	}
	agg.Poll()
}
