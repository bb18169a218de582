// Package character moves a capsule-shaped walker through a static collision
// mesh under input, gravity and jumping.
package character

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/roam/collision"
	"github.com/gekko3d/roam/input"
)

const (
	// DebugFrame is the frame length advanced by Step.
	DebugFrame = 0.016
	// MaxPhysicsSteps bounds the substep count accepted from live tuning.
	MaxPhysicsSteps = 30
)

type Phase int

const (
	Airborne Phase = iota
	Grounded
)

func (p Phase) String() string {
	if p == Grounded {
		return "grounded"
	}
	return "airborne"
}

type Params struct {
	PlayerSpeed  float32
	BoostSpeed   float32
	JumpStrength float32
	Gravity      float32
	PhysicsSteps int
	// TurnRate is the slerp fraction applied to the facing every substep.
	TurnRate float32
	Spawn    mgl32.Vec3
	Paused   bool
}

func DefaultParams() Params {
	return Params{
		PlayerSpeed:  3.33,
		BoostSpeed:   10,
		JumpStrength: 7,
		Gravity:      -9.8,
		PhysicsSteps: 5,
		TurnRate:     0.1,
		Spawn:        mgl32.Vec3{0, 2, 4},
	}
}

// DefaultCapsule is a radius 0.5 sphere swept one unit down from the origin.
func DefaultCapsule() collision.Capsule {
	return collision.Capsule{
		Radius: 0.5,
		Segment: collision.Segment{
			Start: mgl32.Vec3{0, 0, 0},
			End:   mgl32.Vec3{0, -1, 0},
		},
	}
}

type State struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Rotation mgl32.Quat
	Phase    Phase
}

func (s State) Grounded() bool {
	return s.Phase == Grounded
}

// IntentSource provides the merged input for the frame.
type IntentSource interface {
	InputState() input.State
}

// Camera is the part of the camera rig the controller steers by and drags along.
type Camera interface {
	AzimuthalAngle() float32
	Forward() mgl32.Vec3
	MoveTarget(p mgl32.Vec3)
}

// CollisionWorld resolves the capsule against whatever static geometry is loaded.
type CollisionWorld interface {
	Ready() bool
	Resolve(capsule collision.Capsule, transform collision.Transform, motion collision.Motion) (collision.Contact, bool)
}

type Logger interface {
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

type Option func(*Controller)

func WithLogger(l Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithSubstepObserver calls fn with the state after every substep.
func WithSubstepObserver(fn func(State)) Option {
	return func(c *Controller) { c.observe = fn }
}

type Controller struct {
	params  Params
	capsule collision.Capsule
	state   State

	intent IntentSource
	camera Camera
	world  CollisionWorld
	log    Logger

	observe func(State)

	jumpHeld    bool
	jumpPending bool
}

// New creates a controller placed at params.Spawn. Any dependency may be nil:
// without intent the walker idles, without a camera it steers along world axes,
// without a ready world it does not move.
func New(params Params, capsule collision.Capsule, intent IntentSource, camera Camera, world CollisionWorld, opts ...Option) *Controller {
	c := &Controller{
		capsule: capsule,
		intent:  intent,
		camera:  camera,
		world:   world,
		log:     nopLogger{},
	}
	c.SetParams(params)
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

func (c *Controller) Params() Params {
	return c.params
}

// SetParams swaps tunables between frames.
func (c *Controller) SetParams(p Params) {
	p.PhysicsSteps = clampSteps(p.PhysicsSteps)
	c.params = p
}

func (c *Controller) SetPaused(paused bool) {
	c.params.Paused = paused
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Capsule() collision.Capsule {
	return c.capsule
}

// Reset puts the walker back at the spawn point at rest.
func (c *Controller) Reset() {
	c.state = State{
		Position: c.params.Spawn,
		Rotation: mgl32.QuatIdent(),
		Phase:    Airborne,
	}
	c.jumpHeld = false
	c.jumpPending = false
	if c.camera != nil {
		c.camera.MoveTarget(c.state.Position)
	}
	c.log.Debugf("character reset to %v", c.state.Position)
}

// Update advances one frame of delta seconds split into PhysicsSteps substeps.
// It does nothing while paused.
func (c *Controller) Update(delta float32) {
	if c.params.Paused || delta <= 0 {
		return
	}
	c.advance(delta)
}

// Step advances one DebugFrame regardless of the pause flag.
func (c *Controller) Step() {
	c.advance(DebugFrame)
}

func (c *Controller) advance(delta float32) {
	var in input.State
	if c.intent != nil {
		in = c.intent.InputState()
	}
	c.jumpPending = in.Jump && !c.jumpHeld
	c.jumpHeld = in.Jump

	steps := c.params.PhysicsSteps
	d := delta / float32(steps)
	for i := 0; i < steps; i++ {
		c.substep(d, in)
	}
	c.jumpPending = false
}

func (c *Controller) substep(d float32, in input.State) {
	if c.world == nil || !c.world.Ready() {
		return
	}
	s := &c.state
	p := c.params

	var azimuth float32
	if c.camera != nil {
		azimuth = c.camera.AzimuthalAngle()
	}
	heading := mgl32.QuatRotate(azimuth, mgl32.Vec3{0, 1, 0})
	forward := heading.Rotate(mgl32.Vec3{0, 0, -1})
	right := heading.Rotate(mgl32.Vec3{1, 0, 0})

	speed := -p.PlayerSpeed * in.Forward
	if in.Boost {
		speed -= p.BoostSpeed * in.Forward
	}
	s.Position = s.Position.
		Add(forward.Mul(speed * d)).
		Add(right.Mul(p.PlayerSpeed * in.Right * d))

	contact, ok := c.world.Resolve(c.capsule, collision.Transform{Position: s.Position, Rotation: s.Rotation}, collision.Motion{
		Velocity: s.Velocity,
		Delta:    d,
	})
	if ok {
		s.Position = s.Position.Add(contact.Correction)
		s.Velocity = contact.Velocity
		s.Phase = Airborne
		if contact.Grounded {
			s.Phase = Grounded
		}
	}

	if s.Phase == Grounded && c.jumpPending {
		s.Velocity[1] = p.JumpStrength
		s.Phase = Airborne
		c.jumpPending = false
		c.log.Debugf("jump at %v", s.Position)
	}

	if s.Phase == Grounded {
		// A supported walker keeps no momentum and is pressed lightly into the floor.
		s.Velocity = mgl32.Vec3{0, min(0, d*p.Gravity), 0}
	} else {
		s.Velocity[1] += d * p.Gravity
	}

	s.Position = s.Position.Add(s.Velocity.Mul(d))

	if c.camera != nil {
		c.camera.MoveTarget(s.Position)
		c.face(c.camera.Forward())
	}

	if c.observe != nil {
		c.observe(*s)
	}
}

// face turns the walker's +Z toward the level part of dir.
func (c *Controller) face(dir mgl32.Vec3) {
	dir[1] = 0
	if dir.Dot(dir) < 1e-12 {
		return
	}
	target := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, dir.Normalize())
	c.state.Rotation = mgl32.QuatSlerp(c.state.Rotation, target, c.params.TurnRate).Normalize()
}

func clampSteps(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxPhysicsSteps {
		return MaxPhysicsSteps
	}
	return n
}
