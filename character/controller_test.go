package character

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/roam/collision"
	"github.com/gekko3d/roam/input"
)

const frame = float32(1.0 / 60.0)

type stubIntent struct {
	state input.State
}

func (s *stubIntent) InputState() input.State {
	return s.state
}

type stubCamera struct {
	azimuth float32
	forward mgl32.Vec3
	target  mgl32.Vec3
	moves   int
}

func (c *stubCamera) AzimuthalAngle() float32 { return c.azimuth }
func (c *stubCamera) Forward() mgl32.Vec3     { return c.forward }
func (c *stubCamera) MoveTarget(p mgl32.Vec3) {
	c.target = p
	c.moves++
}

func floorWorld(t *testing.T) *collision.World {
	t.Helper()
	tris := []collision.Triangle{
		{A: mgl32.Vec3{-50, 0, -50}, B: mgl32.Vec3{-50, 0, 50}, C: mgl32.Vec3{50, 0, 50}},
		{A: mgl32.Vec3{-50, 0, -50}, B: mgl32.Vec3{50, 0, 50}, C: mgl32.Vec3{50, 0, -50}},
	}
	mesh, err := collision.NewMesh("floor", tris, mgl32.Ident4())
	require.NoError(t, err)
	w := collision.NewWorld(collision.NewResolver())
	w.SetMesh(mesh)
	return w
}

func newTestController(t *testing.T, spawn mgl32.Vec3, opts ...Option) (*Controller, *stubIntent, *stubCamera) {
	t.Helper()
	params := DefaultParams()
	params.Spawn = spawn
	intent := &stubIntent{}
	cam := &stubCamera{forward: mgl32.Vec3{0, 0, -1}}
	return New(params, DefaultCapsule(), intent, cam, floorWorld(t), opts...), intent, cam
}

func settle(c *Controller, frames int) {
	for i := 0; i < frames; i++ {
		c.Update(frame)
	}
}

func TestController_LandsAndRests(t *testing.T) {
	c, _, _ := newTestController(t, mgl32.Vec3{0, 3, 0})

	settle(c, 120)

	s := c.State()
	assert.True(t, s.Grounded())
	assert.InDelta(t, 1.5, s.Position.Y(), 1e-3)
}

func TestController_GroundedVelocityIsSmall(t *testing.T) {
	params := DefaultParams()
	d := frame / float32(params.PhysicsSteps)

	var states []State
	c, _, _ := newTestController(t, mgl32.Vec3{0, 4, 0}, WithSubstepObserver(func(s State) {
		states = append(states, s)
	}))
	settle(c, 120)

	grounded := 0
	for _, s := range states {
		if !s.Grounded() {
			continue
		}
		grounded++
		assert.LessOrEqual(t, s.Velocity.Y(), float32(0))
		assert.GreaterOrEqual(t, s.Velocity.Y(), d*params.Gravity-1e-6)
		assert.Zero(t, s.Velocity.X())
		assert.Zero(t, s.Velocity.Z())
	}
	assert.Greater(t, grounded, 0)
}

func TestController_IdleOnFloorIsStable(t *testing.T) {
	c, _, _ := newTestController(t, mgl32.Vec3{0, 1.5, 0})
	settle(c, 60)
	rest := c.State().Position

	for i := 0; i < 60; i++ {
		c.Update(frame)
		assert.InDelta(t, 0, c.State().Position.Sub(rest).Len(), 1e-3)
	}
}

func TestController_PausedIsNoop(t *testing.T) {
	c, intent, cam := newTestController(t, mgl32.Vec3{0, 3, 0})
	c.SetPaused(true)
	intent.state.Forward = -1
	before := c.State()
	moves := cam.moves

	settle(c, 10)

	assert.Equal(t, before, c.State())
	assert.Equal(t, moves, cam.moves)
}

func TestController_StepIgnoresPause(t *testing.T) {
	c, _, _ := newTestController(t, mgl32.Vec3{0, 3, 0})
	c.SetPaused(true)

	c.Step()

	s := c.State()
	assert.Less(t, s.Position.Y(), float32(3))
	assert.InDelta(t, DebugFrame*DefaultParams().Gravity, s.Velocity.Y(), 1e-4)
}

func TestController_MovesRelativeToCamera(t *testing.T) {
	tests := []struct {
		name    string
		azimuth float32
		state   input.State
		want    mgl32.Vec3
	}{
		{"forward", 0, input.State{Forward: -1}, mgl32.Vec3{0, 0, -1}},
		{"backward", 0, input.State{Forward: 1}, mgl32.Vec3{0, 0, 1}},
		{"strafe right", 0, input.State{Right: 1}, mgl32.Vec3{1, 0, 0}},
		{"forward turned", math.Pi / 2, input.State{Forward: -1}, mgl32.Vec3{-1, 0, 0}},
		{"strafe turned", math.Pi / 2, input.State{Right: 1}, mgl32.Vec3{0, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, intent, cam := newTestController(t, mgl32.Vec3{0, 1.5, 0})
			settle(c, 30)
			start := c.State().Position

			cam.azimuth = tt.azimuth
			intent.state = tt.state
			c.Update(frame)

			moved := c.State().Position.Sub(start)
			moved[1] = 0
			want := tt.want.Mul(DefaultParams().PlayerSpeed * frame)
			assert.InDelta(t, 0, moved.Sub(want).Len(), 1e-4)
		})
	}
}

func TestController_BoostAddsSpeed(t *testing.T) {
	c, intent, _ := newTestController(t, mgl32.Vec3{0, 1.5, 0})
	settle(c, 30)
	start := c.State().Position

	intent.state = input.State{Forward: -1, Boost: true}
	c.Update(frame)

	p := DefaultParams()
	assert.InDelta(t, -(p.PlayerSpeed+p.BoostSpeed)*frame, c.State().Position.Z()-start.Z(), 1e-4)
}

func TestController_JumpIsEdgeTriggered(t *testing.T) {
	c, intent, _ := newTestController(t, mgl32.Vec3{0, 1.5, 0})
	settle(c, 30)
	require.True(t, c.State().Grounded())

	intent.state.Jump = true
	c.Update(frame)

	s := c.State()
	assert.False(t, s.Grounded())
	assert.Greater(t, s.Velocity.Y(), float32(0))
	assert.Greater(t, s.Position.Y(), float32(1.5))

	// Holding the button through the landing does not jump again.
	settle(c, 180)
	assert.True(t, c.State().Grounded())
	assert.InDelta(t, 1.5, c.State().Position.Y(), 1e-3)

	intent.state.Jump = false
	c.Update(frame)
	intent.state.Jump = true
	c.Update(frame)
	assert.Greater(t, c.State().Velocity.Y(), float32(0))
}

func TestController_JumpIgnoredInAir(t *testing.T) {
	c, intent, _ := newTestController(t, mgl32.Vec3{0, 10, 0})
	c.Update(frame)

	intent.state.Jump = true
	c.Update(frame)

	assert.Less(t, c.State().Velocity.Y(), float32(0))
}

func TestController_CameraFollows(t *testing.T) {
	c, intent, cam := newTestController(t, mgl32.Vec3{0, 1.5, 0})
	intent.state.Right = 1

	settle(c, 10)

	assert.Equal(t, c.State().Position, cam.target)
}

func TestController_FacesCameraDirection(t *testing.T) {
	c, _, cam := newTestController(t, mgl32.Vec3{0, 1.5, 0})
	cam.forward = mgl32.Vec3{1, -0.5, 0}

	settle(c, 100)

	facing := c.State().Rotation.Rotate(mgl32.Vec3{0, 0, 1})
	assert.InDelta(t, 0, facing.Sub(mgl32.Vec3{1, 0, 0}).Len(), 1e-3)
}

func TestController_VerticalCameraKeepsFacing(t *testing.T) {
	c, _, cam := newTestController(t, mgl32.Vec3{0, 1.5, 0})
	cam.forward = mgl32.Vec3{0, -1, 0}

	settle(c, 10)

	assert.Equal(t, mgl32.QuatIdent(), c.State().Rotation)
}

func TestController_NoWorldDoesNotMove(t *testing.T) {
	intent := &stubIntent{state: input.State{Forward: -1}}
	c := New(DefaultParams(), DefaultCapsule(), intent, nil, collision.NewWorld(collision.NewResolver()))

	settle(c, 10)

	assert.Equal(t, DefaultParams().Spawn, c.State().Position)
	assert.Equal(t, mgl32.Vec3{}, c.State().Velocity)
}

func TestController_Reset(t *testing.T) {
	c, intent, cam := newTestController(t, mgl32.Vec3{0, 3, 0})
	intent.state.Forward = -1
	settle(c, 30)

	c.Reset()

	s := c.State()
	assert.Equal(t, mgl32.Vec3{0, 3, 0}, s.Position)
	assert.Equal(t, mgl32.Vec3{}, s.Velocity)
	assert.Equal(t, mgl32.Vec3{0, 3, 0}, cam.target)
}

func TestController_SetParamsClampsSteps(t *testing.T) {
	c, _, _ := newTestController(t, mgl32.Vec3{0, 3, 0})

	p := c.Params()
	p.PhysicsSteps = 0
	c.SetParams(p)
	assert.Equal(t, 1, c.Params().PhysicsSteps)

	p.PhysicsSteps = 500
	c.SetParams(p)
	assert.Equal(t, MaxPhysicsSteps, c.Params().PhysicsSteps)
}
