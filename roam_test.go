package roam

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/roam/collision"
	"github.com/gekko3d/roam/config"
	"github.com/gekko3d/roam/input"
	"github.com/gekko3d/roam/level"
	"github.com/gekko3d/roam/orbit"
)

const testFrame = 16 * time.Millisecond

func newHeadlessApp(t *testing.T, cfg *config.Config, opts Options) (*App, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	// tickFrames drives the clock
	cfg.Window.TargetFPS = 0
	opts.Headless = true
	opts.LogOutput = &logs
	app, err := NewApp(cfg, opts)
	require.NoError(t, err)
	return app, &logs
}

// tickFrames runs n frames, backdating the clock so each lasts about testFrame.
func tickFrames(t *testing.T, app *App, n int) {
	t.Helper()
	tm, ok := Resource[Time](app)
	require.True(t, ok)
	for i := 0; i < n; i++ {
		tm.Time = tm.Time.Add(-testFrame)
		if !app.Tick() {
			return
		}
	}
}

func TestNewApp_LoadsLevelAndLands(t *testing.T) {
	app, logs := newHeadlessApp(t, config.Default(), Options{})

	tickFrames(t, app, 1)
	assert.Equal(t, StatePlaying, app.State())

	world, ok := Resource[collision.World](app)
	require.True(t, ok)
	assert.True(t, world.Ready())
	assert.Contains(t, logs.String(), `level "default" built`)

	tickFrames(t, app, 120)

	p, ok := Resource[Player](app)
	require.True(t, ok)
	s := p.Controller.State()
	assert.True(t, s.Grounded())
	assert.InDelta(t, 1.5, s.Position.Y(), 0.05)
	assert.InDelta(t, 0, s.Position.X(), 1e-3)
	assert.InDelta(t, 4, s.Position.Z(), 1e-3)

	rig, ok := Resource[orbit.Rig](app)
	require.True(t, ok)
	assert.True(t, rig.Target.ApproxEqualThreshold(s.Position, 1e-4), "camera follows the player")
}

func TestNewApp_PacesToTargetFPS(t *testing.T) {
	app, err := NewApp(config.Default(), Options{Headless: true, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)

	pacer, ok := Resource[FramePacer](app)
	require.True(t, ok)
	assert.Equal(t, time.Second/60, pacer.Interval)
}

func TestNewApp_WalksForward(t *testing.T) {
	app, _ := newHeadlessApp(t, config.Default(), Options{})
	tickFrames(t, app, 60)

	binder, ok := Resource[inputBinder](app)
	require.True(t, ok)
	p, _ := Resource[Player](app)
	before := p.Controller.State().Position

	binder.agg.Keyboard().Press(input.ActionForward)
	tickFrames(t, app, 30)

	after := p.Controller.State().Position
	assert.Less(t, after.Z(), before.Z()-1, "the camera starts looking down -Z")
	assert.InDelta(t, before.X(), after.X(), 1e-2)
}

func TestNewApp_BrokenLevelQuits(t *testing.T) {
	layout := level.Layout{Name: "broken", Shapes: []level.Shape{{Kind: level.KindBox}}}
	app, logs := newHeadlessApp(t, config.Default(), Options{Layout: &layout})

	assert.False(t, app.Tick())
	assert.True(t, app.Finished())
	assert.Equal(t, StateQuit, app.State())
	assert.Contains(t, logs.String(), `level "broken"`)

	p, _ := Resource[Player](app)
	assert.Equal(t, mgl32.Vec3{0, 2, 4}, p.Controller.State().Position)
}

func TestNewApp_MissingLevelFile(t *testing.T) {
	cfg := config.Default()
	cfg.Level.File = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewApp(cfg, Options{Headless: true})
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

type tuningFixture struct {
	app   *App
	logs  *bytes.Buffer
	keys  *Input
	tun   *Tuning
	p     *Player
	rig   *orbit.Rig
	world *collision.World
	agg   *input.Aggregator
}

func newTuningFixture(t *testing.T, configPath string) *tuningFixture {
	t.Helper()
	app, logs := newHeadlessApp(t, config.Default(), Options{ConfigPath: configPath})
	tickFrames(t, app, 1)

	f := &tuningFixture{app: app, logs: logs}
	f.keys, _ = Resource[Input](app)
	f.tun, _ = Resource[Tuning](app)
	f.p, _ = Resource[Player](app)
	f.rig, _ = Resource[orbit.Rig](app)
	f.world, _ = Resource[collision.World](app)
	f.agg, _ = Resource[input.Aggregator](app)
	return f
}

func (f *tuningFixture) press(key int) {
	f.keys.beginFrame()
	f.keys.JustPressed[key] = true
	tuningSystem(f.keys, f.tun, f.p, f.rig, f.world, f.agg, f.app.Logger())
}

func TestTuning_Keys(t *testing.T) {
	f := newTuningFixture(t, "")
	ctrl := f.p.Controller

	f.press(KeyP)
	assert.True(t, ctrl.Params().Paused)
	before := ctrl.State()
	tickFrames(t, f.app, 5)
	assert.Equal(t, before, ctrl.State(), "paused character does not move")

	f.press(KeyN)
	assert.NotEqual(t, before.Velocity, ctrl.State().Velocity, "stepping ignores pause")

	f.press(KeyBackspace)
	assert.Equal(t, ctrl.Params().Spawn, ctrl.State().Position)

	f.press(KeyV)
	assert.False(t, f.p.FirstPerson)
	assert.Equal(t, float32(thirdPersonMaxDistance), f.rig.MaxDistance)

	f.press(KeyF1)
	assert.True(t, f.app.Logger().DebugEnabled())

	f.press(KeyF5)
	assert.Contains(t, f.logs.String(), "no config file to reload")
}

func TestTuning_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roam.yaml")
	f := newTuningFixture(t, path)
	f.p.Controller.SetPaused(true)

	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
player:
  speed: 5
  physics_steps: 99
camera:
  first_person: false
  sensitivity: 0.02
input:
  mouse_smoothing: 0.5
collision:
  passes: 3
`), 0o644))

	f.press(KeyF5)

	params := f.p.Controller.Params()
	assert.Equal(t, float32(5), params.PlayerSpeed)
	assert.Equal(t, 30, params.PhysicsSteps)
	assert.True(t, params.Paused, "pause survives a reload")
	assert.False(t, f.p.FirstPerson)
	assert.Equal(t, float32(0.02), f.rig.RotateSensitivity)
	assert.Equal(t, float32(0.5), f.agg.Mouse().Smoothing)
	assert.Equal(t, 3, f.world.Resolver.Passes)
	assert.True(t, f.app.Logger().DebugEnabled())
	assert.Contains(t, f.logs.String(), "config: ")
	assert.Contains(t, f.logs.String(), "reloaded tunables from "+path)
}

func TestTuning_ReloadInvalidKeepsSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roam.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player: [1, 2"), 0o644))
	f := newTuningFixture(t, path)
	want := f.p.Controller.Params()

	f.press(KeyF5)

	assert.Equal(t, want, f.p.Controller.Params())
	assert.Contains(t, f.logs.String(), "reload: parse config")
}

func TestApplyViewMode(t *testing.T) {
	rig := orbit.New(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{}, orbit.WithoutDamping())

	applyViewMode(rig, true)
	assert.Equal(t, float32(firstPersonMinPolar), rig.MinPolarAngle)
	assert.Equal(t, float32(firstPersonMaxPolar), rig.MaxPolarAngle)
	rig.Update()
	assert.InDelta(t, firstPersonDistance, rig.Distance(), 1e-5)

	applyViewMode(rig, false)
	rig.Update()
	assert.InDelta(t, thirdPersonMinDistance, rig.Distance(), 1e-5)
	assert.Equal(t, float32(0), rig.MinPolarAngle)
}
