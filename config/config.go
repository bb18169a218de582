package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/roam/character"
	"github.com/gekko3d/roam/collision"
	"github.com/gekko3d/roam/input"
	"github.com/gekko3d/roam/level"
)

type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Logging   LoggingConfig   `yaml:"logging"`
	Player    PlayerConfig    `yaml:"player"`
	Camera    CameraConfig    `yaml:"camera"`
	Input     InputConfig     `yaml:"input"`
	Collision CollisionConfig `yaml:"collision"`
	Level     LevelConfig     `yaml:"level"`
}

type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	// TargetFPS paces the frame loop; 0 runs as fast as possible.
	TargetFPS int    `yaml:"target_fps"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Prefix string `yaml:"prefix"`
}

type PlayerConfig struct {
	Speed         float32    `yaml:"speed"`
	BoostSpeed    float32    `yaml:"boost_speed"`
	JumpStrength  float32    `yaml:"jump_strength"`
	Gravity       float32    `yaml:"gravity"`
	PhysicsSteps  int        `yaml:"physics_steps"`
	TurnRate      float32    `yaml:"turn_rate"`
	Spawn         mgl32.Vec3 `yaml:"spawn"`
	Radius        float32    `yaml:"radius"`
	Height        float32    `yaml:"height"`
	MaxFrameDelta float32    `yaml:"max_frame_delta"`
	Paused        bool       `yaml:"paused"`
}

type CameraConfig struct {
	FirstPerson   bool       `yaml:"first_person"`
	Offset        mgl32.Vec3 `yaml:"offset"`
	Damping       bool       `yaml:"damping"`
	DampingFactor float32    `yaml:"damping_factor"`
	Sensitivity   float32    `yaml:"sensitivity"`
	ZoomSpeed     float32    `yaml:"zoom_speed"`
}

type InputConfig struct {
	Gamepad        bool    `yaml:"gamepad"`
	MouseSmoothing float32 `yaml:"mouse_smoothing"`
	ForwardDead    float32 `yaml:"forward_deadzone"`
	StrafeDead     float32 `yaml:"strafe_deadzone"`
	RotateDead     float32 `yaml:"rotate_deadzone"`
}

type CollisionConfig struct {
	Passes           int     `yaml:"passes"`
	Epsilon          float32 `yaml:"epsilon"`
	GroundedFraction float32 `yaml:"grounded_fraction"`
}

// LevelConfig picks the level geometry: a layout file, inline shapes, or the
// built-in arena when both are empty.
type LevelConfig struct {
	File   string        `yaml:"file"`
	Shapes []level.Shape `yaml:"shapes"`
}

func Default() *Config {
	p := character.DefaultParams()
	capsule := character.DefaultCapsule()
	dz := input.DefaultDeadzones()
	r := collision.NewResolver()

	return &Config{
		Window: WindowConfig{
			Title:  "roam",
			Width:     1280,
			Height:    720,
			TargetFPS: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Prefix: "roam",
		},
		Player: PlayerConfig{
			Speed:         p.PlayerSpeed,
			BoostSpeed:    p.BoostSpeed,
			JumpStrength:  p.JumpStrength,
			Gravity:       p.Gravity,
			PhysicsSteps:  p.PhysicsSteps,
			TurnRate:      p.TurnRate,
			Spawn:         p.Spawn,
			Radius:        capsule.Radius,
			Height:        capsule.Segment.Len(),
			MaxFrameDelta: 0.1,
		},
		Camera: CameraConfig{
			FirstPerson:   true,
			Offset:        mgl32.Vec3{0, 0, 3},
			Damping:       true,
			DampingFactor: 0.05,
			Sensitivity:   0.01,
			ZoomSpeed:     1,
		},
		Input: InputConfig{
			Gamepad:     true,
			ForwardDead: dz.Forward,
			StrafeDead:  dz.Strafe,
			RotateDead:  dz.Rotate,
		},
		Collision: CollisionConfig{
			Passes:           r.Passes,
			Epsilon:          r.Epsilon,
			GroundedFraction: r.GroundedFraction,
		},
	}
}

// Load reads path over the defaults, so a file only needs the keys it changes.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate lists settings that will behave oddly. None of them stop the game.
func (c *Config) Validate() []string {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		warn("window size %dx%d is not positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.TargetFPS < 0 {
		warn("window.target_fps %d is negative, frames are not paced", c.Window.TargetFPS)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		warn("unknown logging level %q, using info", c.Logging.Level)
	}

	if c.Player.PhysicsSteps < 1 || c.Player.PhysicsSteps > character.MaxPhysicsSteps {
		warn("player.physics_steps %d is clamped to [1, %d]", c.Player.PhysicsSteps, character.MaxPhysicsSteps)
	}
	if c.Player.Gravity >= 0 {
		warn("player.gravity %.2f does not pull down", c.Player.Gravity)
	}
	if c.Player.Speed < 0 || c.Player.BoostSpeed < 0 {
		warn("negative player speeds invert the movement keys")
	}
	if c.Player.Radius <= 0 || c.Player.Height <= 0 {
		warn("capsule radius %.2f and height %.2f must be positive for collisions to resolve", c.Player.Radius, c.Player.Height)
	}
	if c.Player.TurnRate < 0 || c.Player.TurnRate > 1 {
		warn("player.turn_rate %.2f is outside [0, 1]", c.Player.TurnRate)
	}
	if c.Player.MaxFrameDelta <= 0 {
		warn("player.max_frame_delta %.3f disables frame clamping", c.Player.MaxFrameDelta)
	}

	if c.Camera.DampingFactor <= 0 || c.Camera.DampingFactor > 1 {
		warn("camera.damping_factor %.3f is outside (0, 1]", c.Camera.DampingFactor)
	}

	if c.Input.MouseSmoothing < 0 || c.Input.MouseSmoothing > 0.99 {
		warn("input.mouse_smoothing %.2f is clamped to [0, 0.99]", c.Input.MouseSmoothing)
	}
	deadzones := []struct {
		name string
		v    float32
	}{
		{"forward_deadzone", c.Input.ForwardDead},
		{"strafe_deadzone", c.Input.StrafeDead},
		{"rotate_deadzone", c.Input.RotateDead},
	}
	for _, dz := range deadzones {
		if dz.v < 0 || dz.v >= 1 {
			warn("input.%s %.2f is outside [0, 1)", dz.name, dz.v)
		}
	}

	if c.Collision.Passes < 1 {
		warn("collision.passes %d is raised to 1", c.Collision.Passes)
	}
	if c.Collision.Epsilon < 0 {
		warn("collision.epsilon %.6f is negative", c.Collision.Epsilon)
	}

	if c.Level.File != "" && len(c.Level.Shapes) > 0 {
		warn("level.file %q overrides %d inline shapes", c.Level.File, len(c.Level.Shapes))
	}
	return warnings
}

func (c *Config) CharacterParams() character.Params {
	return character.Params{
		PlayerSpeed:  c.Player.Speed,
		BoostSpeed:   c.Player.BoostSpeed,
		JumpStrength: c.Player.JumpStrength,
		Gravity:      c.Player.Gravity,
		PhysicsSteps: c.Player.PhysicsSteps,
		TurnRate:     c.Player.TurnRate,
		Spawn:        c.Player.Spawn,
		Paused:       c.Player.Paused,
	}
}

// Capsule hangs the segment Height below the character origin.
func (c *Config) Capsule() collision.Capsule {
	return collision.Capsule{
		Radius: c.Player.Radius,
		Segment: collision.Segment{
			End: mgl32.Vec3{0, -c.Player.Height, 0},
		},
	}
}

func (c *Config) Resolver() collision.Resolver {
	return collision.Resolver{
		Passes:           c.Collision.Passes,
		Epsilon:          c.Collision.Epsilon,
		GroundedFraction: c.Collision.GroundedFraction,
	}
}

func (c *Config) Deadzones() input.Deadzones {
	return input.Deadzones{
		Forward: c.Input.ForwardDead,
		Strafe:  c.Input.StrafeDead,
		Rotate:  c.Input.RotateDead,
	}
}

// Layout resolves the level section into a layout.
func (c *Config) Layout() (level.Layout, error) {
	switch {
	case c.Level.File != "":
		return level.LoadLayout(c.Level.File)
	case len(c.Level.Shapes) > 0:
		return level.Layout{Name: "config", Shapes: c.Level.Shapes}, nil
	default:
		return level.Default(), nil
	}
}
