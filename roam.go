// Package roam is a small first-person walker: a capsule character moving over
// static level geometry, steered through an orbit camera by keyboard, mouse and
// gamepad. The app is assembled from modules over a staged, stateful frame loop.
package roam

import (
	"fmt"
	"io"
	"time"

	"github.com/gekko3d/roam/config"
	"github.com/gekko3d/roam/level"
)

type Options struct {
	// ConfigPath is re-read by the F5 binding.
	ConfigPath string
	// Headless skips the window; input then only comes from code.
	Headless  bool
	LogOutput io.Writer
	// Layout overrides the level section of the config.
	Layout *level.Layout
}

// Modules lists the modules for cfg in install order.
func Modules(cfg *config.Config, layout level.Layout, opts Options) []Module {
	var mods []Module
	mods = append(mods,
		LoggingModule{Prefix: cfg.Logging.Prefix, Level: cfg.Logging.Level, Output: opts.LogOutput},
		TimeModule{
			MaxDelta:  time.Duration(float64(cfg.Player.MaxFrameDelta) * float64(time.Second)),
			TargetFPS: cfg.Window.TargetFPS,
		},
	)
	if !opts.Headless {
		mods = append(mods, NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title))
	}
	mods = append(mods,
		InputModule{
			MouseSmoothing: cfg.Input.MouseSmoothing,
			Deadzones:      cfg.Deadzones(),
			Gamepad:        cfg.Input.Gamepad,
		},
		CollisionModule{Resolver: cfg.Resolver()},
		LevelModule{Layout: layout},
		OrbitCameraModule{
			Offset:        cfg.Camera.Offset,
			Damping:       cfg.Camera.Damping,
			DampingFactor: cfg.Camera.DampingFactor,
			Sensitivity:   cfg.Camera.Sensitivity,
			ZoomSpeed:     cfg.Camera.ZoomSpeed,
			FirstPerson:   cfg.Camera.FirstPerson,
		},
		CharacterModule{
			Params:      cfg.CharacterParams(),
			Capsule:     cfg.Capsule(),
			FirstPerson: cfg.Camera.FirstPerson,
		},
		TuningModule{ConfigPath: opts.ConfigPath},
	)
	return mods
}

// NewApp builds the app for cfg. It starts in StateLoading and finishes in
// StateQuit.
func NewApp(cfg *config.Config, opts Options) (*App, error) {
	var layout level.Layout
	if opts.Layout != nil {
		layout = *opts.Layout
	} else {
		l, err := cfg.Layout()
		if err != nil {
			return nil, fmt.Errorf("level: %w", err)
		}
		layout = l
	}

	return NewAppBuilder().
		UseStates(StateLoading, StateQuit).
		UseModule(Modules(cfg, layout, opts)...).
		Build(), nil
}
