package roam

import (
	"github.com/gekko3d/roam/collision"
	"github.com/gekko3d/roam/config"
	"github.com/gekko3d/roam/input"
	"github.com/gekko3d/roam/orbit"
)

// Tuning holds the live-tuning state behind the debug key bindings.
type Tuning struct {
	ConfigPath string
	// ReportEvery is how often, in seconds, the player state is logged at debug level.
	ReportEvery float32

	sinceReport float32
}

// TuningModule binds the debug keys:
//
//	P          pause or resume the character
//	N          advance one fixed debug frame
//	Backspace  respawn
//	V          switch between first and third person
//	F5         reload tunables from the config file
//	F1         toggle debug logging
//
// It needs the input, collision, camera and character modules installed first.
type TuningModule struct {
	ConfigPath string
}

func (mod TuningModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Tuning{ConfigPath: mod.ConfigPath, ReportEvery: 1})
	app.UseSystem(
		System(tuningSystem).
			InStage(PreUpdate).
			InState(OnExecute(StatePlaying)),
	)
	app.UseSystem(
		System(tuningReportSystem).
			InStage(PostUpdate).
			InState(OnExecute(StatePlaying)),
	)
}

func tuningSystem(keys *Input, tun *Tuning, p *Player, rig *orbit.Rig, world *collision.World, agg *input.Aggregator, log Logger) {
	ctrl := p.Controller

	if keys.JustPressed[KeyP] {
		paused := !ctrl.Params().Paused
		ctrl.SetPaused(paused)
		log.Infof("paused: %v", paused)
	}
	if keys.JustPressed[KeyN] {
		ctrl.Step()
		s := ctrl.State()
		log.Infof("step: position %v velocity %v %v", s.Position, s.Velocity, s.Phase)
	}
	if keys.JustPressed[KeyBackspace] {
		ctrl.Reset()
		log.Infof("respawned at %v", ctrl.State().Position)
	}
	if keys.JustPressed[KeyV] {
		p.FirstPerson = !p.FirstPerson
		applyViewMode(rig, p.FirstPerson)
		log.Infof("first person: %v", p.FirstPerson)
	}
	if keys.JustPressed[KeyF1] {
		log.SetDebug(!log.DebugEnabled())
		log.Infof("debug logging: %v", log.DebugEnabled())
	}
	if keys.JustPressed[KeyF5] {
		reloadTunables(tun.ConfigPath, p, rig, world, agg, log)
	}
}

// reloadTunables re-reads the config file and applies everything that can change
// while playing. Window, level and capsule settings need a restart.
func reloadTunables(path string, p *Player, rig *orbit.Rig, world *collision.World, agg *input.Aggregator, log Logger) {
	if path == "" {
		log.Warnf("no config file to reload")
		return
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Errorf("reload: %v", err)
		return
	}
	for _, w := range cfg.Validate() {
		log.Warnf("config: %s", w)
	}

	params := cfg.CharacterParams()
	params.Paused = p.Controller.Params().Paused
	p.Controller.SetParams(params)

	p.FirstPerson = cfg.Camera.FirstPerson
	rig.EnableDamping = cfg.Camera.Damping
	rig.DampingFactor = cfg.Camera.DampingFactor
	rig.RotateSensitivity = cfg.Camera.Sensitivity
	rig.ZoomSpeed = cfg.Camera.ZoomSpeed
	applyViewMode(rig, p.FirstPerson)

	agg.Mouse().Smoothing = cfg.Input.MouseSmoothing
	agg.Gamepad().Deadzones = cfg.Deadzones()
	world.Resolver = cfg.Resolver()

	log.SetDebug(cfg.Logging.Level == "debug")
	log.Infof("reloaded tunables from %s", path)
}

func tuningReportSystem(tun *Tuning, p *Player, t *Time, log Logger) {
	if !log.DebugEnabled() || tun.ReportEvery <= 0 {
		return
	}
	tun.sinceReport += t.Delta()
	if tun.sinceReport < tun.ReportEvery {
		return
	}
	tun.sinceReport = 0
	s := p.Controller.State()
	log.Debugf("player %v velocity %v %v", s.Position, s.Velocity, s.Phase)
}
