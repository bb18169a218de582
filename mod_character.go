package roam

import (
	"github.com/gekko3d/roam/character"
	"github.com/gekko3d/roam/collision"
	"github.com/gekko3d/roam/input"
	"github.com/gekko3d/roam/orbit"
)

// Player owns the character controller and the view mode it is played in.
type Player struct {
	Controller  *character.Controller
	FirstPerson bool
}

// CharacterModule creates the Player from whatever input aggregator, camera rig
// and collision World are already installed, so it goes after their modules.
type CharacterModule struct {
	Params character.Params
	// Capsule defaults to character.DefaultCapsule when its radius is zero.
	Capsule     collision.Capsule
	FirstPerson bool
}

func (mod CharacterModule) Install(app *App, cmd *Commands) {
	params := mod.Params
	if params == (character.Params{}) {
		params = character.DefaultParams()
	}
	capsule := mod.Capsule
	if capsule.Radius == 0 {
		capsule = character.DefaultCapsule()
	}

	var (
		intent character.IntentSource
		camera character.Camera
		world  character.CollisionWorld
	)
	if agg, ok := Resource[input.Aggregator](app); ok {
		intent = agg
	}
	if rig, ok := Resource[orbit.Rig](app); ok {
		camera = rig
	}
	if w, ok := Resource[collision.World](app); ok {
		world = w
	}

	ctrl := character.New(params, capsule, intent, camera, world, character.WithLogger(app.Logger()))
	cmd.AddResources(&Player{Controller: ctrl, FirstPerson: mod.FirstPerson})

	app.UseSystem(
		System(characterSystem).
			InStage(Update).
			InState(OnExecute(StatePlaying)),
	)
}

func characterSystem(p *Player, rig *orbit.Rig, t *Time) {
	applyViewMode(rig, p.FirstPerson)
	p.Controller.Update(t.Delta())
}
