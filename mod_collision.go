package roam

import (
	"github.com/gekko3d/roam/collision"
)

// CollisionModule publishes the collision World. It stays empty until
// LevelModule loads a mesh into it.
type CollisionModule struct {
	Resolver collision.Resolver
}

func (mod CollisionModule) Install(app *App, cmd *Commands) {
	r := mod.Resolver
	if r == (collision.Resolver{}) {
		r = collision.NewResolver()
	}
	cmd.AddResources(collision.NewWorld(r))
}
