package roam

import (
	"time"

	"github.com/gekko3d/roam/collision"
	"github.com/gekko3d/roam/level"
)

// Level is the layout being played and the mesh built from it.
type Level struct {
	Layout level.Layout
	Mesh   *collision.Mesh
}

// LevelModule builds the collision mesh when the app enters StateLoading, hands
// it to the collision World and moves on to StatePlaying. A layout that fails
// to build quits the app.
type LevelModule struct {
	Layout level.Layout
}

func (mod LevelModule) Install(app *App, cmd *Commands) {
	layout := mod.Layout
	if len(layout.Shapes) == 0 {
		layout = level.Default()
	}
	cmd.AddResources(&Level{Layout: layout})

	app.UseSystem(
		System(levelBuildSystem).
			InStage(Prelude).
			InState(OnEnter(StateLoading)),
	)
}

func levelBuildSystem(lvl *Level, world *collision.World, log Logger, cmd *Commands) {
	start := time.Now()
	mesh, err := lvl.Layout.Mesh()
	if err != nil {
		log.Errorf("level %q: %v", lvl.Layout.Name, err)
		cmd.ChangeState(StateQuit)
		return
	}
	if n := mesh.Discarded(); n > 0 {
		log.Warnf("level %q: dropped %d degenerate triangles", lvl.Layout.Name, n)
	}

	lvl.Mesh = mesh
	world.SetMesh(mesh)
	b := mesh.WorldBounds()
	log.Infof("level %q built: %d triangles, %d nodes, bounds %v..%v in %v",
		lvl.Layout.Name, len(mesh.Triangles()), len(mesh.BVH().Nodes), b.Min, b.Max, time.Since(start))
	cmd.ChangeState(StatePlaying)
}
