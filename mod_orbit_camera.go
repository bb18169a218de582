package roam

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/roam/input"
	"github.com/gekko3d/roam/orbit"
)

const (
	firstPersonMinPolar    = 0.7
	firstPersonMaxPolar    = 0.7 * math.Pi
	firstPersonDistance    = 1e-4
	thirdPersonMaxPolar    = math.Pi / 2
	thirdPersonMinDistance = 1
	thirdPersonMaxDistance = 2000
)

// OrbitCameraModule adds the camera Rig, driven by the input aggregator's
// rotation, and updates it after the character has moved.
type OrbitCameraModule struct {
	// Offset is the camera position relative to its target before the first update.
	Offset        mgl32.Vec3
	Damping       bool
	DampingFactor float32
	Sensitivity   float32
	ZoomSpeed     float32
	FirstPerson   bool
}

func (mod OrbitCameraModule) Install(app *App, cmd *Commands) {
	offset := mod.Offset
	if offset == (mgl32.Vec3{}) {
		offset = mgl32.Vec3{0, 0, 3}
	}

	opts := []orbit.Option{orbit.WithoutDamping()}
	if mod.Damping {
		opts = []orbit.Option{orbit.WithDamping(mod.DampingFactor)}
	}
	if mod.Sensitivity != 0 {
		opts = append(opts, orbit.WithSensitivity(mod.Sensitivity))
	}
	if agg, ok := Resource[input.Aggregator](app); ok {
		opts = append(opts, orbit.WithRotationSource(agg))
	}

	rig := orbit.New(offset, mgl32.Vec3{}, opts...)
	if mod.ZoomSpeed > 0 {
		rig.ZoomSpeed = mod.ZoomSpeed
	}
	applyViewMode(rig, mod.FirstPerson)
	cmd.AddResources(rig)

	app.UseSystem(
		System(orbitCameraSystem).
			InStage(PostUpdate).
			InState(OnExecute(StatePlaying)),
	)
}

func orbitCameraSystem(rig *orbit.Rig, keys *Input) {
	if keys.ScrollY != 0 {
		// wheel up zooms in
		rig.HandleWheel(-keys.ScrollY)
	}
	rig.Update()
}

// applyViewMode sets the rig limits for first or third person. The limits take
// effect on the rig's next Update.
func applyViewMode(rig *orbit.Rig, firstPerson bool) {
	if firstPerson {
		rig.MinPolarAngle = firstPersonMinPolar
		rig.MaxPolarAngle = firstPersonMaxPolar
		rig.MinDistance = firstPersonDistance
		rig.MaxDistance = firstPersonDistance
		return
	}
	rig.MinPolarAngle = 0
	rig.MaxPolarAngle = thirdPersonMaxPolar
	rig.MinDistance = thirdPersonMinDistance
	rig.MaxDistance = thirdPersonMaxDistance
}
