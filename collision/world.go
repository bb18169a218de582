package collision

// World pairs the loaded level mesh with the resolver settings. It stays empty
// until the level build finishes.
type World struct {
	Resolver Resolver
	mesh     *Mesh
}

func NewWorld(resolver Resolver) *World {
	return &World{Resolver: resolver}
}

func (w *World) SetMesh(mesh *Mesh) {
	w.mesh = mesh
}

func (w *World) Mesh() *Mesh {
	return w.mesh
}

// Ready reports whether a mesh has been loaded.
func (w *World) Ready() bool {
	return w != nil && w.mesh != nil
}

// Resolve runs the resolver against the loaded mesh. It returns false, and a
// contact that leaves the motion untouched, when no mesh is loaded.
func (w *World) Resolve(capsule Capsule, transform Transform, motion Motion) (Contact, bool) {
	if !w.Ready() {
		return Contact{Velocity: motion.Velocity}, false
	}
	return w.Resolver.Resolve(capsule, transform, w.mesh, motion), true
}
