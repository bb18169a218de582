package collision

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

var ErrSingularTransform = errors.New("collision: mesh world transform is not invertible")

// Mesh is static collision geometry. It is built once and only read afterwards.
type Mesh struct {
	ID        uuid.UUID
	Name      string
	World     mgl32.Mat4
	toLocal   mgl32.Mat4
	bvh       *BVH
	discarded int
}

// NewMesh drops degenerate triangles from the soup and builds the hierarchy over
// the rest. Triangles are given in mesh-local space and placed by world.
func NewMesh(name string, triangles []Triangle, world mgl32.Mat4) (*Mesh, error) {
	if mgl32.FloatEqual(world.Det(), 0) {
		return nil, fmt.Errorf("%s: %w", name, ErrSingularTransform)
	}

	kept := make([]Triangle, 0, len(triangles))
	for _, tri := range triangles {
		if tri.Degenerate() {
			continue
		}
		kept = append(kept, tri)
	}

	return &Mesh{
		ID:        uuid.New(),
		Name:      name,
		World:     world,
		toLocal:   world.Inv(),
		bvh:       BuildBVH(kept),
		discarded: len(triangles) - len(kept),
	}, nil
}

func (m *Mesh) BVH() *BVH {
	return m.bvh
}

func (m *Mesh) Triangles() []Triangle {
	return m.bvh.Triangles()
}

// Discarded reports how many degenerate input triangles were dropped.
func (m *Mesh) Discarded() int {
	return m.discarded
}

// WorldBounds is the mesh-local root box carried to world space.
func (m *Mesh) WorldBounds() AABB {
	local := m.bvh.Bounds()
	if len(m.bvh.Nodes) == 0 {
		return local
	}
	out := EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{local.Min.X(), local.Min.Y(), local.Min.Z()}
		if i&1 != 0 {
			corner[0] = local.Max.X()
		}
		if i&2 != 0 {
			corner[1] = local.Max.Y()
		}
		if i&4 != 0 {
			corner[2] = local.Max.Z()
		}
		out = out.Grow(mgl32.TransformCoordinate(corner, m.World))
	}
	return out
}
