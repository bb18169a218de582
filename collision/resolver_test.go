package collision

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quad returns two triangles spanning the rectangle a, b, c, d (counter-clockwise).
func quad(a, b, c, d mgl32.Vec3) []Triangle {
	return []Triangle{{A: a, B: b, C: c}, {A: a, B: c, C: d}}
}

func floorQuad(y, minX, maxX, minZ, maxZ float32) []Triangle {
	return quad(
		mgl32.Vec3{minX, y, minZ},
		mgl32.Vec3{minX, y, maxZ},
		mgl32.Vec3{maxX, y, maxZ},
		mgl32.Vec3{maxX, y, minZ},
	)
}

func testCapsule() Capsule {
	return Capsule{
		Radius:  0.5,
		Segment: Segment{Start: mgl32.Vec3{0, 0, 0}, End: mgl32.Vec3{0, -1, 0}},
	}
}

func mustMesh(t *testing.T, tris []Triangle, world mgl32.Mat4) *Mesh {
	t.Helper()
	mesh, err := NewMesh("test", tris, world)
	require.NoError(t, err)
	return mesh
}

func at(x, y, z float32) Transform {
	return Transform{Position: mgl32.Vec3{x, y, z}, Rotation: mgl32.QuatIdent()}
}

func TestResolve_CapsuleJustAboveFloor(t *testing.T) {
	mesh := mustMesh(t, floorQuad(0, -10, 10, -10, 10), mgl32.Ident4())
	capsule := testCapsule()

	// Segment bottom at y=0.3, sphere bottom at y=-0.2
	contact := NewResolver().Resolve(capsule, at(0, 1.3, 0), mesh, Motion{Delta: 1.0 / 60})

	assert.True(t, contact.Grounded)
	assert.InDelta(t, 0.2, contact.Correction.Y(), 1e-4)
	assert.InDelta(t, 0, contact.Correction.X(), 1e-6)
	assert.InDelta(t, 0, contact.Correction.Z(), 1e-6)

	bottom := 0.3 + contact.Correction.Y()
	assert.GreaterOrEqual(t, bottom, float32(0.5-1e-4))
}

func TestResolve_NonPenetrationInCorner(t *testing.T) {
	tris := floorQuad(0, -5, 1, -5, 5)
	tris = append(tris, quad(
		mgl32.Vec3{1, 0, -5},
		mgl32.Vec3{1, 0, 5},
		mgl32.Vec3{1, 5, 5},
		mgl32.Vec3{1, 5, -5},
	)...)
	mesh := mustMesh(t, tris, mgl32.Ident4())
	capsule := testCapsule()

	for _, passes := range []int{1, 4} {
		resolver := NewResolver()
		resolver.Passes = passes

		start := at(0.7, 1.3, 0)
		contact := resolver.Resolve(capsule, start, mesh, Motion{Velocity: mgl32.Vec3{0, -1, 0}, Delta: 0.01})
		require.True(t, finite(contact.Correction))

		moved := start.Position.Add(contact.Correction)
		seg := Segment{Start: moved.Add(capsule.Segment.Start), End: moved.Add(capsule.Segment.End)}
		for i, tri := range mesh.Triangles() {
			_, _, dist := tri.ClosestPointsToSegment(seg)
			assert.GreaterOrEqualf(t, dist, capsule.Radius-1e-4, "passes=%d triangle %d", passes, i)
		}
		assert.True(t, contact.Grounded)
	}
}

func TestResolve_WallIsNotGround(t *testing.T) {
	wall := quad(
		mgl32.Vec3{1, -5, -5},
		mgl32.Vec3{1, -5, 5},
		mgl32.Vec3{1, 5, 5},
		mgl32.Vec3{1, 5, -5},
	)
	mesh := mustMesh(t, wall, mgl32.Ident4())

	velocity := mgl32.Vec3{2, -1, 0}
	contact := NewResolver().Resolve(testCapsule(), at(0.7, 1, 0), mesh, Motion{Velocity: velocity, Delta: 0.01})

	assert.False(t, contact.Grounded)
	assert.InDelta(t, -0.2, contact.Correction.X(), 1e-4)
	// Motion into the wall is removed, the rest is kept
	assert.InDelta(t, 0, contact.Velocity.X(), 1e-5)
	assert.InDelta(t, -1, contact.Velocity.Y(), 1e-5)
}

func TestResolve_GroundedZeroesVerticalVelocity(t *testing.T) {
	mesh := mustMesh(t, floorQuad(0, -10, 10, -10, 10), mgl32.Ident4())

	contact := NewResolver().Resolve(testCapsule(), at(0, 1.4, 0), mesh, Motion{
		Velocity: mgl32.Vec3{0.5, -3, 0},
		Delta:    0.01,
	})

	require.True(t, contact.Grounded)
	assert.Equal(t, float32(0), contact.Velocity.Y())
	assert.Equal(t, float32(0.5), contact.Velocity.X())
}

func TestResolve_DeadbandSuppressesJitter(t *testing.T) {
	mesh := mustMesh(t, floorQuad(0, -10, 10, -10, 10), mgl32.Ident4())

	contact := NewResolver().Resolve(testCapsule(), at(0, 1.499998, 0), mesh, Motion{Delta: 0.01})

	assert.Equal(t, mgl32.Vec3{}, contact.Correction)
}

func TestResolve_FarFromGeometry(t *testing.T) {
	mesh := mustMesh(t, floorQuad(0, -10, 10, -10, 10), mgl32.Ident4())

	contact := NewResolver().Resolve(testCapsule(), at(0, 5, 0), mesh, Motion{Velocity: mgl32.Vec3{0, -2, 0}, Delta: 0.01})

	assert.Equal(t, mgl32.Vec3{}, contact.Correction)
	assert.False(t, contact.Grounded)
	assert.Equal(t, mgl32.Vec3{0, -2, 0}, contact.Velocity)
	assert.Zero(t, contact.Candidates)
}

func TestResolve_MeshWorldTransform(t *testing.T) {
	world := mgl32.Translate3D(0, 1, 0).Mul4(mgl32.HomogRotate3DY(float32(math.Pi / 3)))
	mesh := mustMesh(t, floorQuad(0, -10, 10, -10, 10), world)

	contact := NewResolver().Resolve(testCapsule(), at(0, 2.3, 0), mesh, Motion{Delta: 0.01})

	assert.True(t, contact.Grounded)
	vecNear(t, mgl32.Vec3{0, 0.2, 0}, contact.Correction, 1e-4)
}

func TestResolve_RotatedCharacter(t *testing.T) {
	mesh := mustMesh(t, floorQuad(0, -10, 10, -10, 10), mgl32.Ident4())
	transform := Transform{
		Position: mgl32.Vec3{2, 1.3, -1},
		Rotation: mgl32.QuatRotate(1.2, mgl32.Vec3{0, 1, 0}),
	}

	contact := NewResolver().Resolve(testCapsule(), transform, mesh, Motion{Delta: 0.01})

	vecNear(t, mgl32.Vec3{0, 0.2, 0}, contact.Correction, 1e-4)
}

func TestResolve_PiercingSegmentLeavesTowardStart(t *testing.T) {
	mesh := mustMesh(t, floorQuad(0, -10, 10, -10, 10), mgl32.Ident4())

	tests := []struct {
		name string
		y    float32
	}{
		{"start above, end below", 0.4},
		{"end on the plane", 1},
		{"barely through", 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver()
			r.Passes = 1
			capsule := testCapsule()

			contact := r.Resolve(capsule, at(0, tt.y, 0), mesh, Motion{Delta: 0.01})

			require.True(t, finite(contact.Correction))
			vecNear(t, mgl32.Vec3{0, contact.Correction.Y(), 0}, contact.Correction, 1e-5)
			lowest := tt.y + capsule.Segment.End.Y() + contact.Correction.Y()
			assert.GreaterOrEqual(t, lowest, capsule.Radius-1e-4, "one pass clears the floor")

			again := r.Resolve(capsule, at(0, tt.y+contact.Correction.Y(), 0), mesh, Motion{Delta: 0.01})
			assert.InDelta(t, 0, again.Correction.Len(), 1e-4)
		})
	}
}

func TestResolve_NoMesh(t *testing.T) {
	velocity := mgl32.Vec3{1, 2, 3}
	contact := NewResolver().Resolve(testCapsule(), at(0, 0, 0), nil, Motion{Velocity: velocity, Delta: 0.01})

	assert.Equal(t, mgl32.Vec3{}, contact.Correction)
	assert.Equal(t, velocity, contact.Velocity)
	assert.False(t, contact.Grounded)
}

func TestResolve_ZeroLengthSegment(t *testing.T) {
	mesh := mustMesh(t, floorQuad(0, -10, 10, -10, 10), mgl32.Ident4())
	capsule := Capsule{Radius: 0.5}

	contact := NewResolver().Resolve(capsule, at(0, 0.1, 0), mesh, Motion{Delta: 0.01})

	assert.Equal(t, mgl32.Vec3{}, contact.Correction)
	assert.False(t, contact.Grounded)
}

func TestNewMesh_DropsDegenerateTriangles(t *testing.T) {
	tris := []Triangle{
		{A: mgl32.Vec3{0, 0, 0}, B: mgl32.Vec3{1, 0, 0}, C: mgl32.Vec3{2, 0, 0}},
		{A: mgl32.Vec3{0, 0, 0}, B: mgl32.Vec3{0, 0, 0}, C: mgl32.Vec3{0, 0, 0}},
		{A: mgl32.Vec3{float32(math.NaN()), 0, 0}, B: mgl32.Vec3{0, 0, 1}, C: mgl32.Vec3{1, 0, 0}},
	}
	mesh := mustMesh(t, tris, mgl32.Ident4())

	assert.Equal(t, 3, mesh.Discarded())
	assert.Empty(t, mesh.Triangles())

	contact := NewResolver().Resolve(testCapsule(), at(0, 0.5, 0), mesh, Motion{Delta: 0.01})
	assert.Equal(t, mgl32.Vec3{}, contact.Correction)
}

func TestNewMesh_SingularWorld(t *testing.T) {
	_, err := NewMesh("flat", floorQuad(0, -1, 1, -1, 1), mgl32.Scale3D(1, 0, 1))
	assert.ErrorIs(t, err, ErrSingularTransform)
}

func TestMesh_WorldBounds(t *testing.T) {
	mesh := mustMesh(t, floorQuad(0, -1, 1, -2, 2), mgl32.Translate3D(10, 3, 0))

	b := mesh.WorldBounds()
	vecNear(t, mgl32.Vec3{9, 3, -2}, b.Min, 1e-5)
	vecNear(t, mgl32.Vec3{11, 3, 2}, b.Max, 1e-5)
	assert.NotEqual(t, mesh.ID.String(), "00000000-0000-0000-0000-000000000000")
}
