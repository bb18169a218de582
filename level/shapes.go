// Package level builds the static collision geometry of the play area from
// simple procedural shapes.
package level

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/roam/collision"
)

// quad splits the rectangle a, b, c, d into two triangles sharing the a-c
// diagonal. Counter-clockwise order seen from outside gives an outward normal.
func quad(a, b, c, d mgl32.Vec3) []collision.Triangle {
	return []collision.Triangle{{A: a, B: b, C: c}, {A: a, B: c, C: d}}
}

// place rotates tris by yaw about +Y and moves them to origin.
func place(tris []collision.Triangle, origin mgl32.Vec3, yaw float32) []collision.Triangle {
	m := mgl32.Translate3D(origin.X(), origin.Y(), origin.Z()).Mul4(mgl32.HomogRotate3DY(yaw))
	for i := range tris {
		tris[i].A = mgl32.TransformCoordinate(tris[i].A, m)
		tris[i].B = mgl32.TransformCoordinate(tris[i].B, m)
		tris[i].C = mgl32.TransformCoordinate(tris[i].C, m)
	}
	return tris
}

// Plane is a horizontal rectangle facing +Y.
func Plane(center mgl32.Vec3, sizeX, sizeZ float32) []collision.Triangle {
	hx, hz := sizeX/2, sizeZ/2
	y := center.Y()
	x0, x1 := center.X()-hx, center.X()+hx
	z0, z1 := center.Z()-hz, center.Z()+hz
	return quad(
		mgl32.Vec3{x0, y, z0},
		mgl32.Vec3{x0, y, z1},
		mgl32.Vec3{x1, y, z1},
		mgl32.Vec3{x1, y, z0},
	)
}

// Box is an axis-aligned box of the given full extents.
func Box(center, size mgl32.Vec3) []collision.Triangle {
	h := size.Mul(0.5)
	lo, hi := center.Sub(h), center.Add(h)
	x0, y0, z0 := lo.Elem()
	x1, y1, z1 := hi.Elem()

	tris := make([]collision.Triangle, 0, 12)
	// +Y, -Y
	tris = append(tris, quad(mgl32.Vec3{x0, y1, z0}, mgl32.Vec3{x0, y1, z1}, mgl32.Vec3{x1, y1, z1}, mgl32.Vec3{x1, y1, z0})...)
	tris = append(tris, quad(mgl32.Vec3{x0, y0, z0}, mgl32.Vec3{x1, y0, z0}, mgl32.Vec3{x1, y0, z1}, mgl32.Vec3{x0, y0, z1})...)
	// +X, -X
	tris = append(tris, quad(mgl32.Vec3{x1, y0, z0}, mgl32.Vec3{x1, y1, z0}, mgl32.Vec3{x1, y1, z1}, mgl32.Vec3{x1, y0, z1})...)
	tris = append(tris, quad(mgl32.Vec3{x0, y0, z0}, mgl32.Vec3{x0, y0, z1}, mgl32.Vec3{x0, y1, z1}, mgl32.Vec3{x0, y1, z0})...)
	// +Z, -Z
	tris = append(tris, quad(mgl32.Vec3{x0, y0, z1}, mgl32.Vec3{x1, y0, z1}, mgl32.Vec3{x1, y1, z1}, mgl32.Vec3{x0, y1, z1})...)
	tris = append(tris, quad(mgl32.Vec3{x0, y0, z0}, mgl32.Vec3{x0, y1, z0}, mgl32.Vec3{x1, y1, z0}, mgl32.Vec3{x1, y0, z0})...)
	return tris
}

// Ramp is a wedge whose low edge is centred on base and which rises by height
// over length along -Z, turned by yaw radians about +Y.
func Ramp(base mgl32.Vec3, width, length, height, yaw float32) []collision.Triangle {
	hw := width / 2
	l, h := length, height

	tris := make([]collision.Triangle, 0, 8)
	// slope
	tris = append(tris, quad(mgl32.Vec3{-hw, 0, 0}, mgl32.Vec3{hw, 0, 0}, mgl32.Vec3{hw, h, -l}, mgl32.Vec3{-hw, h, -l})...)
	// back wall
	tris = append(tris, quad(mgl32.Vec3{-hw, 0, -l}, mgl32.Vec3{-hw, h, -l}, mgl32.Vec3{hw, h, -l}, mgl32.Vec3{hw, 0, -l})...)
	// sides
	tris = append(tris,
		collision.Triangle{A: mgl32.Vec3{hw, 0, 0}, B: mgl32.Vec3{hw, 0, -l}, C: mgl32.Vec3{hw, h, -l}},
		collision.Triangle{A: mgl32.Vec3{-hw, 0, 0}, B: mgl32.Vec3{-hw, h, -l}, C: mgl32.Vec3{-hw, 0, -l}},
	)
	// bottom
	tris = append(tris, quad(mgl32.Vec3{-hw, 0, -l}, mgl32.Vec3{hw, 0, -l}, mgl32.Vec3{hw, 0, 0}, mgl32.Vec3{-hw, 0, 0})...)

	return place(tris, base, yaw)
}

// Stairs stacks steps solid blocks, each stepHeight taller than the last and
// stepDepth further along -Z from base, turned by yaw radians about +Y.
func Stairs(base mgl32.Vec3, steps int, stepWidth, stepDepth, stepHeight, yaw float32) []collision.Triangle {
	tris := make([]collision.Triangle, 0, steps*12)
	for i := 0; i < steps; i++ {
		top := float32(i+1) * stepHeight
		center := mgl32.Vec3{0, top / 2, -(float32(i) + 0.5) * stepDepth}
		tris = append(tris, Box(center, mgl32.Vec3{stepWidth, top, stepDepth})...)
	}
	return place(tris, base, yaw)
}
