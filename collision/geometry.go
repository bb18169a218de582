// Package collision resolves a capsule against a static triangle mesh.
package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const degenerateEpsilon = 1e-12

type Triangle struct {
	A, B, C mgl32.Vec3
}

// Normal returns the unit face normal, or the zero vector for a degenerate triangle.
func (t Triangle) Normal() mgl32.Vec3 {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	l := n.Len()
	if l*l <= degenerateEpsilon {
		return mgl32.Vec3{}
	}
	return n.Mul(1 / l)
}

func (t Triangle) Degenerate() bool {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	return n.Dot(n) <= degenerateEpsilon || !finite(t.A) || !finite(t.B) || !finite(t.C)
}

func (t Triangle) Bounds() AABB {
	return AABB{Min: t.A, Max: t.A}.Grow(t.B).Grow(t.C)
}

func (t Triangle) Centroid() mgl32.Vec3 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

// ClosestPoint returns the point of t nearest to p (Ericson, Real-Time Collision Detection 5.1.5).
// t must not be degenerate.
func (t Triangle) ClosestPoint(p mgl32.Vec3) mgl32.Vec3 {
	ab := t.B.Sub(t.A)
	ac := t.C.Sub(t.A)
	ap := p.Sub(t.A)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return t.A
	}

	bp := p.Sub(t.B)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return t.B
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return t.A.Add(ab.Mul(d1 / (d1 - d3)))
	}

	cp := p.Sub(t.C)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return t.C
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return t.A.Add(ac.Mul(d2 / (d2 - d6)))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return t.B.Add(t.C.Sub(t.B).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	return t.A.Add(ab.Mul(vb * denom)).Add(ac.Mul(vc * denom))
}

// ClosestPointsToSegment returns the closest pair of points between t and seg and
// their distance. A segment piercing the triangle reports the piercing point twice
// and a distance of zero.
func (t Triangle) ClosestPointsToSegment(seg Segment) (onTri, onSeg mgl32.Vec3, dist float32) {
	if p, ok := t.intersectSegment(seg); ok {
		return p, p, 0
	}

	best := float32(math.MaxFloat32)
	verts := [3]mgl32.Vec3{t.A, t.B, t.C}
	for i := 0; i < 3; i++ {
		edge := Segment{Start: verts[i], End: verts[(i+1)%3]}
		a, b := edge.ClosestPoints(seg)
		if d := distSq(a, b); d < best {
			best, onTri, onSeg = d, a, b
		}
	}

	for _, p := range [2]mgl32.Vec3{seg.Start, seg.End} {
		q := t.ClosestPoint(p)
		if d := distSq(p, q); d < best {
			best, onTri, onSeg = d, q, p
		}
	}

	return onTri, onSeg, float32(math.Sqrt(float64(best)))
}

func (t Triangle) intersectSegment(seg Segment) (mgl32.Vec3, bool) {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	ds := n.Dot(seg.Start.Sub(t.A))
	de := n.Dot(seg.End.Sub(t.A))
	if ds*de > 0 || ds == de {
		return mgl32.Vec3{}, false
	}

	p := seg.Start.Add(seg.End.Sub(seg.Start).Mul(ds / (ds - de)))
	verts := [3]mgl32.Vec3{t.A, t.B, t.C}
	for i := 0; i < 3; i++ {
		a, b := verts[i], verts[(i+1)%3]
		if b.Sub(a).Cross(p.Sub(a)).Dot(n) < 0 {
			return mgl32.Vec3{}, false
		}
	}
	return p, true
}

type Segment struct {
	Start, End mgl32.Vec3
}

func (s Segment) Len() float32 {
	return s.End.Sub(s.Start).Len()
}

// ClosestPoints returns the closest points on s and o (Ericson 5.1.9).
func (s Segment) ClosestPoints(o Segment) (onS, onO mgl32.Vec3) {
	d1 := s.End.Sub(s.Start)
	d2 := o.End.Sub(o.Start)
	r := s.Start.Sub(o.Start)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var sc, tc float32
	switch {
	case a <= degenerateEpsilon && e <= degenerateEpsilon:
		return s.Start, o.Start
	case a <= degenerateEpsilon:
		tc = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= degenerateEpsilon {
			sc = clamp01(-c / a)
			break
		}
		b := d1.Dot(d2)
		denom := a*e - b*b
		if denom != 0 {
			sc = clamp01((b*f - c*e) / denom)
		}
		tc = (b*sc + f) / e
		if tc < 0 {
			tc = 0
			sc = clamp01(-c / a)
		} else if tc > 1 {
			tc = 1
			sc = clamp01((b - c) / a)
		}
	}

	return s.Start.Add(d1.Mul(sc)), o.Start.Add(d2.Mul(tc))
}

// Transform places a shape in the world.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).Mul4(t.Rotation.Normalize().Mat4())
}

func distSq(a, b mgl32.Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}
