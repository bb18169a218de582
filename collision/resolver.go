package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultEpsilon          = 1e-5
	DefaultGroundedFraction = 0.25
	contactEpsilon          = 1e-6
)

// Capsule is a segment in character-local space swept by a sphere of Radius.
type Capsule struct {
	Radius  float32
	Segment Segment
}

// Motion is the character's velocity going into a resolve and the substep it covers.
type Motion struct {
	Velocity mgl32.Vec3
	Delta    float32
}

// Contact is the outcome of one resolve.
type Contact struct {
	// Correction is the world-space displacement to add to the character position.
	Correction mgl32.Vec3
	// Velocity is Motion.Velocity after contact response.
	Velocity   mgl32.Vec3
	Grounded   bool
	Candidates int
}

type Resolver struct {
	// Passes re-query the hierarchy with the adjusted segment. One pass
	// accumulates every contact found against the starting segment.
	Passes           int
	Epsilon          float32
	GroundedFraction float32
}

func NewResolver() Resolver {
	return Resolver{
		Passes:           1,
		Epsilon:          DefaultEpsilon,
		GroundedFraction: DefaultGroundedFraction,
	}
}

// Resolve pushes the capsule out of mesh and classifies ground contact. A nil
// mesh, a non-positive radius or a zero-length segment yield a zero correction.
func (r Resolver) Resolve(capsule Capsule, transform Transform, mesh *Mesh, motion Motion) Contact {
	contact := Contact{Velocity: motion.Velocity}
	if mesh == nil || capsule.Radius <= 0 || capsule.Segment.Len() <= contactEpsilon {
		return contact
	}

	toLocal := mesh.toLocal.Mul4(transform.Matrix())
	seg := Segment{
		Start: mgl32.TransformCoordinate(capsule.Segment.Start, toLocal),
		End:   mgl32.TransformCoordinate(capsule.Segment.End, toLocal),
	}
	origin := seg.Start

	passes := max(r.Passes, 1)
	for pass := 0; pass < passes; pass++ {
		box := SegmentAABB(seg, capsule.Radius)
		moved := false

		mesh.bvh.Shapecast(box.Intersects, func(_ int, tri Triangle) bool {
			contact.Candidates++
			push, ok := pushOut(tri, seg, capsule.Radius)
			if !ok {
				return false
			}
			seg.Start = seg.Start.Add(push)
			seg.End = seg.End.Add(push)
			moved = true
			return false
		})

		if !moved {
			break
		}
	}

	delta := mgl32.TransformCoordinate(seg.Start, mesh.World).Sub(mgl32.TransformCoordinate(origin, mesh.World))
	if !finite(delta) {
		return contact
	}

	threshold := float32(math.Abs(float64(motion.Delta * motion.Velocity.Y() * r.GroundedFraction)))
	contact.Grounded = delta.Y() > threshold

	length := delta.Len()
	if length <= 0 {
		return contact
	}
	normal := delta.Mul(1 / length)
	contact.Correction = normal.Mul(max(0, length-r.Epsilon))

	if contact.Grounded {
		contact.Velocity[1] = 0
	} else if into := normal.Dot(motion.Velocity); into < 0 {
		contact.Velocity = motion.Velocity.Sub(normal.Mul(into))
	}

	return contact
}

// pushOut returns the translation moving seg to exactly radius from tri.
func pushOut(tri Triangle, seg Segment, radius float32) (mgl32.Vec3, bool) {
	onTri, onSeg, dist := tri.ClosestPointsToSegment(seg)
	if dist >= radius {
		return mgl32.Vec3{}, false
	}

	var push mgl32.Vec3
	if dist > contactEpsilon {
		push = onSeg.Sub(onTri).Mul((radius - dist) / dist)
	} else {
		// segment touches or pierces the face; leave toward the side its start is on,
		// far enough that the deeper endpoint clears the plane by radius
		n := tri.Normal()
		if n.Dot(seg.Start.Sub(tri.A)) < 0 {
			n = n.Mul(-1)
		}
		depth := max(0, -n.Dot(seg.Start.Sub(tri.A)), -n.Dot(seg.End.Sub(tri.A)))
		push = n.Mul(radius + depth)
	}

	if !finite(push) || push.Dot(push) == 0 {
		return mgl32.Vec3{}, false
	}
	return push, true
}
