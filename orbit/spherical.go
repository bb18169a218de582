package orbit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon keeps the polar angle off the poles and is the change threshold for Update.
const Epsilon = 1e-6

// Spherical coordinates around +Y. Phi is measured from +Y, Theta around +Y from +Z.
type Spherical struct {
	Radius float32
	Phi    float32
	Theta  float32
}

func (s *Spherical) SetFromVector(v mgl32.Vec3) {
	s.Radius = v.Len()
	if s.Radius == 0 {
		s.Theta = 0
		s.Phi = 0
		return
	}
	s.Theta = float32(math.Atan2(float64(v.X()), float64(v.Z())))
	s.Phi = float32(math.Acos(float64(mgl32.Clamp(v.Y()/s.Radius, -1, 1))))
}

func (s Spherical) Vector() mgl32.Vec3 {
	sinPhi, cosPhi := math.Sincos(float64(s.Phi))
	sinTheta, cosTheta := math.Sincos(float64(s.Theta))
	r := float64(s.Radius)
	return mgl32.Vec3{
		float32(r * sinPhi * sinTheta),
		float32(r * cosPhi),
		float32(r * sinPhi * cosTheta),
	}
}

// MakeSafe moves Phi off the exact poles.
func (s *Spherical) MakeSafe() {
	s.Phi = mgl32.Clamp(s.Phi, Epsilon, math.Pi-Epsilon)
}

// moduloWrap maps v into [0, m).
func moduloWrap(v, m float64) float64 {
	return math.Mod(math.Mod(v, m)+m, m)
}

// wrapPi maps an angle into (-π, π].
func wrapPi(a float32) float32 {
	return float32(math.Pi - moduloWrap(math.Pi-float64(a), 2*math.Pi))
}

// shortestDelta returns the signed angle that moves current onto target the short
// way around the circle.
func shortestDelta(current, target float32) float32 {
	const twoPi = 2 * math.Pi

	to := moduloWrap(float64(target), twoPi)
	from := float64(current)
	if from < 0 {
		from += twoPi
	}

	dist := math.Abs(to - from)
	if twoPi-dist < dist {
		if to < from {
			to += twoPi
		} else {
			from += twoPi
		}
	}
	return float32(to - from)
}

// clampAzimuth restricts theta to [lo, hi]. Both limits are folded into [-π, π]
// first, so a window may straddle the ±π seam (lo > hi after folding).
func clampAzimuth(theta, lo, hi float32) float32 {
	if isInf(lo) || isInf(hi) || isNaN(lo) || isNaN(hi) {
		return theta
	}

	const twoPi = 2 * math.Pi
	if lo < -math.Pi {
		lo += twoPi
	} else if lo > math.Pi {
		lo -= twoPi
	}
	if hi < -math.Pi {
		hi += twoPi
	} else if hi > math.Pi {
		hi -= twoPi
	}

	if lo <= hi {
		return max(lo, min(hi, theta))
	}
	if theta > (lo+hi)/2 {
		return max(lo, theta)
	}
	return min(hi, theta)
}

func isInf(v float32) bool {
	return math.IsInf(float64(v), 0)
}

func isNaN(v float32) bool {
	return math.IsNaN(float64(v))
}
