// Package orbit implements an orbit camera rig: a camera held at a spherical
// offset around a target it always looks at.
package orbit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/roam/input"
)

// RotationSource supplies the per-frame rotation deltas the rig consumes.
type RotationSource interface {
	InputState() input.State
}

// View is the camera transform published to change listeners.
type View struct {
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	Orientation mgl32.Quat
}

type pointerState int

const (
	pointerIdle pointerState = iota
	pointerRotate
	pointerDolly
)

type listener struct {
	id uuid.UUID
	fn func(View)
}

// Rig holds the camera position around Target. Limits are applied by Update:
// MinPolarAngle <= phi <= MaxPolarAngle, MinDistance <= radius <= MaxDistance,
// and theta stays inside [MinAzimuthAngle, MaxAzimuthAngle] when both are finite.
// Limits with min > max are not rejected; clamping then favours the minimum.
type Rig struct {
	Target      mgl32.Vec3
	Position    mgl32.Vec3
	Up          mgl32.Vec3
	Orientation mgl32.Quat

	MinDistance     float32
	MaxDistance     float32
	MinPolarAngle   float32
	MaxPolarAngle   float32
	MinAzimuthAngle float32
	MaxAzimuthAngle float32

	EnableDamping bool
	DampingFactor float32

	EnableRotate bool
	EnableZoom   bool
	// RotateSensitivity scales the rotation deltas read from the source.
	RotateSensitivity float32
	// RotateSpeed scales pointer drags.
	RotateSpeed float32
	ZoomSpeed   float32
	// ViewportHeight converts pointer drags into angles; a full-height drag is one turn.
	ViewportHeight float32

	source RotationSource

	spherical      Spherical
	sphericalDelta Spherical
	scale          float32

	pointer      pointerState
	pointerStart mgl32.Vec2

	lastPosition    mgl32.Vec3
	lastOrientation mgl32.Quat

	// offset and spherical are authoritative while Position, Target and Up are
	// exactly what the rig last wrote; float32 Position-Target loses the offset
	// once the target is far from the origin.
	offset         mgl32.Vec3
	placedPosition mgl32.Vec3
	placedTarget   mgl32.Vec3
	placedUp       mgl32.Vec3
	placed         bool

	savedTarget   mgl32.Vec3
	savedPosition mgl32.Vec3

	listeners []listener
}

type Option func(*Rig)

func WithRotationSource(src RotationSource) Option {
	return func(r *Rig) { r.source = src }
}

func WithDamping(factor float32) Option {
	return func(r *Rig) {
		r.EnableDamping = true
		r.DampingFactor = factor
	}
}

func WithoutDamping() Option {
	return func(r *Rig) { r.EnableDamping = false }
}

func WithDistanceLimits(min, max float32) Option {
	return func(r *Rig) { r.MinDistance, r.MaxDistance = min, max }
}

func WithPolarLimits(min, max float32) Option {
	return func(r *Rig) { r.MinPolarAngle, r.MaxPolarAngle = min, max }
}

func WithAzimuthLimits(min, max float32) Option {
	return func(r *Rig) { r.MinAzimuthAngle, r.MaxAzimuthAngle = min, max }
}

func WithSensitivity(s float32) Option {
	return func(r *Rig) { r.RotateSensitivity = s }
}

func WithUp(up mgl32.Vec3) Option {
	return func(r *Rig) { r.Up = up }
}

// New places the camera at position looking at target, applies the options,
// records the reset state and runs a first Update.
func New(position, target mgl32.Vec3, opts ...Option) *Rig {
	inf := float32(math.Inf(1))
	r := &Rig{
		Target:            target,
		Position:          position,
		Up:                mgl32.Vec3{0, 1, 0},
		Orientation:       mgl32.QuatIdent(),
		MinDistance:       0,
		MaxDistance:       inf,
		MinPolarAngle:     0,
		MaxPolarAngle:     math.Pi,
		MinAzimuthAngle:   -inf,
		MaxAzimuthAngle:   inf,
		EnableDamping:     true,
		DampingFactor:     0.05,
		EnableRotate:      true,
		EnableZoom:        true,
		RotateSensitivity: 0.01,
		RotateSpeed:       1,
		ZoomSpeed:         1,
		ViewportHeight:    720,
		scale:             1,
		lastOrientation:   mgl32.QuatIdent(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.SaveState()
	r.Update()
	return r
}

// Update consumes pending rotation and zoom, applies the limits and moves the
// camera. It reports whether the camera moved or turned noticeably.
func (r *Rig) Update() bool {
	worldUp := mgl32.Vec3{0, 1, 0}
	toYUp := mgl32.QuatBetweenVectors(r.upAxis(), worldUp)
	fromYUp := toYUp.Inverse()

	if !r.untouched() {
		r.spherical.SetFromVector(toYUp.Rotate(r.Position.Sub(r.Target)))
	}

	if r.source != nil && r.EnableRotate {
		in := r.source.InputState()
		r.RotateLeft(in.RotateHorizontal * r.RotateSensitivity)
		r.RotateUp(-in.RotateVertical * r.RotateSensitivity)
	}

	if r.EnableDamping {
		r.spherical.Theta += r.sphericalDelta.Theta * r.DampingFactor
		r.spherical.Phi += r.sphericalDelta.Phi * r.DampingFactor
	} else {
		r.spherical.Theta += r.sphericalDelta.Theta
		r.spherical.Phi += r.sphericalDelta.Phi
	}

	r.spherical.Theta = clampAzimuth(wrapPi(r.spherical.Theta), r.MinAzimuthAngle, r.MaxAzimuthAngle)
	r.spherical.Phi = mgl32.Clamp(r.spherical.Phi, r.MinPolarAngle, r.MaxPolarAngle)
	r.spherical.MakeSafe()

	r.spherical.Radius = mgl32.Clamp(r.spherical.Radius*r.scale, r.MinDistance, r.MaxDistance)

	r.place(fromYUp.Rotate(r.spherical.Vector()))
	r.lookAtTarget()

	if r.EnableDamping {
		r.sphericalDelta.Theta *= 1 - r.DampingFactor
		r.sphericalDelta.Phi *= 1 - r.DampingFactor
	} else {
		r.sphericalDelta = Spherical{}
	}
	r.scale = 1

	moved := r.lastPosition.Sub(r.Position)
	if moved.Dot(moved) > Epsilon || 8*(1-r.lastOrientation.Dot(r.Orientation)) > Epsilon {
		r.lastPosition = r.Position
		r.lastOrientation = r.Orientation
		r.emit()
		return true
	}
	return false
}

func (r *Rig) upAxis() mgl32.Vec3 {
	if r.Up.Dot(r.Up) == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return r.Up.Normalize()
}

// untouched reports whether nothing outside the rig has moved the camera since
// it was last placed.
func (r *Rig) untouched() bool {
	return r.placed && r.Position == r.placedPosition && r.Target == r.placedTarget && r.Up == r.placedUp
}

func (r *Rig) place(offset mgl32.Vec3) {
	r.offset = offset
	r.Position = r.Target.Add(offset)
	r.placedPosition = r.Position
	r.placedTarget = r.Target
	r.placedUp = r.Up
	r.placed = true
}

func (r *Rig) currentOffset() mgl32.Vec3 {
	if r.untouched() {
		return r.offset
	}
	return r.Position.Sub(r.Target)
}

func (r *Rig) lookAtTarget() {
	if r.offset.Dot(r.offset) == 0 {
		return
	}
	// LookAtV yields the world-to-view rotation; the camera's own orientation is its
	// inverse. Only the direction matters, so it is taken about the origin.
	q := mgl32.Mat4ToQuat(mgl32.LookAtV(r.offset, mgl32.Vec3{}, r.upAxis())).Conjugate().Normalize()
	if math.IsNaN(float64(q.W)) {
		return
	}
	r.Orientation = q
}

// RotateLeft queues a turn around the up axis.
func (r *Rig) RotateLeft(angle float32) {
	r.sphericalDelta.Theta -= angle
}

// RotateUp queues a change of the polar angle: a positive angle decreases phi and
// raises the camera over the target. Update passes -RotateVertical, so positive
// vertical input (pointer moved up) lowers the camera and tilts the view up.
func (r *Rig) RotateUp(angle float32) {
	r.sphericalDelta.Phi -= angle
}

// SetPolarAngle moves phi to value along the shortest way round and updates.
func (r *Rig) SetPolarAngle(value float32) {
	r.sphericalDelta.Phi = shortestDelta(r.spherical.Phi, value)
	r.Update()
}

// SetAzimuthalAngle moves theta to value along the shortest way round and updates.
func (r *Rig) SetAzimuthalAngle(value float32) {
	r.sphericalDelta.Theta = shortestDelta(r.spherical.Theta, value)
	r.Update()
}

func (r *Rig) PolarAngle() float32 {
	return r.spherical.Phi
}

func (r *Rig) AzimuthalAngle() float32 {
	return r.spherical.Theta
}

func (r *Rig) Distance() float32 {
	return r.currentOffset().Len()
}

// Forward is the direction the camera looks along.
func (r *Rig) Forward() mgl32.Vec3 {
	return r.Orientation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (r *Rig) ViewMatrix() mgl32.Mat4 {
	if r.Position.Sub(r.Target).Dot(r.Position.Sub(r.Target)) == 0 {
		return mgl32.Translate3D(-r.Position.X(), -r.Position.Y(), -r.Position.Z())
	}
	return mgl32.LookAtV(r.Position, r.Target, r.upAxis())
}

// MoveTarget shifts the target to p and carries the camera along by the same amount.
func (r *Rig) MoveTarget(p mgl32.Vec3) {
	offset := r.currentOffset()
	r.Target = p
	r.place(offset)
}

func (r *Rig) SetRotationSource(src RotationSource) {
	r.source = src
}

func (r *Rig) zoomScale() float32 {
	return float32(math.Pow(0.95, float64(r.ZoomSpeed)))
}

// DollyIn brings the camera closer on the next Update.
func (r *Rig) DollyIn(scale float32) {
	if scale > 0 {
		r.scale *= scale
	}
}

// DollyOut moves the camera away on the next Update.
func (r *Rig) DollyOut(scale float32) {
	if scale > 0 {
		r.scale /= scale
	}
}

// HandleWheel zooms by one step per call. Negative dy zooms in.
func (r *Rig) HandleWheel(dy float32) {
	if !r.EnableZoom || r.pointer == pointerDolly {
		return
	}
	switch {
	case dy < 0:
		r.DollyIn(r.zoomScale())
	case dy > 0:
		r.DollyOut(r.zoomScale())
	default:
		return
	}
	r.Update()
}

func (r *Rig) BeginRotate(x, y float32) {
	r.pointer = pointerRotate
	r.pointerStart = mgl32.Vec2{x, y}
}

func (r *Rig) BeginDolly(x, y float32) {
	r.pointer = pointerDolly
	r.pointerStart = mgl32.Vec2{x, y}
}

// PointerMove drives whichever drag is active; it is ignored while idle.
func (r *Rig) PointerMove(x, y float32) {
	end := mgl32.Vec2{x, y}
	delta := end.Sub(r.pointerStart)

	switch r.pointer {
	case pointerRotate:
		if !r.EnableRotate {
			return
		}
		h := r.ViewportHeight
		if h <= 0 {
			h = 1
		}
		delta = delta.Mul(r.RotateSpeed)
		r.RotateLeft(2 * math.Pi * delta.X() / h)
		r.RotateUp(2 * math.Pi * delta.Y() / h)
	case pointerDolly:
		if !r.EnableZoom {
			return
		}
		if delta.Y() > 0 {
			r.DollyOut(r.zoomScale())
		} else if delta.Y() < 0 {
			r.DollyIn(r.zoomScale())
		}
	default:
		return
	}

	r.pointerStart = end
	r.Update()
}

func (r *Rig) EndPointer() {
	r.pointer = pointerIdle
}

func (r *Rig) SaveState() {
	r.savedTarget = r.Target
	r.savedPosition = r.Position
}

// Reset restores the saved target and position and drops pending motion.
func (r *Rig) Reset() {
	r.Target = r.savedTarget
	r.Position = r.savedPosition
	r.sphericalDelta = Spherical{}
	r.scale = 1
	r.pointer = pointerIdle
	r.emit()
	r.Update()
}

// OnChange registers fn to run whenever Update moves the camera.
func (r *Rig) OnChange(fn func(View)) uuid.UUID {
	id := uuid.New()
	r.listeners = append(r.listeners, listener{id: id, fn: fn})
	return id
}

func (r *Rig) RemoveListener(id uuid.UUID) bool {
	for i, l := range r.listeners {
		if l.id == id {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Rig) View() View {
	return View{Position: r.Position, Target: r.Target, Orientation: r.Orientation}
}

func (r *Rig) emit() {
	v := r.View()
	for _, l := range r.listeners {
		l.fn(v)
	}
}
