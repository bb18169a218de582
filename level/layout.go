package level

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/roam/collision"
)

type Kind string

const (
	KindPlane  Kind = "plane"
	KindBox    Kind = "box"
	KindRamp   Kind = "ramp"
	KindStairs Kind = "stairs"
)

// Shape describes one piece of the level. Plane and box use Center and Size
// (a plane ignores Size.Y); ramp and stairs are anchored at Base and turned by
// YawDegrees.
type Shape struct {
	Kind       Kind       `yaml:"kind"`
	Center     mgl32.Vec3 `yaml:"center,omitempty"`
	Size       mgl32.Vec3 `yaml:"size,omitempty"`
	Base       mgl32.Vec3 `yaml:"base,omitempty"`
	Width      float32    `yaml:"width,omitempty"`
	Length     float32    `yaml:"length,omitempty"`
	Height     float32    `yaml:"height,omitempty"`
	Steps      int        `yaml:"steps,omitempty"`
	StepDepth  float32    `yaml:"step_depth,omitempty"`
	StepHeight float32    `yaml:"step_height,omitempty"`
	YawDegrees float32    `yaml:"yaw,omitempty"`
}

func (s Shape) yaw() float32 {
	return mgl32.DegToRad(s.YawDegrees)
}

// Triangles expands the shape into world-space triangles.
func (s Shape) Triangles() ([]collision.Triangle, error) {
	switch s.Kind {
	case KindPlane:
		if s.Size.X() <= 0 || s.Size.Z() <= 0 {
			return nil, fmt.Errorf("plane needs positive size x and z, got %v", s.Size)
		}
		return Plane(s.Center, s.Size.X(), s.Size.Z()), nil
	case KindBox:
		if s.Size.X() <= 0 || s.Size.Y() <= 0 || s.Size.Z() <= 0 {
			return nil, fmt.Errorf("box needs a positive size, got %v", s.Size)
		}
		return Box(s.Center, s.Size), nil
	case KindRamp:
		if s.Width <= 0 || s.Length <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("ramp needs positive width, length and height")
		}
		return Ramp(s.Base, s.Width, s.Length, s.Height, s.yaw()), nil
	case KindStairs:
		if s.Steps <= 0 || s.Width <= 0 || s.StepDepth <= 0 || s.StepHeight <= 0 {
			return nil, fmt.Errorf("stairs need positive steps, width, step_depth and step_height")
		}
		return Stairs(s.Base, s.Steps, s.Width, s.StepDepth, s.StepHeight, s.yaw()), nil
	default:
		return nil, fmt.Errorf("unknown shape kind %q", s.Kind)
	}
}

type Layout struct {
	Name   string  `yaml:"name"`
	Shapes []Shape `yaml:"shapes"`
}

// Build merges every shape's triangles in order into one list.
func (l Layout) Build() ([]collision.Triangle, error) {
	var tris []collision.Triangle
	for i, s := range l.Shapes {
		st, err := s.Triangles()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		tris = append(tris, st...)
	}
	return tris, nil
}

// Mesh builds the layout into a collision mesh placed at the world origin.
func (l Layout) Mesh() (*collision.Mesh, error) {
	tris, err := l.Build()
	if err != nil {
		return nil, fmt.Errorf("build layout %q: %w", l.Name, err)
	}
	return collision.NewMesh(l.Name, tris, mgl32.Ident4())
}

func Parse(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	return l, nil
}

func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout %s: %w", path, err)
	}
	l, err := Parse(data)
	if err != nil {
		return Layout{}, fmt.Errorf("%s: %w", path, err)
	}
	if l.Name == "" {
		l.Name = path
	}
	return l, nil
}

// Default is a 40 by 40 floor with a few boxes, a ramp and a staircase, all
// clear of the spawn point at (0, 2, 4).
func Default() Layout {
	return Layout{
		Name: "default",
		Shapes: []Shape{
			{Kind: KindPlane, Center: mgl32.Vec3{0, 0, 0}, Size: mgl32.Vec3{40, 0, 40}},
			{Kind: KindBox, Center: mgl32.Vec3{4, 0.5, -4}, Size: mgl32.Vec3{1, 1, 1}},
			{Kind: KindBox, Center: mgl32.Vec3{-5, 1, -6}, Size: mgl32.Vec3{2, 2, 2}},
			{Kind: KindBox, Center: mgl32.Vec3{6, 0.25, 3}, Size: mgl32.Vec3{3, 0.5, 3}},
			{Kind: KindRamp, Base: mgl32.Vec3{-6, 0, 4}, Width: 3, Length: 6, Height: 1.5},
			{Kind: KindRamp, Base: mgl32.Vec3{12, 0, 6}, Width: 2, Length: 4, Height: 1, YawDegrees: 90},
			{Kind: KindStairs, Base: mgl32.Vec3{0, 0, -8}, Steps: 6, Width: 2, StepDepth: 0.5, StepHeight: 0.2},
			{Kind: KindBox, Center: mgl32.Vec3{10, 1.5, -10}, Size: mgl32.Vec3{1, 3, 8}},
		},
	}
}
