package collision

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MaxLeafTriangles = 4
	maxBuildDepth    = 24
)

type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyAABB returns an inverted box that any Grow call will replace.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// SegmentAABB encloses s expanded by radius on every axis.
func SegmentAABB(s Segment, radius float32) AABB {
	return AABB{Min: s.Start, Max: s.Start}.Grow(s.End).Expand(radius)
}

func (b AABB) Grow(p mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{min(b.Min.X(), p.X()), min(b.Min.Y(), p.Y()), min(b.Min.Z(), p.Z())},
		Max: mgl32.Vec3{max(b.Max.X(), p.X()), max(b.Max.Y(), p.Y()), max(b.Max.Z(), p.Z())},
	}
}

func (b AABB) Union(o AABB) AABB {
	return b.Grow(o.Min).Grow(o.Max)
}

func (b AABB) Expand(d float32) AABB {
	e := mgl32.Vec3{d, d, d}
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

func (b AABB) Intersects(o AABB) bool {
	return b.Min.X() <= o.Max.X() && b.Max.X() >= o.Min.X() &&
		b.Min.Y() <= o.Max.Y() && b.Max.Y() >= o.Min.Y() &&
		b.Min.Z() <= o.Max.Z() && b.Max.Z() >= o.Min.Z()
}

func (b AABB) Extent() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Node is one entry of the flattened hierarchy. Interior nodes have Left and Right
// set and LeafCount zero; leaves reference Indices[LeafFirst:LeafFirst+LeafCount].
type Node struct {
	Bounds    AABB
	Left      int32
	Right     int32
	LeafFirst int32
	LeafCount int32
}

func (n Node) IsLeaf() bool {
	return n.LeafCount > 0
}

// BVH is a bounding volume hierarchy over an immutable triangle slice.
type BVH struct {
	Nodes     []Node
	Indices   []int
	triangles []Triangle
}

type buildItem struct {
	bounds   AABB
	centroid mgl32.Vec3
	index    int
}

// BuildBVH splits along the longest axis of each node's bounds at the median
// centroid until a node holds at most MaxLeafTriangles triangles.
func BuildBVH(triangles []Triangle) *BVH {
	bvh := &BVH{triangles: triangles}
	if len(triangles) == 0 {
		return bvh
	}

	items := make([]buildItem, len(triangles))
	for i, tri := range triangles {
		items[i] = buildItem{
			bounds:   tri.Bounds(),
			centroid: tri.Centroid(),
			index:    i,
		}
	}

	bvh.Nodes = make([]Node, 0, 2*len(triangles)/MaxLeafTriangles+1)
	bvh.Indices = make([]int, 0, len(triangles))
	bvh.recursiveBuild(items, 0)
	return bvh
}

func (b *BVH) recursiveBuild(items []buildItem, depth int) int32 {
	idx := int32(len(b.Nodes))
	b.Nodes = append(b.Nodes, Node{Left: -1, Right: -1, LeafFirst: -1})

	bounds := EmptyAABB()
	for _, it := range items {
		bounds = bounds.Union(it.bounds)
	}
	b.Nodes[idx].Bounds = bounds

	if len(items) <= MaxLeafTriangles || depth >= maxBuildDepth {
		b.Nodes[idx].LeafFirst = int32(len(b.Indices))
		b.Nodes[idx].LeafCount = int32(len(items))
		for _, it := range items {
			b.Indices = append(b.Indices, it.index)
		}
		return idx
	}

	extent := bounds.Extent()
	axis := 0
	if extent.Y() > extent.X() {
		axis = 1
	}
	if extent.Z() > extent[axis] {
		axis = 2
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].centroid[axis] < items[j].centroid[axis]
	})

	mid := len(items) / 2
	left := b.recursiveBuild(items[:mid], depth+1)
	right := b.recursiveBuild(items[mid:], depth+1)
	b.Nodes[idx].Left = left
	b.Nodes[idx].Right = right

	return idx
}

func (b *BVH) Triangles() []Triangle {
	return b.triangles
}

func (b *BVH) Bounds() AABB {
	if len(b.Nodes) == 0 {
		return EmptyAABB()
	}
	return b.Nodes[0].Bounds
}

// Shapecast walks every node whose bounds pass intersectsBounds and hands the
// triangles of the leaves it reaches to visit. Traversal stops early once visit
// returns true.
func (b *BVH) Shapecast(intersectsBounds func(AABB) bool, visit func(index int, tri Triangle) bool) {
	if b == nil || len(b.Nodes) == 0 {
		return
	}

	stack := make([]int32, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		ni := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &b.Nodes[ni]
		if !intersectsBounds(node.Bounds) {
			continue
		}

		if node.IsLeaf() {
			for _, ti := range b.Indices[node.LeafFirst : node.LeafFirst+node.LeafCount] {
				if visit(ti, b.triangles[ti]) {
					return
				}
			}
			continue
		}

		stack = append(stack, node.Right, node.Left)
	}
}

// QueryAABB returns the indices of triangles whose leaf bounds overlap box.
func (b *BVH) QueryAABB(box AABB) []int {
	var out []int
	b.Shapecast(box.Intersects, func(index int, tri Triangle) bool {
		if tri.Bounds().Intersects(box) {
			out = append(out, index)
		}
		return false
	})
	return out
}
