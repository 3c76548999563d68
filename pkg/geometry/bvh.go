package geometry

import (
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy.
// A leaf holds exactly one shape; an internal node holds two children.
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Shape       Shape // Non-nil for leaf nodes
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// It is immutable once built and safe for concurrent queries.
type BVH struct {
	Root *BVHNode
}

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{Root: nil}
	}

	// Sorting happens in place, so work on a copy of the caller's slice
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	return &BVH{
		Root: buildBVH(shapesCopy, 0),
	}
}

// buildBVH recursively splits shapes at the median of their centroids,
// cycling the split axis x, y, z with depth
func buildBVH(shapes []Shape, axis int) *BVHNode {
	boundingBox := core.EmptyAABB()
	for _, shape := range shapes {
		boundingBox = boundingBox.Union(shape.BoundingBox())
	}

	if len(shapes) == 1 {
		return &BVHNode{
			BoundingBox: boundingBox,
			Shape:       shapes[0],
		}
	}

	sortShapesByAxis(shapes, axis)

	mid := len(shapes) / 2
	next := (axis + 1) % 3

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(shapes[:mid], next),
		Right:       buildBVH(shapes[mid:], next),
	}
}

// sortShapesByAxis sorts shapes by their centroid along the specified axis
func sortShapesByAxis(shapes []Shape, axis int) {
	sort.SliceStable(shapes, func(i, j int) bool {
		return shapes[i].Centroid().Axis(axis) < shapes[j].Centroid().Axis(axis)
	})
}

// Hit returns the nearest intersection of the ray with any shape in the BVH
func (bvh *BVH) Hit(ray core.Ray) (*HitRecord, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	hit := bvh.hitNode(bvh.Root, ray)
	return hit, hit != nil
}

// hitNode recursively tests ray intersection with BVH nodes
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray) *HitRecord {
	if node == nil || !node.BoundingBox.Hit(ray) {
		return nil
	}

	if node.Shape != nil {
		hit, ok := node.Shape.Hit(ray)
		if !ok {
			return nil
		}
		return hit
	}

	leftHit := bvh.hitNode(node.Left, ray)
	rightHit := bvh.hitNode(node.Right, ray)

	switch {
	case leftHit == nil:
		return rightHit
	case rightHit == nil:
		return leftHit
	case rightHit.Distance < leftHit.Distance:
		return rightHit
	default:
		return leftHit
	}
}

// BoundingBox returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.EmptyAABB()
	}
	return bvh.Root.BoundingBox
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	if bvh.Root == nil {
		return BVHStats{}
	}

	stats := BVHStats{}
	bvh.collectStats(bvh.Root, 0, &stats)
	return stats
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes int
	LeafNodes  int
	MaxDepth   int
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	if node.Shape != nil {
		stats.LeafNodes++
		return
	}
	if node.Left != nil {
		bvh.collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		bvh.collectStats(node.Right, depth+1, stats)
	}
}
