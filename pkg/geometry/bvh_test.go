package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// linearHit finds the nearest hit by testing every shape
func linearHit(shapes []Shape, ray core.Ray) (*HitRecord, bool) {
	var closest *HitRecord
	for _, shape := range shapes {
		if hit, ok := shape.Hit(ray); ok && (closest == nil || hit.Distance < closest.Distance) {
			closest = hit
		}
	}
	return closest, closest != nil
}

func randomScene(t *testing.T, random *rand.Rand, count int) []Shape {
	t.Helper()
	shapes := make([]Shape, 0, count+2)
	for i := 0; i < count; i++ {
		center := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		shapes = append(shapes, mustSphere(t, center, 0.2+random.Float64(), material.Default()))
	}
	shapes = append(shapes, mustPlane(t, core.NewVec3(0, -12, 0), core.NewVec3(0, 1, 0)))
	shapes = append(shapes, mustTriangle(t, vertex(-5, 0, -15), vertex(5, 0, -15), vertex(0, 8, -15), material.Default()))
	return shapes
}

func TestBVH_MatchesLinearScan(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	shapes := randomScene(t, random, 60)
	bvh := NewBVH(shapes)

	for i := 0; i < 500; i++ {
		origin := core.NewVec3(random.Float64()*40-20, random.Float64()*40-20, random.Float64()*40-20)
		direction := core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1)
		if direction.IsZero() {
			continue
		}
		ray := core.NewRay(origin, direction)

		expected, expectedOK := linearHit(shapes, ray)
		got, gotOK := bvh.Hit(ray)
		if expectedOK != gotOK {
			t.Fatalf("ray %d: linear hit=%v, bvh hit=%v", i, expectedOK, gotOK)
		}
		if expectedOK && math.Abs(expected.Distance-got.Distance) > 1e-9 {
			t.Errorf("ray %d: linear t=%f, bvh t=%f", i, expected.Distance, got.Distance)
		}
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil)
	if _, ok := bvh.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))); ok {
		t.Error("Expected empty BVH to report no hit")
	}
	if bvh.BoundingBox().IsValid() {
		t.Error("Expected empty BVH to have an empty bounding box")
	}
	if stats := bvh.Stats(); stats.TotalNodes != 0 {
		t.Errorf("Expected no nodes, got %d", stats.TotalNodes)
	}
}

func TestBVH_SingleShape(t *testing.T) {
	sphere := mustSphere(t, core.NewVec3(0, 0, -5), 1, material.Default())
	bvh := NewBVH([]Shape{sphere})

	hit, ok := bvh.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.Distance-4) > tolerance {
		t.Errorf("Expected t=4, got %f", hit.Distance)
	}

	stats := bvh.Stats()
	if stats.TotalNodes != 1 || stats.LeafNodes != 1 || stats.MaxDepth != 0 {
		t.Errorf("Unexpected stats for single leaf: %+v", stats)
	}
}

func TestBVH_Structure(t *testing.T) {
	shapes := make([]Shape, 0, 8)
	for i := 0; i < 8; i++ {
		shapes = append(shapes, mustSphere(t, core.NewVec3(float64(i)*3, 0, 0), 1, material.Default()))
	}
	bvh := NewBVH(shapes)

	stats := bvh.Stats()
	if stats.LeafNodes != 8 {
		t.Errorf("Expected one leaf per shape, got %d", stats.LeafNodes)
	}
	if stats.TotalNodes != 2*8-1 {
		t.Errorf("Expected %d nodes, got %d", 2*8-1, stats.TotalNodes)
	}
	if stats.MaxDepth != 3 {
		t.Errorf("Expected balanced depth 3, got %d", stats.MaxDepth)
	}

	// the first split is along x, so the left half holds the four lowest centers
	var leftMax float64
	var collect func(n *BVHNode)
	collect = func(n *BVHNode) {
		if n.Shape != nil {
			leftMax = math.Max(leftMax, n.Shape.Centroid().X)
			return
		}
		collect(n.Left)
		collect(n.Right)
	}
	collect(bvh.Root.Left)
	if leftMax != 9 {
		t.Errorf("Expected left subtree to end at x=9, got %f", leftMax)
	}
}

func TestNewBVH_DoesNotReorderInput(t *testing.T) {
	a := mustSphere(t, core.NewVec3(5, 0, 0), 1, material.Default())
	b := mustSphere(t, core.NewVec3(-5, 0, 0), 1, material.Default())
	shapes := []Shape{a, b}
	NewBVH(shapes)
	if shapes[0] != a || shapes[1] != b {
		t.Error("NewBVH reordered the caller's slice")
	}
}
