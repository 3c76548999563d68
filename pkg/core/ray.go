package core

// Ray represents a ray with an origin and direction.
// The direction is not required to be unit length; code that relies on
// its norm normalizes at the point of use.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Epsilon is the tolerance used for determinant and distance checks
const Epsilon = 1e-8

// SurfaceOffset is how far secondary rays are pushed off a surface along
// its normal before being cast
const SurfaceOffset = 1e-6
