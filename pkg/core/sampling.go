package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// SampleGaussian maps two uniform samples to a standard normal deviate
// using the Box-Muller transform
func SampleGaussian(sample Vec2) float64 {
	// Keep u1 away from zero so the log stays finite
	u1 := math.Max(sample.X, 1e-300)
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*sample.Y)
}

// SampleGaussianVec3 returns a vector of three independent normal deviates
// with the given standard deviation
func SampleGaussianVec3(sampler Sampler, stddev float64) Vec3 {
	return NewVec3(
		SampleGaussian(sampler.Get2D()),
		SampleGaussian(sampler.Get2D()),
		SampleGaussian(sampler.Get2D()),
	).Multiply(stddev)
}

// SamplePolarDisk maps a sample to a point on a disk of the given radius
// with the angle uniform in [0, 2pi) and the radius uniform in [0, radius].
// This is uniform in radius, not in area: points cluster toward the centre.
func SamplePolarDisk(sample Vec2, radius float64) Vec2 {
	theta := sample.X * 2 * math.Pi
	r := sample.Y * radius
	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}
