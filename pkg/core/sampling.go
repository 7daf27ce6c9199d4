package core

import (
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator.
// It is not safe for concurrent use; give each goroutine its own.
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

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// RandomRange returns a random float64 in [lo, hi)
func RandomRange(sampler Sampler, lo, hi float64) float64 {
	return lo + (hi-lo)*sampler.Get1D()
}

// RandomVec3 returns a vector with each component uniform in [lo, hi)
func RandomVec3(sampler Sampler, lo, hi float64) Vec3 {
	u := sampler.Get3D()
	return NewVec3(lo+(hi-lo)*u.X, lo+(hi-lo)*u.Y, lo+(hi-lo)*u.Z)
}

// RandomInUnitSphere rejection-samples a uniform point inside the unit ball.
// About two draws are needed on average (cube volume 8 over ball volume 4π/3).
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		p := RandomVec3(sampler, -1, 1)
		if p.LengthSquared() <= 1.0 {
			return p
		}
	}
}

// RandomUnitVector returns a uniformly distributed direction on the unit sphere
func RandomUnitVector(sampler Sampler) Vec3 {
	for {
		p := RandomInUnitSphere(sampler)
		if lensq := p.LengthSquared(); lensq > 1e-160 {
			return p.Normalize()
		}
	}
}

// RandomInHemisphere returns a point in the unit ball on the same side as normal
func RandomInHemisphere(normal Vec3, sampler Sampler) Vec3 {
	p := RandomInUnitSphere(sampler)
	if p.Dot(normal) > 0 {
		return p
	}
	return p.Negate()
}

// RandomInUnitDisk generates a random point in a unit disk (for depth of field)
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1] x [-1,1] square
		u := sampler.Get2D()
		p := NewVec3(2*u.X-1, 2*u.Y-1, 0)
		// Accept if inside unit disk
		if p.LengthSquared() <= 1.0 {
			return p
		}
	}
}
