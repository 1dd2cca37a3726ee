package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line with an optional far bound. Dir is always normalized.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
	Far    float64
}

// NewRay creates an unbounded ray. dir is normalized.
func NewRay(origin, dir mgl64.Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize(), Far: math.Inf(1)}
}

// Bounded returns a copy of the ray that ignores hits beyond far.
func (r Ray) Bounded(far float64) Ray {
	r.Far = far
	return r
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectPlane intersects the ray with the plane n·p + constant = 0.
// Returns the hit point, its distance, and whether a hit exists within Far.
func (r Ray) IntersectPlane(normal mgl64.Vec3, constant float64) (mgl64.Vec3, float64, bool) {
	denom := normal.Dot(r.Dir)
	if denom == 0 {
		// Parallel: only a ray lying in the plane touches it, at its origin.
		if normal.Dot(r.Origin)+constant == 0 {
			return r.Origin, 0, true
		}
		return mgl64.Vec3{}, 0, false
	}

	t := -(r.Origin.Dot(normal) + constant) / denom
	if t < 0 || t > r.Far {
		return mgl64.Vec3{}, 0, false
	}
	return r.At(t), t, true
}

// IntersectHorizontal intersects the ray with the plane y = height.
func (r Ray) IntersectHorizontal(height float64) (mgl64.Vec3, float64, bool) {
	return r.IntersectPlane(Up, -height)
}

// IntersectBox intersects the ray with an axis-aligned box and returns the entry
// point (or the exit point if the origin is inside the box).
func (r Ray) IntersectBox(min, max mgl64.Vec3) (mgl64.Vec3, float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	for i := 0; i < 3; i++ {
		if r.Dir[i] == 0 {
			if r.Origin[i] < min[i] || r.Origin[i] > max[i] {
				return mgl64.Vec3{}, 0, false
			}
			continue
		}
		inv := 1 / r.Dir[i]
		t0 := (min[i] - r.Origin[i]) * inv
		t1 := (max[i] - r.Origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = math.Max(tmin, t0)
		tmax = math.Min(tmax, t1)
		if tmin > tmax {
			return mgl64.Vec3{}, 0, false
		}
	}

	if tmax < 0 {
		return mgl64.Vec3{}, 0, false
	}
	t := tmin
	if t < 0 {
		t = tmax
	}
	if t > r.Far {
		return mgl64.Vec3{}, 0, false
	}
	return r.At(t), t, true
}

// IntersectSphere returns the distance to the first hit with a sphere.
func (r Ray) IntersectSphere(center mgl64.Vec3, radius float64) (float64, bool) {
	v := center.Sub(r.Origin)
	tca := v.Dot(r.Dir)
	d2 := v.Dot(v) - tca*tca
	r2 := radius * radius
	if d2 > r2 {
		return 0, false
	}

	thc := math.Sqrt(r2 - d2)
	t0 := tca - thc
	t1 := tca + thc
	if t1 < 0 {
		return 0, false
	}
	if t0 < 0 {
		t0 = t1
	}
	if t0 > r.Far {
		return 0, false
	}
	return t0, true
}
