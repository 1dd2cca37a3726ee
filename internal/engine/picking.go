package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stagerig/rigsim/backend-go/internal/fixture"
)

// PickFixture returns the fixture whose body is hit first by the camera ray
// through screen point (x, y).
func (e *Engine) PickFixture(x, y float64) (*fixture.Fixture, bool) {
	ray := e.camera.RayAt(x, y)

	var best *fixture.Fixture
	bestDist := math.Inf(1)
	for _, f := range e.reg.All() {
		d, ok := ray.IntersectSphere(f.Position(), f.PickRadius())
		if ok && d < bestDist {
			best, bestDist = f, d
		}
	}
	return best, best != nil
}

// StageHit returns the point where the camera ray through (x, y) meets the
// stage box.
func (e *Engine) StageHit(x, y float64) (mgl64.Vec3, bool) {
	lo, hi := e.stage.Bounds()
	p, _, ok := e.camera.RayAt(x, y).IntersectBox(lo, hi)
	return p, ok
}

// ScreenPosition projects a fixture position into the viewport.
func (e *Engine) ScreenPosition(f *fixture.Fixture) (float64, float64, bool) {
	return e.camera.Project(f.Position())
}
