// Package beam decides whether a beam fixture's light cone reaches the stage
// and computes the frustum it should be drawn with.
package beam

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidStage = errors.New("stage dimensions must be positive")

// Stage is an axis-aligned box centered at the origin. X spans Width, Z spans
// Depth and Y spans Height, so the top face sits at y = Height/2.
type Stage struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// DefaultStage returns the 100x40x5 stage the editor starts with.
func DefaultStage() Stage {
	return Stage{Width: 100, Depth: 40, Height: 5}
}

func (s Stage) Validate() error {
	if s.Width <= 0 || s.Depth <= 0 || s.Height <= 0 ||
		math.IsNaN(s.Width) || math.IsNaN(s.Depth) || math.IsNaN(s.Height) {
		return ErrInvalidStage
	}
	return nil
}

// TopY is the height of the stage surface.
func (s Stage) TopY() float64 {
	return s.Height / 2
}

// InFootprint reports whether (x, z) lies over the stage, edges included.
func (s Stage) InFootprint(x, z float64) bool {
	return math.Abs(x) <= s.Width/2 && math.Abs(z) <= s.Depth/2
}

// Bounds returns the min and max corners of the stage box.
func (s Stage) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	half := mgl64.Vec3{s.Width / 2, s.Height / 2, s.Depth / 2}
	return half.Mul(-1), half
}
