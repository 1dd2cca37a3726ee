package beam

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagerig/rigsim/backend-go/internal/geom"
)

func TestProjectStraightDown(t *testing.T) {
	p := Project(mgl64.Vec3{0, 12, 0}, mgl64.QuatIdent(), 25, DefaultStage())

	require.True(t, p.Visible)
	assert.Equal(t, ReasonNone, p.Reason)
	assert.InDelta(t, 9.5, p.Distance, 1e-9)
	assert.InDeltaSlice(t, []float64{0, 2.5, 0}, p.Hit[:], 1e-9)
	assert.Equal(t, MaxLength, p.Range)
}

func TestProjectHiddenCases(t *testing.T) {
	stage := DefaultStage()
	tests := []struct {
		name        string
		pos         mgl64.Vec3
		orientation mgl64.Quat
		intensity   float64
		reason      Reason
	}{
		{
			name:        "horizontal aim never meets the top",
			pos:         mgl64.Vec3{0, 12, 0},
			orientation: geom.QuatFromEuler(math.Pi/2, 0, 0),
			intensity:   25,
			reason:      ReasonNoHit,
		},
		{
			name:        "pointing up",
			pos:         mgl64.Vec3{0, 12, 0},
			orientation: geom.QuatFromEuler(math.Pi, 0, 0),
			intensity:   25,
			reason:      ReasonNoHit,
		},
		{
			name:        "hit outside the footprint",
			pos:         mgl64.Vec3{60, 12, 0},
			orientation: mgl64.QuatIdent(),
			intensity:   25,
			reason:      ReasonOffStage,
		},
		{
			name:        "fixture below the stage top",
			pos:         mgl64.Vec3{0, 2, 0},
			orientation: geom.QuatFromEuler(math.Pi, 0, 0),
			intensity:   25,
			reason:      ReasonBelowStage,
		},
		{
			name:        "zero intensity",
			pos:         mgl64.Vec3{0, 12, 0},
			orientation: mgl64.QuatIdent(),
			intensity:   0,
			reason:      ReasonDark,
		},
		{
			name:        "too close to the surface",
			pos:         mgl64.Vec3{0, 2.9, 0},
			orientation: mgl64.QuatIdent(),
			intensity:   25,
			reason:      ReasonTooClose,
		},
		{
			name:        "farther than the ray bound",
			pos:         mgl64.Vec3{0, 250, 0},
			orientation: mgl64.QuatIdent(),
			intensity:   25,
			reason:      ReasonNoHit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(tt.pos, tt.orientation, tt.intensity, stage)
			assert.False(t, p.Visible)
			assert.Equal(t, tt.reason, p.Reason)
		})
	}
}

func TestProjectTilted(t *testing.T) {
	// Tilted 45 degrees about Z: down swings toward +X.
	q := geom.QuatFromEuler(0, 0, math.Pi/4)
	p := Project(mgl64.Vec3{0, 12, 0}, q, 1, DefaultStage())

	require.True(t, p.Visible)
	assert.InDelta(t, 9.5*math.Sqrt2, p.Distance, 1e-9)
	assert.InDelta(t, 9.5, p.Hit.X(), 1e-9)
	assert.InDelta(t, 2.5, p.Hit.Y(), 1e-9)
}

func TestNeedsRebuild(t *testing.T) {
	assert.False(t, NeedsRebuild(100, 100.5))
	assert.False(t, NeedsRebuild(100, 100.9))
	assert.True(t, NeedsRebuild(100, 101.5))
	assert.True(t, NeedsRebuild(MaxLength, 9.5))
	assert.False(t, NeedsRebuild(9.5, 9.5))
}

func TestRange(t *testing.T) {
	assert.Equal(t, MaxLength, Range(9.5))
	assert.Equal(t, 300.0, Range(200))
}

func TestBuildFrustum(t *testing.T) {
	f := BuildFrustum(0.27, 9.5, 10)
	assert.Equal(t, BaseRadius, f.BaseRadius)
	assert.InDelta(t, math.Tan(0.27)*9.5, f.EndRadius, 1e-12)
	assert.Equal(t, 9.5, f.Height)
	assert.Equal(t, -4.75, f.Offset)
	assert.Equal(t, 32, f.RadialSegments)
	assert.Equal(t, 8, f.HeightSegments)
	assert.True(t, f.OpenEnded)

	wide := BuildFrustum(0.27, 9.5, 20)
	assert.InDelta(t, 2*f.EndRadius, wide.EndRadius, 1e-12)
}

func TestStage(t *testing.T) {
	s := DefaultStage()
	require.NoError(t, s.Validate())
	assert.Equal(t, 2.5, s.TopY())
	assert.True(t, s.InFootprint(50, -20))
	assert.False(t, s.InFootprint(50.1, 0))

	lo, hi := s.Bounds()
	assert.Equal(t, mgl64.Vec3{-50, -2.5, -20}, lo)
	assert.Equal(t, mgl64.Vec3{50, 2.5, 20}, hi)

	assert.ErrorIs(t, Stage{Width: 0, Depth: 1, Height: 1}.Validate(), ErrInvalidStage)
}
