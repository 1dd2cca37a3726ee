package beam

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stagerig/rigsim/backend-go/internal/geom"
)

const (
	// MaxLength bounds the projection ray and is the length a beam starts with.
	MaxLength = 200.0
	// Hysteresis is the relative length change below which geometry is kept.
	Hysteresis = 0.01
	// MinDistance is the distance at or below which the beam counts as beneath the stage.
	MinDistance = 0.5

	BaseRadius     = 0.1
	RadialSegments = 32
	HeightSegments = 8
	// FocalBaseline is the focal length at which the cone spread equals tan(angle).
	FocalBaseline = 10.0
	RangeFactor   = 1.5
)

// Reason names the gate that hid a beam. It is empty for a visible beam.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonNoHit      Reason = "no_hit"
	ReasonOffStage   Reason = "off_stage"
	ReasonBelowStage Reason = "below_stage"
	ReasonDark       Reason = "dark"
	ReasonTooClose   Reason = "too_close"
)

// Projection is the outcome of casting a fixture's beam at the stage top.
type Projection struct {
	Visible  bool       `json:"visible"`
	Hit      mgl64.Vec3 `json:"hit"`
	Distance float64    `json:"distance"`
	Range    float64    `json:"range"`
	Reason   Reason     `json:"reason,omitempty"`
}

// Project casts a ray from pos along the fixture's local down axis and tests it
// against the stage top. A hidden projection carries no length information;
// callers must leave their cached geometry alone.
func Project(pos mgl64.Vec3, orientation mgl64.Quat, intensity float64, stage Stage) Projection {
	ray := geom.NewRay(pos, geom.DownOf(orientation)).Bounded(MaxLength)

	hit, dist, ok := ray.IntersectHorizontal(stage.TopY())
	if !ok {
		return Projection{Reason: ReasonNoHit}
	}
	if !stage.InFootprint(hit.X(), hit.Z()) {
		return Projection{Hit: hit, Reason: ReasonOffStage}
	}
	if pos.Y()-stage.TopY() <= 0 {
		return Projection{Hit: hit, Reason: ReasonBelowStage}
	}
	if intensity <= 0 {
		return Projection{Hit: hit, Reason: ReasonDark}
	}
	if dist <= MinDistance {
		return Projection{Hit: hit, Distance: dist, Reason: ReasonTooClose}
	}

	return Projection{
		Visible:  true,
		Hit:      hit,
		Distance: dist,
		Range:    Range(dist),
	}
}

// NeedsRebuild reports whether a beam drawn at length cached should be rebuilt
// for a new distance.
func NeedsRebuild(cached, distance float64) bool {
	return math.Abs(distance-cached) > cached*Hysteresis
}

// Range is the light falloff distance for a beam that hits the stage at distance.
func Range(distance float64) float64 {
	return math.Max(distance*RangeFactor, MaxLength)
}

// Frustum describes the open truncated cone drawn for a beam. The cone starts at
// the fixture and widens along local down. Offset is the cone center along local
// Y so that the narrow end sits at the fixture.
type Frustum struct {
	BaseRadius     float64 `json:"baseRadius"`
	EndRadius      float64 `json:"endRadius"`
	Height         float64 `json:"height"`
	RadialSegments int     `json:"radialSegments"`
	HeightSegments int     `json:"heightSegments"`
	OpenEnded      bool    `json:"openEnded"`
	Offset         float64 `json:"offset"`
}

// BuildFrustum computes the frustum for a cone half-angle, a length and a focal
// length. Focal length scales the end radius linearly around FocalBaseline.
func BuildFrustum(angle, length, focal float64) Frustum {
	return Frustum{
		BaseRadius:     BaseRadius,
		EndRadius:      math.Tan(angle) * length * (focal / FocalBaseline),
		Height:         length,
		RadialSegments: RadialSegments,
		HeightSegments: HeightSegments,
		OpenEnded:      true,
		Offset:         -length / 2,
	}
}
