package fixture

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stagerig/rigsim/backend-go/internal/beam"
)

type beamPart struct {
	focalLength    float64
	length         float64
	stageBoundaryY float64
	autoUpdate     bool

	visible   bool
	rangeDist float64
	hit       mgl64.Vec3
	reason    beam.Reason

	mesh     MeshHandle
	frustum  beam.Frustum
	rebuilds int

	lastPose Pose
	dirty    bool
	invalid  bool
}

// BeamState is a read-only snapshot of a beam fixture's projection.
type BeamState struct {
	FocalLength    float64      `json:"focalLength"`
	Length         float64      `json:"beamLength"`
	StageBoundaryY float64      `json:"stageBoundaryY"`
	AutoUpdate     bool         `json:"autoUpdate"`
	Visible        bool         `json:"visible"`
	Range          float64      `json:"range"`
	Hit            mgl64.Vec3   `json:"hit"`
	Reason         beam.Reason  `json:"reason,omitempty"`
	Mesh           MeshHandle   `json:"mesh"`
	Frustum        beam.Frustum `json:"frustum"`
	Rebuilds       int          `json:"rebuilds"`
	Dirty          bool         `json:"-"`
}

// BeamState returns the beam snapshot, or false for non-beam fixtures.
func (f *Fixture) BeamState() (BeamState, bool) {
	b := f.beam
	if b == nil {
		return BeamState{}, false
	}
	return BeamState{
		FocalLength:    b.focalLength,
		Length:         b.length,
		StageBoundaryY: b.stageBoundaryY,
		AutoUpdate:     b.autoUpdate,
		Visible:        b.visible,
		Range:          b.rangeDist,
		Hit:            b.hit,
		Reason:         b.reason,
		Mesh:           b.mesh,
		Frustum:        b.frustum,
		Rebuilds:       b.rebuilds,
		Dirty:          b.dirty,
	}, true
}

// NeedsUpdate reports whether a beam's pose changed since its last projection.
func (f *Fixture) NeedsUpdate() bool {
	return f.beam != nil && f.beam.dirty
}

// SetFocalLength clamps to [MinFocalLength, MaxFocalLength] and rebuilds.
func (f *Fixture) SetFocalLength(v float64) bool {
	if f.beam == nil {
		return false
	}
	if math.IsNaN(v) {
		v = DefaultFocalLength
	}
	f.beam.focalLength = mgl64.Clamp(v, MinFocalLength, MaxFocalLength)
	f.beam.invalid = true
	f.UpdateBeamLength()
	return true
}

// SetBeamLength rebuilds the geometry at an explicit length. The next
// projection still applies the hysteresis against it.
func (f *Fixture) SetBeamLength(l float64) bool {
	if f.beam == nil || !(l > 0) {
		return false
	}
	f.rebuild(l)
	return true
}

func (f *Fixture) SetStageBoundary(y float64) bool {
	if f.beam == nil {
		return false
	}
	f.beam.stageBoundaryY = y
	f.UpdateBeamLength()
	return true
}

func (f *Fixture) SetAutoUpdate(on bool) bool {
	if f.beam == nil {
		return false
	}
	f.beam.autoUpdate = on
	return true
}

// Invalidate forces the next projection to rebuild geometry regardless of the
// hysteresis. Stage resizes call it on every beam.
func (f *Fixture) Invalidate() {
	if f.beam != nil {
		f.beam.invalid = true
	}
}

// UpdateBeamLength projects the beam onto the stage. Hidden beams keep their
// cached length. A visible beam rebuilds when the distance moved by more than
// beam.Hysteresis or the geometry was invalidated. Returns true on a rebuild.
func (f *Fixture) UpdateBeamLength() bool {
	b := f.beam
	if b == nil || f.disposed {
		return false
	}
	b.lastPose = f.Pose()
	b.dirty = false

	if f.intensity <= 0 {
		b.visible = false
		b.reason = beam.ReasonDark
		return f.flushInvalid()
	}

	p := beam.Project(f.position, f.orientation, f.intensity, *f.env.Stage)
	b.reason = p.Reason
	b.hit = p.Hit
	if !p.Visible {
		b.visible = false
		return f.flushInvalid()
	}

	b.visible = true
	b.rangeDist = p.Range
	if b.invalid || beam.NeedsRebuild(b.length, p.Distance) {
		f.rebuild(p.Distance)
		return true
	}
	return false
}

// flushInvalid rebuilds an invalidated hidden beam at its cached length so the
// geometry matches the current angle and focal length when it reappears.
func (f *Fixture) flushInvalid() bool {
	if !f.beam.invalid {
		return false
	}
	f.rebuild(f.beam.length)
	return true
}

func (f *Fixture) rebuild(length float64) {
	b := f.beam
	if f.disposed {
		return
	}
	if b.mesh != 0 {
		f.env.Meshes.Release(b.mesh)
		b.mesh = 0
	}
	b.length = length
	b.frustum = beam.BuildFrustum(f.angle, length, b.focalLength)
	b.mesh = f.env.Meshes.Build(b.frustum)
	b.rebuilds++
	b.invalid = false
}
