package fixture

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stagerig/rigsim/backend-go/internal/beam"
	"github.com/stagerig/rigsim/backend-go/internal/geom"
)

// Env is what a fixture needs from the editor session: the live stage it
// projects onto and the allocator for its geometry.
type Env struct {
	Stage  *beam.Stage
	Meshes Meshes
}

func (e Env) withDefaults() Env {
	if e.Stage == nil {
		s := beam.DefaultStage()
		e.Stage = &s
	}
	if e.Meshes == nil {
		e.Meshes = NewMeshPool()
	}
	return e
}

// Pose is a position plus orientation.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

func (p Pose) equal(o Pose) bool {
	return p.Position == o.Position && geom.SameOrientation(p.Orientation, o.Orientation)
}

// Fixture is a single light on the rig. Only beam fixtures carry beam state.
type Fixture struct {
	id          int
	kind        Kind
	position    mgl64.Vec3
	orientation mgl64.Quat
	color       Color
	intensity   float64
	angle       float64
	penumbra    float64

	beam     *beamPart
	env      Env
	disposed bool
}

// New constructs a fixture of the given kind with its construction defaults.
// A beam fixture builds its initial geometry at beam.MaxLength.
func New(kind Kind, id int, env Env) (*Fixture, bool) {
	d := DefaultsFor(kind)
	if d == (Defaults{}) {
		return nil, false
	}

	f := &Fixture{
		id:          id,
		kind:        kind,
		orientation: mgl64.QuatIdent(),
		color:       d.Color,
		intensity:   d.BaseIntensity,
		angle:       d.Angle,
		penumbra:    d.Penumbra,
		env:         env.withDefaults(),
	}

	switch kind {
	case Beam:
		f.beam = &beamPart{
			focalLength:    DefaultFocalLength,
			length:         beam.MaxLength,
			stageBoundaryY: DefaultStageBoundaryY,
			visible:        true,
			rangeDist:      beam.MaxLength,
		}
		f.beam.lastPose = f.Pose()
		f.rebuild(beam.MaxLength)
		f.UpdateBeamLength()
	case Flat, RGB:
	}
	return f, true
}

// NewFromToken parses a kind token and constructs the fixture. An unknown token
// yields nil and false.
func NewFromToken(token string, id int, env Env) (*Fixture, bool) {
	kind, ok := ParseKind(token)
	if !ok {
		return nil, false
	}
	return New(kind, id, env)
}

// --- Queries ---

func (f *Fixture) ID() int                 { return f.id }
func (f *Fixture) Kind() Kind              { return f.kind }
func (f *Fixture) Position() mgl64.Vec3    { return f.position }
func (f *Fixture) Orientation() mgl64.Quat { return f.orientation }
func (f *Fixture) Color() Color            { return f.color }
func (f *Fixture) Intensity() float64      { return f.intensity }
func (f *Fixture) Angle() float64          { return f.angle }
func (f *Fixture) Penumbra() float64       { return f.penumbra }
func (f *Fixture) IsBeam() bool            { return f.beam != nil }
func (f *Fixture) Disposed() bool          { return f.disposed }
func (f *Fixture) Pose() Pose              { return Pose{f.position, f.orientation} }
func (f *Fixture) Direction() mgl64.Vec3   { return geom.DownOf(f.orientation) }
func (f *Fixture) PickRadius() float64     { return DefaultsFor(f.kind).PickRadius }

// Rotation returns the orientation as XYZ Euler angles in radians.
func (f *Fixture) Rotation() mgl64.Vec3 {
	return geom.EulerFromQuat(f.orientation)
}

// Visible reports whether the fixture's light output is drawn. Beams follow
// the projection gate; other kinds are visible while lit.
func (f *Fixture) Visible() bool {
	if f.beam != nil {
		return f.beam.visible
	}
	return f.intensity > 0
}

// --- Shared setters ---

func (f *Fixture) SetColor(c Color) {
	f.color = c & White
}

// SetIntensity clamps negative values to 0. A beam set to 0 hides at once;
// a positive value re-runs the full projection.
func (f *Fixture) SetIntensity(v float64) {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	f.intensity = v

	if f.beam == nil {
		return
	}
	if v <= 0 {
		f.beam.visible = false
		f.beam.reason = beam.ReasonDark
		return
	}
	f.UpdateBeamLength()
}

func (f *Fixture) SetPenumbra(v float64) {
	f.penumbra = mgl64.Clamp(v, 0, 1)
}

func (f *Fixture) SetPosition(p mgl64.Vec3) {
	f.position = p
	f.touchPose()
}

// SetRotation sets the orientation from XYZ Euler angles in radians.
func (f *Fixture) SetRotation(x, y, z float64) {
	f.SetOrientation(geom.QuatFromEuler(x, y, z))
}

func (f *Fixture) SetOrientation(q mgl64.Quat) {
	f.orientation = q.Normalize()
	f.touchPose()
}

// LookAt turns the fixture so its local down axis points at target. A beam
// recomputes its projection immediately. Returns false when target coincides
// with the fixture position.
func (f *Fixture) LookAt(target mgl64.Vec3) bool {
	q, ok := geom.AimAt(f.position, target)
	if !ok {
		return false
	}
	f.SetOrientation(q)
	if f.beam != nil {
		f.UpdateBeamLength()
	}
	return true
}

// SetAngle sets the cone half-angle. Beams clamp to [MinBeamAngle, MaxBeamAngle]
// and rebuild; flats clamp to [MinFlatAngle, MaxFlatAngle]. RGB has no angle
// control and returns false.
func (f *Fixture) SetAngle(a float64) bool {
	switch f.kind {
	case Flat:
		f.angle = mgl64.Clamp(a, MinFlatAngle, MaxFlatAngle)
		return true
	case Beam:
		f.angle = mgl64.Clamp(a, MinBeamAngle, MaxBeamAngle)
		f.beam.invalid = true
		f.UpdateBeamLength()
		return true
	case RGB:
	}
	return false
}

// Dispose releases geometry. A disposed fixture builds nothing further.
func (f *Fixture) Dispose() {
	if f.disposed {
		return
	}
	if f.beam != nil && f.beam.mesh != 0 {
		f.env.Meshes.Release(f.beam.mesh)
		f.beam.mesh = 0
		f.beam.visible = false
	}
	f.disposed = true
}

func (f *Fixture) touchPose() {
	if f.beam == nil {
		return
	}
	if !f.Pose().equal(f.beam.lastPose) {
		f.beam.dirty = true
	}
}
