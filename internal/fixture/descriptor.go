package fixture

import "github.com/go-gl/mathgl/mgl64"

// BeamParams are the beam-only parameters of a descriptor.
type BeamParams struct {
	FocalLength    float64 `json:"focalLength"`
	BeamLength     float64 `json:"beamLength"`
	StageBoundaryY float64 `json:"stageBoundaryY"`
	AutoUpdate     bool    `json:"autoUpdate"`
}

// Descriptor is a value snapshot of a fixture's configuration, detached from
// its identity. Clipboard entries and scene records are built from it.
type Descriptor struct {
	Kind      Kind        `json:"kind"`
	Position  mgl64.Vec3  `json:"position"`
	Rotation  mgl64.Vec3  `json:"rotation"`
	Color     Color       `json:"color"`
	Intensity float64     `json:"intensity"`
	Angle     float64     `json:"angle"`
	Penumbra  float64     `json:"penumbra"`
	Beam      *BeamParams `json:"beam,omitempty"`
}

func (f *Fixture) Describe() Descriptor {
	d := Descriptor{
		Kind:      f.kind,
		Position:  f.position,
		Rotation:  f.Rotation(),
		Color:     f.color,
		Intensity: f.intensity,
		Angle:     f.angle,
		Penumbra:  f.penumbra,
	}
	if b := f.beam; b != nil {
		d.Beam = &BeamParams{
			FocalLength:    b.focalLength,
			BeamLength:     b.length,
			StageBoundaryY: b.stageBoundaryY,
			AutoUpdate:     b.autoUpdate,
		}
	}
	return d
}

// Apply configures the fixture from d, placed at position. Shared fields go
// first (position, rotation, color, intensity), then the kind's own setters,
// then a beam projection. Kind-specific fields of a descriptor of another
// kind are ignored.
func (f *Fixture) Apply(d Descriptor, position mgl64.Vec3) {
	f.SetPosition(position)
	f.SetRotation(d.Rotation[0], d.Rotation[1], d.Rotation[2])
	f.SetColor(d.Color)
	f.SetIntensity(d.Intensity)
	if d.Kind != f.kind {
		return
	}
	f.SetPenumbra(d.Penumbra)

	switch f.kind {
	case Flat:
		f.SetAngle(d.Angle)
	case Beam:
		f.SetAngle(d.Angle)
		if p := d.Beam; p != nil {
			f.SetFocalLength(p.FocalLength)
			f.SetBeamLength(p.BeamLength)
			f.SetStageBoundary(p.StageBoundaryY)
			f.SetAutoUpdate(p.AutoUpdate)
		}
		f.UpdateBeamLength()
	case RGB:
	}
}
