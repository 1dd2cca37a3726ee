package document

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stagerig/rigsim/backend-go/internal/fixture"
	"github.com/stagerig/rigsim/backend-go/internal/rig"
)

// Result summarizes a load.
type Result struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	// SkippedTypes lists the type tags that were not recognized, in file order.
	SkippedTypes []string `json:"skippedTypes,omitempty"`
}

// Serialize produces one record per fixture, in registry order.
func Serialize(reg *rig.Registry) []Record {
	fixtures := reg.All()
	records := make([]Record, 0, len(fixtures))
	for _, f := range fixtures {
		records = append(records, RecordOf(f))
	}
	return records
}

// RecordOf converts one fixture. Beams add focal and beam length.
func RecordOf(f *fixture.Fixture) Record {
	r := Record{
		Type:      f.Kind().TypeName(),
		Position:  [3]float64(f.Position()),
		Rotation:  Rotation(f.Rotation()),
		Color:     int(f.Color()),
		Intensity: f.Intensity(),
		Angle:     float64Ptr(f.Angle()),
	}
	if st, ok := f.BeamState(); ok {
		r.FocalLength = float64Ptr(st.FocalLength)
		r.BeamLength = float64Ptr(st.Length)
	}
	return r
}

// Marshal serializes the registry as an indented scene file.
func Marshal(reg *rig.Registry) ([]byte, error) {
	data, err := json.MarshalIndent(Serialize(reg), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	return data, nil
}

// Deserialize replaces the registry contents with records. Records of an
// unknown type are skipped and counted. Ids restart at 1.
func Deserialize(records []Record, reg *rig.Registry) Result {
	reg.Reset()

	var res Result
	for _, r := range records {
		kind, ok := fixture.KindFromTypeName(r.Type)
		if !ok {
			res.Skipped++
			res.SkippedTypes = append(res.SkippedTypes, r.Type)
			continue
		}
		f, ok := reg.AddKind(kind)
		if !ok {
			res.Skipped++
			res.SkippedTypes = append(res.SkippedTypes, r.Type)
			continue
		}
		d := Descriptor(r, f)
		f.Apply(d, d.Position)
		res.Added++
	}
	return res
}

// Descriptor builds the descriptor a record describes. Values a record omits
// come from the fixture f the record is applied to.
func Descriptor(r Record, f *fixture.Fixture) fixture.Descriptor {
	d := fixture.Descriptor{
		Kind:      f.Kind(),
		Position:  mgl64.Vec3(r.Position),
		Rotation:  mgl64.Vec3(r.Rotation),
		Color:     fixture.Color(r.Color) & fixture.White,
		Intensity: r.Intensity,
		Angle:     f.Angle(),
		Penumbra:  f.Penumbra(),
	}
	if r.Angle != nil {
		d.Angle = *r.Angle
	}

	if st, ok := f.BeamState(); ok {
		p := &fixture.BeamParams{
			FocalLength:    st.FocalLength,
			BeamLength:     st.Length,
			StageBoundaryY: st.StageBoundaryY,
			AutoUpdate:     st.AutoUpdate,
		}
		if r.FocalLength != nil {
			p.FocalLength = *r.FocalLength
		}
		if r.BeamLength != nil {
			p.BeamLength = *r.BeamLength
		}
		d.Beam = p
	}
	return d
}

// Load parses data and, only if it is well formed, replaces the registry
// contents. On a parse error the registry is untouched.
func Load(data []byte, reg *rig.Registry) (Result, error) {
	records, err := Parse(data)
	if err != nil {
		return Result{}, err
	}
	return Deserialize(records, reg), nil
}
