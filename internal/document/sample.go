package document

import "github.com/stagerig/rigsim/backend-go/internal/fixture"

// Sample rig layout. Ids follow the order of the rows below, which is the
// order the default named groups expect.
const (
	sampleFlatIntensity = 0.58
	sampleParIntensity  = 0.24
	sampleFrontTilt     = 0.35135165124586853
	sampleBeamLength    = 14.5
)

// SampleRig returns the default 68-fixture rig: 16 flats on the front truss,
// four rows of RGB pars and two rows of beams.
func SampleRig() []Record {
	var out []Record

	flat := func(x float64) {
		out = append(out, Record{
			Type:      fixture.Flat.TypeName(),
			Position:  [3]float64{x, 20, 35},
			Rotation:  Rotation{1, 0, 0},
			Color:     int(fixture.DefaultsFor(fixture.Flat).Color),
			Intensity: sampleFlatIntensity,
			Angle:     float64Ptr(fixture.DefaultsFor(fixture.Flat).Angle),
		})
	}
	par := func(x, z, tilt float64) {
		out = append(out, Record{
			Type:      fixture.RGB.TypeName(),
			Position:  [3]float64{x, 17, z},
			Rotation:  Rotation{tilt, 0, 0},
			Color:     int(fixture.White),
			Intensity: sampleParIntensity,
			Angle:     float64Ptr(fixture.DefaultsFor(fixture.RGB).Angle),
		})
	}
	beam := func(x, z, intensity, angle float64) {
		out = append(out, Record{
			Type:        fixture.Beam.TypeName(),
			Position:    [3]float64{x, 17, z},
			Color:       int(fixture.White),
			Intensity:   intensity,
			Angle:       float64Ptr(angle),
			FocalLength: float64Ptr(fixture.DefaultFocalLength),
			BeamLength:  float64Ptr(sampleBeamLength),
		})
	}

	// Flats 1-16: left half outward from center, then right half inward.
	for i := 0; i < 8; i++ {
		flat(-1.5 - 3*float64(i))
	}
	for i := 0; i < 8; i++ {
		flat(22.5 - 3*float64(i))
	}

	// Pars 17-40: two rows of twelve, center four first, then the wings.
	parRowXs := []float64{-6, -2, 2, 6, -22, -18, -14, -10, 10, 14, 18, 22}
	for _, x := range parRowXs {
		par(x, 20, sampleFrontTilt)
	}
	for _, x := range parRowXs {
		par(x, 5, 0)
	}

	// Pars 41-58: two rows of nine.
	backRowXs := []float64{0, 5, 10, 15, -20, -15, -10, -5, 20}
	for _, x := range backRowXs {
		par(x, -5, 0)
	}
	for _, x := range backRowXs {
		par(x, -15, 0)
	}

	// Beams 59-68.
	for _, x := range []float64{-8, 8, 18, -18} {
		beam(x, -5, 2, 0.27)
	}
	for _, x := range []float64{12, 22, -12, -22} {
		beam(x, -15, 3, 0.24)
	}
	for _, x := range []float64{-4, 4} {
		beam(x, -15.3, 3, 0.24)
	}
	return out
}
