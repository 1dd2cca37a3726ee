package document

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagerig/rigsim/backend-go/internal/beam"
	"github.com/stagerig/rigsim/backend-go/internal/fixture"
	"github.com/stagerig/rigsim/backend-go/internal/rig"
)

func newRegistry() *rig.Registry {
	stage := beam.DefaultStage()
	return rig.NewRegistry(fixture.Env{Stage: &stage, Meshes: fixture.NewMeshPool()})
}

func buildRig(t *testing.T, reg *rig.Registry) {
	t.Helper()

	flat, ok := reg.Add("flat")
	require.True(t, ok)
	flat.SetPosition(mgl64.Vec3{-3, 20, 35})
	flat.SetRotation(1, 0, 0)
	flat.SetAngle(0.6)
	flat.SetIntensity(0.58)

	rgb, _ := reg.Add("rgb")
	rgb.SetPosition(mgl64.Vec3{6, 17, 20})
	rgb.SetRotation(0.35, -0.2, 0.1)
	rgb.SetColor(0x336699)
	rgb.SetIntensity(0.24)

	b, _ := reg.Add("beam")
	b.SetPosition(mgl64.Vec3{8, 17, -5})
	b.SetRotation(0.1, 0, -0.2)
	b.SetColor(0xffa54f)
	b.SetAngle(0.27)
	b.SetFocalLength(14)
	b.SetIntensity(2)
	b.UpdateBeamLength()
}

func TestRoundTrip(t *testing.T) {
	src := newRegistry()
	buildRig(t, src)

	data, err := Marshal(src)
	require.NoError(t, err)

	dst := newRegistry()
	res, err := Load(data, dst)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Added)
	assert.Zero(t, res.Skipped)

	want, got := src.All(), dst.All()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.Kind(), g.Kind())
		wp, gp := w.Position(), g.Position()
		assert.InDeltaSlice(t, wp[:], gp[:], 1e-9)
		wr, gr := w.Rotation(), g.Rotation()
		assert.InDeltaSlice(t, wr[:], gr[:], 1e-9)
		assert.Equal(t, w.Color(), g.Color())
		assert.InDelta(t, w.Intensity(), g.Intensity(), 1e-12)
		assert.InDelta(t, w.Angle(), g.Angle(), 1e-12)

		if ws, ok := w.BeamState(); ok {
			gs, ok := g.BeamState()
			require.True(t, ok)
			assert.InDelta(t, ws.FocalLength, gs.FocalLength, 1e-12)
			assert.InDelta(t, ws.Length, gs.Length, 1e-9)
			assert.Equal(t, ws.Visible, gs.Visible)
		}
	}
}

func TestParseRendererRotationForm(t *testing.T) {
	data := []byte(`[
		{"type": "FlatLight", "position": [-1.5, 20, 35], "rotation": [1, 0, 0, "XYZ"],
		 "color": 15908227, "intensity": 0.58, "angle": 0.39269908169872414}
	]`)
	records, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Rotation{1, 0, 0}, records[0].Rotation)
	assert.Equal(t, 0xf2bd83, records[0].Color)

	_, err = Parse([]byte(`[{"type": "FlatLight", "rotation": [1, 0, 0, "ZYX"]}]`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestLoadMalformedLeavesRegistry(t *testing.T) {
	reg := newRegistry()
	buildRig(t, reg)
	before := Serialize(reg)

	for _, bad := range []string{`{"type":`, `{"type": "FlatLight"}`, `null`, ``} {
		_, err := Load([]byte(bad), reg)
		assert.ErrorIs(t, err, ErrMalformed, bad)
	}
	assert.Equal(t, before, Serialize(reg))
}

func TestDeserializeSkipsUnknownKinds(t *testing.T) {
	reg := newRegistry()
	data := []byte(`[
		{"type": "LaserLight", "position": [0, 12, 0], "rotation": [0, 0, 0], "color": 0, "intensity": 1},
		{"type": "RGBLight", "position": [1, 12, 1], "rotation": [0, 0, 0], "color": 255, "intensity": 0.5},
		{"type": "HazeMachine", "position": [0, 0, 0], "rotation": [0, 0, 0], "color": 0, "intensity": 1}
	]`)
	res, err := Load(data, reg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, []string{"LaserLight", "HazeMachine"}, res.SkippedTypes)

	f, ok := reg.Get(1)
	require.True(t, ok)
	assert.Equal(t, fixture.RGB, f.Kind())
	assert.Equal(t, fixture.Color(0x0000ff), f.Color())
}

func TestDeserializeResetsIDs(t *testing.T) {
	reg := newRegistry()
	buildRig(t, reg)
	buildRig(t, reg)
	require.Equal(t, 7, reg.NextID())

	Deserialize(SampleRig(), reg)
	assert.Equal(t, 68, reg.Len())
	f, ok := reg.Get(68)
	require.True(t, ok)
	assert.Equal(t, fixture.Beam, f.Kind())
}

func TestSampleRig(t *testing.T) {
	records := SampleRig()
	require.Len(t, records, 68)

	counts := map[string]int{}
	for _, r := range records {
		counts[r.Type]++
	}
	assert.Equal(t, 16, counts["FlatLight"])
	assert.Equal(t, 42, counts["RGBLight"])
	assert.Equal(t, 10, counts["BeamLight"])

	assert.Equal(t, [3]float64{-1.5, 20, 35}, records[0].Position)
	assert.Equal(t, [3]float64{22.5, 20, 35}, records[8].Position)
	assert.Equal(t, [3]float64{-6, 17, 20}, records[16].Position)
	assert.Equal(t, [3]float64{20, 17, -15}, records[57].Position)
	assert.Equal(t, "BeamLight", records[58].Type)

	// Every sample beam points straight down onto the stage.
	reg := newRegistry()
	Deserialize(records, reg)
	for _, f := range reg.Beams() {
		st, _ := f.BeamState()
		assert.True(t, st.Visible, "beam %d", f.ID())
		assert.InDelta(t, 14.5, st.Length, 1e-9)
		assert.InDelta(t, 0, f.Rotation().Len(), 1e-12)
	}
	require.NotNil(t, records[0].Angle)
	assert.InDelta(t, math.Pi/8, *records[0].Angle, 1e-12)
}
