package engine

import (
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagerig/rigsim/backend-go/internal/beam"
	"github.com/stagerig/rigsim/backend-go/internal/fixture"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{
		WithRandom(func() float64 { return 0.5 }),
		WithLogger(slog.New(slog.DiscardHandler)),
	}, opts...)
	return NewEngine(opts...)
}

func addAt(t *testing.T, e *Engine, token string, pos mgl64.Vec3) *fixture.Fixture {
	t.Helper()
	f, err := e.AddFixture(token)
	require.NoError(t, err)
	f.SetPosition(pos)
	f.UpdateBeamLength()
	return f
}

func screenOf(t *testing.T, e *Engine, f *fixture.Fixture) (float64, float64) {
	t.Helper()
	x, y, ok := e.ScreenPosition(f)
	require.True(t, ok)
	return x, y
}

func TestAddFixture(t *testing.T) {
	e := newTestEngine(t)

	f, err := e.AddFixture("beam")
	require.NoError(t, err)
	assert.Equal(t, 1, f.ID())
	assert.Equal(t, mgl64.Vec3{0, 12, 0}, f.Position())

	st, _ := f.BeamState()
	assert.True(t, st.Visible)
	assert.InDelta(t, 9.5, st.Length, 1e-9)

	_, err = e.AddFixture("smoke")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, 1, e.Registry().Len())
}

func TestRemovePrunesSessionState(t *testing.T) {
	e := newTestEngine(t)
	b := addAt(t, e, "beam", mgl64.Vec3{0, 12, 0})
	f := addAt(t, e, "flat", mgl64.Vec3{5, 12, 0})

	e.Select([]int{b.ID(), f.ID()}, Replace)
	_, err := e.SetAim(true)
	require.NoError(t, err)
	require.NoError(t, e.ToggleAxes())
	require.True(t, e.Aiming())

	require.NoError(t, e.RemoveFixture(b.ID()))
	assert.Equal(t, []int{f.ID()}, e.Selection())
	assert.Empty(t, e.AimSet())
	_, ok := e.Indicator(b.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, e.Meshes().Live())

	assert.ErrorIs(t, e.RemoveFixture(b.ID()), ErrUnknownFixture)
}

func TestResizeStageRebuildsBeams(t *testing.T) {
	e := newTestEngine(t)
	b := addAt(t, e, "beam", mgl64.Vec3{0, 12, 0})

	require.NoError(t, e.ResizeStage(beam.Stage{Width: 100, Depth: 40, Height: 10}))
	st, _ := b.BeamState()
	assert.InDelta(t, 7, st.Length, 1e-9)
	assert.True(t, st.Visible)

	// A stage narrower than the fixture offset hides the beam.
	b.SetPosition(mgl64.Vec3{30, 12, 0})
	b.UpdateBeamLength()
	require.NoError(t, e.ResizeStage(beam.Stage{Width: 20, Depth: 40, Height: 5}))
	assert.False(t, b.Visible())

	assert.ErrorIs(t, e.ResizeStage(beam.Stage{Width: -1, Depth: 1, Height: 1}), beam.ErrInvalidStage)
	assert.Equal(t, 20.0, e.Stage().Width)
}

func TestTick(t *testing.T) {
	e := newTestEngine(t)
	b := addAt(t, e, "beam", mgl64.Vec3{0, 12, 0})
	addAt(t, e, "rgb", mgl64.Vec3{3, 12, 0})

	stats := e.Tick()
	assert.Zero(t, stats.BeamsUpdated, "nothing moved")

	b.SetPosition(mgl64.Vec3{0, 16, 0})
	stats = e.Tick()
	assert.Equal(t, 1, stats.BeamsUpdated)
	assert.Equal(t, 1, stats.Rebuilds)
	st, _ := b.BeamState()
	assert.InDelta(t, 13.5, st.Length, 1e-9)

	// Beams without auto update wait for an explicit projection.
	b.SetAutoUpdate(false)
	b.SetPosition(mgl64.Vec3{0, 20, 0})
	assert.Zero(t, e.Tick().BeamsUpdated)
	assert.True(t, b.NeedsUpdate())

	assert.Zero(t, e.Tick().LabelsTurned)
	e.ToggleLabels()
	assert.Equal(t, 2, e.Tick().LabelsTurned)
	ind, ok := e.Indicator(b.ID())
	require.True(t, ok)
	assert.True(t, ind.LabelVisible)
	assert.InDelta(t, 1, ind.LabelOrientation.Len(), 1e-9)
}

func TestMeshesStayBounded(t *testing.T) {
	e := newTestEngine(t)
	var beams []*fixture.Fixture
	for i := 0; i < 5; i++ {
		beams = append(beams, addAt(t, e, "beam", mgl64.Vec3{float64(i*4 - 8), 12, 0}))
	}

	e.Select(ids(beams), Replace)
	for i := 0; i < 30; i++ {
		require.NoError(t, e.SetSelectionAngle(0.1+float64(i%4)*0.1))
		require.NoError(t, e.MoveSelection(AxisY, 12+float64(i%7)))
		e.Tick()
	}
	assert.Equal(t, len(beams), e.Meshes().Live())

	_, err := e.DeleteSelection()
	require.NoError(t, err)
	assert.Equal(t, 0, e.Meshes().Live())
}

func TestReset(t *testing.T) {
	e := newTestEngine(t)
	f := addAt(t, e, "rgb", mgl64.Vec3{0, 12, 0})
	e.Select([]int{f.ID()}, Replace)
	_, err := e.Copy()
	require.NoError(t, err)
	e.SetBoxMode(true)
	require.True(t, e.BeginBox(1, 1, Modifiers{}))

	e.Reset()
	assert.Zero(t, e.Registry().Len())
	assert.Empty(t, e.Selection())
	assert.Empty(t, e.Clipboard())
	assert.False(t, e.BoxMode())
	_, live := e.BoxRect()
	assert.False(t, live)

	g, _ := e.AddFixture("flat")
	assert.Equal(t, 1, g.ID())
}

func TestResetSelected(t *testing.T) {
	e := newTestEngine(t)
	rgb := addAt(t, e, "rgb", mgl64.Vec3{-5, 12, 0})
	flat := addAt(t, e, "flat", mgl64.Vec3{0, 12, 0})
	b := addAt(t, e, "beam", mgl64.Vec3{5, 12, 0})
	b.SetRotation(0.5, 0.2, 0)
	b.SetColor(0xff00ff)

	assert.ErrorIs(t, e.ResetSelected(), ErrEmptySelection)

	e.Select([]int{rgb.ID(), flat.ID(), b.ID()}, Replace)
	action, err := e.Key("Tab", Modifiers{})
	require.NoError(t, err)
	assert.Equal(t, ActionReset, action)

	assert.Equal(t, fixture.White, rgb.Color())
	assert.Equal(t, 0.24, rgb.Intensity())
	assert.Equal(t, 0.58, flat.Intensity())

	assert.Equal(t, fixture.White, b.Color())
	assert.Equal(t, 2.0, b.Intensity())
	assert.Equal(t, 0.24, b.Angle())
	r := b.Rotation()
	assert.InDeltaSlice(t, []float64{0, 0, 0}, r[:], 1e-12)
	st, _ := b.BeamState()
	assert.True(t, st.Visible)
	assert.InDelta(t, 9.5, st.Length, 1e-9)
}

func TestScene(t *testing.T) {
	e := newTestEngine(t)
	res := e.LoadSample()
	assert.Equal(t, 68, res.Added)

	require.NoError(t, e.SelectGroup("beam2"))
	assert.Equal(t, []int{63, 64, 65, 66, 67, 68}, e.Selection())

	data, err := e.SaveScene()
	require.NoError(t, err)

	_, err = e.LoadScene([]byte("not json"))
	assert.True(t, IsMalformed(err))
	assert.Equal(t, 68, e.Registry().Len())
	assert.Len(t, e.Selection(), 6, "a failed load keeps the selection")

	other := newTestEngine(t)
	res, err = other.LoadScene(data)
	require.NoError(t, err)
	assert.Equal(t, 68, res.Added)
	assert.Empty(t, other.Selection())
}
