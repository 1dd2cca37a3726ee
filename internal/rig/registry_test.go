package rig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagerig/rigsim/backend-go/internal/beam"
	"github.com/stagerig/rigsim/backend-go/internal/fixture"
)

func newTestRegistry(opts ...Option) (*Registry, *fixture.MeshPool) {
	stage := beam.DefaultStage()
	pool := fixture.NewMeshPool()
	return NewRegistry(fixture.Env{Stage: &stage, Meshes: pool}, opts...), pool
}

func TestAddAssignsIDsAndDefaults(t *testing.T) {
	r, _ := newTestRegistry(WithRandom(func() float64 { return 0.75 }))

	flat, ok := r.Add("flat")
	require.True(t, ok)
	rgb, _ := r.Add("rgb")
	b, _ := r.Add("beam")

	assert.Equal(t, 1, flat.ID())
	assert.Equal(t, 2, rgb.ID())
	assert.Equal(t, 3, b.ID())
	assert.Equal(t, 4, r.NextID())

	assert.Equal(t, 1.5, flat.Intensity())
	assert.Equal(t, 1.5, rgb.Intensity())
	assert.Equal(t, 25.0, b.Intensity())

	pos := flat.Position()
	assert.InDelta(t, 2.5, pos.X(), 1e-12)
	assert.Equal(t, PlacementHeight, pos.Y())
	assert.InDelta(t, 2.5, pos.Z(), 1e-12)

	st, ok := b.BeamState()
	require.True(t, ok)
	assert.True(t, st.AutoUpdate)
	assert.True(t, st.Visible)
	assert.InDelta(t, 9.5, st.Length, 1e-9)
}

func TestAddJitterBounds(t *testing.T) {
	r, _ := newTestRegistry()
	for i := 0; i < 200; i++ {
		f, ok := r.Add("rgb")
		require.True(t, ok)
		p := f.Position()
		assert.GreaterOrEqual(t, p.X(), -PlacementJitter)
		assert.Less(t, p.X(), PlacementJitter)
		assert.GreaterOrEqual(t, p.Z(), -PlacementJitter)
		assert.Less(t, p.Z(), PlacementJitter)
	}
}

func TestAddUnknownKind(t *testing.T) {
	r, pool := newTestRegistry()
	f, ok := r.Add("fog")
	assert.False(t, ok)
	assert.Nil(t, f)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 1, r.NextID())
	assert.Equal(t, 0, pool.Builds())
}

func TestQueries(t *testing.T) {
	r, _ := newTestRegistry()
	for _, k := range []string{"flat", "flat", "rgb", "beam", "rgb", "beam"} {
		_, ok := r.Add(k)
		require.True(t, ok)
	}

	assert.Len(t, r.ByKind(fixture.Flat), 2)
	assert.Len(t, r.Beams(), 2)

	ids := func(fs []*fixture.Fixture) []int {
		var out []int
		for _, f := range fs {
			out = append(out, f.ID())
		}
		return out
	}
	assert.Equal(t, []int{2, 3, 4}, ids(r.ByIDRange(2, 4)))
	assert.Empty(t, r.ByIDRange(10, 20))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ids(r.All()))
}

func TestRemoveRunsHooksAndReleasesGeometry(t *testing.T) {
	r, pool := newTestRegistry()
	b, _ := r.Add("beam")
	f, _ := r.Add("flat")
	require.Equal(t, 1, pool.Live())

	var removed []int
	r.OnRemove(func(f *fixture.Fixture) { removed = append(removed, f.ID()) })

	assert.True(t, r.Remove(b.ID()))
	assert.False(t, r.Remove(b.ID()))
	assert.Equal(t, []int{b.ID()}, removed)
	assert.Equal(t, 0, pool.Live())
	assert.True(t, b.Disposed())
	assert.False(t, r.Has(b.ID()))
	assert.True(t, r.Has(f.ID()))
	assert.Equal(t, 1, r.Len())
}

func TestReset(t *testing.T) {
	r, pool := newTestRegistry()
	var removed int
	r.OnRemove(func(*fixture.Fixture) { removed++ })

	for i := 0; i < 3; i++ {
		r.Add("beam")
	}
	r.Reset()

	assert.Equal(t, 3, removed)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, pool.Live())

	f, _ := r.Add("flat")
	assert.Equal(t, 1, f.ID())
}
