package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagerig/rigsim/backend-go/internal/fixture"
)

// threeInARow places rgb pars at x = -5, 5 and 30 on the same height so the
// first two can be boxed without the third.
func threeInARow(t *testing.T, e *Engine) (a, b, c *fixture.Fixture) {
	t.Helper()
	a = addAt(t, e, "rgb", mgl64.Vec3{-5, 12, 0})
	b = addAt(t, e, "rgb", mgl64.Vec3{5, 12, 0})
	c = addAt(t, e, "rgb", mgl64.Vec3{30, 12, 0})
	return a, b, c
}

func TestClick(t *testing.T) {
	e := newTestEngine(t)
	a, b, _ := threeInARow(t, e)
	ax, ay := screenOf(t, e, a)
	bx, by := screenOf(t, e, b)

	res := e.Click(ax, ay, Modifiers{})
	assert.Equal(t, a.ID(), res.Picked)
	assert.Equal(t, []int{a.ID()}, e.Selection())

	e.Click(bx, by, Modifiers{Ctrl: true})
	assert.Equal(t, []int{a.ID(), b.ID()}, e.Selection())

	e.Click(ax, ay, Modifiers{Meta: true})
	assert.Equal(t, []int{b.ID()}, e.Selection())

	e.Click(ax, ay, Modifiers{})
	assert.Equal(t, []int{a.ID()}, e.Selection())

	res = e.Click(0, 0, Modifiers{})
	assert.Zero(t, res.Picked)
	assert.Empty(t, e.Selection())
}

func TestClickIgnoredInBoxMode(t *testing.T) {
	e := newTestEngine(t)
	a, _, _ := threeInARow(t, e)
	e.SetBoxMode(true)

	ax, ay := screenOf(t, e, a)
	e.Click(ax, ay, Modifiers{})
	assert.Empty(t, e.Selection())
}

func boxAround(t *testing.T, e *Engine, fs ...*fixture.Fixture) (x0, y0, x1, y1 float64) {
	t.Helper()
	x0, y0 = screenOf(t, e, fs[0])
	x1, y1 = x0, y0
	for _, f := range fs[1:] {
		x, y := screenOf(t, e, f)
		x0, x1 = min(x0, x), max(x1, x)
		y0, y1 = min(y0, y), max(y1, y)
	}
	return x0 - 5, y0 - 5, x1 + 5, y1 + 5
}

func TestBoxSelectReplaces(t *testing.T) {
	e := newTestEngine(t)
	a, b, c := threeInARow(t, e)
	e.Select([]int{c.ID()}, Replace)

	assert.False(t, e.BeginBox(0, 0, Modifiers{}), "box mode is off")

	_, err := e.Key("Shift", Modifiers{Shift: true})
	require.NoError(t, err)
	require.True(t, e.BoxMode())

	x0, y0, x1, y1 := boxAround(t, e, a, b)
	require.True(t, e.BeginBox(x0, y0, Modifiers{}))
	require.True(t, e.MoveBox(x1, y0))
	rect, live := e.BoxRect()
	require.True(t, live)
	assert.InDelta(t, x1-x0, rect.Width, 1e-9)

	inside, ok := e.EndBox(x1, y1)
	require.True(t, ok)
	assert.ElementsMatch(t, []int{a.ID(), b.ID()}, inside)
	assert.ElementsMatch(t, []int{a.ID(), b.ID()}, e.Selection())

	_, live = e.BoxRect()
	assert.False(t, live)
}

func TestBoxSelectUnion(t *testing.T) {
	e := newTestEngine(t)
	a, b, c := threeInARow(t, e)
	e.Select([]int{c.ID()}, Replace)
	e.SetBoxMode(true)

	x0, y0, x1, y1 := boxAround(t, e, a, b)
	require.True(t, e.BeginBox(x0, y0, Modifiers{Ctrl: true}))
	_, ok := e.EndBox(x1, y1)
	require.True(t, ok)
	assert.Equal(t, []int{c.ID(), a.ID(), b.ID()}, e.Selection())
}

func TestBoxSelectCancelled(t *testing.T) {
	e := newTestEngine(t)
	a, b, c := threeInARow(t, e)
	e.Select([]int{c.ID()}, Replace)
	e.SetBoxMode(true)

	x0, y0, x1, y1 := boxAround(t, e, a, b)
	require.True(t, e.BeginBox(x0, y0, Modifiers{}))
	assert.False(t, e.ToggleBoxMode())

	assert.False(t, e.MoveBox(x1, y1))
	_, ok := e.EndBox(x1, y1)
	assert.False(t, ok)
	assert.Equal(t, []int{c.ID()}, e.Selection())
}

func TestBoxSelectEmptyReplaceClears(t *testing.T) {
	e := newTestEngine(t)
	_, _, c := threeInARow(t, e)
	e.Select([]int{c.ID()}, Replace)
	e.SetBoxMode(true)

	require.True(t, e.BeginBox(0, 0, Modifiers{}))
	inside, ok := e.EndBox(2, 2)
	require.True(t, ok)
	assert.Empty(t, inside)
	assert.Empty(t, e.Selection())
}

func TestSelectGroup(t *testing.T) {
	e := newTestEngine(t)
	threeInARow(t, e)

	require.NoError(t, e.SelectGroupByShortcut('q'))
	assert.Equal(t, []int{1, 2, 3}, e.Selection())

	e.ClearSelection()
	err := e.SelectGroupByShortcut('y')
	assert.ErrorIs(t, err, ErrNoMatches)
	assert.Empty(t, e.Selection())

	e.Select([]int{2}, Replace)
	action, err := e.Key("u", Modifiers{})
	assert.Equal(t, ActionSelectGroup, action)
	assert.ErrorIs(t, err, ErrNoMatches)
	assert.Equal(t, []int{2}, e.Selection())

	assert.ErrorIs(t, e.SelectGroup("nope"), ErrUnknownGroup)
}

func TestSelectKind(t *testing.T) {
	e := newTestEngine(t)
	rgb := addAt(t, e, "rgb", mgl64.Vec3{-5, 12, 0})
	b1 := addAt(t, e, "beam", mgl64.Vec3{0, 12, 0})
	b2 := addAt(t, e, "beam", mgl64.Vec3{5, 12, 0})

	action, err := e.Key("3", Modifiers{})
	require.NoError(t, err)
	assert.Equal(t, ActionSelectKind, action)
	assert.Equal(t, []int{b1.ID(), b2.ID()}, e.Selection())

	// No flats in the rig: the kind shortcut empties the selection.
	_, err = e.Key("2", Modifiers{})
	assert.ErrorIs(t, err, ErrNoMatches)
	assert.Empty(t, e.Selection())

	action, err = e.Key("1", Modifiers{Ctrl: true})
	require.NoError(t, err)
	assert.Equal(t, ActionNone, action)

	e.Select([]int{rgb.ID()}, Replace)
	assert.ErrorIs(t, e.SelectKind("flat"), ErrNoMatches)
	assert.Empty(t, e.Selection())

	require.NoError(t, e.SelectKind("all"))
	assert.Equal(t, []int{rgb.ID(), b1.ID(), b2.ID()}, e.Selection())

	assert.ErrorIs(t, e.SelectKind("laser"), ErrUnknownKind)
}

func TestKeyToggles(t *testing.T) {
	e := newTestEngine(t)
	addAt(t, e, "flat", mgl64.Vec3{0, 12, 0})

	action, _ := e.Key("i", Modifiers{})
	assert.Equal(t, ActionToggleLabels, action)
	assert.True(t, e.LabelsVisible())
	ind, ok := e.Indicator(1)
	require.True(t, ok)
	assert.True(t, ind.LabelVisible)

	action, _ = e.Key("G", Modifiers{})
	assert.Equal(t, ActionToggleGroups, action)
	assert.True(t, e.GroupPanelVisible())

	action, _ = e.Key("x", Modifiers{})
	assert.Equal(t, ActionNone, action)
}

func TestSelectionSkipsUnknownIDs(t *testing.T) {
	e := newTestEngine(t)
	threeInARow(t, e)

	e.Select([]int{3, 42, 3, 1}, Replace)
	assert.Equal(t, []int{3, 1}, e.Selection())

	e.Select([]int{2}, Union)
	assert.Equal(t, []int{3, 1, 2}, e.Selection())
	assert.True(t, e.IsSelected(2))
}
