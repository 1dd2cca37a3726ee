package engine

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/stagerig/rigsim/backend-go/internal/fixture"
)

// Indicator is the per-fixture helper state drawn around a fixture body: the
// ID label and the axes gizmo. It lives in a side table keyed by fixture id.
type Indicator struct {
	LabelVisible bool `json:"labelVisible"`
	AxesVisible  bool `json:"axesVisible"`
	// LabelOrientation turns the label toward the camera; refreshed on Tick.
	LabelOrientation mgl64.Quat `json:"-"`
}

// Label heights above the fixture body, per kind.
var labelOffsets = map[fixture.Kind]float64{
	fixture.Beam: 2.0,
	fixture.Flat: 1.8,
	fixture.RGB:  1.2,
}

func labelOffset(kind fixture.Kind) float64 {
	if off, ok := labelOffsets[kind]; ok {
		return off
	}
	return 1.5
}

func (e *Engine) indicatorFor(id int) *Indicator {
	ind, ok := e.indicators[id]
	if !ok {
		ind = &Indicator{LabelOrientation: mgl64.QuatIdent()}
		e.indicators[id] = ind
	}
	return ind
}

// Indicator returns the helper state of a fixture.
func (e *Engine) Indicator(id int) (Indicator, bool) {
	ind, ok := e.indicators[id]
	if !ok || !e.reg.Has(id) {
		return Indicator{}, false
	}
	return *ind, true
}

// ToggleLabels shows or hides the ID label of every fixture and returns the new state.
func (e *Engine) ToggleLabels() bool {
	e.labelsOn = !e.labelsOn
	for _, f := range e.reg.All() {
		e.indicatorFor(f.ID()).LabelVisible = e.labelsOn
	}
	e.dirty = true
	return e.labelsOn
}

// ToggleAxes flips the axes gizmo of every selected fixture.
func (e *Engine) ToggleAxes() error {
	sel := e.Selected()
	if len(sel) == 0 {
		return e.diagnose(ErrEmptySelection, "op", "axes")
	}
	for _, f := range sel {
		ind := e.indicatorFor(f.ID())
		ind.AxesVisible = !ind.AxesVisible
	}
	e.dirty = true
	return nil
}
