package engine

import (
	"github.com/stagerig/rigsim/backend-go/internal/geom"
)

// boxDrag is a rubber-band selection in progress. The union modifier is
// captured when the drag starts.
type boxDrag struct {
	anchorX, anchorY float64
	x, y             float64
	union            bool
}

func (d *boxDrag) rect() geom.Rect {
	return geom.RectFromCorners(d.anchorX, d.anchorY, d.x, d.y)
}

// SetBoxMode turns box selection on or off. Turning it off cancels a live drag.
func (e *Engine) SetBoxMode(on bool) {
	if !on {
		e.CancelBox()
	}
	e.boxMode = on
	e.dirty = true
}

// ToggleBoxMode flips box mode, cancelling any live drag, and returns the new state.
func (e *Engine) ToggleBoxMode() bool {
	e.CancelBox()
	e.SetBoxMode(!e.boxMode)
	return e.boxMode
}

// BeginBox starts a drag at the anchor (x, y). Ctrl or Meta held now makes the
// drag add to the selection instead of replacing it. Returns false when box
// mode is off. A drag already in progress is dropped.
func (e *Engine) BeginBox(x, y float64, mods Modifiers) bool {
	if !e.boxMode {
		return false
	}
	e.drag = &boxDrag{anchorX: x, anchorY: y, x: x, y: y, union: mods.Multi()}
	e.dirty = true
	return true
}

// MoveBox grows the rectangle to (x, y). Returns false with no live drag.
func (e *Engine) MoveBox(x, y float64) bool {
	if e.drag == nil {
		return false
	}
	e.drag.x, e.drag.y = x, y
	e.dirty = true
	return true
}

// EndBox finishes the drag at (x, y), selecting every fixture whose projected
// position falls inside the rectangle (edges included). Returns the fixtures
// inside the box, and false when there was no live drag.
func (e *Engine) EndBox(x, y float64) ([]int, bool) {
	d := e.drag
	if d == nil {
		return nil, false
	}
	e.drag = nil
	d.x, d.y = x, y
	rect := d.rect()

	var inside []int
	for _, f := range e.reg.All() {
		sx, sy, ok := e.camera.Project(f.Position())
		if ok && rect.Contains(sx, sy) {
			inside = append(inside, f.ID())
		}
	}

	mode := Replace
	if d.union {
		mode = Union
	}
	e.Select(inside, mode)
	e.log.Debug("box select", "count", len(inside), "union", d.union)
	return inside, true
}

// CancelBox drops a live drag. Later move and end events are ignored.
func (e *Engine) CancelBox() {
	if e.drag != nil {
		e.drag = nil
		e.dirty = true
	}
}

// BoxRect returns the rectangle of the live drag.
func (e *Engine) BoxRect() (geom.Rect, bool) {
	if e.drag == nil {
		return geom.Rect{}, false
	}
	return e.drag.rect(), true
}
