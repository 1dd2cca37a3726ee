package engine

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"

	"github.com/stagerig/rigsim/backend-go/internal/fixture"
)

// Copy snapshots every selected fixture into the clipboard, in selection
// order. The snapshot is detached from the live fixtures.
func (e *Engine) Copy() (int, error) {
	sel := e.Selected()
	if len(sel) == 0 {
		return 0, e.diagnose(ErrEmptySelection, "op", "copy")
	}

	descs := make([]fixture.Descriptor, len(sel))
	for i, f := range sel {
		descs[i] = f.Describe()
	}

	var snapshot []fixture.Descriptor
	if err := copier.CopyWithOption(&snapshot, &descs, copier.Option{DeepCopy: true}); err != nil {
		return 0, fmt.Errorf("copy descriptors: %w", err)
	}
	e.clipboard = snapshot
	return len(snapshot), nil
}

// Cut copies the selection and then removes every selected fixture.
func (e *Engine) Cut() (int, error) {
	n, err := e.Copy()
	if err != nil {
		return 0, err
	}
	for _, id := range e.Selection() {
		e.reg.Remove(id)
	}
	e.selectionChanged()
	return n, nil
}

// Paste creates fixtures from the clipboard. The first descriptor lands at
// (target.x, its own y, target.z); the others keep their horizontal offset
// from the first, and every y is kept as copied. The selection is unchanged.
func (e *Engine) Paste(target mgl64.Vec3) ([]*fixture.Fixture, error) {
	if len(e.clipboard) == 0 {
		return nil, e.diagnose(ErrClipboardEmpty)
	}

	first := e.clipboard[0].Position
	offset := mgl64.Vec3{target.X() - first.X(), 0, target.Z() - first.Z()}

	var out []*fixture.Fixture
	for _, d := range e.clipboard {
		f, ok := e.reg.AddKind(d.Kind)
		if !ok {
			e.log.Warn("paste skipped descriptor", "kind", d.Kind)
			continue
		}
		f.Apply(d, d.Position.Add(offset))
		e.indicatorFor(f.ID()).LabelVisible = e.labelsOn
		out = append(out, f)
	}
	e.dirty = true
	return out, nil
}

// PasteAt pastes at the point where the camera ray through (x, y) meets the stage.
func (e *Engine) PasteAt(x, y float64) ([]*fixture.Fixture, error) {
	hit, ok := e.StageHit(x, y)
	if !ok {
		return nil, e.diagnose(ErrNoStageHit, "x", x, "y", y)
	}
	return e.Paste(hit)
}
