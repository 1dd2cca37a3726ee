package engine

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stagerig/rigsim/backend-go/internal/fixture"
)

// SetAim enrolls (on) or withdraws (off) every selected beam in
// point-and-click aiming. Non-beam fixtures are ignored. Returns the number of
// beams in the aim set afterwards.
func (e *Engine) SetAim(on bool) (int, error) {
	sel := e.Selected()
	if len(sel) == 0 {
		return len(e.aim), e.diagnose(ErrEmptySelection, "op", "aim")
	}

	for _, f := range sel {
		if f.Kind() != fixture.Beam {
			continue
		}
		id := f.ID()
		has := slices.Contains(e.aim, id)
		switch {
		case on && !has:
			e.aim = append(e.aim, id)
		case !on && has:
			e.aim = slices.DeleteFunc(e.aim, func(x int) bool { return x == id })
		}
	}
	e.dirty = true
	return len(e.aim), nil
}

// Aiming reports whether any beam is in the aim set.
func (e *Engine) Aiming() bool {
	return len(e.aim) > 0
}

// AimSet returns the aimed beam ids in enrollment order.
func (e *Engine) AimSet() []int {
	return slices.Clone(e.aim)
}

func (e *Engine) aimAt(target mgl64.Vec3) []int {
	var aimed []int
	for _, id := range e.aim {
		f, ok := e.reg.Get(id)
		if !ok {
			continue
		}
		if f.LookAt(target) {
			aimed = append(aimed, id)
		}
	}
	e.dirty = true
	return aimed
}
