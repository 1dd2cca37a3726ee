package engine

import (
	"github.com/stagerig/rigsim/backend-go/internal/fixture"
)

// Values applied by ResetSelected.
const (
	resetRGBIntensity  = 0.24
	resetFlatIntensity = 0.58
	resetBeamIntensity = 2.0
	resetBeamAngle     = 0.24
)

// ResetSelected returns the selected fixtures to a neutral look: RGB pars go
// white at 0.24, flats dim to 0.58, and beams point straight down in white at
// intensity 2 with a 0.24 rad cone.
func (e *Engine) ResetSelected() error {
	sel, err := e.requireSelection("reset")
	if err != nil {
		return err
	}

	for _, f := range sel {
		switch f.Kind() {
		case fixture.RGB:
			f.SetColor(fixture.White)
			f.SetIntensity(resetRGBIntensity)
		case fixture.Flat:
			f.SetIntensity(resetFlatIntensity)
		case fixture.Beam:
			f.SetRotation(0, 0, 0)
			f.SetColor(fixture.White)
			f.SetIntensity(resetBeamIntensity)
			f.SetAngle(resetBeamAngle)
			f.UpdateBeamLength()
		}
	}
	e.dirty = true
	return nil
}
