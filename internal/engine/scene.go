package engine

import (
	"errors"

	"github.com/stagerig/rigsim/backend-go/internal/document"
)

// LoadScene replaces the rig with a scene file. A malformed file leaves the
// session untouched and returns an error wrapping document.ErrMalformed.
// Unknown fixture types are skipped and reported in the result.
func (e *Engine) LoadScene(data []byte) (document.Result, error) {
	records, err := document.Parse(data)
	if err != nil {
		return document.Result{}, e.diagnose(err)
	}
	return e.loadRecords(records), nil
}

// LoadSample replaces the rig with the default 68-fixture rig.
func (e *Engine) LoadSample() document.Result {
	return e.loadRecords(document.SampleRig())
}

func (e *Engine) loadRecords(records []document.Record) document.Result {
	e.CancelBox()
	res := document.Deserialize(records, e.reg)
	e.selection = nil
	e.aim = nil
	for _, f := range e.reg.All() {
		e.indicatorFor(f.ID()).LabelVisible = e.labelsOn
	}
	if res.Skipped > 0 {
		e.log.Warn("scene records skipped", "count", res.Skipped, "types", res.SkippedTypes)
	}
	e.dirty = true
	return res
}

// SaveScene serializes the rig as a scene file.
func (e *Engine) SaveScene() ([]byte, error) {
	return document.Marshal(e.reg)
}

// IsMalformed reports whether err came from a scene file that failed to parse.
func IsMalformed(err error) bool {
	return errors.Is(err, document.ErrMalformed)
}
