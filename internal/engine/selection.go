package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/stagerig/rigsim/backend-go/internal/fixture"
)

// SelectMode says how a set of picked fixtures combines with the selection.
type SelectMode int

const (
	// Replace makes the picked fixtures the whole selection.
	Replace SelectMode = iota
	// Union appends picked fixtures that are not yet selected.
	Union
	// Toggle flips membership of each picked fixture.
	Toggle
)

// KindAll is the pseudo kind that selects every fixture.
const KindAll = "all"

// Select combines ids with the selection. Unknown ids are ignored.
func (e *Engine) Select(ids []int, mode SelectMode) {
	live := make([]int, 0, len(ids))
	for _, id := range ids {
		if e.reg.Has(id) && !slices.Contains(live, id) {
			live = append(live, id)
		}
	}

	switch mode {
	case Replace:
		e.selection = live
	case Union:
		for _, id := range live {
			if !slices.Contains(e.selection, id) {
				e.selection = append(e.selection, id)
			}
		}
	case Toggle:
		for _, id := range live {
			if i := slices.Index(e.selection, id); i >= 0 {
				e.selection = slices.Delete(e.selection, i, i+1)
			} else {
				e.selection = append(e.selection, id)
			}
		}
	}
	e.selectionChanged()
}

// ClearSelection empties the selection.
func (e *Engine) ClearSelection() {
	e.selection = nil
	e.selectionChanged()
}

// SelectKind replaces the selection with every fixture of a kind, or with
// every fixture for KindAll. With no matches the selection is cleared and
// ErrNoMatches is returned.
func (e *Engine) SelectKind(token string) error {
	var matches []*fixture.Fixture
	if strings.EqualFold(token, KindAll) {
		matches = e.reg.All()
	} else {
		kind, ok := fixture.ParseKind(token)
		if !ok {
			return e.diagnose(ErrUnknownKind, "token", token)
		}
		matches = e.reg.ByKind(kind)
	}

	if len(matches) == 0 {
		e.ClearSelection()
		return e.diagnose(fmt.Errorf("%w: kind %s", ErrNoMatches, token), "kind", token)
	}
	e.Select(ids(matches), Replace)
	return nil
}

// SelectGroup replaces the selection with the fixtures in a named group's id
// range. With no matches the selection is left as is.
func (e *Engine) SelectGroup(key string) error {
	g, ok := e.groups.ByKey(key)
	if !ok {
		return e.diagnose(ErrUnknownGroup, "group", key)
	}

	matches := e.reg.ByIDRange(g.From, g.To)
	if len(matches) == 0 {
		err := fmt.Errorf("%w: group %s ids %d-%d", ErrNoMatches, g.Key, g.From, g.To)
		return e.diagnose(err, "group", g.Key, "from", g.From, "to", g.To)
	}
	e.Select(ids(matches), Replace)
	e.log.Debug("group selected", "group", g.Key, "count", len(matches))
	return nil
}

// SelectGroupByShortcut is SelectGroup for a group's key binding.
func (e *Engine) SelectGroupByShortcut(r rune) error {
	g, ok := e.groups.ByShortcut(r)
	if !ok {
		return e.diagnose(ErrUnknownGroup, "shortcut", string(r))
	}
	return e.SelectGroup(g.Key)
}

// selectionChanged drops aim members that are no longer selected. Aiming
// switches itself off once no selected fixture is enrolled.
func (e *Engine) selectionChanged() {
	e.aim = slices.DeleteFunc(e.aim, func(id int) bool {
		return !slices.Contains(e.selection, id)
	})
	e.dirty = true
}

func ids(fs []*fixture.Fixture) []int {
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = f.ID()
	}
	return out
}
