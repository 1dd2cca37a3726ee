package engine

import (
	"strings"
	"unicode/utf8"
)

// KeyAction names what a key press did.
type KeyAction string

const (
	ActionNone         KeyAction = "none"
	ActionSelectKind   KeyAction = "select_kind"
	ActionSelectGroup  KeyAction = "select_group"
	ActionToggleLabels KeyAction = "toggle_labels"
	ActionToggleGroups KeyAction = "toggle_group_panel"
	ActionReset        KeyAction = "reset_selection"
	ActionBoxMode      KeyAction = "toggle_box_mode"
)

// kindKeys maps digit keys to kind selections.
var kindKeys = map[string]string{
	"1": "rgb",
	"2": "flat",
	"3": "beam",
	"0": KindAll,
}

// Key handles a key press. key is the browser key name ("Shift", "Tab", "q").
// Shift toggles box mode and Tab resets the selection. Everything else is
// ignored while Ctrl, Meta, Alt or Shift is held.
func (e *Engine) Key(key string, mods Modifiers) (KeyAction, error) {
	switch key {
	case "Shift":
		e.ToggleBoxMode()
		return ActionBoxMode, nil
	case "Tab":
		return ActionReset, e.ResetSelected()
	}

	if mods.Ctrl || mods.Meta || mods.Alt || mods.Shift {
		return ActionNone, nil
	}

	if kind, ok := kindKeys[key]; ok {
		return ActionSelectKind, e.SelectKind(kind)
	}

	switch strings.ToLower(key) {
	case "i":
		e.ToggleLabels()
		return ActionToggleLabels, nil
	case "g":
		e.ToggleGroupPanel()
		return ActionToggleGroups, nil
	}

	if utf8.RuneCountInString(key) == 1 {
		r, _ := utf8.DecodeRuneInString(key)
		if _, ok := e.groups.ByShortcut(r); ok {
			return ActionSelectGroup, e.SelectGroupByShortcut(r)
		}
	}
	return ActionNone, nil
}
