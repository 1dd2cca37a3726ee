package session

import (
	"encoding/json"

	"github.com/stagerig/rigsim/backend-go/internal/beam"
	"github.com/stagerig/rigsim/backend-go/internal/engine"
	"github.com/stagerig/rigsim/backend-go/internal/groups"
)

type Message struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client → server
	TypeFixtureAdd     = "fixture.add"
	TypeFixtureRemove  = "fixture.remove"
	TypeClick          = "input.click"
	TypeKey            = "input.key"
	TypeBoxBegin       = "input.box.begin"
	TypeBoxMove        = "input.box.move"
	TypeBoxEnd         = "input.box.end"
	TypeBoxCancel      = "input.box.cancel"
	TypeSelectionEdit  = "selection.edit"
	TypeClipboardCopy  = "clipboard.copy"
	TypeClipboardCut   = "clipboard.cut"
	TypeClipboardPaste = "clipboard.paste"
	TypeStageResize    = "stage.resize"
	TypeCameraUpdate   = "camera.update"
	TypeSceneLoad      = "scene.load"
	TypeSceneSave      = "scene.save"
	TypeTick           = "tick"

	// Server → client
	TypeWelcome     = "welcome"
	TypeRenderState = "render.state"
	TypePanelState  = "panel.state"
	TypeSceneData   = "scene.data"
	TypeClipboard   = "clipboard.state"
	TypeDiagnostic  = "diagnostic"
	TypeError       = "error"
)

type WelcomePayload struct {
	SessionID string         `json:"sessionId"`
	ClientID  string         `json:"clientId"`
	RigID     string         `json:"rigId,omitempty"`
	Stage     beam.Stage     `json:"stage"`
	Groups    []groups.Group `json:"groups"`
	Fixtures  int            `json:"fixtures"`
}

type FixtureAddPayload struct {
	Kind string `json:"kind"`
}

type FixtureRemovePayload struct {
	ID int `json:"id"`
}

// PointerPayload carries a screen point for clicks, box drags and paste.
type PointerPayload struct {
	X    float64          `json:"x"`
	Y    float64          `json:"y"`
	Mods engine.Modifiers `json:"mods"`
}

type KeyPayload struct {
	Key  string           `json:"key"`
	Mods engine.Modifiers `json:"mods"`
}

// Selection edit operations.
const (
	EditSelect    = "select"
	EditClear     = "clear"
	EditKind      = "kind"
	EditGroup     = "group"
	EditMove      = "move"
	EditRotate    = "rotate"
	EditColor     = "color"
	EditIntensity = "intensity"
	EditAngle     = "angle"
	EditFocal     = "focal"
	EditAim       = "aim"
	EditAxes      = "axes"
	EditLabels    = "labels"
	EditReset     = "reset"
	EditDelete    = "delete"
)

type SelectionEditPayload struct {
	Op    string  `json:"op"`
	IDs   []int   `json:"ids,omitempty"`
	Mode  string  `json:"mode,omitempty"` // replace, union, toggle
	Kind  string  `json:"kind,omitempty"`
	Group string  `json:"group,omitempty"`
	Axis  string  `json:"axis,omitempty"`
	Value float64 `json:"value,omitempty"`
	Color string  `json:"color,omitempty"`
	On    bool    `json:"on,omitempty"`
}

type ClipboardPayload struct {
	Count int `json:"count"`
}

// PastePayload places the clipboard at a world point, or at the stage point
// under a screen point when Target is absent.
type PastePayload struct {
	Target *[3]float64 `json:"target,omitempty"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
}

type SceneLoadPayload struct {
	Scene  json.RawMessage `json:"scene,omitempty"`
	Sample bool            `json:"sample,omitempty"`
}

type SceneDataPayload struct {
	Scene json.RawMessage `json:"scene"`
	Saved bool            `json:"saved"`
}

type DiagnosticPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ref     int64  `json:"ref,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Ref     int64  `json:"ref,omitempty"`
}

func newMessage(typ string, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("null")
	}
	return &Message{Type: typ, Payload: data}
}
