//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"syscall/js"

	"github.com/stagerig/rigsim/backend-go/internal/engine"
	"github.com/stagerig/rigsim/backend-go/internal/session"
)

var (
	eng  *engine.Engine
	sess *session.Session
)

func main() {
	logger := slog.New(slog.NewTextHandler(consoleWriter{}, &slog.HandlerOptions{Level: slog.LevelInfo}))
	eng = engine.NewEngine(engine.WithLogger(logger))
	sess = session.New(eng, session.WithLogger(logger), session.WithClientID("local"))

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	api.Set("open", js.FuncOf(open))
	api.Set("send", js.FuncOf(send))
	api.Set("click", js.FuncOf(click))
	api.Set("key", js.FuncOf(key))
	api.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← engine) ---
	api.Set("render", js.FuncOf(render))
	api.Set("isDirty", js.FuncOf(isDirty))
	api.Set("getPanel", js.FuncOf(getPanel))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("saveScene", js.FuncOf(saveScene))

	js.Global().Set("rigsimEngine", api)
	js.Global().Set("rigsimWasmReady", js.ValueOf(true))

	select {}
}

// consoleWriter sends log lines to the browser console.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", string(p))
	return len(p), nil
}

func errorValue(err error) js.Value {
	return js.ValueOf(map[string]any{"error": err.Error()})
}

func toJSON(v any) js.Value {
	data, err := json.Marshal(v)
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

func modifiers(v js.Value) engine.Modifiers {
	if v.Type() != js.TypeObject {
		return engine.Modifiers{}
	}
	return engine.Modifiers{
		Ctrl:  v.Get("ctrlKey").Truthy(),
		Meta:  v.Get("metaKey").Truthy(),
		Shift: v.Get("shiftKey").Truthy(),
		Alt:   v.Get("altKey").Truthy(),
	}
}

// --- Command Handlers ---

// open returns the welcome burst as a JSON array of messages.
func open(this js.Value, args []js.Value) any {
	msgs, err := sess.Open(context.Background())
	if err != nil {
		return errorValue(err)
	}
	return toJSON(msgs)
}

// send applies one protocol message (JSON) and returns the replies.
func send(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing message JSON"})
	}
	var msg session.Message
	if err := json.Unmarshal([]byte(args[0].String()), &msg); err != nil {
		return errorValue(err)
	}
	return toJSON(sess.Handle(context.Background(), &msg))
}

func click(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	var mods engine.Modifiers
	if len(args) > 2 {
		mods = modifiers(args[2])
	}
	return toJSON(eng.Click(args[0].Float(), args[1].Float(), mods))
}

func key(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	var mods engine.Modifiers
	if len(args) > 1 {
		mods = modifiers(args[1])
	}
	action, err := eng.Key(args[0].String(), mods)
	if err != nil {
		return js.ValueOf(map[string]any{"action": string(action), "error": err.Error()})
	}
	return js.ValueOf(map[string]any{"action": string(action)})
}

func tick(this js.Value, args []js.Value) any {
	return toJSON(eng.Tick())
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Render())
}

func isDirty(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Dirty())
}

func getPanel(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetPanel())
}

func getSelection(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetSelection())
}

func saveScene(this js.Value, args []js.Value) any {
	data, err := eng.SaveScene()
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}
