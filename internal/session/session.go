// Package session runs one editing session per websocket connection. A
// session owns its engine outright; every message is handled to completion
// on the connection's read goroutine.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stagerig/rigsim/backend-go/internal/beam"
	"github.com/stagerig/rigsim/backend-go/internal/document"
	"github.com/stagerig/rigsim/backend-go/internal/engine"
	"github.com/stagerig/rigsim/backend-go/internal/fixture"
	"github.com/stagerig/rigsim/backend-go/internal/geom"
	"github.com/stagerig/rigsim/backend-go/internal/typeid"
)

var (
	ErrUnknownType = errors.New("unknown message type")
	ErrBadPayload  = errors.New("bad payload")
)

// SceneStore persists the scene of a saved rig.
type SceneStore interface {
	LoadScene(ctx context.Context, rigID string) (beam.Stage, []byte, error)
	SaveScene(ctx context.Context, rigID string, scene []byte) error
}

type Session struct {
	id       string
	clientID string
	eng      *engine.Engine
	log      *slog.Logger

	store SceneStore
	rigID string
	saved []byte // scene file as last loaded or stored

	panel string // last panel JSON sent
}

type Option func(*Session)

// WithStore binds the session to a saved rig.
func WithStore(store SceneStore, rigID string) Option {
	return func(s *Session) {
		s.store = store
		s.rigID = rigID
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithClientID(id string) Option {
	return func(s *Session) { s.clientID = id }
}

func New(eng *engine.Engine, opts ...Option) *Session {
	s := &Session{
		id:  typeid.NewSessionID(),
		eng: eng,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.id)
	return s
}

func (s *Session) ID() string             { return s.id }
func (s *Session) RigID() string          { return s.rigID }
func (s *Session) Engine() *engine.Engine { return s.eng }
func (s *Session) Bound() bool            { return s.store != nil && s.rigID != "" }

// Open loads the bound rig, if any, and returns the welcome burst.
func (s *Session) Open(ctx context.Context) ([]*Message, error) {
	if s.Bound() {
		stage, scene, err := s.store.LoadScene(ctx, s.rigID)
		if err != nil {
			return nil, fmt.Errorf("load rig %s: %w", s.rigID, err)
		}
		if err := s.eng.ResizeStage(stage); err != nil {
			s.log.Warn("stored stage rejected", "rig", s.rigID, "error", err)
		}
		if _, err := s.eng.LoadScene(scene); err != nil {
			return nil, fmt.Errorf("load rig %s: %w", s.rigID, err)
		}
	}

	saved, err := s.eng.SaveScene()
	if err != nil {
		return nil, err
	}
	s.saved = saved

	out := []*Message{newMessage(TypeWelcome, WelcomePayload{
		SessionID: s.id,
		ClientID:  s.clientID,
		RigID:     s.rigID,
		Stage:     s.eng.Stage(),
		Groups:    s.eng.Groups().All(),
		Fixtures:  s.eng.Registry().Len(),
	})}
	return append(out, s.flush(true)...), nil
}

// Handle applies one client message and returns the replies: an optional
// diagnostic or error, then fresh render and panel state when they changed.
func (s *Session) Handle(ctx context.Context, msg *Message) []*Message {
	out, err := s.dispatch(ctx, msg)
	if err != nil {
		out = append(out, s.failure(msg, err))
	}
	return append(out, s.flush(false)...)
}

func (s *Session) failure(msg *Message, err error) *Message {
	if code := diagnosticCode(err); code != "" {
		return newMessage(TypeDiagnostic, DiagnosticPayload{Code: code, Message: err.Error(), Ref: msg.Seq})
	}
	if !errors.Is(err, ErrUnknownType) && !errors.Is(err, ErrBadPayload) {
		s.log.Error("handle message", "type", msg.Type, "error", err)
	}
	return newMessage(TypeError, ErrorPayload{Message: err.Error(), Ref: msg.Seq})
}

func decode[T any](msg *Message) (T, error) {
	var p T
	if len(msg.Payload) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return p, fmt.Errorf("%w: %s: %v", ErrBadPayload, msg.Type, err)
	}
	return p, nil
}

func (s *Session) dispatch(ctx context.Context, msg *Message) ([]*Message, error) {
	switch msg.Type {
	case TypeFixtureAdd:
		p, err := decode[FixtureAddPayload](msg)
		if err != nil {
			return nil, err
		}
		_, err = s.eng.AddFixture(p.Kind)
		return nil, err

	case TypeFixtureRemove:
		p, err := decode[FixtureRemovePayload](msg)
		if err != nil {
			return nil, err
		}
		return nil, s.eng.RemoveFixture(p.ID)

	case TypeClick:
		p, err := decode[PointerPayload](msg)
		if err != nil {
			return nil, err
		}
		s.eng.Click(p.X, p.Y, p.Mods)
		return nil, nil

	case TypeKey:
		p, err := decode[KeyPayload](msg)
		if err != nil {
			return nil, err
		}
		_, err = s.eng.Key(p.Key, p.Mods)
		return nil, err

	case TypeBoxBegin:
		p, err := decode[PointerPayload](msg)
		if err != nil {
			return nil, err
		}
		s.eng.BeginBox(p.X, p.Y, p.Mods)
		return nil, nil

	case TypeBoxMove:
		p, err := decode[PointerPayload](msg)
		if err != nil {
			return nil, err
		}
		s.eng.MoveBox(p.X, p.Y)
		return nil, nil

	case TypeBoxEnd:
		p, err := decode[PointerPayload](msg)
		if err != nil {
			return nil, err
		}
		s.eng.EndBox(p.X, p.Y)
		return nil, nil

	case TypeBoxCancel:
		s.eng.CancelBox()
		return nil, nil

	case TypeSelectionEdit:
		p, err := decode[SelectionEditPayload](msg)
		if err != nil {
			return nil, err
		}
		return nil, s.edit(p)

	case TypeClipboardCopy, TypeClipboardCut:
		copyFn := s.eng.Copy
		if msg.Type == TypeClipboardCut {
			copyFn = s.eng.Cut
		}
		n, err := copyFn()
		if err != nil {
			return nil, err
		}
		return []*Message{newMessage(TypeClipboard, ClipboardPayload{Count: n})}, nil

	case TypeClipboardPaste:
		p, err := decode[PastePayload](msg)
		if err != nil {
			return nil, err
		}
		if p.Target != nil {
			_, err = s.eng.Paste(mgl64.Vec3(*p.Target))
		} else {
			_, err = s.eng.PasteAt(p.X, p.Y)
		}
		return nil, err

	case TypeStageResize:
		p, err := decode[beam.Stage](msg)
		if err != nil {
			return nil, err
		}
		return nil, s.eng.ResizeStage(p)

	case TypeCameraUpdate:
		p, err := decode[geom.Camera](msg)
		if err != nil {
			return nil, err
		}
		if p.Width <= 0 || p.Height <= 0 || p.FovY <= 0 {
			return nil, fmt.Errorf("%w: camera needs a positive viewport and fov", ErrBadPayload)
		}
		if p.Up == (mgl64.Vec3{}) {
			p.Up = geom.Up
		}
		s.eng.SetCamera(p)
		return nil, nil

	case TypeSceneLoad:
		return s.loadScene(msg)

	case TypeSceneSave:
		return s.saveScene(ctx)

	case TypeTick:
		s.eng.Tick()
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
}

func (s *Session) loadScene(msg *Message) ([]*Message, error) {
	p, err := decode[SceneLoadPayload](msg)
	if err != nil {
		return nil, err
	}

	var res document.Result
	if p.Sample {
		res = s.eng.LoadSample()
	} else {
		if res, err = s.eng.LoadScene(p.Scene); err != nil {
			return nil, err
		}
	}

	if res.Skipped == 0 {
		return nil, nil
	}
	return []*Message{newMessage(TypeDiagnostic, DiagnosticPayload{
		Code:    "records_skipped",
		Message: fmt.Sprintf("skipped %d records of unknown type: %s", res.Skipped, strings.Join(res.SkippedTypes, ", ")),
		Ref:     msg.Seq,
	})}, nil
}

func (s *Session) saveScene(ctx context.Context) ([]*Message, error) {
	data, err := s.eng.SaveScene()
	if err != nil {
		return nil, err
	}

	saved := false
	if s.Bound() {
		if err := s.store.SaveScene(ctx, s.rigID, data); err != nil {
			return nil, fmt.Errorf("save rig %s: %w", s.rigID, err)
		}
		s.saved = data
		saved = true
	}
	return []*Message{newMessage(TypeSceneData, SceneDataPayload{Scene: data, Saved: saved})}, nil
}

func (s *Session) edit(p SelectionEditPayload) error {
	e := s.eng
	switch p.Op {
	case EditSelect:
		mode, err := parseMode(p.Mode)
		if err != nil {
			return err
		}
		e.Select(p.IDs, mode)
		return nil
	case EditClear:
		e.ClearSelection()
		return nil
	case EditKind:
		return e.SelectKind(p.Kind)
	case EditGroup:
		return e.SelectGroup(p.Group)
	case EditMove, EditRotate:
		axis, err := engine.ParseAxis(p.Axis)
		if err != nil {
			return err
		}
		if p.Op == EditMove {
			return e.MoveSelection(axis, p.Value)
		}
		return e.RotateSelection(axis, p.Value)
	case EditColor:
		c, err := fixture.ParseColor(p.Color)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		return e.SetSelectionColor(c)
	case EditIntensity:
		return e.SetSelectionIntensity(p.Value)
	case EditAngle:
		return e.SetSelectionAngle(p.Value)
	case EditFocal:
		return e.SetSelectionFocalLength(p.Value)
	case EditAim:
		_, err := e.SetAim(p.On)
		return err
	case EditAxes:
		return e.ToggleAxes()
	case EditLabels:
		e.ToggleLabels()
		return nil
	case EditReset:
		return e.ResetSelected()
	case EditDelete:
		_, err := e.DeleteSelection()
		return err
	}
	return fmt.Errorf("%w: unknown edit %q", ErrBadPayload, p.Op)
}

func parseMode(s string) (engine.SelectMode, error) {
	switch s {
	case "", "replace":
		return engine.Replace, nil
	case "union":
		return engine.Union, nil
	case "toggle":
		return engine.Toggle, nil
	}
	return 0, fmt.Errorf("%w: select mode %q", ErrBadPayload, s)
}

// flush returns render state when the engine is dirty and panel state when
// it changed since it was last sent.
func (s *Session) flush(force bool) []*Message {
	var out []*Message
	if force || s.eng.Dirty() {
		out = append(out, &Message{Type: TypeRenderState, Payload: json.RawMessage(s.eng.Render())})
	}
	if panel := s.eng.GetPanel(); force || panel != s.panel {
		s.panel = panel
		out = append(out, &Message{Type: TypePanelState, Payload: json.RawMessage(panel)})
	}
	return out
}

// Unsaved reports whether a bound rig differs from its stored scene.
func (s *Session) Unsaved() bool {
	if !s.Bound() {
		return false
	}
	data, err := s.eng.SaveScene()
	return err != nil || !bytes.Equal(data, s.saved)
}

// Autosave stores the scene of a bound rig when it has unsaved changes.
func (s *Session) Autosave(ctx context.Context) (bool, error) {
	if !s.Bound() {
		return false, nil
	}
	data, err := s.eng.SaveScene()
	if err != nil {
		return false, err
	}
	if bytes.Equal(data, s.saved) {
		return false, nil
	}
	if err := s.store.SaveScene(ctx, s.rigID, data); err != nil {
		return false, fmt.Errorf("autosave rig %s: %w", s.rigID, err)
	}
	s.saved = data
	s.log.Info("rig autosaved", "rig", s.rigID, "bytes", len(data))
	return true, nil
}

var diagnosticCodes = []struct {
	err  error
	code string
}{
	{engine.ErrNoMatches, "no_matches"},
	{engine.ErrUnknownGroup, "unknown_group"},
	{engine.ErrUnknownKind, "unknown_kind"},
	{engine.ErrEmptySelection, "empty_selection"},
	{engine.ErrClipboardEmpty, "clipboard_empty"},
	{engine.ErrNoStageHit, "no_stage_hit"},
	{engine.ErrMixedKinds, "mixed_kinds"},
	{engine.ErrNotApplicable, "not_applicable"},
	{engine.ErrUnknownFixture, "unknown_fixture"},
	{engine.ErrInvalidArgument, "invalid_argument"},
	{beam.ErrInvalidStage, "invalid_stage"},
	{document.ErrMalformed, "malformed_scene"},
}

// diagnosticCode names a non-fatal editing failure. Other errors get "".
func diagnosticCode(err error) string {
	for _, d := range diagnosticCodes {
		if errors.Is(err, d.err) {
			return d.code
		}
	}
	return ""
}
