package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/stagerig/rigsim/backend-go/internal/auth"
	"github.com/stagerig/rigsim/backend-go/internal/beam"
	"github.com/stagerig/rigsim/backend-go/internal/engine"
	"github.com/stagerig/rigsim/backend-go/internal/groups"
	"github.com/stagerig/rigsim/backend-go/internal/rigs"
	"github.com/stagerig/rigsim/backend-go/internal/session"
)

type sessionHandler struct {
	hub     *session.Hub
	auth    *auth.Service
	rigs    *rigs.Service
	groups  *groups.Set
	stage   beam.Stage
	origins []string
	log     *slog.Logger
}

// Anonymous serves a scratch session that is never persisted.
func (h *sessionHandler) Anonymous(w http.ResponseWriter, r *http.Request) {
	userID := "anon-" + uuid.New().String()[:8]
	h.serve(w, r, userID)
}

// Rig serves a session bound to a saved rig the caller owns.
func (h *sessionHandler) Rig(w http.ResponseWriter, r *http.Request) {
	rigID := mux.Vars(r)["rigId"]

	token := auth.TokenFromRequest(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	userID, err := h.auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if _, err := h.rigs.Get(r.Context(), rigID, userID); err != nil {
		switch {
		case errors.Is(err, rigs.ErrNotFound):
			http.Error(w, "rig not found", http.StatusNotFound)
		case errors.Is(err, rigs.ErrForbidden):
			http.Error(w, "not your rig", http.StatusForbidden)
		default:
			h.log.Error("look up rig", "error", err, "rig", rigID)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.serve(w, r, userID, session.WithStore(h.rigs.For(userID), rigID))
}

func (h *sessionHandler) serve(w http.ResponseWriter, r *http.Request, userID string, opts ...session.Option) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.log.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	eng := engine.NewEngine(
		engine.WithStage(h.stage),
		engine.WithGroups(h.groups),
		engine.WithLogger(h.log.With("client", clientID)),
	)
	opts = append(opts, session.WithLogger(h.log), session.WithClientID(clientID))
	client := session.NewClient(conn, session.New(eng, opts...), userID, clientID)

	if err := h.hub.Serve(r.Context(), client); err != nil && !errors.Is(err, session.ErrHubStopped) {
		h.log.Warn("session ended with error", "error", err, "user", userID)
	}
}
