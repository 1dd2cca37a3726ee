package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

var ErrHubStopped = errors.New("hub stopped")

const autosaveTimeout = 5 * time.Second

// Hub tracks live sessions so shutdown can autosave them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client // clientID -> client
	stopped bool
	wg      sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients: make(map[string]*Client),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Client looks up a live client by id.
func (h *Hub) Client(id string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[id]
	return c, ok
}

func (h *Hub) add(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.clients[c.ClientID] = c
	h.wg.Add(1)
	return true
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ClientID)
	h.mu.Unlock()
	h.wg.Done()
}

// Serve runs c until its connection ends, the request context ends or the
// hub stops. A bound rig with unsaved changes is saved before returning.
func (h *Hub) Serve(ctx context.Context, c *Client) error {
	if !h.add(c) {
		c.conn.Close(websocket.StatusGoingAway, "server shutting down")
		return ErrHubStopped
	}
	defer h.remove(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(h.ctx, cancel)
	defer stop()

	sess := c.session
	welcome, err := sess.Open(ctx)
	if err != nil {
		h.log.Error("open session", "error", err, "rig", sess.RigID(), "user", c.UserID)
		c.conn.Close(websocket.StatusInternalError, "could not open rig")
		return err
	}
	h.log.Info("session opened", "session", sess.ID(), "rig", sess.RigID(), "user", c.UserID)

	written := make(chan struct{})
	go func() {
		defer close(written)
		c.WritePump(ctx)
	}()
	for _, m := range welcome {
		c.Send(m)
	}

	c.ReadPump(ctx)
	close(c.send)
	<-written

	saveCtx, saveCancel := context.WithTimeout(context.WithoutCancel(ctx), autosaveTimeout)
	defer saveCancel()
	if _, err := sess.Autosave(saveCtx); err != nil {
		h.log.Error("autosave", "error", err, "rig", sess.RigID())
	}

	status, reason := websocket.StatusNormalClosure, ""
	if h.ctx.Err() != nil {
		status, reason = websocket.StatusGoingAway, "server shutting down"
	}
	c.conn.Close(status, reason)

	h.log.Info("session closed", "session", sess.ID(), "rig", sess.RigID(), "user", c.UserID)
	return nil
}

// Stop ends every live session and waits for their autosaves, or for ctx.
func (h *Hub) Stop(ctx context.Context) error {
	h.mu.Lock()
	h.stopped = true
	n := len(h.clients)
	h.mu.Unlock()

	h.log.Info("stopping sessions", "count", n)
	h.cancel()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
