// Package ws keeps the websocket subscriptions of connected actors and
// delivers push events to them.
//
// Every connection joins two audiences derived from its token: its own
// (role, actor id) and its whole role. A reconnecting client therefore gets
// the same subscriptions back without any server-side session.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// sendBuffer events may queue per connection; beyond that a slow
	// client loses events and must pull.
	sendBuffer = 32
)

type client struct {
	conn  *websocket.Conn
	actor kernel.Actor
	send  chan []byte
}

// Hub is the in-process subscription registry.
type Hub struct {
	mu        sync.RWMutex
	audiences map[ports.Audience]map[*client]struct{}
	upgrader  websocket.Upgrader
	logger    *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		audiences: make(map[ports.Audience]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.With("component", "ws_hub"),
	}
}

// Push queues event for every connection in the audience. An audience with
// no connections is not an error.
func (h *Hub) Push(ctx context.Context, audience ports.Audience, event ports.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.audiences[audience] {
		select {
		case c.send <- payload:
		default:
			h.logger.WarnContext(ctx, "subscriber too slow, event dropped",
				"actor", c.actor.String(), "type", event.Type)
		}
	}
	return nil
}

// Subscribers counts the connections in an audience.
func (h *Hub) Subscribers(audience ports.Audience) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.audiences[audience])
}

// Serve upgrades the request and keeps the connection registered for actor
// until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, actor kernel.Actor) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, actor: actor, send: make(chan []byte, sendBuffer)}
	h.register(c)
	h.logger.Debug("subscriber connected", "actor", actor.String())

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, a := range audiencesOf(c.actor) {
		if h.audiences[a] == nil {
			h.audiences[a] = make(map[*client]struct{})
		}
		h.audiences[a][c] = struct{}{}
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, a := range audiencesOf(c.actor) {
		members, ok := h.audiences[a]
		if !ok {
			continue
		}
		if _, ok = members[c]; !ok {
			continue
		}
		delete(members, c)
		if len(members) == 0 {
			delete(h.audiences, a)
		}
	}
	close(c.send)
}

// readPump only watches for pongs and disconnects; clients never send
// anything meaningful.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.logger.Debug("subscriber disconnected", "actor", c.actor.String())
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func audiencesOf(actor kernel.Actor) []ports.Audience {
	return []ports.Audience{ports.ActorAudience(actor), ports.RoleAudience(actor.Role())}
}
