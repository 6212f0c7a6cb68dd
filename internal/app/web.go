// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

//go:embed web
var webFiles embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

const (
	clientQueue  = 32
	writeTimeout = 2 * time.Second
)

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub mirrors calculator events to websocket clients and turns their
// {"action":"select"} messages into activations. Hub is an engine.Listener.
type Hub struct {
	mu      sync.Mutex
	clients map[*hubClient]struct{}

	onSelect func() error
}

// NewHub returns a hub calling onSelect for every select action.
func NewHub(onSelect func() error) *Hub {
	return &Hub{clients: make(map[*hubClient]struct{}), onSelect: onSelect}
}

// Broadcast sends v to every client. Slow clients drop messages rather than
// stall the caller.
func (h *Hub) Broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("web: marshal event: %v", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
		}
	}
}

func (h *Hub) CursorChanged(row, col int) {
	h.Broadcast(CursorEvent{Type: EventCursor, Row: row, Col: col})
}

func (h *Hub) DisplayChanged(op, num string) {
	h.Broadcast(DisplayEvent{Type: EventDisplay, Op: op, Num: num})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the connection and serves the client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	c := &hubClient{conn: conn, send: make(chan []byte, clientQueue)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	h.readPump(c)

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
}

func (h *Hub) readPump(c *hubClient) {
	defer c.conn.Close()
	for {
		var msg SelectEvent
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("web: websocket error: %v", err)
			}
			return
		}
		if msg.Action != ActionSelect {
			log.Printf("web: ignoring unknown action %q", msg.Action)
			continue
		}
		if err := h.onSelect(); err != nil {
			log.Printf("web: select: %v", err)
			return
		}
	}
}

func (c *hubClient) writePump() {
	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// NewWebServer serves the websocket hub on /ws, a JSON snapshot of the
// calculator on /api/state and the embedded browser page on /.
func NewWebServer(port int, loop *Loop, hub *Hub) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		st, err := loop.State()
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(st); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})
	static, err := fs.Sub(webFiles, "web")
	if err != nil {
		log.Fatalf("web: embedded files: %v", err)
	}
	mux.Handle("/", http.FileServer(http.FS(static)))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}
