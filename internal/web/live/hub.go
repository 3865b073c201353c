package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"CommunityDirectory/internal/core/ports"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Message is what admins receive when a registration changes state.
type Message struct {
	Type   string    `json:"type"`
	UserID uuid.UUID `json:"userId"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans registration events out to connected admin dashboards.
type Hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	count      atomic.Int32
	upgrader   websocket.Upgrader
	log        zerolog.Logger
}

// NewHub creates a hub accepting upgrades from allowedOrigins.
// Requests without an Origin header are accepted.
func NewHub(allowedOrigins []string, baseLogger *zerolog.Logger) *Hub {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		log: baseLogger.With().Str("component", "live_hub").Logger(),
	}
}

// Subscribe wires the hub to the registration lifecycle topics.
func (h *Hub) Subscribe(bus ports.EventBus) {
	bus.Subscribe(ports.TopicUserRegistered, h.HandleEvent)
	bus.Subscribe(ports.TopicUserApproved, h.HandleEvent)
	bus.Subscribe(ports.TopicUserRejected, h.HandleEvent)
}

// Clients is the number of connected dashboards.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Add(1)
			h.log.Debug().Int("clients", h.Clients()).Msg("Admin dashboard connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Too slow to keep up.
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Add(-1)
}

// HandleEvent turns a bus event into a broadcast. It never blocks the bus.
func (h *Hub) HandleEvent(_ context.Context, event ports.Event) error {
	var id uuid.UUID
	switch evt := event.Data.(type) {
	case ports.UserRegisteredEvent:
		id = evt.UserID
	case ports.UserDecisionEvent:
		id = evt.User.ID
	default:
		h.log.Error().Str("topic", event.Topic).Msg("Received invalid data for live event")
		return nil
	}

	data, err := json.Marshal(Message{Type: event.Topic, UserID: id})
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
	default:
		h.log.Warn().Str("topic", event.Topic).Msg("Live feed backlog full, dropping event")
	}
	return nil
}

// ServeHTTP upgrades an already-authorized request to a websocket.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

// readPump only watches for disconnects; dashboards never send data.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
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
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
