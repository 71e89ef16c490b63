// Package websocket streams live layout frames to connected clients and
// feeds their pin, drag, and release gestures back into the simulation.
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"mindgraph-backend/application/services"
	"mindgraph-backend/domain/layout"
	"mindgraph-backend/infrastructure/observability"
)

// Message types sent to clients
const (
	MessageTypeConnected   = "connected"
	MessageTypeLayoutFrame = "layout.frame"
)

// OutboundMessage is the envelope for every message sent to a client
type OutboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// Hub tracks active connections per user and fans layout frames out to
// them. It implements services.FrameSink so the layout manager can stay
// ignorant of transport details.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	outbound   chan *userMessage

	ctx     context.Context
	cancel  context.CancelFunc
	logger  *zap.Logger
	metrics *observability.Collector

	onUserGone func(userID string)
}

var _ services.FrameSink = (*Hub)(nil)

type userMessage struct {
	userID  string
	payload []byte
}

// NewHub creates a new hub
func NewHub(metrics *observability.Collector, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		connections: make(map[string]map[*Client]bool),
		register:    make(chan *Client, 64),
		unregister:  make(chan *Client, 64),
		outbound:    make(chan *userMessage, 1024),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
		metrics:     metrics,
	}
}

// Run processes registration and delivery until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.outbound:
			h.deliver(msg)
		}
	}
}

// Stop shuts the hub down and closes every connection
func (h *Hub) Stop() {
	h.cancel()
}

// SendFrame delivers one tick's positions to every connection the user
// has open. Frames are fire-and-forget: when the hub is saturated the
// frame is dropped, the next tick supersedes it anyway.
func (h *Hub) SendFrame(userID string, frame []layout.Position) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(OutboundMessage{
		Type:      MessageTypeLayoutFrame,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	select {
	case h.outbound <- &userMessage{userID: userID, payload: payload}:
	default:
		h.logger.Debug("Dropping layout frame, hub saturated", zap.String("userId", userID))
	}
	return nil
}

// OnUserGone registers a callback invoked after a user's last
// connection closes. Set before Run.
func (h *Hub) OnUserGone(fn func(userID string)) {
	h.onUserGone = fn
}

// ConnectionCount returns the number of open connections for a user
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connections[client.userID] == nil {
		h.connections[client.userID] = make(map[*Client]bool)
	}
	h.connections[client.userID][client] = true
	h.metrics.WSConnections.Inc()

	h.logger.Info("WebSocket client registered",
		zap.String("userId", client.userID),
		zap.String("connectionId", client.id),
		zap.Int("userConnections", len(h.connections[client.userID])),
	)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.connections[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.connections, client.userID)
		if h.onUserGone != nil {
			go h.onUserGone(client.userID)
		}
	}
	h.metrics.WSConnections.Dec()

	h.logger.Info("WebSocket client unregistered",
		zap.String("userId", client.userID),
		zap.String("connectionId", client.id),
	)
}

func (h *Hub) deliver(msg *userMessage) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.connections[msg.userID]))
	for client := range h.connections[msg.userID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- msg.payload:
			h.metrics.WSMessagesSent.Inc()
		default:
			// Slow consumer. Drop the connection rather than the tick rate.
			h.logger.Warn("Closing slow WebSocket client",
				zap.String("userId", client.userID),
				zap.String("connectionId", client.id),
			)
			go func(c *Client) {
				h.unregister <- c
				c.conn.Close()
			}(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.connections {
		for client := range clients {
			close(client.send)
			client.conn.Close()
		}
		delete(h.connections, userID)
	}
	h.logger.Info("All WebSocket connections closed")
}
