package websocket

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mindgraph-backend/application/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBufferSize = 256
)

// Inbound message types accepted from clients
const (
	inboundPin     = "pin"
	inboundDrag    = "drag"
	inboundRelease = "release"
)

// inboundMessage is a layout gesture sent by the client
type inboundMessage struct {
	Type   string  `json:"type"`
	NodeID string  `json:"nodeId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Client is one WebSocket connection for one user
type Client struct {
	id     string
	userID string
	hub    *Hub
	layout *services.LayoutManager
	conn   *websocket.Conn
	send   chan []byte
	logger *zap.Logger
}

// NewClient creates a client for an upgraded connection
func NewClient(userID string, hub *Hub, layoutManager *services.LayoutManager, conn *websocket.Conn, logger *zap.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		id:     id,
		userID: userID,
		hub:    hub,
		layout: layoutManager,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		logger: logger.With(
			zap.String("userId", userID),
			zap.String("connectionId", id),
		),
	}
}

// Start registers with the hub and begins the read and write pumps
func (c *Client) Start() {
	c.hub.register <- c
	go c.writePump()
	go c.readPump()
	c.sendConnected()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.handleMessage(bytes.TrimSpace(message))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage routes a gesture to the user's running simulation
func (c *Client) handleMessage(message []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Debug("Ignoring malformed message", zap.Error(err))
		return
	}

	switch msg.Type {
	case inboundPin:
		c.layout.PinNode(c.userID, msg.NodeID, msg.X, msg.Y)
	case inboundDrag:
		c.layout.DragNode(c.userID, msg.NodeID, msg.X, msg.Y)
	case inboundRelease:
		c.layout.ReleaseNode(c.userID, msg.NodeID)
	default:
		c.logger.Debug("Ignoring unknown message type", zap.String("type", msg.Type))
	}
}

func (c *Client) sendConnected() {
	data, _ := json.Marshal(map[string]string{"connectionId": c.id})
	payload, err := json.Marshal(OutboundMessage{
		Type:      MessageTypeConnected,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}
