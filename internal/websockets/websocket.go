package websockets

import (
	"time"

	"ecobayanihan/internal/events"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING      = "ping"
	MESSAGE_TYPE_PONG      = "pong"
	MESSAGE_TYPE_MESSAGE   = "message"
	MESSAGE_TYPE_BROADCAST = "broadcast"
	MESSAGE_TYPE_CONNECTED = "connected"
	PING_INTERVAL          = 30 * time.Second
	PONG_TIMEOUT           = 60 * time.Second
	WRITE_TIMEOUT          = 10 * time.Second
	MAX_MESSAGE_SIZE       = 64 * 1024
	SEND_CHANNEL_SIZE      = 64
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Role       Role
	Connection *websocket.Conn
	Manager    *Manager
	Status     int
	send       chan Message
}

// Subscriber is the read side of the event bus.
type Subscriber interface {
	Subscribe(channel events.Channel, handler events.EventHandler) error
}

type Manager struct {
	hub *Hub
	log logger.Logger
}

func New(eventBus Subscriber) (*Manager, error) {
	log := logger.New("websockets")

	manager := newManager(log)

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	if err := eventBus.Subscribe(events.POINTS_CHANNEL, manager.handlePointsEvent); err != nil {
		return nil, log.Err("failed to subscribe to points events", err)
	}
	if err := eventBus.Subscribe(events.EVENTS_CHANNEL, manager.handleCleanupEvent); err != nil {
		return nil, log.Err("failed to subscribe to cleanup events", err)
	}

	return manager, nil
}

func newManager(log logger.Logger) *Manager {
	return &Manager{
		hub: &Hub{
			broadcast:  make(chan Message, SEND_CHANNEL_SIZE),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		log: log,
	}
}

// HandleWebSocket serves a connection admitted by Upgrade.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	userID, role, ok := identityFromConn(c)
	if !ok {
		log.Warn("websocket connection without identity")
		_ = c.Close()
		return
	}

	client := &Client{
		ID:         uuid.New().String(),
		UserID:     userID,
		Role:       role,
		Connection: c,
		Manager:    m,
		Status:     STATUS_AUTHENTICATED,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	m.hub.register <- client
	defer func() {
		log.Info("Client disconnected", "clientID", client.ID)
		m.hub.unregister <- client
		_ = c.Close()
	}()

	client.send <- Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_CONNECTED,
		Channel:   "system",
		Action:    "connected",
		UserID:    userID.String(),
		Data:      map[string]any{"role": string(role)},
		Timestamp: time.Now(),
	}

	go client.writePump()
	client.readPump()
}

func (m *Manager) BroadcastMessage(message Message) {
	log := m.log.Function("BroadcastMessage")

	select {
	case m.hub.broadcast <- message:
		log.Debug("Message queued for broadcast", "messageID", message.ID)
	default:
		log.Warn("Broadcast channel is full, dropping message", "messageID", message.ID)
	}
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			return
		}

		c.routeMessage(message)
	}
}

// routeMessage answers keepalives. Clients only listen otherwise.
func (c *Client) routeMessage(message Message) {
	switch message.Type {
	case MESSAGE_TYPE_PING:
		c.trySend(Message{
			ID:        uuid.New().String(),
			Type:      MESSAGE_TYPE_PONG,
			Channel:   "system",
			Timestamp: time.Now(),
		})
	default:
		c.Manager.log.Function("routeMessage").
			Debug("Ignoring client message", "clientID", c.ID, "type", message.Type)
	}
}

func (c *Client) trySend(message Message) bool {
	select {
	case c.send <- message:
		return true
	default:
		c.Manager.log.Function("trySend").
			Warn("Client send channel full, dropping message", "clientID", c.ID, "messageID", message.ID)
		return false
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handlePointsEvent forwards an award to the connections of the participant
// who received it.
func (m *Manager) handlePointsEvent(event events.Event) error {
	if event.UserID == nil {
		m.log.Function("handlePointsEvent").Warn("points event without participant", "eventID", event.ID)
		return nil
	}

	m.SendMessageToUser(*event.UserID, messageFromEvent(event, MESSAGE_TYPE_MESSAGE))
	return nil
}

// handleCleanupEvent fans event lifecycle changes out to everyone connected so
// listings and capacity counts stay current.
func (m *Manager) handleCleanupEvent(event events.Event) error {
	m.BroadcastMessage(messageFromEvent(event, MESSAGE_TYPE_BROADCAST))
	return nil
}

func messageFromEvent(event events.Event, messageType string) Message {
	message := Message{
		ID:        event.ID,
		Type:      messageType,
		Channel:   event.Channel.String(),
		Action:    string(event.Type),
		Data:      event.Data,
		Timestamp: event.Timestamp,
	}
	if event.UserID != nil {
		message.UserID = event.UserID.String()
	}
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	return message
}
