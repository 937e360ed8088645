package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/abhishek9621yadav/chatroom-app/internal/service"
)

// Client is one authenticated WebSocket connection. A client may be
// subscribed to any number of rooms; rooms is guarded by the hub's
// mutex, never touched directly by the pumps.
//
// send carries persisted-message and error frames; it is never closed,
// so an in-flight broadcast racing a disconnect lands in a dead buffer
// instead of panicking. ephemeral carries typing frames, which may be
// dropped under pressure. done is closed by Unregister and stops the
// write pump.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	userID    uint
	send      chan []byte
	ephemeral chan []byte
	done      chan struct{}
	rooms     map[uint]bool
}

// NewClient wraps an upgraded, authenticated connection.
func NewClient(h *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		hub:       h,
		conn:      conn,
		userID:    userID,
		send:      make(chan []byte, 256),
		ephemeral: make(chan []byte, ephemeralBufferSize),
		done:      make(chan struct{}),
		rooms:     make(map[uint]bool),
	}
}

// Run starts the read and write pumps.
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

func (c *Client) UserID() uint { return c.userID }

// ReadPump reads frames from the socket and dispatches them serially.
// Serial dispatch is what gives a sender's messages their per-room
// order: the next frame is not read until the previous send has been
// durably appended.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		logrus.WithField("user_id", c.userID).Info("readPump exited, unregistered client")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.hub.touchPresence(c.userID)
		return nil
	})

	for {
		messageType, raw, err := c.conn.ReadMessage()
		if err != nil {
			logCtx := logrus.WithField("user_id", c.userID)
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed normally or read error")
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.dispatch(raw)
	}
}

// dispatch handles one inbound frame. Errors go back to this client
// only; they never tear the connection down.
func (c *Client) dispatch(raw []byte) {
	var event InboundEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		c.sendError("malformed event")
		return
	}
	if event.RoomID == 0 {
		c.sendError("roomId is required")
		return
	}

	ctx := context.Background()
	logCtx := logrus.WithFields(logrus.Fields{"user_id": c.userID, "room_id": event.RoomID, "event": event.Event})

	switch event.Event {
	case EventJoinRoom:
		if err := c.hub.Join(ctx, c, event.RoomID); err != nil {
			logCtx.WithError(err).Warn("Join event rejected")
			c.sendError(err.Error())
		}
	case EventLeaveRoom:
		c.hub.Leave(c, event.RoomID)
	case EventSendMessage:
		_, err := c.hub.sender.SendMessage(ctx, c.userID, serviceSendInput(event))
		if err != nil {
			logCtx.WithError(err).Warn("Send event rejected")
			c.sendError(err.Error())
		}
	case EventTyping:
		if c.subscribed(event.RoomID) {
			c.hub.RelayTyping(event.RoomID, c)
		}
	default:
		// Unknown event types are logged and ignored.
		logCtx.Warn("Unknown event type, ignoring")
	}
}

func serviceSendInput(event InboundEvent) service.SendMessageInput {
	return service.SendMessageInput{
		RoomID:  event.RoomID,
		Type:    event.Type,
		Content: event.Content,
	}
}

func (c *Client) subscribed(roomID uint) bool {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	return c.rooms[roomID]
}

// sendError queues an error frame for this client, dropping it if the
// buffer is full.
func (c *Client) sendError(message string) {
	select {
	case c.send <- encodeErrorFrame(message):
	default:
	}
}

// WritePump drains the send and ephemeral channels to the socket and
// keeps the connection alive with pings. It exits when done is closed,
// which closes the socket and in turn ends ReadPump.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logrus.WithField("user_id", c.userID).Info("writePump exited")
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case frame := <-c.send:
			if !c.writeFrame(frame) {
				return
			}

		case frame := <-c.ephemeral:
			if !c.writeFrame(frame) {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logrus.WithField("user_id", c.userID).WithError(err).Warn("Failed to send ping message")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
		}
	}
}

func (c *Client) writeFrame(frame []byte) bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		logrus.WithField("user_id", c.userID).WithError(err).Warn("Failed to write message to websocket")
		return false
	}
	_ = c.conn.SetWriteDeadline(time.Time{})
	return true
}
