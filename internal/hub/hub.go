// Package hub holds the live WebSocket connection registry and the
// per-room fan-out. Durable state never lives here; a hub restart loses
// only subscriptions, and clients rebuild them by rejoining.
package hub

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
	"github.com/abhishek9621yadav/chatroom-app/internal/service"
)

// WebSocket timing constants, shared by hub and client.
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Covers the largest
	// sendMessage frame: 2000 characters of content, each up to six
	// bytes once JSON-escaped, plus envelope.
	maxMessageSize = 16384

	// ephemeralBufferSize bounds the per-client typing frame queue.
	ephemeralBufferSize = 32

	// presenceTTL is how long a Redis presence entry outlives the last
	// heartbeat that refreshed it.
	presenceTTL = 2 * pongWait
)

// MembershipChecker answers whether an identity may subscribe to a
// room. The hub re-checks this on every join; a successful REST join is
// what makes it answer true.
type MembershipChecker interface {
	IsMember(ctx context.Context, roomID, userID uint) (bool, error)
}

// MessageSender is the single durable send path. The hub hands every
// sendMessage frame to it and never touches storage itself.
type MessageSender interface {
	SendMessage(ctx context.Context, senderID uint, in service.SendMessageInput) (*domain.Message, error)
}

// Hub maintains the set of live clients and their room subscriptions.
// One mutex guards the registry; fan-out copies the recipient list and
// releases it before writing, so a slow socket never blocks the hub.
type Hub struct {
	mu        sync.RWMutex
	conns     map[*Client]bool
	rooms     map[uint]map[*Client]bool
	userConns map[uint]int

	membership MembershipChecker
	sender     MessageSender
	presence   repository.PresenceRepository
}

// NewHub creates a Hub. presence may be nil; presence tracking is then
// disabled.
func NewHub(membership MembershipChecker, sender MessageSender, presence repository.PresenceRepository) *Hub {
	if membership == nil {
		panic("MembershipChecker cannot be nil for Hub")
	}
	if sender == nil {
		panic("MessageSender cannot be nil for Hub")
	}
	return &Hub{
		conns:      make(map[*Client]bool),
		rooms:      make(map[uint]map[*Client]bool),
		userConns:  make(map[uint]int),
		membership: membership,
		sender:     sender,
		presence:   presence,
	}
}

// Register adds an authenticated client to the hub and marks its user
// online. The client has no subscriptions yet.
func (h *Hub) Register(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to register a nil client")
		return
	}
	h.mu.Lock()
	h.conns[client] = true
	h.userConns[client.UserID()]++
	h.mu.Unlock()

	h.touchPresence(client.UserID())
	logrus.WithField("user_id", client.UserID()).Info("Client registered to Hub")
}

// Unregister removes a client from every room it subscribed to, stops
// its write pump via done and, if this was the user's last connection,
// marks the user offline. The send channel stays open so broadcasts
// that snapshotted this client before the disconnect write into a dead
// buffer instead of a closed channel. Safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	if client == nil {
		return
	}
	logCtx := logrus.WithField("user_id", client.UserID())

	h.mu.Lock()
	if !h.conns[client] {
		h.mu.Unlock()
		return
	}
	delete(h.conns, client)

	for roomID := range client.rooms {
		if roomClients, ok := h.rooms[roomID]; ok {
			delete(roomClients, client)
			if len(roomClients) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	client.rooms = make(map[uint]bool)

	h.userConns[client.UserID()]--
	lastConn := h.userConns[client.UserID()] <= 0
	if lastConn {
		delete(h.userConns, client.UserID())
	}
	close(client.done)
	h.mu.Unlock()

	if lastConn && h.presence != nil {
		if err := h.presence.MarkOffline(context.Background(), client.UserID()); err != nil {
			logCtx.WithError(err).Warn("Failed to mark user offline")
		}
	}
	logCtx.Info("Client unregistered from Hub")
}

// Join subscribes the client to a room after re-checking durable
// membership. Joining a room twice is a no-op.
func (h *Hub) Join(ctx context.Context, client *Client, roomID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": client.UserID(), "room_id": roomID})

	member, err := h.membership.IsMember(ctx, roomID, client.UserID())
	if err != nil {
		return err
	}
	if !member {
		logCtx.Warn("Subscription rejected: not a room member")
		return service.ErrNotRoomMember
	}

	h.mu.Lock()
	if !h.conns[client] {
		h.mu.Unlock()
		return nil
	}
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true
	h.mu.Unlock()

	logCtx.Info("Client subscribed to room")
	return nil
}

// Leave drops the client's subscription to a room. Unknown
// subscriptions are ignored.
func (h *Hub) Leave(client *Client, roomID uint) {
	h.mu.Lock()
	if roomClients, ok := h.rooms[roomID]; ok {
		delete(roomClients, client)
		if len(roomClients) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(client.rooms, roomID)
	h.mu.Unlock()

	logrus.WithFields(logrus.Fields{"user_id": client.UserID(), "room_id": roomID}).
		Info("Client unsubscribed from room")
}

// BroadcastMessage fans a persisted message out to every subscriber of
// the room, the sender's own connections included. A receiver whose
// send buffer is full is disconnected rather than skipped: it will
// reconnect and catch up from history, which is safer than silently
// owing it a message it can never recover over this socket.
func (h *Hub) BroadcastMessage(roomID uint, msg *domain.Message) {
	frame, err := encodeMessageFrame(msg)
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to encode message frame")
		return
	}

	recipients := h.snapshotRoom(roomID, nil)
	if len(recipients) == 0 {
		return
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":         roomID,
		"message_id":      msg.ID,
		"recipient_count": len(recipients),
	})
	logCtx.Debug("Broadcasting message to clients")

	for _, client := range recipients {
		select {
		case client.send <- frame:
		default:
			logCtx.WithField("receiver_user_id", client.UserID()).
				Warn("Client send buffer full, disconnecting laggard")
			h.Unregister(client)
		}
	}
}

// RelayTyping sends an ephemeral typing frame to everyone in the room
// except the typist. Typing frames have their own small buffer; when it
// is full the oldest queued frame is evicted for the newest.
func (h *Hub) RelayTyping(roomID uint, sender *Client) {
	frame, err := encodeTypingFrame(roomID, sender.UserID())
	if err != nil {
		return
	}
	for _, client := range h.snapshotRoom(roomID, sender) {
		select {
		case client.ephemeral <- frame:
		default:
			select {
			case <-client.ephemeral:
			default:
			}
			select {
			case client.ephemeral <- frame:
			default:
			}
		}
	}
}

// ActiveRooms returns the number of rooms with at least one live
// subscriber.
func (h *Hub) ActiveRooms() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// ActiveConnections returns the number of live clients.
func (h *Hub) ActiveConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// snapshotRoom copies the room's subscriber list, excluding skip, so
// writes happen outside the lock.
func (h *Hub) snapshotRoom(roomID uint, skip *Client) []*Client {
	h.mu.RLock()
	roomClients := h.rooms[roomID]
	recipients := make([]*Client, 0, len(roomClients))
	for client := range roomClients {
		if client != skip {
			recipients = append(recipients, client)
		}
	}
	h.mu.RUnlock()
	return recipients
}

// touchPresence refreshes the user's Redis presence entry. Called on
// register and on every pong.
func (h *Hub) touchPresence(userID uint) {
	if h.presence == nil {
		return
	}
	if err := h.presence.MarkOnline(context.Background(), userID, presenceTTL); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to refresh presence")
	}
}
