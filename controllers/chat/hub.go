package chatControllers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event is the wire format for every socket message, both directions.
type Event struct {
	Event          string          `json:"event"`
	ConversationID uint            `json:"conversation_id,omitempty"`
	SenderID       string          `json:"sender_id,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
}

type client struct {
	conn   *websocket.Conn
	userID string
	mu     sync.Mutex // serializes writes to the conn
}

func (cl *client) write(ev Event) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.conn.WriteJSON(ev)
}

// Hub owns every live socket and the room membership keyed by conversation
// id. It is created once at startup and passed to the routes that need it.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*client]bool)}
}

func (h *Hub) join(conversationID uint, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[conversationID]
	if !ok {
		room = make(map[*client]bool)
		h.rooms[conversationID] = room
	}
	room[cl] = true
}

func (h *Hub) leave(conversationID uint, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[conversationID]; ok {
		delete(room, cl)
		if len(room) == 0 {
			delete(h.rooms, conversationID)
		}
	}
}

func (h *Hub) leaveAll(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		delete(room, cl)
		if len(room) == 0 {
			delete(h.rooms, id)
		}
	}
}

// Broadcast sends the event to every socket in the conversation's room,
// except the sender's own socket when skip is non-nil.
func (h *Hub) Broadcast(conversationID uint, ev Event, skip *client) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.rooms[conversationID]))
	for cl := range h.rooms[conversationID] {
		if cl != skip {
			targets = append(targets, cl)
		}
	}
	h.mu.RUnlock()

	for _, cl := range targets {
		if err := cl.write(ev); err != nil {
			slog.Warn("socket write failed", "conversation_id", conversationID, "user_id", cl.userID, "error", err)
		}
	}
}

// isParticipant checks conversation membership before a socket may join a
// room; joins are not client-trusted.
func isParticipant(db *gorm.DB, conversationID uint, userID string) bool {
	var count int64
	db.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count)
	return count > 0
}

// GET /ws/chat?userId=...
func (h *Hub) ServeWS(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "userId is required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		cl := &client{conn: conn, userID: userID}
		defer func() {
			h.leaveAll(cl)
			conn.Close()
		}()

		for {
			var ev Event
			if err := conn.ReadJSON(&ev); err != nil {
				break
			}
			ev.SenderID = userID

			switch ev.Event {
			case "join_conversation":
				if isParticipant(db, ev.ConversationID, userID) {
					h.join(ev.ConversationID, cl)
				}
			case "leave_conversation":
				h.leave(ev.ConversationID, cl)
			case "send_message":
				// Relay only; persistence happens over REST.
				h.Broadcast(ev.ConversationID, Event{
					Event:          "receive_message",
					ConversationID: ev.ConversationID,
					SenderID:       userID,
					Data:           ev.Data,
				}, cl)
			case "typing":
				h.Broadcast(ev.ConversationID, Event{
					Event:          "user_typing",
					ConversationID: ev.ConversationID,
					SenderID:       userID,
				}, cl)
			case "stop_typing":
				h.Broadcast(ev.ConversationID, Event{
					Event:          "user_stop_typing",
					ConversationID: ev.ConversationID,
					SenderID:       userID,
				}, cl)
			}
		}
	}
}
