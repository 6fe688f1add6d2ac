package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/propvista/backend/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients authenticate with a bearer token, not cookies, so
	// cross-origin upgrades are acceptable here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks live inbox connections per user and pushes freshly created
// notifications to them.
type Hub struct {
	mu      sync.Mutex
	clients map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*websocket.Conn]bool)}
}

func (h *Hub) register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
}

func (h *Hub) unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[userID], conn)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
	conn.Close()
}

// Publish pushes a notification to its target's open connections. A nil
// target means broadcast: every connected user receives it.
func (h *Hub) Publish(notification *models.Notification) {
	if notification == nil {
		return
	}

	// Exclusive lock: gorilla/websocket allows only one concurrent writer
	// per connection, so publishes must not interleave.
	h.mu.Lock()
	defer h.mu.Unlock()

	deliver := func(conns map[*websocket.Conn]bool) {
		for conn := range conns {
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(notification); err != nil {
				log.Printf("websocket push failed: %v", err)
			}
		}
	}

	if notification.UserID != nil {
		deliver(h.clients[*notification.UserID])
		return
	}
	for _, conns := range h.clients {
		deliver(conns)
	}
}

// handleNotificationFeed upgrades to a websocket and streams notifications
// created for the authenticated user until the client goes away.
func (s *Server) handleNotificationFeed() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}

		s.Hub.register(userID, conn)
		defer s.Hub.unregister(userID, conn)

		// Reads are only used to detect the peer closing.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
