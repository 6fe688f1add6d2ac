package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/propvista/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T, hub *Hub, userID uint) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.register(userID, conn)
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	// The server handler registers just after the handshake completes.
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients[userID]) == 1
	}, time.Second, 10*time.Millisecond)

	return client
}

func TestPublishSerializesConcurrentWriters(t *testing.T) {
	hub := NewHub()
	userID := uint(7)
	client := dialTestHub(t, hub, userID)

	notification := &models.Notification{
		ID:       uuid.New(),
		UserID:   &userID,
		UserType: models.UserTypeUser,
		Title:    "Booking confirmed",
		Message:  "Your site visit is confirmed",
		Category: models.CategoryBooking,
	}

	const publishers = 8
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Publish(notification)
		}()
	}
	wg.Wait()

	for i := 0; i < publishers; i++ {
		var got models.Notification
		require.NoError(t, client.ReadJSON(&got))
		assert.Equal(t, notification.ID, got.ID)
	}
}

func TestPublishBroadcastReachesEveryUser(t *testing.T) {
	hub := NewHub()
	alice := dialTestHub(t, hub, 1)
	bob := dialTestHub(t, hub, 2)

	hub.Publish(&models.Notification{
		ID:       uuid.New(),
		UserType: models.UserTypeAll,
		Title:    "Maintenance window",
		Category: models.CategorySystem,
	})

	for _, client := range []*websocket.Conn{alice, bob} {
		var got models.Notification
		require.NoError(t, client.ReadJSON(&got))
		assert.Equal(t, "Maintenance window", got.Title)
	}
}
