package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/freelancenest/nest/server/response"
	"github.com/freelancenest/nest/services/inbox"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleInboxStream upgrades to a websocket and streams inbox snapshots: one
// immediately, then one after every change touching the user's conversations.
// The whole subscription is torn down with the socket.
func (s *Server) handleInboxStream() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, apiErr := currentUser(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("inbox stream: upgrade: %v", err)
			return
		}
		defer conn.Close()

		gate := inbox.NewGate(
			inbox.Permission(user.NotifyPermission),
			inbox.NewFCMNotifier(s.MessagingClient, user.DeviceToken),
			nil,
		)

		coordinator := inbox.NewCoordinator(
			strconv.FormatUint(uint64(user.ID), 10),
			s.MessageService,
			inbox.NewBrokerSource(s.Broker),
			gate,
		)
		defer coordinator.Close()

		if err := coordinator.Start(c.Request.Context()); err != nil {
			log.Printf("inbox stream: start coordinator: %v", err)
			return
		}

		// snapshots are serialized through one channel; the websocket
		// writer must not be shared across goroutines
		updates := make(chan inbox.Snapshot, 8)
		removeListener := coordinator.Listen(func(snap inbox.Snapshot) {
			select {
			case updates <- snap:
			default:
				// the socket is behind; it will catch up on the next snapshot
			}
		})
		defer removeListener()

		if err := conn.WriteJSON(coordinator.Snapshot()); err != nil {
			return
		}

		// reader: only there to notice the peer going away
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case snap := <-updates:
				if err := conn.WriteJSON(snap); err != nil {
					return
				}
			case <-done:
				return
			case <-c.Request.Context().Done():
				return
			}
		}
	}
}
