package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const wsIdHeader = "X-Ws-Id"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleEventsFeed upgrades the connection and streams application lifecycle
// events until the client hangs up. The JWT travels in the query string
// because browser WebSocket clients cannot set headers.
func (s *server) handleEventsFeed(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if _, err := s.verifyToken(tokenStr); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	h := http.Header{}
	h.Add(wsIdHeader, uuid.NewString())
	conn, err := upgrader.Upgrade(w, r, h)
	if err != nil {
		s.logger.Error("error while upgrading connection", "error", err)
		return
	}
	defer conn.Close()

	messageChan := make(chan []byte)
	s.events.newClients <- messageChan
	defer func() {
		s.events.closingClients <- messageChan
	}()

	go func() {
		for msgBytes := range messageChan {
			if err := conn.WriteMessage(websocket.TextMessage, msgBytes); err != nil {
				s.logger.Error("failed to write ws msg", "error", err)
				break
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
