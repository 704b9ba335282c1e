package realtime

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	utilityhttp "livepoll/internal/utility/http"
)

// ServeWS handles GET /ws, upgrading the request and attaching the connection
// to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  h.config.ReadBufferSize,
		WriteBufferSize: h.config.WriteBufferSize,
		CheckOrigin:     h.config.CheckOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade websocket connection")
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, 256),
		ConnectedAt: time.Now(),
	}

	h.register <- client
	go client.writePump()
	go client.readPump()
}

// Stats handles GET /ws/stats with current connection and participant counts.
func (h *Hub) Stats(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	connections := len(h.clients)
	h.mu.RUnlock()

	utilityhttp.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"connections":  connections,
		"participants": h.participantNames(),
	})
}
