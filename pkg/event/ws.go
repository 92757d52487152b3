package event

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dishaapp/disha/pkg/utils"
)

// WSMessage is the JSON frame sent over the event WebSocket.
type WSMessage struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
	TS    int64          `json:"ts"` // Unix ms
}

// WSHandler pushes event notifications to a connected client. Events that
// are user-scoped are only delivered to the owning user's connections.
type WSHandler struct {
	emitter  *Emitter
	upgrader websocket.Upgrader
}

func NewWSHandler(emitter *Emitter) *WSHandler {
	return &WSHandler{
		emitter: emitter,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades the request and streams events until the client goes
// away. The optional events query param is a comma-separated name filter.
// The connection must already be authenticated; user_id comes from the
// session middleware.
func (h *WSHandler) Handle(c *gin.Context) {
	userID := c.GetString("user_id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var nameFilter map[string]bool
	if eventsParam := c.Query("events"); eventsParam != "" {
		nameFilter = make(map[string]bool)
		for _, e := range strings.Split(eventsParam, ",") {
			if e = strings.TrimSpace(e); e != "" {
				nameFilter[e] = true
			}
		}
	}

	logger := utils.GetLogger()
	sendCh := make(chan WSMessage, 64)
	done := make(chan struct{})

	unsubscribe := h.emitter.OnAny(func(ev Event) {
		if nameFilter != nil && !nameFilter[ev.EventName()] {
			return
		}
		if scoped, ok := ev.(UserScoped); ok && scoped.EventUserID() != userID {
			return
		}

		msg := WSMessage{
			Event: ev.EventName(),
			Data:  eventToData(ev),
			TS:    time.Now().UnixMilli(),
		}

		select {
		case sendCh <- msg:
		default:
			// slow consumer, drop rather than block the emitter
			logger.Warn("dropped ws event", "event", ev.EventName(), "user_id", userID)
		}
	})
	defer unsubscribe()

	// Reader goroutine keeps the connection alive and detects close.
	go func() {
		defer close(done)
		conn.SetReadLimit(4096)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	// all writes happen on this goroutine, so no write lock is needed
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-done:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case msg := <-sendCh:
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

func eventToData(ev Event) map[string]any {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}
