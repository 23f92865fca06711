package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/field-scheduler/internal/events"
)

const (
	wsPingInterval = 20 * time.Second
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// EventsHandler streams scheduling events to dispatch boards over WebSocket.
type EventsHandler struct {
	broker   events.Broker
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewEventsHandler(broker events.Broker, log *zap.Logger) *EventsHandler {
	return &EventsHandler{
		broker: broker,
		log:    log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Stream subscribes to ?topic= (an entity name, default all) until the
// client disconnects.
func (h *EventsHandler) Stream(c *gin.Context) {
	topic := c.DefaultQuery("topic", events.TopicAll)

	// Subscribed before the handshake completes so nothing published after
	// the client sees the upgrade is missed.
	ch := h.broker.Subscribe(topic)
	defer h.broker.Unsubscribe(topic, ch)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	// The read loop only watches for close frames and pongs.
	closed := make(chan struct{})
	conn.SetReadLimit(1 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(wsWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
