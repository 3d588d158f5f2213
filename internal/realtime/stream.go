package realtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// NewUpgrader builds a WebSocket upgrader that accepts the given origins. An empty list accepts all.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// Stream writes initial and then every event of sub to conn until the subscription ends, the peer
// goes away or stop returns true for a delivered event. Inbound messages are discarded.
func Stream(conn *websocket.Conn, sub *Subscription, initial Event, stop func(Event) bool, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stop == nil {
		stop = func(Event) bool { return false }
	}
	defer sub.Cancel()

	peerGone := make(chan struct{})
	go func() {
		defer close(peerGone)
		conn.SetReadLimit(maxMessageSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug("stream peer closed", zap.Error(err))
				}
				return
			}
		}
	}()

	if err := writeEvent(conn, initial); err != nil || stop(initial) {
		closeStream(conn)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case event, ok := <-sub.C:
			if !ok {
				closeStream(conn)
				return
			}
			if err := writeEvent(conn, event); err != nil {
				logger.Debug("stream write failed", zap.Error(err))
				return
			}
			if stop(event) {
				closeStream(conn)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-peerGone:
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, event Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(event)
}

func closeStream(conn *websocket.Conn) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
