package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"heating_monitor/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
	feedBuffer = 4
)

const (
	msgSnapshot = "snapshot"
	msgError    = "error"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// newUpgrader allows the listed origins ("*" for any). An empty list keeps
// gorilla's same-host check. Requests without an Origin header always pass.
func newUpgrader(origins []string) websocket.Upgrader {
	if len(origins) == 0 {
		return websocket.Upgrader{}
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = struct{}{}
	}
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if _, ok := allowed["*"]; ok {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}

// @Summary      Live snapshot feed
// @Description  Sends the cached snapshot on connect, then every snapshot published by any poller as {"type":"snapshot","data":{...}}.
// @Tags         dashboard
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_upgrade_failed", "origin", c.GetHeader("Origin"), "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	// Subscribe before the initial send so nothing published in between is lost.
	// Slow clients drop snapshots instead of blocking the publisher.
	updates := make(chan models.Snapshot, feedBuffer)
	if h.services.Feed != nil {
		unsubscribe := h.services.OnReceive(func(s models.Snapshot) {
			select {
			case updates <- s:
			default:
				if h.log != nil {
					h.log.Debugw("ws_snapshot_dropped", "revision", s.Revision())
				}
			}
		})
		defer unsubscribe()
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	ctx := c.Request.Context()
	last, err := h.sendSnapshot(ctx, conn)
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case s := <-updates:
			// The initial load may already be newer than a queued update.
			if s.Revision() <= last {
				continue
			}
			last = s.Revision()
			if err := writeEnvelope(conn, wsEnvelope{Type: msgSnapshot, Data: s}); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendSnapshot writes the cached snapshot and returns its revision.
// A load failure is reported to the client as an error envelope.
func (h *Handler) sendSnapshot(ctx context.Context, conn *websocket.Conn) (int64, error) {
	snap, err := h.services.Snapshot(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_snapshot_load_failed", "err", err)
		}
		_ = writeEnvelope(conn, wsEnvelope{Type: msgError, Error: errLoadSnapshot})
		return 0, err
	}
	return snap.Revision(), writeEnvelope(conn, wsEnvelope{Type: msgSnapshot, Data: snap})
}

func writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
