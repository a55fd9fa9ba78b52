package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"heating_monitor/internal/logger"
	"heating_monitor/internal/models"

	"github.com/nats-io/nats.go"
)

const (
	natsClientName   = "heating-monitor"
	natsConnectWait  = 5 * time.Second
	natsReconnectGap = 2 * time.Second
)

// NATSTransport publishes snapshots on a subject and delivers every snapshot
// seen on it, including its own, to the hub.
type NATSTransport struct {
	conn    *nats.Conn
	subject string
	hub     *Hub
	log     *logger.Logger
}

// DialNATS connects and subscribes. A failed dial leaves the caller on the store-watch fallback.
func DialNATS(url, subject string, hub *Hub, log *logger.Logger) (*NATSTransport, error) {
	conn, err := nats.Connect(url,
		nats.Name(natsClientName),
		nats.Timeout(natsConnectWait),
		nats.ReconnectWait(natsReconnectGap),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warnw("nats_disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Infow("nats_reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %q: %w", url, err)
	}

	t := &NATSTransport{conn: conn, subject: subject, hub: hub, log: log}
	if _, err := conn.Subscribe(subject, func(m *nats.Msg) { t.handle(m.Data) }); err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe %q: %w", subject, err)
	}
	return t, nil
}

func (t *NATSTransport) handle(data []byte) {
	var s models.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		t.log.Warnw("nats_bad_snapshot", "err", err, "subject", t.subject)
		return
	}
	t.hub.Deliver(s)
}

// Publish sends s unless the connection is down, in which case ErrUnavailable is returned.
func (t *NATSTransport) Publish(_ context.Context, s models.Snapshot) error {
	if t.conn.Status() != nats.CONNECTED {
		return ErrUnavailable
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := t.conn.Publish(t.subject, b); err != nil {
		return fmt.Errorf("publish %q: %w", t.subject, err)
	}
	return nil
}

// Close drains the subscription and closes the connection.
func (t *NATSTransport) Close() error {
	return t.conn.Drain()
}
