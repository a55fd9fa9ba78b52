// Package broadcast shares freshly polled snapshots with every open view.
//
// Snapshots are fanned out locally through a Hub. A Transport (NATS) carries
// them between monitor processes; when it is missing or failing, a
// StoreWatcher picks up changes of the persisted snapshot instead.
package broadcast

import (
	"context"
	"errors"

	"heating_monitor/internal/logger"
	"heating_monitor/internal/models"
)

// ErrUnavailable is returned by a transport that cannot deliver right now.
var ErrUnavailable = errors.New("broadcast transport unavailable")

// Handler receives snapshots. It must not block.
type Handler func(models.Snapshot)

// Channel publishes snapshots and notifies subscribers.
type Channel interface {
	Publish(ctx context.Context, s models.Snapshot) error
	OnReceive(fn Handler) (unsubscribe func())
}

// Transport moves snapshots between processes. Received snapshots are
// delivered to the hub the transport was built with.
type Transport interface {
	Publish(ctx context.Context, s models.Snapshot) error
	Close() error
}

// Bus is the Channel used by the service: primary transport first, local hub as fallback.
type Bus struct {
	hub     *Hub
	primary Transport
	log     *logger.Logger
}

// NewBus returns a bus delivering through primary; nil primary means local delivery only.
func NewBus(hub *Hub, primary Transport, log *logger.Logger) *Bus {
	return &Bus{hub: hub, primary: primary, log: log}
}

func (b *Bus) Publish(ctx context.Context, s models.Snapshot) error {
	if b.primary != nil {
		err := b.primary.Publish(ctx, s)
		if err == nil {
			return nil
		}
		b.log.Warnw("broadcast_primary_failed", "err", err, "revision", s.Revision())
	}
	b.hub.Deliver(s)
	return nil
}

func (b *Bus) OnReceive(fn Handler) func() {
	return b.hub.OnReceive(fn)
}

// Close releases the primary transport.
func (b *Bus) Close() error {
	if b.primary == nil {
		return nil
	}
	return b.primary.Close()
}
