package ws

import (
	"context"
	"log/slog"
	"time"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
)

type SnapshotSource interface {
	Load(ctx context.Context) loan.Snapshot
}

// Notifier polls the store and announces every new revision. Polling also
// catches writes made by other processes sharing the file, such as the CLI.
type Notifier struct {
	source       SnapshotSource
	hub          *Hub
	logger       *slog.Logger
	pollInterval time.Duration
	lastRevision string
}

func NewNotifier(source SnapshotSource, hub *Hub, pollInterval time.Duration, logger *slog.Logger) *Notifier {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{source: source, hub: hub, logger: logger, pollInterval: pollInterval}
}

func (n *Notifier) Run(ctx context.Context) error {
	n.lastRevision = n.source.Load(ctx).Revision

	ticker := time.NewTicker(n.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n.tick(ctx)
		}
	}
}

// tick reports whether a new revision was published.
func (n *Notifier) tick(ctx context.Context) bool {
	snap := n.source.Load(ctx)
	if snap.Revision == n.lastRevision {
		return false
	}
	n.lastRevision = snap.Revision

	err := n.hub.PublishEvent(ChannelStoreUpdates, storeEvent("store_updated", snap))
	if err != nil {
		n.logger.Error("publish store update failed", "err", err)
		return false
	}
	return true
}

func storeEvent(name string, snap loan.Snapshot) Event {
	return Event{
		Event: name,
		Data: map[string]any{
			"revision": snap.Revision,
			"theme":    snap.Theme,
			"pending":  snap.PendingCount(),
			"total":    len(snap.Loans),
		},
	}
}
