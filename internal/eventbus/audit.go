package eventbus

import (
	"context"
	"log/slog"
)

const auditBufferSize = 64

// AuditLogger subscribes to the bus and writes one structured log record per
// lifecycle event, for operational visibility.
type AuditLogger struct {
	bus *Bus
}

func NewAuditLogger(bus *Bus) *AuditLogger {
	return &AuditLogger{bus: bus}
}

// Start blocks until ctx is cancelled.
func (a *AuditLogger) Start(ctx context.Context) error {
	id, ch := a.bus.Subscribe(auditBufferSize)
	defer a.bus.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			attrs := []any{
				"event_id", event.ID,
				"type", string(event.Type),
				"resource_id", event.ResourceID,
			}
			for k, v := range event.Metadata {
				attrs = append(attrs, k, v)
			}
			slog.InfoContext(ctx, "audit", attrs...)
		}
	}
}
