package relay

import (
	"context"

	"github.com/datalode-hq/datalode-go/pkg/datalode"
	"github.com/datalode-hq/datalode-go/pkg/sinks"
)

// EventSource lists platform events matching a filter. *datalode.Client
// satisfies this.
type EventSource interface {
	ListEvents(ctx context.Context, f datalode.EventFilter) ([]datalode.Event, error)
}

// NotificationPublisher delivers notifications downstream. *sinks.Fanout
// satisfies this.
type NotificationPublisher interface {
	Publish(ctx context.Context, n sinks.Notification) (int, error)
}

// EventLedger remembers which events were already delivered.
// storage.Store satisfies this.
type EventLedger interface {
	SeenEvent(id string) (bool, error)
	MarkEvent(id string) error
}
