package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/datalode-hq/datalode-go/internal/logger"
	"github.com/datalode-hq/datalode-go/pkg/datalode"
	"github.com/datalode-hq/datalode-go/pkg/sinks"
	"github.com/datalode-hq/datalode-go/pkg/watches"
)

// Service coordinates event polling across multiple watches.
type Service struct {
	source    EventSource
	publisher NotificationPublisher
	ledger    EventLedger
	log       logger.Logger
	lookback  time.Duration
}

// NewService wires a relay with its event source, downstream publisher,
// and delivery ledger. lookback is the poll window used by watches that
// do not set their own.
func NewService(source EventSource, publisher NotificationPublisher, log logger.Logger, ledger EventLedger, lookback time.Duration) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		source:    source,
		publisher: publisher,
		ledger:    ledger,
		log:       log,
		lookback:  lookback,
	}
}

// Run executes a poll pass for all configured watches.
func (s *Service) Run(ctx context.Context, cfgs []watches.Watch) error {
	if s == nil || s.source == nil {
		return fmt.Errorf("relay service is not initialized")
	}

	if len(cfgs) == 0 {
		return fmt.Errorf("no watches configured for polling")
	}

	errs := s.runAll(ctx, cfgs)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (s *Service) runAll(ctx context.Context, cfgs []watches.Watch) []error {
	errs := make([]error, 0, len(cfgs))

	for _, w := range cfgs {
		if ctx.Err() != nil {
			return errs
		}
		if err := s.runWatch(ctx, w); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("watch poll failed", "watch_error", map[string]any{
				"watch_id": w.ID,
				"error":    err.Error(),
			})
		}
	}

	return errs
}

func (s *Service) runWatch(ctx context.Context, w watches.Watch) error {
	now := time.Now().UTC()
	events, err := s.source.ListEvents(ctx, datalode.EventFilter{
		DeviceID:   w.DeviceID,
		DeviceName: w.DeviceName,
		Query:      w.Query,
		Start:      now.Add(-w.Lookback(s.lookback)),
		End:        now,
		SortBy:     "created_at",
		SortOrder:  "asc",
	})
	if err != nil {
		return fmt.Errorf("list events for watch %s: %w", w.ID, err)
	}

	fresh := s.filterNewEvents(w, events)

	delivered := 0
	var errs []error
	if s.publisher != nil {
		for _, evt := range fresh {
			n := sinks.NewNotification(w.ID, w.DeviceName, evt)
			if _, err := s.publisher.Publish(ctx, n); err != nil {
				errs = append(errs, fmt.Errorf("deliver event %s: %w", evt.ID, err))
				continue
			}
			delivered++
			s.markDelivered(w, evt.ID)
		}
	}

	s.log.InfoObj("watch poll completed", "watch_result", map[string]any{
		"watch_id":         w.ID,
		"events_listed":    len(events),
		"events_delivered": delivered,
	})
	return errors.Join(errs...)
}

// filterNewEvents drops events the ledger has already seen. Ledger
// lookup failures keep the event in the batch so a flaky ledger cannot
// silence deliveries.
func (s *Service) filterNewEvents(w watches.Watch, events []datalode.Event) []datalode.Event {
	if s.ledger == nil || len(events) == 0 {
		return events
	}

	out := make([]datalode.Event, 0, len(events))
	for _, evt := range events {
		seen, err := s.ledger.SeenEvent(evt.ID)
		if err != nil {
			s.log.WarnObj("event ledger lookup failed", "ledger_error", map[string]any{
				"watch_id": w.ID,
				"event_id": evt.ID,
				"error":    err.Error(),
			})
			out = append(out, evt)
			continue
		}
		if seen {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func (s *Service) markDelivered(w watches.Watch, eventID string) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.MarkEvent(eventID); err != nil {
		s.log.WarnObj("event ledger mark failed", "ledger_error", map[string]any{
			"watch_id": w.ID,
			"event_id": eventID,
			"error":    err.Error(),
		})
	}
}
