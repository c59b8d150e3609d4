package datalode

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Event is a timestamped annotation attached to a device. An event whose
// End equals its Start is instantaneous.
type Event struct {
	ID        string            `json:"id"`
	DeviceID  string            `json:"deviceId"`
	Device    *Device           `json:"device,omitempty"`
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Duration returns the span the event covers.
func (e Event) Duration() time.Duration { return e.End.Sub(e.Start) }

// CreateEventParams describes a new event. One of DeviceID or DeviceName
// is required. A zero Duration creates an instantaneous event.
type CreateEventParams struct {
	DeviceID   string
	DeviceName string
	Start      time.Time
	Duration   time.Duration
	Metadata   map[string]string
}

func (p CreateEventParams) validate(op string) error {
	if p.DeviceID == "" && p.DeviceName == "" {
		return validationError(op, "one of device id or device name is required")
	}
	if p.Start.IsZero() {
		return validationError(op, "start time is required")
	}
	if p.Duration < 0 {
		return validationError(op, "duration must not be negative")
	}
	return nil
}

type createEventRequest struct {
	DeviceID   string            `json:"deviceId,omitempty"`
	DeviceName string            `json:"deviceName,omitempty"`
	Start      string            `json:"start"`
	End        string            `json:"end"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// CreateEvent records a new event on a device and returns it as stored
// by the platform.
func (c *Client) CreateEvent(ctx context.Context, p CreateEventParams) (*Event, error) {
	const op = "create event"
	if err := p.validate(op); err != nil {
		return nil, err
	}
	body := createEventRequest{
		DeviceID:   p.DeviceID,
		DeviceName: p.DeviceName,
		Start:      formatTime(p.Start),
		End:        formatTime(p.Start.Add(p.Duration)),
		Metadata:   p.Metadata,
	}
	var evt Event
	if err := c.postJSON(ctx, op, "/v1/events", body, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}

// EventFilter narrows ListEvents results. Zero fields are omitted from
// the query. SortBy accepts snake_case field names.
type EventFilter struct {
	DeviceID   string
	DeviceName string
	Start      time.Time
	End        time.Time
	Query      string
	ProjectID  string
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

func (f EventFilter) values() url.Values {
	q := url.Values{}
	setParam(q, "deviceId", f.DeviceID)
	setParam(q, "deviceName", f.DeviceName)
	setTimeParam(q, "start", f.Start)
	setTimeParam(q, "end", f.End)
	setParam(q, "query", f.Query)
	setParam(q, "projectId", f.ProjectID)
	setParam(q, "sortBy", camelize(f.SortBy))
	setParam(q, "sortOrder", f.SortOrder)
	setIntParam(q, "limit", f.Limit)
	setIntParam(q, "offset", f.Offset)
	return q
}

// ListEvents returns events matching the filter. The result is empty,
// never nil, when nothing matches.
func (c *Client) ListEvents(ctx context.Context, f EventFilter) ([]Event, error) {
	const op = "list events"
	var events []Event
	if err := c.getJSON(ctx, op, "/v1/events", f.values(), &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}

// DeleteEvent removes an event by ID.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	const op = "delete event"
	if strings.TrimSpace(eventID) == "" {
		return validationError(op, "event id is required")
	}
	return c.deleteJSON(ctx, op, "/v1/events/"+url.PathEscape(eventID), nil)
}
