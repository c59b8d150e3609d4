package sinks

import (
	"time"

	"github.com/datalode-hq/datalode-go/pkg/datalode"
)

// Notification represents the payload delivered downstream when a watch
// observes a new event.
type Notification struct {
	WatchID    string         `json:"watch_id"`
	DeviceID   string         `json:"device_id"`
	DeviceName string         `json:"device_name,omitempty"`
	Event      datalode.Event `json:"event"`
	ObservedAt time.Time      `json:"observed_at"`
}

// NewNotification constructs a Notification for the given watch + event.
func NewNotification(watchID, deviceName string, evt datalode.Event) Notification {
	return Notification{
		WatchID:    watchID,
		DeviceID:   evt.DeviceID,
		DeviceName: deviceName,
		Event:      evt,
		ObservedAt: time.Now().UTC(),
	}
}
