package sinks

import "context"

// Sink delivers notifications to a downstream destination (SQS, SNS,
// Pub/Sub, HTTP, etc).
type Sink interface {
	ID() string
	Type() string
	Send(ctx context.Context, n Notification) error
}
