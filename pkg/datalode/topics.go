package datalode

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// Topic describes one logical channel of device data.
type Topic struct {
	Topic          string `json:"topic"`
	Version        string `json:"version"`
	Encoding       string `json:"encoding"`
	SchemaEncoding string `json:"schemaEncoding"`
	SchemaName     string `json:"schemaName"`
	// Schema holds the schema bytes, populated only when the listing
	// requested schemas. The wire carries it base64-encoded.
	Schema []byte `json:"schema,omitempty"`
}

// TopicFilter bounds a topic listing. Start and End are required.
type TopicFilter struct {
	DeviceID       string
	DeviceName     string
	Start          time.Time
	End            time.Time
	IncludeSchemas bool
	ProjectID      string
}

// ListTopics returns the topics recorded in a time range.
func (c *Client) ListTopics(ctx context.Context, f TopicFilter) ([]Topic, error) {
	const op = "list topics"
	if f.Start.IsZero() || f.End.IsZero() {
		return nil, validationError(op, "start and end times are required")
	}
	q := url.Values{}
	setParam(q, "deviceId", f.DeviceID)
	setParam(q, "deviceName", f.DeviceName)
	setTimeParam(q, "start", f.Start)
	setTimeParam(q, "end", f.End)
	q.Set("includeSchemas", strconv.FormatBool(f.IncludeSchemas))
	setParam(q, "projectId", f.ProjectID)
	var topics []Topic
	if err := c.getJSON(ctx, op, "/v1/data/topics", q, &topics); err != nil {
		return nil, err
	}
	if topics == nil {
		topics = []Topic{}
	}
	return topics, nil
}
