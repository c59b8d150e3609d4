package datalode

import (
	"context"
	"io"
	"time"
)

// OutputFormat selects the container format for downloaded data.
type OutputFormat string

const (
	// FormatMCAP is the current MCAP container, the default.
	FormatMCAP OutputFormat = "mcap"
	// FormatMCAP0 is the legacy pre-1.0 MCAP container.
	FormatMCAP0 OutputFormat = "mcap0"
	// FormatBag is the ROS1 bag container. Exports as bag only work when
	// the source was uploaded as a bag.
	FormatBag OutputFormat = "bag1"
)

func (f OutputFormat) orDefault() OutputFormat {
	if f == "" {
		return FormatMCAP
	}
	return f
}

// DownloadParams selects device data over the half-open interval
// [Start, End). One of DeviceID or DeviceName is required.
type DownloadParams struct {
	DeviceID   string
	DeviceName string
	Start      time.Time
	End        time.Time
	// Topics limits the download to the named topics; empty means all.
	Topics   []string
	Format   OutputFormat
	Progress ProgressFunc
}

func (p DownloadParams) validate(op string) error {
	if p.DeviceID == "" && p.DeviceName == "" {
		return validationError(op, "one of device id or device name is required")
	}
	if p.Start.IsZero() || p.End.IsZero() {
		return validationError(op, "start and end times are required")
	}
	if !p.Start.Before(p.End) {
		return validationError(op, "start must be before end")
	}
	return nil
}

type streamLinkRequest struct {
	DeviceID           string   `json:"deviceId,omitempty"`
	DeviceName         string   `json:"deviceName,omitempty"`
	Start              string   `json:"start,omitempty"`
	End                string   `json:"end,omitempty"`
	Topics             []string `json:"topics,omitempty"`
	RecordingID        string   `json:"recordingId,omitempty"`
	Key                string   `json:"key,omitempty"`
	IncludeAttachments bool     `json:"includeAttachments,omitempty"`
	OutputFormat       string   `json:"outputFormat"`
}

type streamLinkResponse struct {
	Link string `json:"link"`
}

// mintStreamLink asks the platform for a short-lived signed link.
func (c *Client) mintStreamLink(ctx context.Context, op, path string, body streamLinkRequest) (string, error) {
	var out streamLinkResponse
	if err := c.postJSON(ctx, op, path, body, &out); err != nil {
		return "", err
	}
	if out.Link == "" {
		return "", &Error{Kind: KindAPI, Op: op, Message: "platform returned no link"}
	}
	return out.Link, nil
}

// DownloadData fetches device data for [Start, End) and returns the raw
// bytes. The platform mints a signed link first; the payload then
// streams from that link in 32 KiB chunks with cumulative progress
// reported through p.Progress.
func (c *Client) DownloadData(ctx context.Context, p DownloadParams) ([]byte, error) {
	const op = "download data"
	rc, err := c.openDataStream(ctx, op, p)
	if err != nil {
		return nil, err
	}
	data, err := collectStream(rc, p.Progress)
	if err != nil {
		return nil, transportError(op, err)
	}
	return data, nil
}

// OpenDataStream is DownloadData without the buffering: it hands back
// the raw byte stream. The caller must close it.
func (c *Client) OpenDataStream(ctx context.Context, p DownloadParams) (io.ReadCloser, error) {
	return c.openDataStream(ctx, "open data stream", p)
}

func (c *Client) openDataStream(ctx context.Context, op string, p DownloadParams) (io.ReadCloser, error) {
	if err := p.validate(op); err != nil {
		return nil, err
	}
	link, err := c.mintStreamLink(ctx, op, "/v1/data/stream", streamLinkRequest{
		DeviceID:     p.DeviceID,
		DeviceName:   p.DeviceName,
		Start:        formatTime(p.Start),
		End:          formatTime(p.End),
		Topics:       p.Topics,
		OutputFormat: string(p.Format.orDefault()),
	})
	if err != nil {
		return nil, err
	}
	return c.openStream(ctx, op, link)
}

// DownloadRecordingParams selects a whole recording by ID or key.
type DownloadRecordingParams struct {
	RecordingID string
	Key         string
	// IncludeAttachments embeds MCAP attachments in the export.
	IncludeAttachments bool
	Format             OutputFormat
	Progress           ProgressFunc
}

// DownloadRecording fetches the raw bytes of one recording.
func (c *Client) DownloadRecording(ctx context.Context, p DownloadRecordingParams) ([]byte, error) {
	const op = "download recording"
	if p.RecordingID == "" && p.Key == "" {
		return nil, validationError(op, "one of recording id or key is required")
	}
	link, err := c.mintStreamLink(ctx, op, "/v1/data/stream", streamLinkRequest{
		RecordingID:        p.RecordingID,
		Key:                p.Key,
		IncludeAttachments: p.IncludeAttachments,
		OutputFormat:       string(p.Format.orDefault()),
	})
	if err != nil {
		return nil, err
	}
	rc, err := c.openStream(ctx, op, link)
	if err != nil {
		return nil, err
	}
	data, err := collectStream(rc, p.Progress)
	if err != nil {
		return nil, transportError(op, err)
	}
	return data, nil
}
