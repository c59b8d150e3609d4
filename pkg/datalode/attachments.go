package datalode

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Attachment is a file embedded in a recording (calibrations, maps, and
// similar sidecar payloads).
type Attachment struct {
	ID          string    `json:"id"`
	RecordingID string    `json:"recordingId"`
	SiteID      string    `json:"siteId"`
	Name        string    `json:"name"`
	MediaType   string    `json:"mediaType"`
	Size        int64     `json:"size"`
	CRC         uint32    `json:"crc"`
	Fingerprint string    `json:"fingerprint"`
	LogTime     time.Time `json:"logTime"`
	CreateTime  time.Time `json:"createTime"`
}

// AttachmentFilter narrows ListAttachments results. SortBy accepts
// snake_case field names.
type AttachmentFilter struct {
	DeviceID    string
	DeviceName  string
	RecordingID string
	SiteID      string
	SortBy      string
	SortOrder   string
	Limit       int
	Offset      int
	ProjectID   string
}

// ListAttachments returns recording attachments matching the filter.
// The result is empty, never nil, when nothing matches.
func (c *Client) ListAttachments(ctx context.Context, f AttachmentFilter) ([]Attachment, error) {
	const op = "list attachments"
	q := url.Values{}
	setParam(q, "deviceId", f.DeviceID)
	setParam(q, "deviceName", f.DeviceName)
	setParam(q, "recordingId", f.RecordingID)
	setParam(q, "siteId", f.SiteID)
	setParam(q, "sortBy", camelize(f.SortBy))
	setParam(q, "sortOrder", f.SortOrder)
	setIntParam(q, "limit", f.Limit)
	setIntParam(q, "offset", f.Offset)
	setParam(q, "projectId", f.ProjectID)
	var attachments []Attachment
	if err := c.getJSON(ctx, op, "/v1/recording-attachments", q, &attachments); err != nil {
		return nil, err
	}
	if attachments == nil {
		attachments = []Attachment{}
	}
	return attachments, nil
}

// DownloadAttachment streams one attachment's bytes, reporting
// cumulative progress per chunk when progress is non-nil.
func (c *Client) DownloadAttachment(ctx context.Context, attachmentID string, progress ProgressFunc) ([]byte, error) {
	const op = "download attachment"
	if strings.TrimSpace(attachmentID) == "" {
		return nil, validationError(op, "attachment id is required")
	}
	rc, err := c.openStream(ctx, op, "/v1/recording-attachments/"+url.PathEscape(attachmentID)+"/download")
	if err != nil {
		return nil, err
	}
	data, err := collectStream(rc, progress)
	if err != nil {
		return nil, transportError(op, err)
	}
	return data, nil
}
