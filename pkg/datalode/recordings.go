package datalode

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

// SiteRef identifies a storage site.
type SiteRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Recording is one imported chunk of device data. ImportedAt stays zero
// until the platform finishes importing.
type Recording struct {
	ID           string          `json:"id"`
	Path         string          `json:"path"`
	Size         int64           `json:"size"`
	MessageCount int64           `json:"messageCount"`
	CreatedAt    time.Time       `json:"createdAt"`
	ImportedAt   time.Time       `json:"importedAt"`
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	ImportStatus string          `json:"importStatus"`
	Site         *SiteRef        `json:"site,omitempty"`
	EdgeSite     *SiteRef        `json:"edgeSite,omitempty"`
	Device       *Device         `json:"device,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	Key          string          `json:"key,omitempty"`
	ProjectID    string          `json:"projectId,omitempty"`
}

// RecordingFilter narrows ListRecordings results. SortBy accepts
// snake_case field names.
type RecordingFilter struct {
	DeviceID     string
	DeviceName   string
	Start        time.Time
	End          time.Time
	Path         string
	ImportStatus string
	SiteID       string
	EdgeSiteID   string
	SortBy       string
	SortOrder    string
	Limit        int
	Offset       int
	ProjectID    string
}

func (f RecordingFilter) values() url.Values {
	q := url.Values{}
	setParam(q, "deviceId", f.DeviceID)
	setParam(q, "deviceName", f.DeviceName)
	setTimeParam(q, "start", f.Start)
	setTimeParam(q, "end", f.End)
	setParam(q, "path", f.Path)
	setParam(q, "importStatus", f.ImportStatus)
	setParam(q, "site.id", f.SiteID)
	setParam(q, "edgeSite.id", f.EdgeSiteID)
	setParam(q, "sortBy", camelize(f.SortBy))
	setParam(q, "sortOrder", f.SortOrder)
	setIntParam(q, "limit", f.Limit)
	setIntParam(q, "offset", f.Offset)
	setParam(q, "projectId", f.ProjectID)
	return q
}

// ListRecordings returns recordings matching the filter. The result is
// empty, never nil, when nothing matches.
func (c *Client) ListRecordings(ctx context.Context, f RecordingFilter) ([]Recording, error) {
	const op = "list recordings"
	var recordings []Recording
	if err := c.getJSON(ctx, op, "/v1/recordings", f.values(), &recordings); err != nil {
		return nil, err
	}
	if recordings == nil {
		recordings = []Recording{}
	}
	return recordings, nil
}

// DeleteRecording permanently removes a recording and its data.
func (c *Client) DeleteRecording(ctx context.Context, recordingID string) error {
	const op = "delete recording"
	if strings.TrimSpace(recordingID) == "" {
		return validationError(op, "recording id is required")
	}
	return c.deleteJSON(ctx, op, "/v1/recordings/"+url.PathEscape(recordingID), nil)
}
