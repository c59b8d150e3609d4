package datalode

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// CoverageRange describes one continuous span of stored data for a device.
type CoverageRange struct {
	DeviceID string    `json:"deviceId"`
	Device   *Device   `json:"device,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// CoverageFilter bounds a coverage query. Start and End are required.
type CoverageFilter struct {
	Start      time.Time
	End        time.Time
	DeviceID   string
	DeviceName string
	// Tolerance merges ranges separated by gaps up to this duration;
	// it is sent in whole seconds.
	Tolerance time.Duration
	ProjectID string
}

// GetCoverage reports which spans of [Start, End) hold data.
func (c *Client) GetCoverage(ctx context.Context, f CoverageFilter) ([]CoverageRange, error) {
	const op = "get coverage"
	if f.Start.IsZero() || f.End.IsZero() {
		return nil, validationError(op, "start and end times are required")
	}
	if !f.Start.Before(f.End) {
		return nil, validationError(op, "start must be before end")
	}
	q := url.Values{}
	setTimeParam(q, "start", f.Start)
	setTimeParam(q, "end", f.End)
	setParam(q, "deviceId", f.DeviceID)
	setParam(q, "deviceName", f.DeviceName)
	if f.Tolerance > 0 {
		q.Set("tolerance", strconv.FormatInt(int64(f.Tolerance/time.Second), 10))
	}
	setParam(q, "projectId", f.ProjectID)
	var ranges []CoverageRange
	if err := c.getJSON(ctx, op, "/v1/data/coverage", q, &ranges); err != nil {
		return nil, err
	}
	if ranges == nil {
		ranges = []CoverageRange{}
	}
	return ranges, nil
}
