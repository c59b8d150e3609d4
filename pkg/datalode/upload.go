package datalode

import (
	"context"
	"io"
	"strings"
)

// UploadParams describes a recording upload. Filename and Data are
// required, plus one of DeviceID, DeviceName, or Key. Uploads sharing a
// key are de-duplicated into a single recording by the platform. The
// data format is inferred from the filename extension.
type UploadParams struct {
	DeviceID   string
	DeviceName string
	Key        string
	Filename   string
	Data       io.Reader
	ProjectID  string
	Progress   ProgressFunc
}

func (p UploadParams) validate(op string) error {
	if strings.TrimSpace(p.Filename) == "" {
		return validationError(op, "filename is required")
	}
	if p.Data == nil {
		return validationError(op, "data is required")
	}
	if p.DeviceID == "" && p.DeviceName == "" && p.Key == "" {
		return validationError(op, "one of device id, device name, or key is required")
	}
	return nil
}

// UploadResult reports the outcome of the storage PUT.
type UploadResult struct {
	Link       string
	StatusCode int
	Body       string
}

type uploadLinkRequest struct {
	DeviceID   string `json:"deviceId,omitempty"`
	DeviceName string `json:"deviceName,omitempty"`
	Filename   string `json:"filename"`
	Key        string `json:"key,omitempty"`
	ProjectID  string `json:"projectId,omitempty"`
}

// UploadData pushes a recording to the platform: it mints a signed
// upload link, then PUTs the data there as an octet stream, reporting
// cumulative progress through p.Progress as the body is consumed.
func (c *Client) UploadData(ctx context.Context, p UploadParams) (*UploadResult, error) {
	const op = "upload data"
	if err := p.validate(op); err != nil {
		return nil, err
	}

	var out streamLinkResponse
	if err := c.postJSON(ctx, op, "/v1/data/upload", uploadLinkRequest{
		DeviceID:   p.DeviceID,
		DeviceName: p.DeviceName,
		Filename:   p.Filename,
		Key:        p.Key,
		ProjectID:  p.ProjectID,
	}, &out); err != nil {
		return nil, err
	}
	if out.Link == "" {
		return nil, &Error{Kind: KindAPI, Op: op, Message: "platform returned no upload link"}
	}

	req, err := c.newRequest(ctx, op)
	if err != nil {
		return nil, err
	}
	body := p.Data
	if p.Progress != nil {
		body = &progressReader{r: p.Data, progress: p.Progress}
	}
	resp, err := req.
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(body).
		Put(out.Link)
	if err != nil {
		return nil, transportError(op, err)
	}
	if resp.IsError() {
		return nil, apiError(op, resp)
	}
	return &UploadResult{
		Link:       out.Link,
		StatusCode: resp.StatusCode(),
		Body:       string(resp.Body()),
	}, nil
}

// progressReader reports cumulative bytes as the request body is consumed.
type progressReader struct {
	r        io.Reader
	read     int64
	progress ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		p.progress(p.read)
	}
	return n, err
}
