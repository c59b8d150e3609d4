package datalode

import (
	"context"
	"net/url"
	"strings"
)

// Device is a data-producing entity registered in the platform. Property
// values are strings, booleans, or numbers.
type Device struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
	ProjectID  string         `json:"projectId,omitempty"`
}

// CreateDeviceParams describes a new device.
type CreateDeviceParams struct {
	Name       string
	Properties map[string]any
	// ProjectID is required for multi-project organizations.
	ProjectID string
}

type deviceRequest struct {
	Name       string         `json:"name,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	ProjectID  string         `json:"projectId,omitempty"`
}

// CreateDevice registers a new device.
func (c *Client) CreateDevice(ctx context.Context, p CreateDeviceParams) (*Device, error) {
	const op = "create device"
	if strings.TrimSpace(p.Name) == "" {
		return nil, validationError(op, "device name is required")
	}
	var dev Device
	body := deviceRequest{Name: p.Name, Properties: p.Properties, ProjectID: p.ProjectID}
	if err := c.postJSON(ctx, op, "/v1/devices", body, &dev); err != nil {
		return nil, err
	}
	return &dev, nil
}

// GetDevice fetches a device by its stable ID or unique name.
func (c *Client) GetDevice(ctx context.Context, nameOrID string) (*Device, error) {
	const op = "get device"
	if strings.TrimSpace(nameOrID) == "" {
		return nil, validationError(op, "device id or name is required")
	}
	var dev Device
	if err := c.getJSON(ctx, op, "/v1/devices/"+url.PathEscape(nameOrID), nil, &dev); err != nil {
		return nil, err
	}
	return &dev, nil
}

// DeviceFilter narrows ListDevices results.
type DeviceFilter struct {
	ProjectID string
}

// ListDevices returns registered devices. The result is empty, never
// nil, when nothing matches.
func (c *Client) ListDevices(ctx context.Context, f DeviceFilter) ([]Device, error) {
	const op = "list devices"
	q := url.Values{}
	setParam(q, "projectId", f.ProjectID)
	var devices []Device
	if err := c.getJSON(ctx, op, "/v1/devices", q, &devices); err != nil {
		return nil, err
	}
	if devices == nil {
		devices = []Device{}
	}
	return devices, nil
}

// UpdateDeviceParams carries the mutable device fields. Zero fields are
// left untouched; property values merge with existing ones.
type UpdateDeviceParams struct {
	Name       string
	Properties map[string]any
}

// UpdateDevice renames a device or merges new property values.
func (c *Client) UpdateDevice(ctx context.Context, nameOrID string, p UpdateDeviceParams) (*Device, error) {
	const op = "update device"
	if strings.TrimSpace(nameOrID) == "" {
		return nil, validationError(op, "device id or name is required")
	}
	var dev Device
	body := deviceRequest{Name: p.Name, Properties: p.Properties}
	if err := c.patchJSON(ctx, op, "/v1/devices/"+url.PathEscape(nameOrID), body, &dev); err != nil {
		return nil, err
	}
	return &dev, nil
}

// DeleteDevice removes a device by ID or name.
func (c *Client) DeleteDevice(ctx context.Context, nameOrID string) error {
	const op = "delete device"
	if strings.TrimSpace(nameOrID) == "" {
		return validationError(op, "device id or name is required")
	}
	return c.deleteJSON(ctx, op, "/v1/devices/"+url.PathEscape(nameOrID), nil)
}
