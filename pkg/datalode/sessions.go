package datalode

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// RecordingRef links a session to one of its recordings.
type RecordingRef struct {
	ID string `json:"id"`
}

// Session groups recordings captured together under a shared key.
type Session struct {
	ID         string         `json:"id"`
	ProjectID  string         `json:"projectId,omitempty"`
	Key        string         `json:"key"`
	Device     *Device        `json:"device,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Recordings []RecordingRef `json:"recordings,omitempty"`
}

// SessionFilter narrows ListSessions results.
type SessionFilter struct {
	ProjectID string
}

// ListSessions returns sessions visible to the token. The result is
// empty, never nil, when nothing matches.
func (c *Client) ListSessions(ctx context.Context, f SessionFilter) ([]Session, error) {
	const op = "list sessions"
	q := url.Values{}
	setParam(q, "projectId", f.ProjectID)
	var sessions []Session
	if err := c.getJSON(ctx, op, "/v1/sessions", q, &sessions); err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []Session{}
	}
	return sessions, nil
}

// GetSession fetches a session by its ID or key. projectID may be empty
// for single-project organizations.
func (c *Client) GetSession(ctx context.Context, idOrKey, projectID string) (*Session, error) {
	const op = "get session"
	if strings.TrimSpace(idOrKey) == "" {
		return nil, validationError(op, "session id or key is required")
	}
	q := url.Values{}
	setParam(q, "projectId", projectID)
	var sess Session
	if err := c.getJSON(ctx, op, "/v1/sessions/"+url.PathEscape(idOrKey), q, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// CreateSessionParams describes a new session.
type CreateSessionParams struct {
	DeviceID  string
	Key       string
	ProjectID string
}

type createSessionRequest struct {
	DeviceID  string `json:"deviceId"`
	Key       string `json:"key"`
	ProjectID string `json:"projectId,omitempty"`
}

// CreateSession opens a session for a device under the given key.
func (c *Client) CreateSession(ctx context.Context, p CreateSessionParams) (*Session, error) {
	const op = "create session"
	if p.DeviceID == "" {
		return nil, validationError(op, "device id is required")
	}
	if p.Key == "" {
		return nil, validationError(op, "session key is required")
	}
	var sess Session
	body := createSessionRequest{DeviceID: p.DeviceID, Key: p.Key, ProjectID: p.ProjectID}
	if err := c.postJSON(ctx, op, "/v1/sessions", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// UpdateSessionParams adjusts session membership.
type UpdateSessionParams struct {
	AddRecordingIDs    []string
	RemoveRecordingIDs []string
	ProjectID          string
}

type updateSessionRequest struct {
	AddRecordingIDs    []string `json:"addRecordingIds,omitempty"`
	RemoveRecordingIDs []string `json:"removeRecordingIds,omitempty"`
	ProjectID          string   `json:"projectId,omitempty"`
}

// UpdateSession attaches or detaches recordings on a session.
func (c *Client) UpdateSession(ctx context.Context, sessionID string, p UpdateSessionParams) (*Session, error) {
	const op = "update session"
	if strings.TrimSpace(sessionID) == "" {
		return nil, validationError(op, "session id is required")
	}
	var sess Session
	body := updateSessionRequest{
		AddRecordingIDs:    p.AddRecordingIDs,
		RemoveRecordingIDs: p.RemoveRecordingIDs,
		ProjectID:          p.ProjectID,
	}
	if err := c.patchJSON(ctx, op, "/v1/sessions/"+url.PathEscape(sessionID), body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes a session. Its recordings are unaffected.
func (c *Client) DeleteSession(ctx context.Context, sessionID, projectID string) error {
	const op = "delete session"
	if strings.TrimSpace(sessionID) == "" {
		return validationError(op, "session id is required")
	}
	q := url.Values{}
	setParam(q, "projectId", projectID)
	return c.deleteJSON(ctx, op, "/v1/sessions/"+url.PathEscape(sessionID), q)
}
