package datalode

import (
	"context"
	"time"
)

// Project is an organization partition in the platform. Name and the
// activity fields are omitted by the platform for restricted tokens.
type Project struct {
	ID             string    `json:"id"`
	Name           string    `json:"name,omitempty"`
	OrgMemberCount int       `json:"orgMemberCount,omitempty"`
	LastSeenAt     time.Time `json:"lastSeenAt,omitempty"`
}

// ListProjects returns the projects visible to the token. The result is
// empty, never nil, when the organization has none.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	const op = "list projects"
	var projects []Project
	if err := c.getJSON(ctx, op, "/v1/projects", nil, &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []Project{}
	}
	return projects, nil
}
