package apiclient

import (
	"context"
	"net/url"
	"time"
)

const BuildStatusRunning = "running"

type WorkspaceBuild struct {
	Status      string     `json:"status"`
	Transition  string     `json:"transition,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	MaxDeadline *time.Time `json:"max_deadline,omitempty"`
}

type Workspace struct {
	Id           string         `json:"id"`
	Name         string         `json:"name"`
	OwnerName    string         `json:"owner_name"`
	TemplateId   string         `json:"template_id"`
	TemplateName string         `json:"template_name"`
	LatestBuild  WorkspaceBuild `json:"latest_build"`

	// nil when the platform reports no TTL, 0 when it is explicitly zero
	TTLMillis *int64 `json:"ttl_ms"`

	LastUsedAt *time.Time `json:"last_used_at"`
	DormantAt  *time.Time `json:"dormant_at"`
	DeletingAt *time.Time `json:"deleting_at"`
}

func (w *Workspace) IsRunning() bool {
	return w.LatestBuild.Status == BuildStatusRunning
}

func (w *Workspace) IsDormant() bool {
	return w.DormantAt != nil
}

type WorkspaceList struct {
	Workspaces []Workspace `json:"workspaces"`
	Count      int         `json:"count"`
}

type UpdateTTLRequest struct {
	TTLMillis int64 `json:"ttl_ms"`
}

type ExtendRequest struct {
	Deadline time.Time `json:"deadline"`
}

type DormantRequest struct {
	Dormant bool `json:"dormant"`
}

func (c *ApiClient) ListWorkspaces(ctx context.Context, query string) (*WorkspaceList, int, error) {
	response := &WorkspaceList{}

	path := "/workspaces"
	if query != "" {
		path += "?" + url.Values{"q": []string{query}}.Encode()
	}

	code, err := c.httpClient.Get(ctx, path, response)
	if err != nil {
		return nil, code, err
	}

	return response, code, nil
}

func (c *ApiClient) GetWorkspace(ctx context.Context, workspaceId string) (*Workspace, int, error) {
	response := &Workspace{}

	code, err := c.httpClient.Get(ctx, "/workspaces/"+url.PathEscape(workspaceId), response)
	if err != nil {
		return nil, code, err
	}

	return response, code, nil
}

func (c *ApiClient) SetWorkspaceTTL(ctx context.Context, workspaceId string, ttlMillis int64) (int, error) {
	request := &UpdateTTLRequest{
		TTLMillis: ttlMillis,
	}

	return c.httpClient.Put(ctx, "/workspaces/"+url.PathEscape(workspaceId)+"/ttl", request, nil, 0)
}

func (c *ApiClient) ExtendWorkspace(ctx context.Context, workspaceId string, deadline time.Time) (int, error) {
	request := &ExtendRequest{
		Deadline: deadline.UTC(),
	}

	return c.httpClient.Put(ctx, "/workspaces/"+url.PathEscape(workspaceId)+"/extend", request, nil, 0)
}

func (c *ApiClient) SetWorkspaceDormant(ctx context.Context, workspaceId string, dormant bool) (int, error) {
	request := &DormantRequest{
		Dormant: dormant,
	}

	return c.httpClient.Put(ctx, "/workspaces/"+url.PathEscape(workspaceId)+"/dormant", request, nil, 0)
}
