package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

type Template struct {
	Id                     string `json:"id"`
	Name                   string `json:"name"`
	DisplayName            string `json:"display_name,omitempty"`
	DormancyThresholdMs    int64  `json:"dormancy_threshold_ms"`
	DormancyAutoDeletionMs int64  `json:"dormancy_auto_deletion_ms"`
}

// TemplateDormancyRequest always carries both durations, the platform treats
// the PATCH as a partial update of exactly these two fields.
type TemplateDormancyRequest struct {
	DormancyThresholdMs    int64 `json:"dormancy_threshold_ms"`
	DormancyAutoDeletionMs int64 `json:"dormancy_auto_deletion_ms"`
}

func (c *ApiClient) GetTemplates(ctx context.Context) ([]Template, int, error) {
	response := []Template{}

	code, err := c.httpClient.Get(ctx, "/templates", &response)
	if err != nil {
		return nil, code, err
	}

	return response, code, nil
}

func (c *ApiClient) GetTemplate(ctx context.Context, templateId string) (*Template, int, error) {
	response := &Template{}

	code, err := c.httpClient.Get(ctx, "/templates/"+url.PathEscape(templateId), response)
	if err != nil {
		return nil, code, err
	}

	return response, code, nil
}

func (c *ApiClient) UpdateTemplateDormancy(ctx context.Context, templateId string, thresholdMs int64, autoDeletionMs int64) (int, error) {
	request := &TemplateDormancyRequest{
		DormancyThresholdMs:    thresholdMs,
		DormancyAutoDeletionMs: autoDeletionMs,
	}

	return c.httpClient.Patch(ctx, "/templates/"+url.PathEscape(templateId), request, nil, http.StatusOK)
}
