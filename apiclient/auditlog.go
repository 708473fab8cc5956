package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type AuditLogEntry struct {
	Id               string                 `json:"id"`
	Time             time.Time              `json:"time"`
	Action           string                 `json:"action"`
	ResourceType     string                 `json:"resource_type"`
	ResourceTarget   string                 `json:"resource_target"`
	AdditionalFields map[string]interface{} `json:"additional_fields"`
	User             *User                  `json:"user"`
}

// Field returns a string value from the additional fields, or "" if absent.
func (e *AuditLogEntry) Field(name string) string {
	if e.AdditionalFields == nil {
		return ""
	}

	v, ok := e.AdditionalFields[name]
	if !ok || v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (e *AuditLogEntry) Username() string {
	if e.User == nil {
		return ""
	}
	return e.User.Username
}

type AuditLogs struct {
	AuditLogs []AuditLogEntry `json:"audit_logs"`
	Count     int             `json:"count"`
}

// GetAuditLogs fetches audit entries, a limit of 0 asks the server for everything.
func (c *ApiClient) GetAuditLogs(ctx context.Context, limit int, query string) (*AuditLogs, int, error) {
	response := &AuditLogs{}

	params := url.Values{}
	params.Set("limit", fmt.Sprint(limit))
	if query != "" {
		params.Set("q", query)
	}

	code, err := c.httpClient.Get(ctx, "/audit?"+params.Encode(), response)
	if err != nil {
		return nil, code, err
	}

	return response, code, nil
}
