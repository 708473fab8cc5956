package apiclient

import (
	"strings"
	"time"

	"github.com/bjornrobertsson/coderttl/internal/util/rest"
)

const (
	// API root on the platform, every request path is relative to it.
	APIBasePath = "/api/v2"

	// Header carrying the session token on every request.
	SessionTokenHeader = "Coder-Session-Token"
)

type ApiClient struct {
	httpClient *rest.RESTClient
}

func NewClient(baseURL string, token string, insecureSkipVerify bool) (*ApiClient, error) {
	httpClient, err := rest.NewClient(strings.TrimSuffix(baseURL, "/")+APIBasePath, token, insecureSkipVerify)
	if err != nil {
		return nil, err
	}

	httpClient.SetTokenKey(SessionTokenHeader).SetTokenFormat("%s")

	return &ApiClient{
		httpClient: httpClient,
	}, nil
}

func (c *ApiClient) AppendUserAgent(userAgent string) *ApiClient {
	c.httpClient.AppendUserAgent(userAgent)
	return c
}

// SetRateLimit paces requests to perSecond, 0 disables pacing.
func (c *ApiClient) SetRateLimit(perSecond float64) *ApiClient {
	c.httpClient.SetRateLimit(perSecond)
	return c
}

// SetTimeout bounds each request, 0 leaves requests unbounded.
func (c *ApiClient) SetTimeout(timeout time.Duration) *ApiClient {
	c.httpClient.SetTimeout(timeout)
	return c
}

func (c *ApiClient) Close() {
	c.httpClient.Close()
}
