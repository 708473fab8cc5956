package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bjornrobertsson/coderttl/build"
	"github.com/bjornrobertsson/coderttl/internal/log"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/time/rate"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgPack = "application/msgpack"
)

const DefaultTimeout = 10 * time.Second

// StatusError is returned when the server answers with a status code the caller did not accept.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Body)
}

type RESTClient struct {
	baseURL     *url.URL
	token       string
	tokenKey    string
	tokenFormat string
	userAgent   string
	contentType string
	HTTPClient  *http.Client
	limiter     *rate.Limiter
}

func NewClient(baseURL string, token string, insecureSkipVerify bool) (*RESTClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %s, error: %v", baseURL, err)
	}

	// Keep the base path when resolving relative paths
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	restClient := &RESTClient{
		baseURL:     parsed,
		token:       token,
		tokenKey:    "Authorization",
		tokenFormat: "Bearer %s",
		userAgent:   "coderttl v" + build.Version,
		contentType: ContentTypeJSON,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	restClient.HTTPClient.Transport = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: insecureSkipVerify},
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
	}

	return restClient, nil
}

func (c *RESTClient) Close() {
	c.HTTPClient.CloseIdleConnections()
}

// SetTimeout bounds each request including reading the body, 0 disables the limit.
func (c *RESTClient) SetTimeout(timeout time.Duration) *RESTClient {
	c.HTTPClient.Timeout = timeout
	return c
}

func (c *RESTClient) SetContentType(contentType string) *RESTClient {
	c.contentType = contentType
	return c
}

func (c *RESTClient) AppendUserAgent(userAgent string) *RESTClient {
	c.userAgent = strings.TrimSpace(c.userAgent + " " + userAgent)
	return c
}

func (c *RESTClient) SetTokenKey(key string) *RESTClient {
	c.tokenKey = key
	return c
}

func (c *RESTClient) SetTokenFormat(format string) *RESTClient {
	c.tokenFormat = format
	return c
}

// SetRateLimit paces outgoing requests to perSecond, a value <= 0 removes the limit.
func (c *RESTClient) SetRateLimit(perSecond float64) *RESTClient {
	if perSecond <= 0 {
		c.limiter = nil
	} else {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return c
}

func (c *RESTClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, application/msgpack")
	req.Header.Set("Content-Type", c.contentType)
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set(c.tokenKey, fmt.Sprintf(c.tokenFormat, c.token))
	}
}

func (c *RESTClient) resolve(path string) (*url.URL, error) {
	rel, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid path: %s, error: %v", path, err)
	}

	return c.baseURL.ResolveReference(rel), nil
}

func (c *RESTClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	log.Debug("rest: request", "method", req.Method, "url", req.URL.String())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	log.Debug("rest: response", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode)
	return resp, nil
}

func decodeBody(resp *http.Response, response interface{}) error {
	if strings.Contains(resp.Header.Get("Content-Type"), ContentTypeMsgPack) {
		return msgpack.NewDecoder(resp.Body).Decode(response)
	}

	return json.NewDecoder(resp.Body).Decode(response)
}

func (c *RESTClient) Get(ctx context.Context, path string, response interface{}) (int, error) {
	u, err := c.resolve(path)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, err
	}

	c.setHeaders(req)
	resp, err := c.do(ctx, req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}

	if response != nil {
		err = decodeBody(resp, response)
	}
	return resp.StatusCode, err
}

// SendData sends request as the body of method to path, a successCode of 0 accepts any status below 400.
func (c *RESTClient) SendData(ctx context.Context, method string, path string, request interface{}, response interface{}, successCode int) (int, error) {
	var data []byte
	var err error

	u, err := c.resolve(path)
	if err != nil {
		return 0, err
	}

	if c.contentType == ContentTypeMsgPack {
		data, err = msgpack.Marshal(request)
	} else {
		data, err = json.Marshal(request)
	}
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(data))
	if err != nil {
		return 0, err
	}

	c.setHeaders(req)
	resp, err := c.do(ctx, req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if (successCode == 0 && resp.StatusCode >= http.StatusBadRequest) || (successCode > 0 && resp.StatusCode != successCode) {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}

	if response != nil && resp.StatusCode != http.StatusNoContent {
		if err = decodeBody(resp, response); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func (c *RESTClient) Put(ctx context.Context, path string, request interface{}, response interface{}, successCode int) (int, error) {
	return c.SendData(ctx, http.MethodPut, path, request, response, successCode)
}

func (c *RESTClient) Patch(ctx context.Context, path string, request interface{}, response interface{}, successCode int) (int, error) {
	return c.SendData(ctx, http.MethodPatch, path, request, response, successCode)
}
