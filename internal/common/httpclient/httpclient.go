// Package httpclient provides the HTTP transport used to talk to the Forpus
// REST API. It builds request URLs below a configured server URL, attaches the
// session token and request id to every call, and hands back the raw
// response. Interpreting the body is left to the caller because the API
// reports most failures inside JSON bodies rather than through status codes.
package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/forpus/forpus/internal/common/logtrace"
)

// DefaultTimeout bounds a single request when no custom *http.Client is given.
const DefaultTimeout = 30 * time.Second

// Configurator supplies the server URL and the current session token.
// The token is read on every request, so replacing it takes effect immediately.
type Configurator interface {
	GetServerURL() string
	GetToken() string
}

// Response is a raw HTTP response with its body fully read.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTPClient issues requests against the server named by its Configurator.
type HTTPClient struct {
	config     Configurator
	httpClient *http.Client
}

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	HTTPClient            *http.Client // used as is when set
	DisableCertValidation bool         // skip TLS verification, for self-signed dev hosts
	Debug                 bool         // dump requests and responses at debug level
}

// NewClient creates a new HTTP client using the provided configuration.
func NewClient(config Configurator, opts ...ClientOptions) *HTTPClient {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}
	return NewClientWithOptions(config, clientOpts)
}

// NewClientWithOptions creates a new HTTP client using the provided configuration and options.
func NewClientWithOptions(config Configurator, opts ClientOptions) *HTTPClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
		if opts.DisableCertValidation {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			}
		}
	}
	if opts.Debug {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		cp := *httpClient
		cp.Transport = &debugTransport{base: base}
		httpClient = &cp
	}

	return &HTTPClient{
		config:     config,
		httpClient: httpClient,
	}
}

// RequestOptions describes a single request. Path is relative to the server URL.
// When Form is set the request is form-encoded and Body is ignored.
type RequestOptions struct {
	Method      string
	Path        string
	QueryParams url.Values
	Body        []byte
	Form        url.Values
}

// DoRequest makes an HTTP request with the given options and returns the
// response whatever its status code. Only failures to build, send or read the
// request are reported as errors.
func (c *HTTPClient) DoRequest(ctx context.Context, opts RequestOptions) (*Response, error) {
	ctx = logtrace.WithRequestID(ctx)
	req, err := c.newRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header,
	}, nil
}

// ResolveURL returns the absolute URL for a path below the server URL.
func (c *HTTPClient) ResolveURL(p string, queryParams url.Values) (string, error) {
	u, err := url.Parse(c.config.GetServerURL())
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid server URL: %q", c.config.GetServerURL())
	}
	u.Path = path.Join("/", u.Path, p)

	q := u.Query()
	for k, vs := range queryParams {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *HTTPClient) newRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	target, err := c.ResolveURL(opts.Path, opts.QueryParams)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	contentType := ""
	switch {
	case opts.Form != nil:
		body = strings.NewReader(opts.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case opts.Body != nil:
		body = bytes.NewReader(opts.Body)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.config.GetToken(); token != "" {
		// the API expects the bare token, without a "Bearer" scheme
		req.Header.Set("Authorization", token)
	}
	if id := logtrace.RequestIdFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	return req, nil
}

// ListResources issues a GET on a collection with optional query parameters.
func (c *HTTPClient) ListResources(ctx context.Context, resourceType string, queryParams url.Values) (*Response, error) {
	return c.DoRequest(ctx, RequestOptions{
		Method:      http.MethodGet,
		Path:        strings.Trim(resourceType, "/"),
		QueryParams: queryParams,
	})
}

// CreateResource POSTs a JSON document to a collection.
func (c *HTTPClient) CreateResource(ctx context.Context, resourceType string, data []byte) (*Response, error) {
	return c.DoRequest(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   strings.Trim(resourceType, "/"),
		Body:   data,
	})
}

// UpdateResource PATCHes the member id of a collection with a JSON document.
func (c *HTTPClient) UpdateResource(ctx context.Context, resourceType string, id int64, data []byte) (*Response, error) {
	return c.DoRequest(ctx, RequestOptions{
		Method: http.MethodPatch,
		Path:   memberPath(resourceType, id),
		Body:   data,
	})
}

// DeleteResource deletes the member id of a collection.
func (c *HTTPClient) DeleteResource(ctx context.Context, resourceType string, id int64) (*Response, error) {
	return c.DoRequest(ctx, RequestOptions{
		Method: http.MethodDelete,
		Path:   memberPath(resourceType, id),
	})
}

func memberPath(resourceType string, id int64) string {
	return strings.Trim(resourceType, "/") + "/" + strconv.FormatInt(id, 10)
}
