package httpclient

import (
	"context"
	"net/url"
)

// HTTPClientInterface is the set of transport operations the API client relies on.
type HTTPClientInterface interface {
	// DoRequest makes an HTTP request and returns the raw response.
	DoRequest(ctx context.Context, opts RequestOptions) (*Response, error)

	// ListResources issues a GET on a collection.
	ListResources(ctx context.Context, resourceType string, queryParams url.Values) (*Response, error)

	// CreateResource POSTs a JSON document to a collection.
	CreateResource(ctx context.Context, resourceType string, data []byte) (*Response, error)

	// UpdateResource PATCHes collection member id with a JSON document.
	UpdateResource(ctx context.Context, resourceType string, id int64, data []byte) (*Response, error)

	// DeleteResource deletes collection member id.
	DeleteResource(ctx context.Context, resourceType string, id int64) (*Response, error)
}

var _ HTTPClientInterface = &HTTPClient{}
