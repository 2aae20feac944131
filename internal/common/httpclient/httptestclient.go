package httpclient

import (
	"net/http"
	"net/http/httptest"
)

// NewTestClient creates an HTTP client whose requests are served in-process by
// handler, without any network access. It is meant for tests that want to
// exercise the full request building path against a fake API.
func NewTestClient(config Configurator, handler http.Handler) *HTTPClient {
	return NewClientWithOptions(config, ClientOptions{
		HTTPClient: &http.Client{Transport: handlerTransport{handler: handler}},
	})
}

// handlerTransport is a RoundTripper that records the handler's answer.
type handlerTransport struct {
	handler http.Handler
}

func (t handlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	// a server request always has a non-nil Body
	if req.Body == nil {
		req = req.Clone(req.Context())
		req.Body = http.NoBody
	}
	rr := httptest.NewRecorder()
	t.handler.ServeHTTP(rr, req)
	resp := rr.Result()
	resp.Request = req
	return resp, nil
}
