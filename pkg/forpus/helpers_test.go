package forpus

import (
	"io"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/forpus/forpus/internal/common/httpclient"
)

const testBaseURL = "https://api.example.com/api/v1"

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   string
	Auth   string
	Form   url.Values
}

// fakeAPI mimics the Forpus API. When validToken is set, every call other than
// authenticate must present it or is answered with "Not Authorized".
type fakeAPI struct {
	t          *testing.T
	mu         sync.Mutex
	validToken string
	authReply  string
	status     int
	reply      string
	auths      []recordedRequest
	calls      []recordedRequest
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{
		t:         t,
		authReply: `{"auth_token":"abc"}`,
		status:    http.StatusOK,
		reply:     `{}`,
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		f.t.Fatalf("reading request body: %v", err)
	}
	rec := recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   string(body),
		Auth:   r.Header.Get("Authorization"),
	}

	if r.URL.Path == "/api/v1/authenticate" {
		rec.Form, _ = url.ParseQuery(string(body))
		f.auths = append(f.auths, rec)
		_, _ = w.Write([]byte(f.authReply))
		return
	}

	f.calls = append(f.calls, rec)
	if f.validToken != "" && rec.Auth != f.validToken {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Not Authorized"}`))
		return
	}
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.reply))
}

func (f *fakeAPI) lastCall() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		f.t.Fatal("no request recorded")
	}
	return f.calls[len(f.calls)-1]
}

// withHandler serves the client's requests in-process with h.
func withHandler(h http.Handler) Option {
	return func(c *Client) error {
		c.transport = httpclient.NewTestClient(c.session, h)
		return nil
	}
}

func newTestClient(t *testing.T, api *fakeAPI, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBaseURL(testBaseURL), withHandler(api)}, opts...)
	c, err := New(Password{User: "trader@example.com", Password: "secret"}, opts...)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	return c
}
