// Package forpus is a client for the Forpus market-data REST API. It keeps a
// session token, re-authenticates transparently when the token is rejected,
// and exposes list/create/update/delete calls for every API resource.
//
//	client, err := forpus.New(forpus.Password{User: "me@example.com", Password: "secret"})
//	if err != nil {
//		return err
//	}
//	resp, err := client.ListSecurities(ctx)
//
// Credentials can also be taken from the FORPUSAPI_USER and
// FORPUSAPI_PASSWORD environment variables with forpus.New(forpus.Environ()).
//
// A Client is not safe for concurrent use.
package forpus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/forpus/forpus/internal/common/httpclient"
	"github.com/forpus/forpus/internal/common/logtrace"
)

// DefaultBaseURL is the root of the production API.
const DefaultBaseURL = "https://forpus-thiagolcmelo.c9users.io/api/v1"

// AuthenticatePath is the endpoint exchanging credentials for a token.
const AuthenticatePath = "authenticate"

var errNotAuthorized = errors.New("not authorized")

// Params are query parameters forwarded unchanged to the API.
type Params map[string]any

// Values renders the parameters as a query string set. Slices and arrays
// repeat the key once per element.
func (p Params) Values() url.Values {
	if len(p) == 0 {
		return nil
	}
	v := url.Values{}
	for k, val := range p {
		if val == nil {
			continue
		}
		rv := reflect.ValueOf(val)
		switch {
		case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
			v.Set(k, string(rv.Bytes()))
		case rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				v.Add(k, fmt.Sprint(rv.Index(i).Interface()))
			}
		default:
			v.Set(k, fmt.Sprint(val))
		}
	}
	return v
}

// session is the mutable half of a Client: where to send requests and which
// token to present.
type session struct {
	baseURL string
	token   string
}

func (s *session) GetServerURL() string { return s.baseURL }
func (s *session) GetToken() string     { return s.token }

// Client talks to the Forpus API on behalf of one user.
type Client struct {
	creds     Credentials
	session   *session
	transport httpclient.HTTPClientInterface
	httpOpts  httpclient.ClientOptions
	logger    zerolog.Logger
	limiter   *rate.Limiter
}

// New creates a client for the credentials in src. It fails with
// ErrConfiguration if src is nil or incomplete. No request is made until the
// first call.
func New(src CredentialSource, opts ...Option) (*Client, error) {
	creds, err := resolveCredentials(src)
	if err != nil {
		return nil, err
	}

	c := &Client{
		creds:   creds,
		session: &session{baseURL: DefaultBaseURL},
		logger:  log.Logger,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.transport == nil {
		c.transport = httpclient.NewClientWithOptions(c.session, c.httpOpts)
	}
	c.logger = c.logger.With().Str("component", "forpus").Logger()
	return c, nil
}

// NewFromEnv loads an optional .env file and creates a client from the
// FORPUSAPI_USER and FORPUSAPI_PASSWORD environment variables.
func NewFromEnv(opts ...Option) (*Client, error) {
	LoadDotEnv()
	return New(Environ(), opts...)
}

// User returns the user the client authenticates as.
func (c *Client) User() string {
	return c.creds.User
}

// Token returns the current session token, empty before authentication.
func (c *Client) Token() string {
	return c.session.token
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.session.baseURL
}

// Authenticate exchanges the credentials for a token and attaches it to every
// following request. The server's error message is returned as an
// ErrAuthentication error.
func (c *Client) Authenticate(ctx context.Context) error {
	form := url.Values{
		"email":    {c.creds.User},
		"password": {c.creds.Password},
	}
	resp, err := c.send(ctx, http.MethodPost, AuthenticatePath, func(ctx context.Context) (*httpclient.Response, error) {
		return c.transport.DoRequest(ctx, httpclient.RequestOptions{
			Method: http.MethodPost,
			Path:   AuthenticatePath,
			Form:   form,
		})
	})
	if err != nil {
		return err
	}
	if msg, ok := resp.ErrorMessage(); ok {
		c.logger.Warn().Str("user", c.creds.User).Str("reason", msg).Msg("authentication rejected")
		return ErrAuthentication.New(msg)
	}
	token := resp.Get("auth_token")
	if !token.Exists() || token.String() == "" {
		return ErrAuthentication.New("response carries no auth_token")
	}
	c.session.token = token.String()
	c.logger.Info().Str("user", c.creds.User).Msg("authenticated")
	return nil
}

// Get lists a collection, or runs a query endpoint, with optional parameters.
func (c *Client) Get(ctx context.Context, path string, params Params) (*Response, error) {
	return c.invoke(ctx, http.MethodGet, path, func(ctx context.Context) (*httpclient.Response, error) {
		return c.transport.ListResources(ctx, path, params.Values())
	})
}

// Post creates a member of a collection. The payload is encoded as JSON;
// []byte and json.RawMessage payloads are sent as they are.
func (c *Client) Post(ctx context.Context, path string, payload any) (*Response, error) {
	data, err := marshalPayload(payload)
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, http.MethodPost, path, func(ctx context.Context) (*httpclient.Response, error) {
		return c.transport.CreateResource(ctx, path, data)
	})
}

// Patch updates member id of a collection.
func (c *Client) Patch(ctx context.Context, path string, id int64, payload any) (*Response, error) {
	data, err := marshalPayload(payload)
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, http.MethodPatch, path, func(ctx context.Context) (*httpclient.Response, error) {
		return c.transport.UpdateResource(ctx, path, id, data)
	})
}

// Delete removes member id of a collection.
func (c *Client) Delete(ctx context.Context, path string, id int64) (*Response, error) {
	return c.invoke(ctx, http.MethodDelete, path, func(ctx context.Context) (*httpclient.Response, error) {
		return c.transport.DeleteResource(ctx, path, id)
	})
}

type roundTrip func(ctx context.Context) (*httpclient.Response, error)

// invoke runs call and, if the server answers "Not Authorized", authenticates
// and runs it exactly once more. The second answer is returned whatever it is.
func (c *Client) invoke(ctx context.Context, method, path string, call roundTrip) (*Response, error) {
	var resp *Response
	attempt := 0
	err := retry.Do(func() error {
		if attempt > 0 {
			reauthenticationsTotal.Inc()
			c.logger.Debug().Str("method", method).Str("path", path).Msg("token rejected, authenticating")
			if err := c.Authenticate(ctx); err != nil {
				return err
			}
		}
		attempt++

		r, err := c.send(ctx, method, path, call)
		if err != nil {
			return err
		}
		resp = r
		if r.NotAuthorized() {
			return errNotAuthorized
		}
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errNotAuthorized)
		}),
	)
	if err != nil && !errors.Is(err, errNotAuthorized) {
		return nil, err
	}
	return resp, nil
}

// send performs one round trip and decodes its body.
func (c *Client) send(ctx context.Context, method, path string, call roundTrip) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	ctx = logtrace.WithRequestID(ctx)
	resource := resourceLabel(path)
	start := time.Now()

	raw, err := call(ctx)
	requestDuration.WithLabelValues(method, resource).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(method, resource, outcomeError).Inc()
		c.logger.Error().Err(err).Str("method", method).Str("path", path).
			Str("request_id", logtrace.RequestIdFromContext(ctx)).Msg("request failed")
		return nil, err
	}

	resp, err := decodeResponse(raw)
	if err != nil {
		requestsTotal.WithLabelValues(method, resource, outcomeInvalid).Inc()
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Int("status", raw.StatusCode).
			Str("request_id", logtrace.RequestIdFromContext(ctx)).Msg("undecodable response")
		return nil, err
	}

	outcome := outcomeOK
	if _, failed := resp.ErrorMessage(); failed || !raw.IsSuccess() {
		outcome = outcomeRejected
	}
	requestsTotal.WithLabelValues(method, resource, outcome).Inc()
	c.logger.Debug().Str("method", method).Str("path", path).Int("status", raw.StatusCode).
		Str("request_id", logtrace.RequestIdFromContext(ctx)).Dur("elapsed", time.Since(start)).Msg("request done")
	return resp, nil
}

// resourceLabel keeps metric cardinality bounded to the collection name.
func resourceLabel(path string) string {
	p := strings.Trim(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}
