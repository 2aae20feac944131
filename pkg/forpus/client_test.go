package forpus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("user and password", func(t *testing.T) {
		c, err := New(Password{User: "u@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "u@example.com", c.User())
		assert.Equal(t, "pw", c.creds.Password)
		assert.Empty(t, c.Token())
		assert.Equal(t, DefaultBaseURL, c.BaseURL())
	})

	t.Run("mapping", func(t *testing.T) {
		c, err := New(Mapping{EnvUser: "u@example.com", EnvPassword: "pw", "HOME": "/root"})
		require.NoError(t, err)
		assert.Equal(t, "u@example.com", c.User())
		assert.Equal(t, "pw", c.creds.Password)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(EnvUser, "env@example.com")
		t.Setenv(EnvPassword, "envpw")
		c, err := New(Environ())
		require.NoError(t, err)
		assert.Equal(t, "env@example.com", c.User())
		assert.Equal(t, "envpw", c.creds.Password)
	})

	tests := []struct {
		name string
		src  CredentialSource
	}{
		{name: "nil source", src: nil},
		{name: "mapping without password", src: Mapping{EnvUser: "u@example.com"}},
		{name: "mapping without user", src: Mapping{EnvPassword: "pw"}},
		{name: "empty mapping", src: Mapping{}},
		{name: "empty password", src: Password{User: "u@example.com"}},
		{name: "empty user", src: Password{Password: "pw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.src)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}

	t.Run("invalid options", func(t *testing.T) {
		src := Password{User: "u", Password: "p"}
		_, err := New(src, WithBaseURL("not a url"))
		assert.ErrorIs(t, err, ErrConfiguration)
		_, err = New(src, WithHTTPClient(nil))
		assert.ErrorIs(t, err, ErrConfiguration)
		_, err = New(src, WithRateLimit(0, 1))
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("stores token and attaches it", func(t *testing.T) {
		api := newFakeAPI(t)
		c := newTestClient(t, api)

		require.NoError(t, c.Authenticate(ctx))
		assert.Equal(t, "abc", c.Token())

		require.Len(t, api.auths, 1)
		auth := api.auths[0]
		assert.Equal(t, http.MethodPost, auth.Method)
		assert.Equal(t, "trader@example.com", auth.Form.Get("email"))
		assert.Equal(t, "secret", auth.Form.Get("password"))

		_, err := c.ListSecurities(ctx)
		require.NoError(t, err)
		assert.Equal(t, "abc", api.lastCall().Auth)
	})

	t.Run("server error message", func(t *testing.T) {
		api := newFakeAPI(t)
		api.authReply = `{"error":"bad credentials"}`
		c := newTestClient(t, api)

		err := c.Authenticate(ctx)
		require.Error(t, err)
		assert.Equal(t, "bad credentials", err.Error())
		assert.ErrorIs(t, err, ErrAuthentication)
		assert.Empty(t, c.Token())
	})

	t.Run("missing token", func(t *testing.T) {
		api := newFakeAPI(t)
		api.authReply = `{"status":"ok"}`
		c := newTestClient(t, api)

		assert.ErrorIs(t, c.Authenticate(ctx), ErrAuthentication)
	})

	t.Run("non JSON answer", func(t *testing.T) {
		api := newFakeAPI(t)
		api.authReply = `<html>maintenance</html>`
		c := newTestClient(t, api)

		err := c.Authenticate(ctx)
		assert.ErrorIs(t, err, ErrProtocol)
		assert.NotErrorIs(t, err, ErrAuthentication)
	})
}

func TestReauthentication(t *testing.T) {
	ctx := context.Background()

	t.Run("authenticates once and retries once", func(t *testing.T) {
		api := newFakeAPI(t)
		api.validToken = "abc"
		api.reply = `[{"security":{"id":1}}]`
		c := newTestClient(t, api)

		resp, err := c.ListSecurities(ctx)
		require.NoError(t, err)
		assert.Len(t, api.auths, 1)
		require.Len(t, api.calls, 2)
		assert.Empty(t, api.calls[0].Auth)
		assert.Equal(t, "abc", api.calls[1].Auth)
		assert.Equal(t, "/api/v1/securities", api.calls[1].Path)

		list, ok := resp.List()
		require.True(t, ok)
		assert.Len(t, list, 1)
		assert.Equal(t, int64(1), resp.Get("0.security.id").Int())
	})

	t.Run("second rejection is returned as a value", func(t *testing.T) {
		api := newFakeAPI(t)
		api.validToken = "never-issued"
		c := newTestClient(t, api)

		resp, err := c.CreatePrice(ctx, map[string]any{"price": map[string]any{"value": 10.5}})
		require.NoError(t, err)
		assert.True(t, resp.NotAuthorized())
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		msg, ok := resp.ErrorMessage()
		assert.True(t, ok)
		assert.Equal(t, NotAuthorizedMessage, msg)

		assert.Len(t, api.auths, 1)
		assert.Len(t, api.calls, 2)
		assert.Equal(t, api.calls[0].Body, api.calls[1].Body)
	})

	t.Run("authentication failure during retry", func(t *testing.T) {
		api := newFakeAPI(t)
		api.validToken = "abc"
		api.authReply = `{"error":"account locked"}`
		c := newTestClient(t, api)

		resp, err := c.ListFrequencies(ctx)
		assert.Nil(t, resp)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAuthentication)
		assert.Equal(t, "account locked", err.Error())
		assert.Len(t, api.calls, 1)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		api := newFakeAPI(t)
		api.reply = `{"error":"name has already been taken"}`
		c := newTestClient(t, api)

		resp, err := c.CreateSecurityType(ctx, map[string]any{"security_type": map[string]any{"name": "stock"}})
		require.NoError(t, err)
		msg, _ := resp.ErrorMessage()
		assert.Equal(t, "name has already been taken", msg)
		assert.Empty(t, api.auths)
		assert.Len(t, api.calls, 1)
	})

	t.Run("seeded token", func(t *testing.T) {
		api := newFakeAPI(t)
		api.validToken = "cached"
		c := newTestClient(t, api, WithToken("cached"))

		_, err := c.ListTimeWeights(ctx)
		require.NoError(t, err)
		assert.Empty(t, api.auths)
		assert.Equal(t, "cached", api.lastCall().Auth)
	})
}

func TestProtocolErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("html with success status", func(t *testing.T) {
		api := newFakeAPI(t)
		api.reply = `<html><body>oops</body></html>`
		c := newTestClient(t, api)

		resp, err := c.ListPriceTypes(ctx)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrProtocol)

		var httpErr *HTTPError
		assert.False(t, errors.As(err, &httpErr))
	})

	t.Run("html with error status", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status = http.StatusBadGateway
		api.reply = `<html>bad gateway</html>`
		c := newTestClient(t, api)

		_, err := c.DeletePrice(ctx, 3)
		assert.ErrorIs(t, err, ErrProtocol)

		var httpErr *HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
		assert.Contains(t, httpErr.Error(), "bad gateway")
	})

	t.Run("empty 200 body", func(t *testing.T) {
		api := newFakeAPI(t)
		api.reply = ``
		c := newTestClient(t, api)

		resp, err := c.ListSecurities(ctx)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrProtocol)
	})

	t.Run("no content", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status = http.StatusNoContent
		api.reply = ``
		c := newTestClient(t, api)

		resp, err := c.DeleteTimeVolume(ctx, 9)
		require.NoError(t, err)
		assert.Nil(t, resp.Value)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestOverNetwork(t *testing.T) {
	api := newFakeAPI(t)
	api.validToken = "abc"
	api.reply = `{"security":{"id":5,"name":"PETR4"}}`
	srv := httptest.NewServer(api)
	defer srv.Close()

	c, err := New(Password{User: "u@example.com", Password: "pw"},
		WithBaseURL(srv.URL+"/api/v1/"), WithDebugLogging(true), WithRateLimit(100, 1))
	require.NoError(t, err)

	resp, err := c.CreateSecurity(context.Background(), map[string]any{"security": map[string]any{"name": "PETR4"}})
	require.NoError(t, err)
	assert.Equal(t, "PETR4", resp.Get("security.name").String())
	assert.Len(t, api.auths, 1)
	assert.Equal(t, "/api/v1/securities", api.lastCall().Path)

	var decoded struct {
		Security struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"security"`
	}
	require.NoError(t, resp.Decode(&decoded))
	assert.Equal(t, int64(5), decoded.Security.ID)
}

func TestCanceledContext(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListSecurities(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.calls)
}
