package httpclient

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const redactedValue = "REDACTED"

// secretFields are masked in form and JSON bodies before they are logged.
var secretFields = []string{"password", "auth_token"}

// debugTransport logs every request and response at debug level.
// The Authorization header and secret body fields are redacted before dumping.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(redacted(req), true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(dump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if dump, err := dumpResponse(resp); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(dump)).Msg("HTTP response")
	}
	return resp, nil
}

// redacted returns a copy of req safe to dump. req itself is left untouched.
func redacted(req *http.Request) *http.Request {
	cp := req.Clone(req.Context())
	if cp.Header.Get("Authorization") != "" {
		cp.Header.Set("Authorization", redactedValue)
	}
	cp.Body = http.NoBody
	cp.ContentLength = 0
	if req.GetBody == nil {
		return cp
	}
	rc, err := req.GetBody()
	if err != nil {
		return cp
	}
	body, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return cp
	}
	body = redactBody(req.Header.Get("Content-Type"), body)
	cp.Body = io.NopCloser(bytes.NewReader(body))
	cp.ContentLength = int64(len(body))
	return cp
}

// dumpResponse dumps resp with secret fields of its body masked. The body is
// buffered and put back so the caller can still read it.
func dumpResponse(resp *http.Response) ([]byte, error) {
	head, err := httputil.DumpResponse(resp, false)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return append(head, redactBody(resp.Header.Get("Content-Type"), bytes.Clone(body))...), nil
}

func redactBody(contentType string, body []byte) []byte {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "application/x-www-form-urlencoded" {
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return []byte(redactedValue)
		}
		for _, f := range secretFields {
			if form.Has(f) {
				form.Set(f, redactedValue)
			}
		}
		return []byte(form.Encode())
	}
	if !gjson.ValidBytes(body) {
		return body
	}
	for _, f := range secretFields {
		if !gjson.GetBytes(body, f).Exists() {
			continue
		}
		if out, err := sjson.SetBytes(body, f, redactedValue); err == nil {
			body = out
		}
	}
	return body
}
