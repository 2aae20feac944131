package forpus

import (
	"bytes"
	stdjson "encoding/json"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/forpus/forpus/internal/common/httpclient"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NotAuthorizedMessage is the error the API reports for a missing or expired token.
const NotAuthorizedMessage = "Not Authorized"

// Response is a decoded API answer. Value holds the body exactly as the
// server sent it: a map[string]any, a []any, or a scalar.
type Response struct {
	StatusCode int
	Raw        []byte
	Value      any
}

// Map returns the body as a JSON object.
func (r *Response) Map() (map[string]any, bool) {
	m, ok := r.Value.(map[string]any)
	return m, ok
}

// List returns the body as a JSON array.
func (r *Response) List() ([]any, bool) {
	l, ok := r.Value.([]any)
	return l, ok
}

// Get looks up a gjson path in the body, e.g. "security.name" or "#.id".
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Raw, path)
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Raw, v)
}

// ErrorMessage returns the "error" member of an object body.
func (r *Response) ErrorMessage() (string, bool) {
	m, ok := r.Map()
	if !ok {
		return "", false
	}
	v, ok := m["error"]
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return r.Get("error").String(), true
}

// NotAuthorized reports whether the body is the API's "Not Authorized" error.
func (r *Response) NotAuthorized() bool {
	msg, ok := r.ErrorMessage()
	return ok && msg == NotAuthorizedMessage
}

func decodeResponse(raw *httpclient.Response) (*Response, error) {
	resp := &Response{StatusCode: raw.StatusCode, Raw: raw.Body}
	if len(bytes.TrimSpace(raw.Body)) == 0 {
		// 204 No Content is the only answer allowed to carry no JSON.
		if raw.StatusCode == http.StatusNoContent {
			return resp, nil
		}
		if raw.IsSuccess() {
			return nil, ErrProtocol.New("empty response")
		}
		return nil, ErrProtocol.MsgErr("empty response", &HTTPError{StatusCode: raw.StatusCode})
	}
	if err := json.Unmarshal(raw.Body, &resp.Value); err != nil {
		if !raw.IsSuccess() {
			return nil, ErrProtocol.MsgErr("response is not valid JSON",
				&HTTPError{StatusCode: raw.StatusCode, Body: string(raw.Body)}, err)
		}
		return nil, ErrProtocol.MsgErr("response is not valid JSON", err)
	}
	return resp, nil
}

// marshalPayload encodes a payload, passing pre-encoded JSON through untouched.
func marshalPayload(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case nil:
		return []byte("{}"), nil
	case []byte:
		if !json.Valid(p) {
			return nil, ErrInvalidPayload.New("payload is not valid JSON")
		}
		return p, nil
	case stdjson.RawMessage:
		return marshalPayload([]byte(p))
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, ErrInvalidPayload.MsgErr("unable to encode payload", err)
	}
	return b, nil
}
