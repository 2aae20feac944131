package forpus

import (
	"fmt"
	"net/http"

	"github.com/forpus/forpus/internal/common/apperrors"
)

var (
	// ErrConfiguration is returned by New when the credential source is
	// missing, of an unknown shape or lacks a required value.
	ErrConfiguration = apperrors.New("configuration error")

	// ErrAuthentication is returned when the authenticate endpoint rejects
	// the credentials or answers without a token. Errors derived from it
	// carry the server's message verbatim.
	ErrAuthentication = apperrors.New("authentication failed").SetStatusCode(http.StatusUnauthorized)

	// ErrProtocol is returned when a response body is not valid JSON.
	ErrProtocol = apperrors.New("invalid response")

	// ErrInvalidPayload is returned before any request is made when an
	// update payload does not carry the resource id.
	ErrInvalidPayload = apperrors.New("invalid payload").SetStatusCode(http.StatusBadRequest)
)

// HTTPError describes a non-2xx answer whose body could not be decoded.
// It is attached to the ErrProtocol error returned in that case.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("server returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), truncate(e.Body, 256))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
