package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrSessionExpired is returned when the access token is rejected and the
// refresh token cannot recover the session. The caller must re-login.
var ErrSessionExpired = errors.New("sesión expirada")

// Error is a non-2xx API response. Detail carries the server-provided
// message when one can be extracted; Raw keeps the full payload.
type Error struct {
	Status int
	Detail string
	Raw    json.RawMessage
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: %d", e.Status)
}

// newError builds an Error from a response body, pulling the DRF-style
// "detail" field when present.
func newError(status int, body []byte) *Error {
	e := &Error{Status: status, Raw: append(json.RawMessage(nil), body...)}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		e.Detail = payload.Detail
		return e
	}

	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		e.Detail = plain
		return e
	}

	if s := strings.TrimSpace(string(body)); s != "" && len(s) < 500 {
		e.Detail = s
	}
	return e
}

// Message extracts a user-facing message from err: the server detail when
// err is an *Error carrying one, otherwise the given fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
