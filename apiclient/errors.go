package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	GenericMessage = "Something went wrong. Please try again."
	NetworkMessage = "Unable to reach the server. Check your connection and try again."
)

// Error is returned for every failed API call. Network is true when no
// HTTP response was received. HasDetail is true when Message came from
// the response body rather than a fallback.
type Error struct {
	Status    int
	Message   string
	Network   bool
	HasDetail bool
	Err       error
}

func (e *Error) Error() string {
	if e.Network {
		return fmt.Sprintf("api unreachable: %v", e.Err)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsUnauthorized(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// MessageOr returns the server-supplied message, or fallback when the
// server sent no usable detail. Network failures keep their own message.
func MessageOr(err error, fallback string) string {
	apiErr, ok := AsError(err)
	if !ok {
		return fallback
	}
	if apiErr.Network || apiErr.HasDetail {
		return apiErr.Message
	}
	return fallback
}

// detailMessage normalises the "detail" field of an error body. It
// accepts a string, a list of validation errors (first "msg" wins) or
// an object (its "msg", else its JSON text).
func detailMessage(body []byte) (string, bool) {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &list); err == nil {
		if len(list) > 0 && strings.TrimSpace(list[0].Msg) != "" {
			return strings.TrimSpace(list[0].Msg), true
		}
		return "", false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(envelope.Detail, &obj); err == nil {
		if raw, ok := obj["msg"]; ok {
			var msg string
			if json.Unmarshal(raw, &msg) == nil && strings.TrimSpace(msg) != "" {
				return strings.TrimSpace(msg), true
			}
		}
		return string(envelope.Detail), true
	}

	return "", false
}

func newStatusError(status int, body []byte) *Error {
	if msg, ok := detailMessage(body); ok {
		return &Error{Status: status, Message: msg, HasDetail: true}
	}
	return &Error{Status: status, Message: GenericMessage}
}
