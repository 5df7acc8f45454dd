package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUnexpectedShape means a list endpoint returned neither an array nor a
	// {count, next, previous, results} envelope.
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// ErrAuthExpired is returned on 401/403; the session token has been cleared.
	ErrAuthExpired = errors.New("authentication expired")
)

// APIError is a non-2xx response with its body flattened into one message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Message)
}

// flattenError turns any of the server's error bodies into a single line:
// {"detail": "..."}, a bare JSON string, or a field -> messages map.
func flattenError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Message: flattenMessage(status, body)}
}

func flattenMessage(status int, body []byte) string {
	fallback := http.StatusText(status)
	if fallback == "" {
		fallback = fmt.Sprintf("HTTP %d", status)
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return fallback
	}

	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case map[string]any:
		if detail, ok := v["detail"].(string); ok && detail != "" {
			return detail
		}
		if msg := flattenFields(v); msg != "" {
			return msg
		}
	case []any:
		if msg := joinMessages(v); msg != "" {
			return msg
		}
	}
	return fallback
}

func flattenFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		var msg string
		switch v := fields[k].(type) {
		case string:
			msg = v
		case []any:
			msg = joinMessages(v)
		}
		if msg == "" {
			continue
		}
		if k == "non_field_errors" {
			parts = append(parts, msg)
			continue
		}
		parts = append(parts, k+": "+msg)
	}
	return strings.Join(parts, "; ")
}

func joinMessages(items []any) string {
	msgs := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			msgs = append(msgs, s)
		}
	}
	return strings.Join(msgs, ", ")
}
