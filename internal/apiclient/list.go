package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type envelope struct {
	Count    *int             `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  *json.RawMessage `json:"results"`
}

// DecodeList accepts either a bare JSON array or a paginated envelope and
// returns the items. Any other shape yields ErrUnexpectedShape.
func DecodeList[T any](body []byte) ([]T, error) {
	items, _, err := decodePage[T](body)
	return items, err
}

// decodePage also returns the envelope's next link, empty for bare arrays and last pages.
func decodePage[T any](body []byte) ([]T, string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, "", fmt.Errorf("%w: empty body", ErrUnexpectedShape)
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, "", fmt.Errorf("decode list: %w", err)
		}
		return items, "", nil
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, "", fmt.Errorf("decode envelope: %w", err)
		}
		if env.Results == nil {
			return nil, "", fmt.Errorf("%w: object without results", ErrUnexpectedShape)
		}
		results := bytes.TrimSpace(*env.Results)
		if len(results) == 0 || results[0] != '[' {
			return nil, "", fmt.Errorf("%w: results is not an array", ErrUnexpectedShape)
		}
		var items []T
		if err := json.Unmarshal(results, &items); err != nil {
			return nil, "", fmt.Errorf("decode results: %w", err)
		}
		next := ""
		if env.Next != nil {
			next = *env.Next
		}
		return items, next, nil
	default:
		return nil, "", fmt.Errorf("%w: %.32s", ErrUnexpectedShape, trimmed)
	}
}
