// internal/websocket/errors.go
package websocket

import "errors"

var (
	ErrHubStopped = errors.New("websocket hub is not running")
	ErrEmptyTopic = errors.New("subscription topic is empty")
)
