package apiclient

import (
	"strings"
	"sync"
)

// Session holds the API base URL and the token issued at login. It is passed
// explicitly to every call and is safe for concurrent use.
type Session struct {
	baseURL string

	mu    sync.RWMutex
	token string
}

func NewSession(baseURL, token string) *Session {
	return &Session{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
	}
}

func (s *Session) BaseURL() string {
	return s.baseURL
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear forgets the token, as after logout or an auth failure.
func (s *Session) Clear() {
	s.SetToken("")
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
