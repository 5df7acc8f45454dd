package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxPages = 100

// Client performs typed calls against the GymEase REST API. It never retries.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{httpClient: httpClient, logger: logger}
}

// do sends one request and returns the raw body of a 2xx response.
// target is either a path relative to the session base URL or an absolute
// link taken from a pagination envelope.
func (c *Client) do(ctx context.Context, sess *Session, method, target string, query url.Values, payload any) ([]byte, error) {
	endpoint, err := resolve(sess.BaseURL(), target)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := sess.Token(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := flattenError(resp.StatusCode, body)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			sess.Clear()
			return nil, fmt.Errorf("%w: %w", ErrAuthExpired, apiErr)
		}
		return nil, apiErr
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, sess *Session, target string, query url.Values, out any) error {
	body, err := c.do(ctx, sess, http.MethodGet, target, query, nil)
	if err != nil {
		return err
	}
	return decode(body, out)
}

func (c *Client) sendJSON(ctx context.Context, sess *Session, method, target string, payload, out any) error {
	body, err := c.do(ctx, sess, method, target, nil, payload)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return decode(body, out)
}

// listAll follows next links until the last page.
func listAll[T any](ctx context.Context, c *Client, sess *Session, target string, query url.Values) ([]T, error) {
	var all []T
	for page := 0; page < maxPages; page++ {
		body, err := c.do(ctx, sess, http.MethodGet, target, query, nil)
		if err != nil {
			return nil, err
		}
		items, next, err := decodePage[T](body)
		if err != nil {
			c.logger.Warn("list endpoint returned an unexpected shape", zap.String("path", target), zap.Error(err))
			return nil, err
		}
		all = append(all, items...)
		if next == "" {
			return all, nil
		}
		target, query = next, nil
	}
	return nil, fmt.Errorf("list %s: more than %d pages", target, maxPages)
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func resolve(baseURL, target string) (*url.URL, error) {
	if baseURL == "" {
		return nil, errors.New("session has no base URL")
	}
	base, err := url.Parse(baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	ref, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", target, err)
	}
	if ref.IsAbs() || strings.HasPrefix(target, base.Path) {
		// Envelope links are absolute or already carry the base path.
		return base.ResolveReference(ref), nil
	}
	return base.ResolveReference(&url.URL{Path: strings.TrimPrefix(ref.Path, "/"), RawQuery: ref.RawQuery}), nil
}
