// Package qrpay talks to the dynamic QR payment gateway used at checkout.
package qrpay

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CallbackSecretHeader carries the shared secret on gateway callbacks.
const CallbackSecretHeader = "X-Callback-Token"

const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
	StatusExpired = "EXPIRED"
)

type Config struct {
	BaseURL string
	APIKey  string
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("qr gateway status %d: %s", e.StatusCode, e.Body)
}

type RegisterRequest struct {
	ReferenceID string    `json:"reference_id"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type QRCode struct {
	ID          string    `json:"id"`
	ReferenceID string    `json:"reference_id"`
	QRString    string    `json:"qr_string"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: httpClient,
		logger:     logger,
	}
}

// RegisterQR creates a single-use dynamic QR for amount.
func (c *Client) RegisterQR(ctx context.Context, in RegisterRequest) (QRCode, error) {
	var out QRCode
	if in.Currency == "" {
		in.Currency = "IDR"
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	body, err := c.do(ctx, http.MethodPost, "/qr_codes", payload)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode register qr response: %w", err)
	}
	if strings.TrimSpace(out.ID) == "" || strings.TrimSpace(out.QRString) == "" {
		return out, fmt.Errorf("register qr response missing id or qr_string")
	}
	return out, nil
}

// GetQR fetches the current state of a QR.
func (c *Client) GetQR(ctx context.Context, id string) (QRCode, error) {
	var out QRCode
	body, err := c.do(ctx, http.MethodGet, "/qr_codes/"+url.PathEscape(strings.TrimSpace(id)), nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode get qr response: %w", err)
	}
	return out, nil
}

// IsPaidStatus reports whether a gateway status means the money arrived.
func IsPaidStatus(status string) bool {
	s := strings.ToUpper(strings.TrimSpace(status))
	return s == StatusPaid || s == "COMPLETED" || s == "SUCCEEDED"
}

// VerifyCallback compares the callback header against the configured secret.
func VerifyCallback(secret, got string) bool {
	if secret == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(got)) == 1
}

func (c *Client) do(ctx context.Context, method, pathPart string, payload []byte) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("qr gateway base url is not configured")
	}
	target := c.baseURL + path.Clean("/"+strings.TrimSpace(pathPart))

	var bodyReader io.Reader
	if len(payload) > 0 {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.SetBasicAuth(c.apiKey, "")
	}
	if len(payload) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	c.logger.Debug("qr gateway response", zap.String("method", method), zap.String("path", pathPart), zap.Int("status", resp.StatusCode))
	return body, nil
}
