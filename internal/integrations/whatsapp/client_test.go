package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"0812-3456-789":   "628123456789",
		"+62 812 3456789": "628123456789",
		"628123456789":    "628123456789",
		"":                "",
	}
	for in, want := range tests {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSendMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send" || r.Header.Get("Authorization") != "tok" {
			t.Errorf("unexpected request: %s auth=%q", r.URL.Path, r.Header.Get("Authorization"))
		}
		var body sendRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Target != "628111222333" || body.Message != "hello" {
			t.Errorf("unexpected body: %+v", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "tok"}, srv.Client())
	if err := c.SendMessage(context.Background(), "08111222333", "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
}

func TestSendMessageGatewayError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, srv.Client())
	err := c.SendMessage(context.Background(), "0811", "hello")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("err = %v, want 429 APIError", err)
	}
}

func TestDisabledClient(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{}, nil)
	if c.Enabled() {
		t.Fatal("client without base url should be disabled")
	}
	if err := c.SendMessage(context.Background(), "0811", "x"); err == nil {
		t.Fatal("expected error from disabled client")
	}
}
