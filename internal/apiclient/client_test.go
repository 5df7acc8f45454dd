package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), nil), NewSession(srv.URL+"/api", "")
}

func TestLoginStoresToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client, sess := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/token":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["username"] != "admin" || body["password"] != "secret" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"non_field_errors":["Unable to log in with provided credentials."]}`))
				return
			}
			_, _ = w.Write([]byte(`{"token":"tok-1","expires_in":3600,"user":{"id":1,"username":"admin","is_staff":true}}`))
		case "/api/auth/me":
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"id":1,"username":"admin","is_staff":true}`))
		default:
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()
	if _, err := client.Login(ctx, sess, "admin", "wrong"); err == nil {
		t.Fatal("expected error for bad credentials")
	} else {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Message != "Unable to log in with provided credentials." {
			t.Fatalf("err = %v", err)
		}
	}
	if sess.Authenticated() {
		t.Fatal("failed login must not set a token")
	}

	resp, err := client.Login(ctx, sess, "admin", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User == nil || !resp.User.IsStaff {
		t.Fatalf("user = %+v", resp.User)
	}
	if sess.Token() != "tok-1" {
		t.Fatalf("token = %q", sess.Token())
	}

	if _, err := client.Me(ctx, sess); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if gotAuth != "Token tok-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestAuthExpiryClearsToken(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			t.Parallel()

			client, sess := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"detail":"Invalid token."}`))
			})
			sess.SetToken("stale")

			_, err := client.Me(context.Background(), sess)
			if !errors.Is(err, ErrAuthExpired) {
				t.Fatalf("err = %v, want ErrAuthExpired", err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.StatusCode != status {
				t.Fatalf("err = %v, want wrapped APIError", err)
			}
			if sess.Authenticated() {
				t.Fatal("token should be cleared")
			}
		})
	}
}

func TestListPromosFollowsPages(t *testing.T) {
	t.Parallel()

	client, sess := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/promos" {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("page") {
		case "", "1":
			_, _ = w.Write([]byte(`{"count":3,"next":"/api/promos?page=2","previous":null,"results":[
				{"id":1,"id_promo":"PROMOAAAAAA","nama_promo":"Merdeka","diskon_persen":"17","paket":1,"is_active":true,"status":"active"},
				{"id":2,"id_promo":"PROMOBBBBBB","nama_promo":"Summer","diskon_persen":"10","paket":1,"is_active":false,"status":"inactive"}]}`))
		case "2":
			_, _ = w.Write([]byte(`{"count":3,"next":null,"previous":"/api/promos","results":[
				{"id":3,"id_promo":"PROMOCCCCCC","nama_promo":"Ramadan","diskon_persen":"20","paket":2,"is_active":true,"status":"active"}]}`))
		default:
			http.NotFound(w, r)
		}
	})

	promos, err := client.ListPromos(context.Background(), sess)
	if err != nil {
		t.Fatalf("ListPromos: %v", err)
	}
	if len(promos) != 3 {
		t.Fatalf("got %d promos, want 3", len(promos))
	}
	for i, p := range promos {
		if p.ID != int64(i+1) {
			t.Errorf("promos[%d].ID = %d", i, p.ID)
		}
	}
	if promos[1].IsActive {
		t.Error("promo 2 should be inactive")
	}
}

func TestListFailsLoudlyOnUnknownShape(t *testing.T) {
	t.Parallel()

	client, sess := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	if _, err := client.ListPackages(context.Background(), sess); !errors.Is(err, ErrUnexpectedShape) {
		t.Fatalf("err = %v, want ErrUnexpectedShape", err)
	}
}

func TestRequestsHonourContext(t *testing.T) {
	t.Parallel()

	client, sess := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.ListPackages(ctx, sess); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, target, want string
	}{
		{"http://gym.test/api", "/promos", "http://gym.test/api/promos"},
		{"http://gym.test/api", "/api/promos?page=2", "http://gym.test/api/promos?page=2"},
		{"http://gym.test", "/promos", "http://gym.test/promos"},
		{"http://gym.test/api", "http://other.test/api/promos?page=3", "http://other.test/api/promos?page=3"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s+%s", tt.base, tt.target), func(t *testing.T) {
			t.Parallel()

			u, err := resolve(tt.base, tt.target)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if u.String() != tt.want {
				t.Errorf("got %s, want %s", u, tt.want)
			}
		})
	}
}
