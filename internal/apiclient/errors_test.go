package apiclient

import (
	"net/http"
	"testing"
)

func TestFlattenError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail", http.StatusNotFound, `{"detail":"Not found."}`, "Not found."},
		{"bare string", http.StatusBadRequest, `"Promo is expired."`, "Promo is expired."},
		{"field map sorted", http.StatusBadRequest, `{"paket":["Invalid pk."],"diskon_persen":["Too high.","Must be a number."]}`, "diskon_persen: Too high., Must be a number.; paket: Invalid pk."},
		{"non field errors", http.StatusBadRequest, `{"non_field_errors":["Unable to log in with provided credentials."]}`, "Unable to log in with provided credentials."},
		{"list of messages", http.StatusBadRequest, `["first","second"]`, "first, second"},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, "Bad Gateway"},
		{"empty body", http.StatusInternalServerError, ``, "Internal Server Error"},
		{"empty object", http.StatusConflict, `{}`, "Conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := flattenError(tt.status, []byte(tt.body))
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d", err.StatusCode)
			}
			if err.Message != tt.want {
				t.Errorf("Message = %q, want %q", err.Message, tt.want)
			}
		})
	}
}
