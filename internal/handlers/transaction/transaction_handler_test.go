package transaction

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gymease-service/internal/integrations/qrpay"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// These cases are all rejected before the service is reached.
func TestPaymentCallbackGuards(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		secret     string
		header     string
		body       string
		wantStatus int
	}{
		{"missing token", "s3cret", "", `{"qr_id":"qr_1","reference_id":"TRX1","status":"PAID"}`, http.StatusUnauthorized},
		{"wrong token", "s3cret", "guess", `{"qr_id":"qr_1","reference_id":"TRX1","status":"PAID"}`, http.StatusUnauthorized},
		{"callbacks disabled", "", "", `{"qr_id":"qr_1","reference_id":"TRX1","status":"PAID"}`, http.StatusUnauthorized},
		{"missing fields", "s3cret", "s3cret", `{"qr_id":"qr_1"}`, http.StatusBadRequest},
		{"malformed body", "s3cret", "s3cret", `not json`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewTransactionHandler(nil, tt.secret, zap.NewNop())
			r := gin.New()
			r.POST("/payments/qr/callback", h.PaymentCallback)

			req := httptest.NewRequest(http.MethodPost, "/payments/qr/callback", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.header != "" {
				req.Header.Set(qrpay.CallbackSecretHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body=%s)", w.Code, tt.wantStatus, w.Body)
			}
		})
	}
}
