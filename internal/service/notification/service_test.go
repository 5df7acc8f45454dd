package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gymease-service/internal/domain/member"
	"gymease-service/internal/domain/product"
	"gymease-service/internal/domain/transaction"
	"gymease-service/internal/pkg/civil"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type recorder struct {
	mu       sync.Mutex
	events   []transaction.StatusEvent
	payments []string
	signups  []string
	errs     []string
	messages map[string]string
	enabled  bool
	sendErr  error
}

func newRecorder() *recorder {
	return &recorder{messages: map[string]string{}, enabled: true}
}

func (r *recorder) PublishStatus(ev transaction.StatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) LogPayment(_ context.Context, code, memberName, packageName, total string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, strings.Join([]string{code, memberName, packageName, total}, "|"))
}

func (r *recorder) LogRegistration(_ context.Context, username, memberCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signups = append(r.signups, username+"|"+memberCode)
}

func (r *recorder) LogError(_ context.Context, err error, where string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, where+": "+err.Error())
}

func (r *recorder) Enabled() bool { return r.enabled }

func (r *recorder) SendMessage(_ context.Context, phone, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[phone] = text
	return r.sendErr
}

func TestPaymentConfirmed(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	svc := NewNotificationService(rec, rec, rec, zap.NewNop())

	paidAt := time.Date(2026, 10, 15, 3, 0, 0, 0, time.UTC)
	tx := &transaction.Transaction{
		Code:            "TRXA1B2C3D4",
		Status:          transaction.StatusPaid,
		Total:           decimal.NewFromInt(135000),
		MembershipStart: civil.NewDate(2026, 10, 15),
		MembershipEnd:   civil.NewDate(2026, 11, 14),
		PaidAt:          &paidAt,
		Package:         &product.Summary{Name: "Gold"},
	}
	svc.PaymentConfirmed(context.Background(), tx, &member.Member{Name: "Budi", Phone: "0811"})
	svc.Wait()

	if len(rec.events) != 1 || rec.events[0].Status != transaction.StatusPaid || !rec.events[0].At.Equal(paidAt) {
		t.Fatalf("events = %+v", rec.events)
	}
	if len(rec.payments) != 1 || rec.payments[0] != "TRXA1B2C3D4|Budi|Gold|135000" {
		t.Fatalf("payments = %v", rec.payments)
	}
	if msg := rec.messages["0811"]; !strings.Contains(msg, "TRXA1B2C3D4") || !strings.Contains(msg, "2026-11-14") {
		t.Fatalf("whatsapp = %q", msg)
	}
}

func TestRegisteredSkipsWhatsAppWhenDisabled(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	rec.enabled = false
	svc := NewNotificationService(rec, rec, rec, zap.NewNop())

	svc.Registered(context.Background(), "budi", "0811", "MBR1A2B3C")
	svc.Wait()

	if len(rec.signups) != 1 || rec.signups[0] != "budi|MBR1A2B3C" {
		t.Fatalf("signups = %v", rec.signups)
	}
	if len(rec.messages) != 0 {
		t.Fatalf("messages = %v, want none", rec.messages)
	}
}

func TestWhatsAppFailureDoesNotPanic(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	rec.sendErr = errors.New("gateway down")
	svc := NewNotificationService(nil, nil, rec, zap.NewNop())

	svc.Registered(context.Background(), "budi", "0811", "")
	svc.TransactionStatusChanged("TRX1", transaction.StatusCancelled, time.Now())
	svc.Wait()

	if _, ok := rec.messages["0811"]; !ok {
		t.Fatal("expected a send attempt")
	}
}

func TestGatewayFailedAlertsStaff(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	svc := NewNotificationService(rec, rec, rec, zap.NewNop())

	svc.GatewayFailed(context.Background(), "TRX00000001", errors.New("503 from gateway"))
	svc.Wait()

	if len(rec.errs) != 1 || !strings.Contains(rec.errs[0], "TRX00000001") {
		t.Fatalf("errs = %v", rec.errs)
	}
	if len(rec.messages) != 0 {
		t.Fatalf("members must not be messaged about gateway failures: %v", rec.messages)
	}
}

func TestUnexpectedPaymentAlertsStaff(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	svc := NewNotificationService(rec, rec, rec, zap.NewNop())

	svc.UnexpectedPayment(context.Background(), "TRX00000002", transaction.StatusCancelled)
	svc.Wait()

	if len(rec.errs) != 1 || !strings.Contains(rec.errs[0], "TRX00000002") || !strings.Contains(rec.errs[0], string(transaction.StatusCancelled)) {
		t.Fatalf("errs = %v", rec.errs)
	}
}
