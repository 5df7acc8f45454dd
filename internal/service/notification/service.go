// internal/service/notification/service.go
package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gymease-service/internal/domain/member"
	"gymease-service/internal/domain/transaction"

	"go.uber.org/zap"
)

// Publisher pushes status changes to live websocket watchers.
type Publisher interface {
	PublishStatus(event transaction.StatusEvent)
}

// StaffLog posts events to the staff chat.
type StaffLog interface {
	LogPayment(ctx context.Context, code, memberName, packageName, total string)
	LogRegistration(ctx context.Context, username, memberCode string)
	LogError(ctx context.Context, err error, where string)
}

// Messenger delivers WhatsApp messages to members.
type Messenger interface {
	Enabled() bool
	SendMessage(ctx context.Context, phone, text string) error
}

// NotificationService fans domain events out to websocket, Telegram and WhatsApp.
// Slow external calls run in the background; Wait blocks until they finish.
type NotificationService struct {
	hub      Publisher
	staff    StaffLog
	whatsapp Messenger
	logger   *zap.Logger

	wg sync.WaitGroup
}

func NewNotificationService(hub Publisher, staff StaffLog, whatsapp Messenger, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		hub:      hub,
		staff:    staff,
		whatsapp: whatsapp,
		logger:   logger,
	}
}

// TransactionStatusChanged tells watchers of code about its new status.
func (s *NotificationService) TransactionStatusChanged(code string, status transaction.Status, at time.Time) {
	if s.hub == nil {
		return
	}
	s.hub.PublishStatus(transaction.StatusEvent{Code: code, Status: status, At: at})
}

// PaymentConfirmed publishes the PAID status and sends the staff log and the member receipt.
func (s *NotificationService) PaymentConfirmed(ctx context.Context, t *transaction.Transaction, m *member.Member) {
	at := t.UpdatedAt
	if t.PaidAt != nil {
		at = *t.PaidAt
	}
	s.TransactionStatusChanged(t.Code, t.Status, at)

	packageName := ""
	if t.Package != nil {
		packageName = t.Package.Name
	}
	memberName, phone := "", ""
	if m != nil {
		memberName, phone = m.Name, m.Phone
	}
	total := t.Total.StringFixed(0)

	s.background(ctx, func(ctx context.Context) {
		if s.staff != nil {
			s.staff.LogPayment(ctx, t.Code, memberName, packageName, total)
		}
		s.sendWhatsApp(ctx, phone, fmt.Sprintf(
			"Terima kasih %s! Pembayaran %s sebesar Rp %s telah kami terima. Membership %s aktif %s s/d %s.",
			memberName, t.Code, total, packageName, t.MembershipStart, t.MembershipEnd,
		))
	})
}

// Registered welcomes a new account and logs it for staff.
func (s *NotificationService) Registered(ctx context.Context, username, phone, memberCode string) {
	s.background(ctx, func(ctx context.Context) {
		if s.staff != nil {
			s.staff.LogRegistration(ctx, username, memberCode)
		}
		text := fmt.Sprintf("Halo %s, selamat bergabung di GymEase!", username)
		if memberCode != "" {
			text += fmt.Sprintf(" ID member kamu: %s.", memberCode)
		}
		s.sendWhatsApp(ctx, phone, text)
	})
}

// GatewayFailed alerts staff that the payment gateway rejected a checkout.
func (s *NotificationService) GatewayFailed(ctx context.Context, code string, err error) {
	if s.staff == nil {
		return
	}
	s.background(ctx, func(ctx context.Context) {
		s.staff.LogError(ctx, err, "QR registration for "+code)
	})
}

// UnexpectedPayment alerts staff that the gateway reported a payment for a
// transaction that can no longer be paid, so it has to be settled by hand.
func (s *NotificationService) UnexpectedPayment(ctx context.Context, code string, status transaction.Status) {
	if s.staff == nil {
		return
	}
	err := fmt.Errorf("payment received for %s transaction", status)
	s.background(ctx, func(ctx context.Context) {
		s.staff.LogError(ctx, err, "gateway callback for "+code)
	})
}

// Wait blocks until background deliveries have finished.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) sendWhatsApp(ctx context.Context, phone, text string) {
	if phone == "" || s.whatsapp == nil || !s.whatsapp.Enabled() {
		return
	}
	if err := s.whatsapp.SendMessage(ctx, phone, text); err != nil {
		s.logger.Warn("failed to send whatsapp message", zap.Error(err))
	}
}

func (s *NotificationService) background(ctx context.Context, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		fn(ctx)
	}()
}
