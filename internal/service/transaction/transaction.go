// internal/service/transaction/transaction.go
package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymease-service/internal/domain/member"
	"gymease-service/internal/domain/product"
	"gymease-service/internal/domain/promo"
	"gymease-service/internal/domain/trainer"
	"gymease-service/internal/domain/transaction"
	"gymease-service/internal/integrations/qrpay"
	"gymease-service/internal/pkg/civil"
	"gymease-service/internal/pkg/clock"
	"gymease-service/internal/pkg/codegen"
	xerrors "gymease-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type Store interface {
	Create(ctx context.Context, t *transaction.Transaction) error
	FindByCode(ctx context.Context, code string) (*transaction.Transaction, error)
	List(ctx context.Context, f transaction.ListFilters, limit, offset int) ([]*transaction.Transaction, int, error)
	SetQR(ctx context.Context, id int64, qrID, qrString string, expiresAt time.Time) error
	ConfirmPayment(ctx context.Context, code string, paidAt time.Time) (*transaction.Transaction, *member.MembershipHistory, error)
	UpdateStatus(ctx context.Context, code string, to transaction.Status) error
	ExpireStale(ctx context.Context, now time.Time) ([]string, error)
	Stats(ctx context.Context) (*transaction.Stats, error)
}

type PackageFinder interface {
	FindByID(ctx context.Context, id int64) (*product.Package, error)
}

type MemberFinder interface {
	FindByID(ctx context.Context, id int64) (*member.Member, error)
	FindByUserID(ctx context.Context, userID int64) (*member.Member, error)
}

type TrainerFinder interface {
	FindByID(ctx context.Context, id int64) (*trainer.Trainer, error)
}

type PromoResolver interface {
	ApplicablePromo(ctx context.Context, id, packageID int64) (*promo.Promo, error)
}

type QRGateway interface {
	RegisterQR(ctx context.Context, in qrpay.RegisterRequest) (qrpay.QRCode, error)
	GetQR(ctx context.Context, id string) (qrpay.QRCode, error)
}

type Notifier interface {
	TransactionStatusChanged(code string, status transaction.Status, at time.Time)
	PaymentConfirmed(ctx context.Context, t *transaction.Transaction, m *member.Member)
	GatewayFailed(ctx context.Context, code string, err error)
	UnexpectedPayment(ctx context.Context, code string, status transaction.Status)
}

// Viewer is the authenticated caller. Members only see their own transactions.
type Viewer struct {
	UserID int64
	Staff  bool
}

type TransactionService struct {
	repo     Store
	packages PackageFinder
	members  MemberFinder
	trainers TrainerFinder
	promos   PromoResolver
	qr       QRGateway
	notifier Notifier
	now      clock.Func
	qrTTL    time.Duration
	logger   *zap.Logger
}

func NewTransactionService(
	repo Store,
	packages PackageFinder,
	members MemberFinder,
	trainers TrainerFinder,
	promos PromoResolver,
	qr QRGateway,
	notifier Notifier,
	now clock.Func,
	qrTTL time.Duration,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		repo:     repo,
		packages: packages,
		members:  members,
		trainers: trainers,
		promos:   promos,
		qr:       qr,
		notifier: notifier,
		now:      now,
		qrTTL:    qrTTL,
		logger:   logger,
	}
}

// Checkout prices a package purchase, stores it as PENDING and registers a QR
// for the amount due. A fully discounted purchase is confirmed immediately.
func (s *TransactionService) Checkout(ctx context.Context, viewer Viewer, req *transaction.CheckoutRequest) (*transaction.Transaction, error) {
	m, err := s.buyer(ctx, viewer, req.MemberID)
	if err != nil {
		return nil, err
	}

	pkg, err := s.packages.FindByID(ctx, req.PackageID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, fieldError("paket", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.PackageID))
	}
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, fieldError("paket", "Package is not available.")
	}

	total := pkg.Price
	if req.PromoID != nil {
		p, err := s.promos.ApplicablePromo(ctx, *req.PromoID, pkg.ID)
		if err != nil {
			return nil, err
		}
		total = promo.ComputeDiscount(pkg.Price, p.DiscountPercent).FinalPrice
	}

	if req.TrainerID != nil {
		tr, err := s.trainers.FindByID(ctx, *req.TrainerID)
		if errors.Is(err, xerrors.ErrNotFound) || (err == nil && !tr.IsActive) {
			return nil, fieldError("personal_trainer", "Personal trainer is not available.")
		}
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	start := civil.DateOf(now)
	if req.MembershipStart != nil {
		if req.MembershipStart.Before(start.Time) {
			return nil, fieldError("tanggal_mulai_membership", "Membership cannot start in the past.")
		}
		start = *req.MembershipStart
	}

	t := &transaction.Transaction{
		MemberID:        m.ID,
		PackageID:       pkg.ID,
		PromoID:         req.PromoID,
		TrainerID:       req.TrainerID,
		Total:           total,
		Status:          transaction.StatusPending,
		MembershipStart: start,
		MembershipEnd:   start.AddDays(pkg.DurationDays),
	}
	if _, err := codegen.Insert(codegen.PrefixTransaction, 8, func(code string) error {
		t.Code = code
		return s.repo.Create(ctx, t)
	}); err != nil {
		return nil, err
	}
	t.Package = pkg.Summary()

	s.logger.Info("transaction created",
		zap.String("id_transaksi", t.Code),
		zap.Int64("member_id", m.ID),
		zap.Int64("package_id", pkg.ID),
		zap.String("total", t.Total.String()),
	)

	if !t.Total.IsPositive() {
		return s.ConfirmPayment(ctx, t.Code)
	}

	if err := s.attachQR(ctx, t, pkg.Name, now); err != nil {
		if cerr := s.repo.UpdateStatus(ctx, t.Code, transaction.StatusCancelled); cerr != nil {
			s.logger.Error("failed to cancel transaction after QR failure", zap.String("id_transaksi", t.Code), zap.Error(cerr))
		}
		return nil, err
	}
	return t, nil
}

// ConfirmPayment marks a pending transaction PAID exactly once.
func (s *TransactionService) ConfirmPayment(ctx context.Context, code string) (*transaction.Transaction, error) {
	t, _, err := s.repo.ConfirmPayment(ctx, code, s.now())
	if err != nil {
		return nil, err
	}

	m, err := s.members.FindByID(ctx, t.MemberID)
	if err != nil {
		s.logger.Warn("paid transaction member lookup failed", zap.String("id_transaksi", code), zap.Error(err))
		m = nil
	}
	s.notifier.PaymentConfirmed(ctx, t, m)

	s.logger.Info("payment confirmed",
		zap.String("id_transaksi", t.Code),
		zap.String("total", t.Total.String()),
	)
	return t, nil
}

// HandleCallback applies a payment gateway notification. Repeated PAID callbacks
// for an already paid transaction are acknowledged without side effects. A payment
// for a cancelled or expired transaction is acknowledged and reported to staff.
func (s *TransactionService) HandleCallback(ctx context.Context, cb *transaction.PaymentCallback) (*transaction.Transaction, error) {
	t, err := s.repo.FindByCode(ctx, cb.ReferenceID)
	if err != nil {
		return nil, err
	}
	if t.QRID == nil || *t.QRID != cb.QRID {
		return nil, xerrors.Invalid("qr_id does not belong to transaction %s", t.Code)
	}

	switch {
	case qrpay.IsPaidStatus(cb.Status):
		switch t.Status {
		case transaction.StatusPaid:
			return t, nil
		case transaction.StatusPending:
			return s.ConfirmPayment(ctx, t.Code)
		default:
			s.logger.Warn("payment received for closed transaction",
				zap.String("id_transaksi", t.Code),
				zap.String("status", string(t.Status)),
			)
			s.notifier.UnexpectedPayment(ctx, t.Code, t.Status)
			return t, nil
		}
	case strings.EqualFold(strings.TrimSpace(cb.Status), qrpay.StatusExpired):
		if t.Status != transaction.StatusPending {
			return t, nil
		}
		if err := s.setStatus(ctx, t, transaction.StatusExpired); err != nil {
			return nil, err
		}
		return t, nil
	default:
		s.logger.Debug("ignoring gateway callback", zap.String("id_transaksi", t.Code), zap.String("status", cb.Status))
		return t, nil
	}
}

// SyncPayment asks the gateway for the QR status of a pending transaction and
// applies it, for when a callback never arrived.
func (s *TransactionService) SyncPayment(ctx context.Context, viewer Viewer, code string) (*transaction.Transaction, error) {
	t, err := s.Get(ctx, viewer, code)
	if err != nil {
		return nil, err
	}
	if t.Status != transaction.StatusPending {
		return t, nil
	}
	if t.QRID == nil {
		return nil, xerrors.Invalid("transaction %s has no QR code", t.Code)
	}

	qr, err := s.qr.GetQR(ctx, *t.QRID)
	if err != nil {
		s.logger.Warn("failed to fetch QR status", zap.String("id_transaksi", t.Code), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", xerrors.ErrUpstream, err)
	}

	switch {
	case qrpay.IsPaidStatus(qr.Status):
		return s.ConfirmPayment(ctx, t.Code)
	case strings.EqualFold(qr.Status, qrpay.StatusExpired):
		if err := s.setStatus(ctx, t, transaction.StatusExpired); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Cancel abandons a pending transaction.
func (s *TransactionService) Cancel(ctx context.Context, viewer Viewer, code string) (*transaction.Transaction, error) {
	t, err := s.Get(ctx, viewer, code)
	if err != nil {
		return nil, err
	}
	if err := s.setStatus(ctx, t, transaction.StatusCancelled); err != nil {
		return nil, err
	}
	return t, nil
}

// Lookup loads a transaction by id_transaksi without an ownership check.
// The status stream uses it; the code itself is the capability.
func (s *TransactionService) Lookup(ctx context.Context, code string) (*transaction.Transaction, error) {
	return s.repo.FindByCode(ctx, code)
}

// Get loads a transaction by id_transaksi.
func (s *TransactionService) Get(ctx context.Context, viewer Viewer, code string) (*transaction.Transaction, error) {
	t, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !viewer.Staff {
		m, err := s.members.FindByUserID(ctx, viewer.UserID)
		if err != nil || m.ID != t.MemberID {
			// Foreign transactions look missing to members.
			return nil, xerrors.ErrNotFound
		}
	}
	return t, nil
}

// List pages through transactions; members are limited to their own.
func (s *TransactionService) List(ctx context.Context, viewer Viewer, f transaction.ListFilters, limit, offset int) ([]*transaction.Transaction, int, error) {
	if f.Status != "" && !transaction.Status(f.Status).Valid() {
		return nil, 0, fieldError("status", fmt.Sprintf("%q is not a valid choice.", f.Status))
	}
	if !viewer.Staff {
		m, err := s.members.FindByUserID(ctx, viewer.UserID)
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, 0, nil
		}
		if err != nil {
			return nil, 0, err
		}
		f.MemberID = m.ID
	}
	return s.repo.List(ctx, f, limit, offset)
}

func (s *TransactionService) Statistics(ctx context.Context) (*transaction.Stats, error) {
	return s.repo.Stats(ctx)
}

// ExpireStale expires pending transactions whose QR has lapsed.
func (s *TransactionService) ExpireStale(ctx context.Context) (int, error) {
	now := s.now()
	codes, err := s.repo.ExpireStale(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, code := range codes {
		s.notifier.TransactionStatusChanged(code, transaction.StatusExpired, now)
	}
	if len(codes) > 0 {
		s.logger.Info("expired stale transactions", zap.Int("count", len(codes)))
	}
	return len(codes), nil
}

// RunExpiryWorker calls ExpireStale every interval until ctx is done.
func (s *TransactionService) RunExpiryWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ExpireStale(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("failed to expire transactions", zap.Error(err))
			}
		}
	}
}

// ========== Helpers ==========

func (s *TransactionService) buyer(ctx context.Context, viewer Viewer, memberID int64) (*member.Member, error) {
	if !viewer.Staff {
		m, err := s.members.FindByUserID(ctx, viewer.UserID)
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, fieldError("member", "This account has no member profile.")
		}
		return m, err
	}

	if memberID == 0 {
		return nil, fieldError("member", "This field is required.")
	}
	m, err := s.members.FindByID(ctx, memberID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, fieldError("member", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", memberID))
	}
	return m, err
}

func (s *TransactionService) attachQR(ctx context.Context, t *transaction.Transaction, description string, now time.Time) error {
	qr, err := s.qr.RegisterQR(ctx, qrpay.RegisterRequest{
		ReferenceID: t.Code,
		Amount:      t.Total.IntPart(),
		Description: description,
		ExpiresAt:   now.Add(s.qrTTL),
	})
	if err != nil {
		s.logger.Error("failed to register QR", zap.String("id_transaksi", t.Code), zap.Error(err))
		s.notifier.GatewayFailed(ctx, t.Code, err)
		return fmt.Errorf("%w: %v", xerrors.ErrUpstream, err)
	}

	if err := s.repo.SetQR(ctx, t.ID, qr.ID, qr.QRString, qr.ExpiresAt); err != nil {
		return err
	}
	t.QRID = &qr.ID
	t.QRString = &qr.QRString
	t.QRExpiresAt = &qr.ExpiresAt
	return nil
}

func (s *TransactionService) setStatus(ctx context.Context, t *transaction.Transaction, to transaction.Status) error {
	if !t.Status.CanTransition(to) {
		return fmt.Errorf("%w: transaction %s is %s", xerrors.ErrInvalidState, t.Code, t.Status)
	}
	if err := s.repo.UpdateStatus(ctx, t.Code, to); err != nil {
		return err
	}
	t.Status = to
	s.notifier.TransactionStatusChanged(t.Code, to, s.now())
	s.logger.Info("transaction status changed", zap.String("id_transaksi", t.Code), zap.String("status", string(to)))
	return nil
}

func fieldError(field, msg string) error {
	return xerrors.FieldErrors{field: {msg}}
}
