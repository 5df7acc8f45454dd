// internal/domain/transaction/entity.go
package transaction

import (
	"time"

	"gymease-service/internal/domain/product"
	"gymease-service/internal/pkg/civil"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// CanTransition allows only PENDING to move, and only once.
func (s Status) CanTransition(to Status) bool {
	if s != StatusPending {
		return false
	}
	return to == StatusPaid || to == StatusCancelled || to == StatusExpired
}

// Transaction is a package purchase awaiting or having completed QR payment.
type Transaction struct {
	ID              int64           `json:"id" db:"id"`
	Code            string          `json:"id_transaksi" db:"id_transaksi"`
	MemberID        int64           `json:"member" db:"member_id"`
	PackageID       int64           `json:"paket" db:"paket_id"`
	PromoID         *int64          `json:"promo" db:"promo_id"`
	TrainerID       *int64          `json:"personal_trainer" db:"personal_trainer_id"`
	Total           decimal.Decimal `json:"total_bayar" db:"total_bayar"`
	Status          Status          `json:"status" db:"status"`
	MembershipStart civil.Date      `json:"tanggal_mulai_membership" db:"tanggal_mulai_membership"`
	MembershipEnd   civil.Date      `json:"tanggal_berakhir_membership" db:"tanggal_berakhir_membership"`
	QRID            *string         `json:"qr_id,omitempty" db:"qr_id"`
	QRString        *string         `json:"qr_string,omitempty" db:"qr_string"`
	QRExpiresAt     *time.Time      `json:"qr_expires_at,omitempty" db:"qr_expires_at"`
	PaidAt          *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt       time.Time       `json:"tgl_transaksi" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	Package *product.Summary `json:"product_detail,omitempty" db:"-"`
}

type Stats struct {
	Total   int64           `json:"total_transactions"`
	Paid    int64           `json:"paid_transactions"`
	Pending int64           `json:"pending_transactions"`
	Revenue decimal.Decimal `json:"total_revenue"`
}

// StatusEvent is pushed to websocket subscribers of one transaction.
type StatusEvent struct {
	Code   string    `json:"id_transaksi"`
	Status Status    `json:"status"`
	At     time.Time `json:"at"`
}
