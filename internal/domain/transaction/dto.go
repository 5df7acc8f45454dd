// internal/domain/transaction/dto.go
package transaction

import "gymease-service/internal/pkg/civil"

type CheckoutRequest struct {
	MemberID        int64       `json:"member"`
	PackageID       int64       `json:"paket" binding:"required,min=1"`
	PromoID         *int64      `json:"promo" binding:"omitempty,min=1"`
	TrainerID       *int64      `json:"personal_trainer" binding:"omitempty,min=1"`
	MembershipStart *civil.Date `json:"tanggal_mulai_membership"`
}

type ListFilters struct {
	Status   string `form:"status"`
	MemberID int64  `form:"member"`
}

// PaymentCallback is posted by the QR payment gateway when a code changes state.
type PaymentCallback struct {
	QRID        string `json:"qr_id" binding:"required"`
	ReferenceID string `json:"reference_id" binding:"required"`
	Status      string `json:"status" binding:"required"`
}
