// internal/domain/promo/dto.go
package promo

import (
	"gymease-service/internal/pkg/civil"

	"github.com/shopspring/decimal"
)

type CreatePromoRequest struct {
	Name            string          `json:"nama_promo" binding:"required,max=100"`
	Description     string          `json:"deskripsi"`
	DiscountPercent decimal.Decimal `json:"diskon_persen"`
	PackageID       int64           `json:"paket" binding:"required,min=1"`
	StartDate       *civil.Date     `json:"tanggal_mulai"`
	EndDate         *civil.Date     `json:"tanggal_berakhir"`
	IsActive        *bool           `json:"is_active"`
}

type UpdatePromoRequest struct {
	Name            *string          `json:"nama_promo" binding:"omitempty,max=100"`
	Description     *string          `json:"deskripsi"`
	DiscountPercent *decimal.Decimal `json:"diskon_persen"`
	PackageID       *int64           `json:"paket" binding:"omitempty,min=1"`
	StartDate       *civil.Date      `json:"tanggal_mulai"`
	EndDate         *civil.Date      `json:"tanggal_berakhir"`
	ClearDates      bool             `json:"clear_dates"`
	ClearStart      bool             `json:"clear_start"`
	ClearEnd        bool             `json:"clear_end"`
	IsActive        *bool            `json:"is_active"`
}

type ListFilters struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

// Preview is the discount breakdown shown next to a promo.
type Preview struct {
	PromoID         int64           `json:"promo"`
	Status          Status          `json:"status"`
	DiscountPercent decimal.Decimal `json:"diskon_persen"`
	BasePrice       decimal.Decimal `json:"harga_awal"`
	Savings         decimal.Decimal `json:"hemat"`
	FinalPrice      decimal.Decimal `json:"harga_akhir"`
}
