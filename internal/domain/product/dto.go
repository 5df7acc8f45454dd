// internal/domain/product/dto.go
package product

import "github.com/shopspring/decimal"

type CreatePackageRequest struct {
	Name         string          `json:"nama_paket" binding:"required,max=100"`
	Description  string          `json:"deskripsi"`
	Price        decimal.Decimal `json:"harga"`
	DurationDays int             `json:"durasi_hari" binding:"required,min=1"`
	Features     []string        `json:"fitur"`
	IsActive     *bool           `json:"is_active"`
}

type UpdatePackageRequest struct {
	Name         *string          `json:"nama_paket" binding:"omitempty,max=100"`
	Description  *string          `json:"deskripsi"`
	Price        *decimal.Decimal `json:"harga"`
	DurationDays *int             `json:"durasi_hari" binding:"omitempty,min=1"`
	Features     []string         `json:"fitur"`
	IsActive     *bool            `json:"is_active"`
}
