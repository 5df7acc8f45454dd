// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Package is a purchasable membership tier ("produk").
type Package struct {
	ID           int64           `json:"id" db:"id"`
	Name         string          `json:"nama_paket" db:"nama_paket"`
	Description  string          `json:"deskripsi" db:"deskripsi"`
	Price        decimal.Decimal `json:"harga" db:"harga"`
	DurationDays int             `json:"durasi_hari" db:"durasi_hari"`
	Features     pq.StringArray  `json:"fitur" db:"fitur"`
	IsActive     bool            `json:"is_active" db:"is_active"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Summary is the short form embedded in promo and transaction payloads.
type Summary struct {
	ID           int64           `json:"id"`
	Name         string          `json:"nama_paket"`
	Price        decimal.Decimal `json:"harga"`
	DurationDays int             `json:"durasi_hari"`
}

func (p *Package) Summary() *Summary {
	if p == nil {
		return nil
	}
	return &Summary{ID: p.ID, Name: p.Name, Price: p.Price, DurationDays: p.DurationDays}
}
