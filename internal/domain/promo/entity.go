// internal/domain/promo/entity.go
package promo

import (
	"time"

	"gymease-service/internal/domain/product"
	"gymease-service/internal/pkg/civil"

	"github.com/shopspring/decimal"
)

// Status is derived from the active flag and the campaign window; never stored.
type Status string

const (
	StatusInactive  Status = "inactive"
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusActive, StatusScheduled, StatusExpired, StatusInactive}

// Promo is a discount campaign tied to one package.
type Promo struct {
	ID              int64           `json:"id" db:"id"`
	Code            string          `json:"id_promo" db:"id_promo"`
	Name            string          `json:"nama_promo" db:"nama_promo"`
	Description     string          `json:"deskripsi" db:"deskripsi"`
	DiscountPercent decimal.Decimal `json:"diskon_persen" db:"diskon_persen"`
	PackageID       int64           `json:"paket" db:"paket_id"`
	StartDate       *civil.Date     `json:"tanggal_mulai" db:"tanggal_mulai"`
	EndDate         *civil.Date     `json:"tanggal_berakhir" db:"tanggal_berakhir"`
	IsActive        bool            `json:"is_active" db:"is_active"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	// Package is joined in by the repository when available.
	Package *product.Summary `json:"paket_detail,omitempty" db:"-"`
}

// PackageName is empty when the package was not loaded.
func (p *Promo) PackageName() string {
	if p.Package == nil {
		return ""
	}
	return p.Package.Name
}

// BasePrice is the price of the targeted package, zero when unknown.
func (p *Promo) BasePrice() decimal.Decimal {
	if p.Package == nil {
		return decimal.Zero
	}
	return p.Package.Price
}

// View is a promo together with its derived status, as returned by the API.
type View struct {
	Promo
	Status Status `json:"status"`
}

type Stats struct {
	Total     int `json:"total_promos"`
	Active    int `json:"active_promos"`
	Scheduled int `json:"scheduled_promos"`
	Expired   int `json:"expired_promos"`
	Inactive  int `json:"inactive_promos"`
}
