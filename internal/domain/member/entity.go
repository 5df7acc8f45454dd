// internal/domain/member/entity.go
package member

import (
	"fmt"
	"time"

	"gymease-service/internal/pkg/civil"
)

type Member struct {
	ID         int64     `json:"id" db:"id"`
	UserID     *int64    `json:"user,omitempty" db:"user_id"`
	Code       string    `json:"id_member" db:"id_member"`
	Name       string    `json:"nama" db:"nama"`
	Address    string    `json:"alamat" db:"alamat"`
	BirthPlace string    `json:"tempat_lahir" db:"tempat_lahir"`
	BirthDay   int       `json:"tanggal_lahir" db:"tanggal_lahir"`
	BirthMonth int       `json:"bulan_lahir" db:"bulan_lahir"`
	BirthYear  int       `json:"tahun_lahir" db:"tahun_lahir"`
	Phone      string    `json:"phone" db:"phone"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// BirthInfo renders "place, d/m/yyyy".
func (m *Member) BirthInfo() string {
	return fmt.Sprintf("%s, %d/%d/%d", m.BirthPlace, m.BirthDay, m.BirthMonth, m.BirthYear)
}

// MembershipHistory is one paid membership period.
type MembershipHistory struct {
	ID            int64      `json:"id" db:"id"`
	MemberID      int64      `json:"member" db:"member_id"`
	TransactionID int64      `json:"transaksi" db:"transaksi_id"`
	StartDate     civil.Date `json:"tanggal_mulai" db:"tanggal_mulai"`
	EndDate       civil.Date `json:"tanggal_berakhir" db:"tanggal_berakhir"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

type Stats struct {
	Total    int64 `json:"total_members"`
	Active   int64 `json:"active_members"`
	Inactive int64 `json:"inactive_members"`
}

type MembershipStatus struct {
	Status     string             `json:"status"`
	Membership *MembershipHistory `json:"membership,omitempty"`
}
