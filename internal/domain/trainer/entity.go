// internal/domain/trainer/entity.go
package trainer

import "time"

// Trainer is a personal trainer (PT).
type Trainer struct {
	ID               int64     `json:"id" db:"id"`
	Code             string    `json:"id_pt" db:"id_pt"`
	Name             string    `json:"nama" db:"nama"`
	Certification    string    `json:"sertifikasi" db:"sertifikasi"`
	ExperienceMonths int       `json:"masa_kerja" db:"masa_kerja"`
	Phone            string    `json:"phone" db:"phone"`
	Email            string    `json:"email" db:"email"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ExperienceYears splits masa_kerja into whole years and remaining months.
func (t *Trainer) ExperienceYears() (years, months int) {
	return t.ExperienceMonths / 12, t.ExperienceMonths % 12
}
