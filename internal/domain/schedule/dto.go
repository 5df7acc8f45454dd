// internal/domain/schedule/dto.go
package schedule

import (
	"gymease-service/internal/pkg/civil"
	xerrors "gymease-service/internal/pkg/errors"
)

type CreateSlotRequest struct {
	TrainerID   int64  `json:"personal_trainer" binding:"required,min=1"`
	Day         Day    `json:"hari" binding:"required,hari"`
	StartTime   string `json:"jam_mulai" binding:"required,hhmm"`
	EndTime     string `json:"jam_selesai" binding:"required,hhmm"`
	IsAvailable *bool  `json:"is_available"`
}

type UpdateSlotRequest struct {
	Day         *Day    `json:"hari" binding:"omitempty,hari"`
	StartTime   *string `json:"jam_mulai" binding:"omitempty,hhmm"`
	EndTime     *string `json:"jam_selesai" binding:"omitempty,hhmm"`
	IsAvailable *bool   `json:"is_available"`
}

type AvailableSlotsQuery struct {
	TrainerID int64  `form:"trainer_id"`
	Date      string `form:"date"`
}

type BookSessionRequest struct {
	MemberID int64      `json:"member"`
	SlotID   int64      `json:"jadwal" binding:"required,min=1"`
	Date     civil.Date `json:"tanggal_session"`
	Notes    string     `json:"notes"`
}

// SessionFilter narrows a session listing. Zero values match everything.
type SessionFilter struct {
	MemberID  int64         `form:"member"`
	TrainerID int64         `form:"personal_trainer"`
	Date      *civil.Date   `form:"-"`
	Status    SessionStatus `form:"status"`
}

type CompleteSessionRequest struct {
	Notes string `json:"notes"`
}

// ValidateWindow checks that a slot ends after it starts.
func ValidateWindow(start, end Clock) error {
	if end <= start {
		fields := xerrors.FieldErrors{}
		fields.Add("jam_selesai", "End time must be after start time.")
		return fields
	}
	return nil
}
