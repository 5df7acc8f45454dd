// internal/domain/schedule/entity.go
package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gymease-service/internal/pkg/civil"
)

// Day is a weekday name as used by the gym's schedule board.
type Day string

const (
	Monday    Day = "SENIN"
	Tuesday   Day = "SELASA"
	Wednesday Day = "RABU"
	Thursday  Day = "KAMIS"
	Friday    Day = "JUMAT"
	Saturday  Day = "SABTU"
	Sunday    Day = "MINGGU"
)

var weekdays = map[time.Weekday]Day{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// DayOf returns the schedule day a calendar date falls on.
func DayOf(d civil.Date) Day {
	return weekdays[d.Weekday()]
}

// Valid reports whether d is one of the seven day names.
func (d Day) Valid() bool {
	for _, v := range weekdays {
		if v == d {
			return true
		}
	}
	return false
}

// Clock is a time of day in minutes after midnight, written as "HH:MM".
type Clock int

// ParseClock accepts "HH:MM" or "HH:MM:SS" (seconds are dropped).
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Slot is a weekly recurring availability window of one trainer ("jadwal PT").
type Slot struct {
	ID          int64     `json:"id" db:"id"`
	TrainerID   int64     `json:"personal_trainer" db:"personal_trainer_id"`
	TrainerName string    `json:"personal_trainer_name,omitempty" db:"-"`
	Day         Day       `json:"hari" db:"hari"`
	StartTime   Clock     `json:"jam_mulai" db:"jam_mulai"`
	EndTime     Clock     `json:"jam_selesai" db:"jam_selesai"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type SessionStatus string

const (
	SessionScheduled SessionStatus = "SCHEDULED"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionCancelled SessionStatus = "CANCELLED"
	SessionNoShow    SessionStatus = "NO_SHOW"
)

// BlocksSlot reports whether a session in this status occupies its slot.
func (s SessionStatus) BlocksSlot() bool {
	return s != SessionCancelled
}

// Session is one booked PT session on a concrete date.
type Session struct {
	ID        int64         `json:"id" db:"id"`
	MemberID  int64         `json:"member" db:"member_id"`
	TrainerID int64         `json:"personal_trainer" db:"personal_trainer_id"`
	SlotID    int64         `json:"jadwal" db:"jadwal_id"`
	Date      civil.Date    `json:"tanggal_session" db:"tanggal_session"`
	Status    SessionStatus `json:"status" db:"status"`
	Notes     string        `json:"notes" db:"notes"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}
