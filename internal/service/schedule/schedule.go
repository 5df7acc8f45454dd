// internal/service/schedule/schedule.go
package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gymease-service/internal/domain/schedule"
	"gymease-service/internal/domain/trainer"
	"gymease-service/internal/pkg/civil"
	"gymease-service/internal/pkg/clock"
	xerrors "gymease-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type Store interface {
	CreateSlot(ctx context.Context, s *schedule.Slot) error
	FindSlot(ctx context.Context, id int64) (*schedule.Slot, error)
	ListSlots(ctx context.Context, trainerID int64, day schedule.Day, availableOnly bool) ([]*schedule.Slot, error)
	UpdateSlot(ctx context.Context, s *schedule.Slot) error
	DeleteSlot(ctx context.Context, id int64) error

	CreateSession(ctx context.Context, s *schedule.Session) error
	FindSession(ctx context.Context, id int64) (*schedule.Session, error)
	ListSessions(ctx context.Context, f schedule.SessionFilter) ([]*schedule.Session, error)
	BookedSlotIDs(ctx context.Context, trainerID int64, day civil.Date) (map[int64]bool, error)
	UpdateSessionStatus(ctx context.Context, id int64, from, to schedule.SessionStatus, notes string) error
}

type TrainerFinder interface {
	FindByID(ctx context.Context, id int64) (*trainer.Trainer, error)
}

type ScheduleService struct {
	repo     Store
	trainers TrainerFinder
	now      clock.Func
	logger   *zap.Logger
}

func NewScheduleService(repo Store, trainers TrainerFinder, now clock.Func, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		repo:     repo,
		trainers: trainers,
		now:      now,
		logger:   logger,
	}
}

// ========== Slots ==========

// CreateSlot adds a weekly slot for a trainer.
func (s *ScheduleService) CreateSlot(ctx context.Context, req *schedule.CreateSlotRequest) (*schedule.Slot, error) {
	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	t, err := s.trainers.FindByID(ctx, req.TrainerID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, field("personal_trainer", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.TrainerID))
	}
	if err != nil {
		return nil, err
	}

	slot := &schedule.Slot{
		TrainerID:   t.ID,
		TrainerName: t.Name,
		Day:         schedule.Day(strings.ToUpper(string(req.Day))),
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.CreateSlot(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("schedule slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("trainer_id", slot.TrainerID),
		zap.String("hari", string(slot.Day)),
		zap.String("jam_mulai", slot.StartTime.String()),
	)
	return slot, nil
}

// GetSlot returns a slot by ID
func (s *ScheduleService) GetSlot(ctx context.Context, id int64) (*schedule.Slot, error) {
	return s.repo.FindSlot(ctx, id)
}

// ListSlots returns slots, optionally for one trainer and/or day.
func (s *ScheduleService) ListSlots(ctx context.Context, trainerID int64, day string) ([]*schedule.Slot, error) {
	d := schedule.Day(strings.ToUpper(strings.TrimSpace(day)))
	if d != "" && !d.Valid() {
		return nil, field("hari", fmt.Sprintf("%q is not a valid choice.", day))
	}
	return s.repo.ListSlots(ctx, trainerID, d, false)
}

// UpdateSlot applies the provided fields.
func (s *ScheduleService) UpdateSlot(ctx context.Context, id int64, req *schedule.UpdateSlotRequest) (*schedule.Slot, error) {
	slot, err := s.repo.FindSlot(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end := slot.StartTime.String(), slot.EndTime.String()
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if slot.StartTime, slot.EndTime, err = parseWindow(start, end); err != nil {
		return nil, err
	}
	if req.Day != nil {
		slot.Day = schedule.Day(strings.ToUpper(string(*req.Day)))
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.UpdateSlot(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("schedule slot updated", zap.Int64("slot_id", slot.ID))
	return slot, nil
}

// DeleteSlot removes a slot
func (s *ScheduleService) DeleteSlot(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSlot(ctx, id); err != nil {
		return err
	}
	s.logger.Info("schedule slot deleted", zap.Int64("slot_id", id))
	return nil
}

// AvailableSlots lists the slots of a trainer on the weekday of date that are
// open and not yet booked for that date.
func (s *ScheduleService) AvailableSlots(ctx context.Context, q schedule.AvailableSlotsQuery) ([]*schedule.Slot, error) {
	fields := xerrors.FieldErrors{}
	if q.TrainerID <= 0 {
		fields.Add("trainer_id", "This field is required.")
	}
	day, err := civil.ParseDate(q.Date)
	if q.Date == "" {
		fields.Add("date", "This field is required.")
	} else if err != nil {
		fields.Add("date", "Date has wrong format. Use YYYY-MM-DD.")
	}
	if err := fields.OrNil(); err != nil {
		return nil, err
	}

	slots, err := s.repo.ListSlots(ctx, q.TrainerID, schedule.DayOf(day), true)
	if err != nil {
		return nil, err
	}
	booked, err := s.repo.BookedSlotIDs(ctx, q.TrainerID, day)
	if err != nil {
		return nil, err
	}

	out := []*schedule.Slot{}
	for _, slot := range slots {
		if !booked[slot.ID] {
			out = append(out, slot)
		}
	}
	return out, nil
}

// ========== Sessions ==========

// BookSession reserves a slot for a member on a date.
func (s *ScheduleService) BookSession(ctx context.Context, memberID int64, req *schedule.BookSessionRequest) (*schedule.Session, error) {
	if memberID <= 0 {
		return nil, field("member", "This field is required.")
	}
	if req.Date.IsZero() {
		return nil, field("tanggal_session", "This field is required.")
	}
	if req.Date.Before(civil.DateOf(s.now()).Time) {
		return nil, field("tanggal_session", "Session date cannot be in the past.")
	}

	slot, err := s.repo.FindSlot(ctx, req.SlotID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, field("jadwal", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.SlotID))
	}
	if err != nil {
		return nil, err
	}
	if !slot.IsAvailable {
		return nil, field("jadwal", "This slot is not available.")
	}
	if day := schedule.DayOf(req.Date); day != slot.Day {
		return nil, field("tanggal_session", fmt.Sprintf("%s is a %s but the slot is on %s.", req.Date, day, slot.Day))
	}

	session := &schedule.Session{
		MemberID:  memberID,
		TrainerID: slot.TrainerID,
		SlotID:    slot.ID,
		Date:      req.Date,
		Status:    schedule.SessionScheduled,
		Notes:     req.Notes,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("pt session booked",
		zap.Int64("session_id", session.ID),
		zap.Int64("member_id", memberID),
		zap.Int64("slot_id", slot.ID),
		zap.String("date", req.Date.String()),
	)
	return session, nil
}

// GetSession returns a session by ID
func (s *ScheduleService) GetSession(ctx context.Context, id int64) (*schedule.Session, error) {
	return s.repo.FindSession(ctx, id)
}

// ListSessions returns sessions matching f.
func (s *ScheduleService) ListSessions(ctx context.Context, f schedule.SessionFilter) ([]*schedule.Session, error) {
	return s.repo.ListSessions(ctx, f)
}

// TodaySessions returns the sessions held today, optionally for one member.
func (s *ScheduleService) TodaySessions(ctx context.Context, memberID int64) ([]*schedule.Session, error) {
	today := civil.DateOf(s.now())
	return s.repo.ListSessions(ctx, schedule.SessionFilter{MemberID: memberID, Date: &today})
}

// CompleteSession marks a scheduled session as held.
func (s *ScheduleService) CompleteSession(ctx context.Context, id int64, notes string) (*schedule.Session, error) {
	return s.transition(ctx, id, schedule.SessionCompleted, notes)
}

// CancelSession frees the slot of a scheduled session.
func (s *ScheduleService) CancelSession(ctx context.Context, id int64) (*schedule.Session, error) {
	return s.transition(ctx, id, schedule.SessionCancelled, "")
}

func (s *ScheduleService) transition(ctx context.Context, id int64, to schedule.SessionStatus, notes string) (*schedule.Session, error) {
	if _, err := s.repo.FindSession(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSessionStatus(ctx, id, schedule.SessionScheduled, to, notes); err != nil {
		return nil, err
	}

	s.logger.Info("pt session updated", zap.Int64("session_id", id), zap.String("status", string(to)))
	return s.repo.FindSession(ctx, id)
}

// ========== Helpers ==========

func parseWindow(startStr, endStr string) (schedule.Clock, schedule.Clock, error) {
	fields := xerrors.FieldErrors{}
	start, err := schedule.ParseClock(startStr)
	if err != nil {
		fields.Add("jam_mulai", "Time has wrong format. Use HH:MM.")
	}
	end, err := schedule.ParseClock(endStr)
	if err != nil {
		fields.Add("jam_selesai", "Time has wrong format. Use HH:MM.")
	}
	if err := fields.OrNil(); err != nil {
		return 0, 0, err
	}
	if err := schedule.ValidateWindow(start, end); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func field(name, msg string) error {
	fields := xerrors.FieldErrors{}
	fields.Add(name, msg)
	return fields
}
