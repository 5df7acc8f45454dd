// internal/repository/postgres/schedule_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymease-service/internal/domain/schedule"
	"gymease-service/internal/pkg/civil"
	xerrors "gymease-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleRepository struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const microsPerMinute = int64(time.Minute / time.Microsecond)

func clockArg(c schedule.Clock) pgtype.Time {
	return pgtype.Time{Microseconds: int64(c) * microsPerMinute, Valid: true}
}

func clockOf(t pgtype.Time) schedule.Clock {
	return schedule.Clock(t.Microseconds / microsPerMinute)
}

// ========== Slots ==========

const slotSelect = `
	SELECT j.id, j.personal_trainer_id, t.nama, j.hari, j.jam_mulai, j.jam_selesai,
	       j.is_available, j.created_at, j.updated_at
	FROM jadwal_pt j
	JOIN personal_trainers t ON t.id = j.personal_trainer_id
`

func scanSlot(row pgx.Row) (*schedule.Slot, error) {
	var (
		s          schedule.Slot
		start, end pgtype.Time
	)
	err := row.Scan(
		&s.ID, &s.TrainerID, &s.TrainerName, &s.Day, &start, &end,
		&s.IsAvailable, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.StartTime = clockOf(start)
	s.EndTime = clockOf(end)
	return &s, nil
}

// CreateSlot inserts a weekly slot. The same trainer cannot start two slots
// at the same time on the same day.
func (r *ScheduleRepository) CreateSlot(ctx context.Context, s *schedule.Slot) error {
	query := `
		INSERT INTO jadwal_pt (personal_trainer_id, hari, jam_mulai, jam_selesai, is_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		s.TrainerID, s.Day, clockArg(s.StartTime), clockArg(s.EndTime), s.IsAvailable,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: trainer already has a slot on %s at %s", xerrors.ErrConflict, s.Day, s.StartTime)
	case isForeignKeyViolation(err):
		return xerrors.Invalid("personal trainer %d does not exist", s.TrainerID)
	case err != nil:
		return fmt.Errorf("failed to create slot: %w", err)
	}
	return nil
}

// FindSlot retrieves a slot by ID
func (r *ScheduleRepository) FindSlot(ctx context.Context, id int64) (*schedule.Slot, error) {
	s, err := scanSlot(r.db.QueryRow(ctx, slotSelect+` WHERE j.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}
	return s, nil
}

// ListSlots returns slots, optionally narrowed to one trainer and/or day.
func (r *ScheduleRepository) ListSlots(ctx context.Context, trainerID int64, day schedule.Day, availableOnly bool) ([]*schedule.Slot, error) {
	query := slotSelect + `
		WHERE ($1::bigint = 0 OR j.personal_trainer_id = $1)
		  AND ($2 = '' OR j.hari = $2)
		  AND ($3 = FALSE OR (j.is_available AND t.is_active))
		ORDER BY t.nama, j.hari, j.jam_mulai
	`

	rows, err := r.db.Query(ctx, query, trainerID, string(day), availableOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	var out []*schedule.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateSlot writes every mutable column of s.
func (r *ScheduleRepository) UpdateSlot(ctx context.Context, s *schedule.Slot) error {
	query := `
		UPDATE jadwal_pt
		SET hari = $2, jam_mulai = $3, jam_selesai = $4, is_available = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		s.ID, s.Day, clockArg(s.StartTime), clockArg(s.EndTime), s.IsAvailable,
	).Scan(&s.UpdatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return xerrors.ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: trainer already has a slot on %s at %s", xerrors.ErrConflict, s.Day, s.StartTime)
	case err != nil:
		return fmt.Errorf("failed to update slot: %w", err)
	}
	return nil
}

// DeleteSlot removes a slot
func (r *ScheduleRepository) DeleteSlot(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM jadwal_pt WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ========== Sessions ==========

const sessionColumns = `id, member_id, personal_trainer_id, jadwal_id, tanggal_session, status, notes, created_at, updated_at`

func scanSession(row pgx.Row) (*schedule.Session, error) {
	var (
		s   schedule.Session
		day time.Time
	)
	err := row.Scan(
		&s.ID, &s.MemberID, &s.TrainerID, &s.SlotID, &day,
		&s.Status, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Date = civil.DateOf(day)
	return &s, nil
}

// CreateSession books a slot on a date. A live booking for the same trainer,
// slot and date is reported as ErrConflict.
func (r *ScheduleRepository) CreateSession(ctx context.Context, s *schedule.Session) error {
	query := `
		INSERT INTO pt_sessions (member_id, personal_trainer_id, jadwal_id, tanggal_session, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		s.MemberID, s.TrainerID, s.SlotID, s.Date.Time, s.Status, s.Notes,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: slot already booked on %s", xerrors.ErrConflict, s.Date)
	case isForeignKeyViolation(err):
		return xerrors.Invalid("member or slot does not exist")
	case err != nil:
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindSession retrieves a session by ID
func (r *ScheduleRepository) FindSession(ctx context.Context, id int64) (*schedule.Session, error) {
	s, err := scanSession(r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM pt_sessions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return s, nil
}

// ListSessions returns sessions ordered by date, newest first.
func (r *ScheduleRepository) ListSessions(ctx context.Context, f schedule.SessionFilter) ([]*schedule.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM pt_sessions
		WHERE ($1::bigint = 0 OR member_id = $1)
		  AND ($2::bigint = 0 OR personal_trainer_id = $2)
		  AND ($3::date IS NULL OR tanggal_session = $3)
		  AND ($4 = '' OR status = $4)
		ORDER BY tanggal_session DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, f.MemberID, f.TrainerID, civil.Ptr(f.Date), string(f.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []*schedule.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// BookedSlotIDs returns the slots of a trainer already taken on day.
func (r *ScheduleRepository) BookedSlotIDs(ctx context.Context, trainerID int64, day civil.Date) (map[int64]bool, error) {
	query := `
		SELECT jadwal_id
		FROM pt_sessions
		WHERE ($1::bigint = 0 OR personal_trainer_id = $1) AND tanggal_session = $2 AND status <> 'CANCELLED'
	`

	rows, err := r.db.Query(ctx, query, trainerID, day.Time)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked slots: %w", err)
	}
	defer rows.Close()

	booked := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan booked slot: %w", err)
		}
		booked[id] = true
	}
	return booked, rows.Err()
}

// UpdateSessionStatus moves a session to status only while it is still in from.
func (r *ScheduleRepository) UpdateSessionStatus(ctx context.Context, id int64, from, to schedule.SessionStatus, notes string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE pt_sessions
		SET status = $3, notes = CASE WHEN $4 = '' THEN notes ELSE $4 END, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to, notes)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: session %d is not %s", xerrors.ErrInvalidState, id, from)
	}
	return nil
}
