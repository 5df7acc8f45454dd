// internal/repository/postgres/member_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymease-service/internal/domain/member"
	"gymease-service/internal/pkg/civil"
	xerrors "gymease-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepository struct {
	db *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = `id, user_id, id_member, nama, alamat, tempat_lahir, tanggal_lahir,
	bulan_lahir, tahun_lahir, phone, is_active, created_at, updated_at`

func scanMember(row pgx.Row) (*member.Member, error) {
	var m member.Member
	err := row.Scan(
		&m.ID, &m.UserID, &m.Code, &m.Name, &m.Address, &m.BirthPlace, &m.BirthDay,
		&m.BirthMonth, &m.BirthYear, &m.Phone, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a member. A duplicate id_member is reported as ErrConflict.
func (r *MemberRepository) Create(ctx context.Context, m *member.Member) error {
	return createMember(ctx, r.db, m)
}

func createMember(ctx context.Context, q querier, m *member.Member) error {
	query := `
		INSERT INTO members (
			user_id, id_member, nama, alamat, tempat_lahir, tanggal_lahir,
			bulan_lahir, tahun_lahir, phone, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		m.UserID, m.Code, m.Name, m.Address, m.BirthPlace, m.BirthDay,
		m.BirthMonth, m.BirthYear, m.Phone, m.IsActive,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: member code %s", xerrors.ErrConflict, m.Code)
	}
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// FindByID retrieves a member by ID
func (r *MemberRepository) FindByID(ctx context.Context, id int64) (*member.Member, error) {
	m, err := scanMember(r.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return m, nil
}

// FindByUserID retrieves the member linked to a login account.
func (r *MemberRepository) FindByUserID(ctx context.Context, userID int64) (*member.Member, error) {
	m, err := scanMember(r.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return m, nil
}

// List returns one page of members matching the filters and the total match count.
func (r *MemberRepository) List(ctx context.Context, f member.ListFilters, limit, offset int) ([]*member.Member, int, error) {
	where := `
		WHERE ($1 = '' OR nama ILIKE '%' || $1 || '%' OR id_member ILIKE '%' || $1 || '%' OR alamat ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR is_active = ($2 = 'active'))
	`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM members`+where, f.Search, f.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	query := `SELECT ` + memberColumns + ` FROM members` + where + ` ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, f.Search, f.Status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var out []*member.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

// Update writes every mutable column of m.
func (r *MemberRepository) Update(ctx context.Context, m *member.Member) error {
	query := `
		UPDATE members
		SET nama = $2, alamat = $3, tempat_lahir = $4, tanggal_lahir = $5,
		    bulan_lahir = $6, tahun_lahir = $7, phone = $8, is_active = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		m.ID, m.Name, m.Address, m.BirthPlace, m.BirthDay,
		m.BirthMonth, m.BirthYear, m.Phone, m.IsActive,
	).Scan(&m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return nil
}

// Delete removes a member. Members with transactions cannot be removed.
func (r *MemberRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: member has transactions", xerrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Stats counts members by active flag.
func (r *MemberRepository) Stats(ctx context.Context) (*member.Stats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE NOT is_active)
		FROM members
	`

	var s member.Stats
	if err := r.db.QueryRow(ctx, query).Scan(&s.Total, &s.Active, &s.Inactive); err != nil {
		return nil, fmt.Errorf("failed to compute member stats: %w", err)
	}
	return &s, nil
}

// History lists the membership periods of a member, latest first.
func (r *MemberRepository) History(ctx context.Context, memberID int64) ([]*member.MembershipHistory, error) {
	query := `
		SELECT id, member_id, transaksi_id, tanggal_mulai, tanggal_berakhir, is_active, created_at
		FROM membership_history
		WHERE member_id = $1
		ORDER BY tanggal_berakhir DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list membership history: %w", err)
	}
	defer rows.Close()

	var out []*member.MembershipHistory
	for rows.Next() {
		var (
			h          member.MembershipHistory
			start, end time.Time
		)
		if err := rows.Scan(&h.ID, &h.MemberID, &h.TransactionID, &start, &end, &h.IsActive, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership history: %w", err)
		}
		h.StartDate = civil.DateOf(start)
		h.EndDate = civil.DateOf(end)
		out = append(out, &h)
	}
	return out, rows.Err()
}

// ActiveMembership returns the active period covering day, if any.
func (r *MemberRepository) ActiveMembership(ctx context.Context, memberID int64, day civil.Date) (*member.MembershipHistory, error) {
	query := `
		SELECT id, member_id, transaksi_id, tanggal_mulai, tanggal_berakhir, is_active, created_at
		FROM membership_history
		WHERE member_id = $1 AND is_active AND tanggal_mulai <= $2 AND tanggal_berakhir >= $2
		ORDER BY tanggal_berakhir DESC
		LIMIT 1
	`

	var (
		h          member.MembershipHistory
		start, end time.Time
	)
	err := r.db.QueryRow(ctx, query, memberID, day.Time).Scan(
		&h.ID, &h.MemberID, &h.TransactionID, &start, &end, &h.IsActive, &h.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active membership: %w", err)
	}
	h.StartDate = civil.DateOf(start)
	h.EndDate = civil.DateOf(end)
	return &h, nil
}
