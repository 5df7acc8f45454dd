// internal/repository/postgres/auth_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymease-service/internal/domain/auth"
	"gymease-service/internal/domain/member"
	xerrors "gymease-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthRepository struct {
	db *pgxpool.Pool
	tx *DB
}

func NewAuthRepository(db *pgxpool.Pool, wrapper *DB) *AuthRepository {
	return &AuthRepository{db: db, tx: wrapper}
}

const userColumns = `id, username, email, first_name, last_name, password_hash, is_staff, is_active, date_joined, last_login`

func scanUser(row pgx.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.IsStaff, &u.IsActive, &u.DateJoined, &u.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserByUsername retrieves a user by username, case-insensitively.
func (r *AuthRepository) FindUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

// FindUserByID retrieves a user by ID
func (r *AuthRepository) FindUserByID(ctx context.Context, id int64) (*auth.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

// GetProfile loads the registration profile of a user with its member code.
func (r *AuthRepository) GetProfile(ctx context.Context, userID int64) (*auth.Profile, error) {
	query := `
		SELECT p.user_id, p.phone, p.address, p.kota, p.kode_pos, p.tempat_lahir,
		       p.tanggal_lahir, p.role, p.member_id, COALESCE(m.id_member, '')
		FROM user_profiles p
		LEFT JOIN members m ON m.id = p.member_id
		WHERE p.user_id = $1
	`

	var (
		p    auth.Profile
		born time.Time
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Phone, &p.Address, &p.City, &p.PostalCode, &p.BirthPlace,
		&born, &p.Role, &p.MemberID, &p.MemberCode,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	p.BirthDate = born.Format("2006-01-02")
	return &p, nil
}

// Register creates a user, its profile and, for members, the linked member
// record, all in one database transaction.
func (r *AuthRepository) Register(ctx context.Context, u *auth.User, p *auth.Profile, m *member.Member) error {
	return r.tx.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (username, email, first_name, last_name, password_hash, is_staff, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE)
			RETURNING id, is_active, date_joined
		`, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsStaff,
		).Scan(&u.ID, &u.IsActive, &u.DateJoined)
		if isUniqueViolation(err) {
			fields := xerrors.FieldErrors{}
			fields.Add("username", "A user with that username already exists.")
			return fields
		}
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if m != nil {
			m.UserID = &u.ID
			if err := createMember(ctx, tx, m); err != nil {
				return err
			}
			p.MemberID = &m.ID
			p.MemberCode = m.Code
		}

		p.UserID = u.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO user_profiles (user_id, phone, address, kota, kode_pos, tempat_lahir, tanggal_lahir, role, member_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, $9)
		`, p.UserID, p.Phone, p.Address, p.City, p.PostalCode, p.BirthPlace, p.BirthDate, p.Role, p.MemberID)
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
}

// CreateStaff inserts a staff account without a profile.
func (r *AuthRepository) CreateStaff(ctx context.Context, u *auth.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, first_name, last_name, password_hash, is_staff, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE, TRUE)
		RETURNING id, is_staff, is_active, date_joined
	`, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash,
	).Scan(&u.ID, &u.IsStaff, &u.IsActive, &u.DateJoined)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: username %s", xerrors.ErrConflict, u.Username)
	}
	if err != nil {
		return fmt.Errorf("failed to create staff user: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps a successful login.
func (r *AuthRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// ExistsByUsername reports whether the username is taken.
func (r *AuthRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}
