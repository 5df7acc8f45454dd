// internal/repository/postgres/trainer_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gymease-service/internal/domain/trainer"
	xerrors "gymease-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrainerRepository struct {
	db *pgxpool.Pool
}

func NewTrainerRepository(db *pgxpool.Pool) *TrainerRepository {
	return &TrainerRepository{db: db}
}

const trainerColumns = `id, id_pt, nama, sertifikasi, masa_kerja, phone, email, is_active, created_at, updated_at`

func scanTrainer(row pgx.Row) (*trainer.Trainer, error) {
	var t trainer.Trainer
	err := row.Scan(
		&t.ID, &t.Code, &t.Name, &t.Certification, &t.ExperienceMonths,
		&t.Phone, &t.Email, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a trainer
func (r *TrainerRepository) Create(ctx context.Context, t *trainer.Trainer) error {
	query := `
		INSERT INTO personal_trainers (id_pt, nama, sertifikasi, masa_kerja, phone, email, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		t.Code, t.Name, t.Certification, t.ExperienceMonths, t.Phone, t.Email, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: trainer code %s", xerrors.ErrConflict, t.Code)
	}
	if err != nil {
		return fmt.Errorf("failed to create trainer: %w", err)
	}
	return nil
}

// FindByID retrieves a trainer by ID
func (r *TrainerRepository) FindByID(ctx context.Context, id int64) (*trainer.Trainer, error) {
	t, err := scanTrainer(r.db.QueryRow(ctx, `SELECT `+trainerColumns+` FROM personal_trainers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find trainer: %w", err)
	}
	return t, nil
}

// List returns trainers ordered by name.
func (r *TrainerRepository) List(ctx context.Context, search string, activeOnly bool) ([]*trainer.Trainer, error) {
	query := `
		SELECT ` + trainerColumns + `
		FROM personal_trainers
		WHERE ($1 = '' OR nama ILIKE '%' || $1 || '%' OR id_pt ILIKE '%' || $1 || '%' OR sertifikasi ILIKE '%' || $1 || '%')
		  AND ($2 = FALSE OR is_active)
		ORDER BY nama, id
	`

	rows, err := r.db.Query(ctx, query, search, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list trainers: %w", err)
	}
	defer rows.Close()

	var out []*trainer.Trainer
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trainer: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update writes every mutable column of t.
func (r *TrainerRepository) Update(ctx context.Context, t *trainer.Trainer) error {
	query := `
		UPDATE personal_trainers
		SET nama = $2, sertifikasi = $3, masa_kerja = $4, phone = $5, email = $6,
		    is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		t.ID, t.Name, t.Certification, t.ExperienceMonths, t.Phone, t.Email, t.IsActive,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update trainer: %w", err)
	}
	return nil
}

// Delete removes a trainer together with their slots and sessions.
func (r *TrainerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM personal_trainers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trainer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
