// internal/repository/postgres/promo_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymease-service/internal/domain/product"
	"gymease-service/internal/domain/promo"
	"gymease-service/internal/pkg/civil"
	xerrors "gymease-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PromoRepository struct {
	db *pgxpool.Pool
}

func NewPromoRepository(db *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{db: db}
}

const promoSelect = `
	SELECT p.id, p.id_promo, p.nama_promo, p.deskripsi, p.diskon_persen, p.paket_id,
	       p.tanggal_mulai, p.tanggal_berakhir, p.is_active, p.created_at, p.updated_at,
	       k.nama_paket, k.harga, k.durasi_hari
	FROM promos p
	JOIN packages k ON k.id = p.paket_id
`

func scanPromo(row pgx.Row) (*promo.Promo, error) {
	var (
		p          promo.Promo
		pkg        product.Summary
		start, end *time.Time
	)
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.DiscountPercent, &p.PackageID,
		&start, &end, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&pkg.Name, &pkg.Price, &pkg.DurationDays,
	)
	if err != nil {
		return nil, err
	}
	pkg.ID = p.PackageID
	p.StartDate = civil.FromPtr(start)
	p.EndDate = civil.FromPtr(end)
	p.Package = &pkg
	return &p, nil
}

// Create inserts a promo. A duplicate id_promo is reported as ErrConflict.
func (r *PromoRepository) Create(ctx context.Context, p *promo.Promo) error {
	query := `
		INSERT INTO promos (
			id_promo, nama_promo, deskripsi, diskon_persen, paket_id,
			tanggal_mulai, tanggal_berakhir, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.Code, p.Name, p.Description, p.DiscountPercent, p.PackageID,
		civil.Ptr(p.StartDate), civil.Ptr(p.EndDate), p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: promo code %s", xerrors.ErrConflict, p.Code)
	case isForeignKeyViolation(err):
		return xerrors.Invalid("package %d does not exist", p.PackageID)
	case err != nil:
		return fmt.Errorf("failed to create promo: %w", err)
	}
	return nil
}

// FindByID retrieves a promo with its package summary.
func (r *PromoRepository) FindByID(ctx context.Context, id int64) (*promo.Promo, error) {
	p, err := scanPromo(r.db.QueryRow(ctx, promoSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find promo: %w", err)
	}
	return p, nil
}

// List returns every promo, newest first. Status and text filtering happen
// in memory since status depends on the current date.
func (r *PromoRepository) List(ctx context.Context) ([]promo.Promo, error) {
	return r.list(ctx, promoSelect+` ORDER BY p.created_at DESC, p.id DESC`)
}

func (r *PromoRepository) list(ctx context.Context, query string, args ...any) ([]promo.Promo, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list promos: %w", err)
	}
	defer rows.Close()

	out := []promo.Promo{}
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan promo: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update writes every mutable column of p.
func (r *PromoRepository) Update(ctx context.Context, p *promo.Promo) error {
	query := `
		UPDATE promos
		SET nama_promo = $2, deskripsi = $3, diskon_persen = $4, paket_id = $5,
		    tanggal_mulai = $6, tanggal_berakhir = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.DiscountPercent, p.PackageID,
		civil.Ptr(p.StartDate), civil.Ptr(p.EndDate), p.IsActive,
	).Scan(&p.UpdatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return xerrors.ErrNotFound
	case isForeignKeyViolation(err):
		return xerrors.Invalid("package %d does not exist", p.PackageID)
	case err != nil:
		return fmt.Errorf("failed to update promo: %w", err)
	}
	return nil
}

// SetActive sets the is_active flag.
func (r *PromoRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.Exec(ctx, `UPDATE promos SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update promo status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes a promo
func (r *PromoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM promos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete promo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
