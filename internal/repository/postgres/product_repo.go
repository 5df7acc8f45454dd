// internal/repository/postgres/product_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gymease-service/internal/domain/product"
	xerrors "gymease-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

const packageColumns = `id, nama_paket, deskripsi, harga, durasi_hari, fitur, is_active, created_at, updated_at`

func scanPackage(row pgx.Row) (*product.Package, error) {
	var (
		p        product.Package
		features []string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.DurationDays,
		&features, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Features = pq.StringArray(features)
	return &p, nil
}

// Create inserts a package
func (r *ProductRepository) Create(ctx context.Context, p *product.Package) error {
	query := `
		INSERT INTO packages (nama_paket, deskripsi, harga, durasi_hari, fitur, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.Name, p.Description, p.Price, p.DurationDays, featureArg(p.Features), p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

// FindByID retrieves a package by ID
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*product.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`

	p, err := scanPackage(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find package: %w", err)
	}
	return p, nil
}

// List returns packages ordered by price, optionally only the active ones.
func (r *ProductRepository) List(ctx context.Context, activeOnly bool) ([]*product.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE ($1 = FALSE OR is_active) ORDER BY harga, id`

	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close()

	var out []*product.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update writes every mutable column of p.
func (r *ProductRepository) Update(ctx context.Context, p *product.Package) error {
	query := `
		UPDATE packages
		SET nama_paket = $2, deskripsi = $3, harga = $4, durasi_hari = $5,
		    fitur = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.DurationDays, featureArg(p.Features), p.IsActive,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update package: %w", err)
	}
	return nil
}

// Delete removes a package. Packages referenced by transactions cannot be removed.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: package has transactions", xerrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func featureArg(f pq.StringArray) []string {
	if f == nil {
		return []string{}
	}
	return []string(f)
}
