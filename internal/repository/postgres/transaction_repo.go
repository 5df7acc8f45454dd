// internal/repository/postgres/transaction_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymease-service/internal/domain/member"
	"gymease-service/internal/domain/product"
	"gymease-service/internal/domain/transaction"
	"gymease-service/internal/pkg/civil"
	xerrors "gymease-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	db *pgxpool.Pool
	tx *DB
}

func NewTransactionRepository(db *pgxpool.Pool, wrapper *DB) *TransactionRepository {
	return &TransactionRepository{db: db, tx: wrapper}
}

const transactionSelect = `
	SELECT t.id, t.id_transaksi, t.member_id, t.paket_id, t.promo_id, t.personal_trainer_id,
	       t.total_bayar, t.status, t.tanggal_mulai_membership, t.tanggal_berakhir_membership,
	       t.qr_id, t.qr_string, t.qr_expires_at, t.paid_at, t.created_at, t.updated_at,
	       k.nama_paket, k.harga, k.durasi_hari
	FROM transaksi t
	JOIN packages k ON k.id = t.paket_id
`

func scanTransaction(row pgx.Row) (*transaction.Transaction, error) {
	var (
		t          transaction.Transaction
		pkg        product.Summary
		start, end time.Time
	)
	err := row.Scan(
		&t.ID, &t.Code, &t.MemberID, &t.PackageID, &t.PromoID, &t.TrainerID,
		&t.Total, &t.Status, &start, &end,
		&t.QRID, &t.QRString, &t.QRExpiresAt, &t.PaidAt, &t.CreatedAt, &t.UpdatedAt,
		&pkg.Name, &pkg.Price, &pkg.DurationDays,
	)
	if err != nil {
		return nil, err
	}
	pkg.ID = t.PackageID
	t.MembershipStart = civil.DateOf(start)
	t.MembershipEnd = civil.DateOf(end)
	t.Package = &pkg
	return &t, nil
}

// Create inserts a pending transaction.
func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	query := `
		INSERT INTO transaksi (
			id_transaksi, member_id, paket_id, promo_id, personal_trainer_id, total_bayar,
			status, tanggal_mulai_membership, tanggal_berakhir_membership
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		t.Code, t.MemberID, t.PackageID, t.PromoID, t.TrainerID, t.Total,
		t.Status, t.MembershipStart.Time, t.MembershipEnd.Time,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: transaction code %s", xerrors.ErrConflict, t.Code)
	case isForeignKeyViolation(err):
		return xerrors.Invalid("member, package, promo or trainer does not exist")
	case err != nil:
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// FindByID retrieves a transaction by ID
func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	return r.findOne(ctx, transactionSelect+` WHERE t.id = $1`, id)
}

// FindByCode retrieves a transaction by its id_transaksi.
func (r *TransactionRepository) FindByCode(ctx context.Context, code string) (*transaction.Transaction, error) {
	return r.findOne(ctx, transactionSelect+` WHERE t.id_transaksi = $1`, code)
}

func (r *TransactionRepository) findOne(ctx context.Context, query string, arg any) (*transaction.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return t, nil
}

// List returns one page of transactions and the total match count.
func (r *TransactionRepository) List(ctx context.Context, f transaction.ListFilters, limit, offset int) ([]*transaction.Transaction, int, error) {
	where := ` WHERE ($1 = '' OR t.status = $1) AND ($2::bigint = 0 OR t.member_id = $2)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transaksi t`+where, f.Status, f.MemberID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	rows, err := r.db.Query(ctx, transactionSelect+where+` ORDER BY t.created_at DESC, t.id DESC LIMIT $3 OFFSET $4`,
		f.Status, f.MemberID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// SetQR stores the payment QR issued by the gateway.
func (r *TransactionRepository) SetQR(ctx context.Context, id int64, qrID, qrString string, expiresAt time.Time) error {
	result, err := r.db.Exec(ctx, `
		UPDATE transaksi SET qr_id = $2, qr_string = $3, qr_expires_at = $4, updated_at = NOW()
		WHERE id = $1
	`, id, qrID, qrString, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store QR: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ConfirmPayment marks a pending transaction PAID and opens its membership
// period in one database transaction. It fails with ErrInvalidState when the
// transaction already left PENDING, so a payment is applied at most once.
func (r *TransactionRepository) ConfirmPayment(ctx context.Context, code string, paidAt time.Time) (*transaction.Transaction, *member.MembershipHistory, error) {
	var (
		out  *transaction.Transaction
		hist *member.MembershipHistory
	)

	err := r.tx.WithTx(ctx, func(tx pgx.Tx) error {
		var (
			id     int64
			status transaction.Status
		)
		err := tx.QueryRow(ctx, `SELECT id, status FROM transaksi WHERE id_transaksi = $1 FOR UPDATE`, code).Scan(&id, &status)
		if errors.Is(err, pgx.ErrNoRows) {
			return xerrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock transaction: %w", err)
		}
		if !status.CanTransition(transaction.StatusPaid) {
			return fmt.Errorf("%w: transaction %s is %s", xerrors.ErrInvalidState, code, status)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE transaksi SET status = $2, paid_at = $3, updated_at = NOW() WHERE id = $1
		`, id, transaction.StatusPaid, paidAt); err != nil {
			return fmt.Errorf("failed to mark transaction paid: %w", err)
		}

		out, err = scanTransaction(tx.QueryRow(ctx, transactionSelect+` WHERE t.id = $1`, id))
		if err != nil {
			return fmt.Errorf("failed to reload transaction: %w", err)
		}

		hist = &member.MembershipHistory{
			MemberID:      out.MemberID,
			TransactionID: out.ID,
			StartDate:     out.MembershipStart,
			EndDate:       out.MembershipEnd,
			IsActive:      true,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO membership_history (member_id, transaksi_id, tanggal_mulai, tanggal_berakhir, is_active)
			VALUES ($1, $2, $3, $4, TRUE)
			RETURNING id, created_at
		`, hist.MemberID, hist.TransactionID, hist.StartDate.Time, hist.EndDate.Time).Scan(&hist.ID, &hist.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to record membership: %w", err)
		}

		// Reactivate the member; a paid membership makes them active again.
		if _, err := tx.Exec(ctx, `UPDATE members SET is_active = TRUE, updated_at = NOW() WHERE id = $1`, out.MemberID); err != nil {
			return fmt.Errorf("failed to activate member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, hist, nil
}

// UpdateStatus moves a pending transaction to a terminal status other than PAID.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, code string, to transaction.Status) error {
	result, err := r.db.Exec(ctx, `
		UPDATE transaksi SET status = $2, updated_at = NOW()
		WHERE id_transaksi = $1 AND status = $3
	`, code, to, transaction.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is not pending", xerrors.ErrInvalidState, code)
	}
	return nil
}

// ExpireStale expires pending transactions whose QR lapsed before now and
// returns their codes.
func (r *TransactionRepository) ExpireStale(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE transaksi SET status = $1, updated_at = NOW()
		WHERE status = $2 AND qr_expires_at IS NOT NULL AND qr_expires_at < $3
		RETURNING id_transaksi
	`, transaction.StatusExpired, transaction.StatusPending, now)
	if err != nil {
		return nil, fmt.Errorf("failed to expire transactions: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan expired transaction: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// Stats summarises transactions; revenue counts PAID ones only.
func (r *TransactionRepository) Stats(ctx context.Context) (*transaction.Stats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'PAID'),
		       COUNT(*) FILTER (WHERE status = 'PENDING'),
		       COALESCE(SUM(total_bayar) FILTER (WHERE status = 'PAID'), 0)
		FROM transaksi
	`

	var s transaction.Stats
	if err := r.db.QueryRow(ctx, query).Scan(&s.Total, &s.Paid, &s.Pending, &s.Revenue); err != nil {
		return nil, fmt.Errorf("failed to compute transaction stats: %w", err)
	}
	return &s, nil
}
