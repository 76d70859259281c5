package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hoaops/hoa_ledger_app/internal/apperrors"
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaops/hoa_ledger_app/internal/core/ports/repositories"
	"github.com/hoaops/hoa_ledger_app/internal/models"
	"github.com/hoaops/hoa_ledger_app/internal/utils/mapping"
	"github.com/hoaops/hoa_ledger_app/internal/utils/pagination"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `
	payment_id, tenant_id, payment_number, owner_id, payment_date, method, reference,
	amount, amount_applied, entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

const applicationColumns = `
	application_id, tenant_id, payment_id, invoice_id, amount, applied_at, applied_by, reversed_at`

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.TenantID,
		&m.PaymentNumber,
		&m.OwnerID,
		&m.PaymentDate,
		&m.Method,
		&m.Reference,
		&m.Amount,
		&m.AmountApplied,
		&m.EntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanApplication(row pgx.Row) (models.PaymentApplication, error) {
	var m models.PaymentApplication
	err := row.Scan(
		&m.ApplicationID,
		&m.TenantID,
		&m.PaymentID,
		&m.InvoiceID,
		&m.Amount,
		&m.AppliedAt,
		&m.AppliedBy,
		&m.ReversedAt,
	)
	return m, err
}

// SavePaymentWithApplications runs the full receipt in one transaction: post
// the cash entry, number and insert the payment, lock the owner's open
// invoices in FIFO order, run the allocator, and write the applications with
// the balance updates. Lock and serialization conflicts come back as
// ErrConcurrentModification for the service's bounded retry.
func (r *PgxPaymentRepository) SavePaymentWithApplications(ctx context.Context, payment domain.Payment, entry domain.JournalEntry, allocate portsrepo.AllocatorFunc) (*domain.Payment, []domain.PaymentApplication, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := insertEntryTx(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	number, err := nextSequence(ctx, tx, payment.TenantID, seqPaymentNumber)
	if err != nil {
		return nil, nil, err
	}
	payment.PaymentNumber = number

	m := mapping.ToModelPayment(payment)
	insertQuery := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.PaymentID,
		m.TenantID,
		m.PaymentNumber,
		m.OwnerID,
		m.PaymentDate,
		m.Method,
		m.Reference,
		m.Amount,
		m.AmountApplied,
		m.EntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert payment %s: %w", m.PaymentID, mapPgError(err))
	}

	// Lock the owner's open invoices in allocation order. Every concurrent
	// payment for the same owner locks in the same order, which rules out
	// lock-order deadlocks between them.
	lockQuery := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE tenant_id = $1 AND owner_id = $2
		  AND is_void = FALSE AND total_amount > amount_paid
		ORDER BY invoice_date, invoice_number
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, lockQuery, payment.TenantID, payment.OwnerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock open invoices for owner %s: %w", payment.OwnerID, mapPgError(err))
	}
	open := []domain.Invoice{}
	for rows.Next() {
		mi, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("failed to scan locked invoice row: %w", err)
		}
		open = append(open, mapping.ToDomainInvoice(mi))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating locked invoice rows: %w", mapPgError(err))
	}
	rows.Close()

	allocations, _, err := allocate(open)
	if err != nil {
		return nil, nil, err
	}

	now := payment.CreatedAt
	applications := make([]domain.PaymentApplication, 0, len(allocations))
	batch := &pgx.Batch{}
	appQuery := `
		INSERT INTO payment_applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	invoiceQuery := `
		UPDATE invoices
		SET amount_paid = amount_paid + $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE tenant_id = $1 AND invoice_id = $2;
	`
	applied := decimal.Zero
	for _, alloc := range allocations {
		app := domain.PaymentApplication{
			ApplicationID: uuid.NewString(),
			TenantID:      payment.TenantID,
			PaymentID:     payment.PaymentID,
			InvoiceID:     alloc.InvoiceID,
			Amount:        alloc.Amount,
			AppliedAt:     now,
			AppliedBy:     payment.CreatedBy,
		}
		applications = append(applications, app)
		applied = applied.Add(alloc.Amount)

		ma := mapping.ToModelPaymentApplication(app)
		batch.Queue(appQuery, ma.ApplicationID, ma.TenantID, ma.PaymentID, ma.InvoiceID, ma.Amount, ma.AppliedAt, ma.AppliedBy, ma.ReversedAt)
		batch.Queue(invoiceQuery, payment.TenantID, alloc.InvoiceID, alloc.Amount, now, payment.CreatedBy)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, nil, fmt.Errorf("failed to write applications for payment %s: %w", payment.PaymentID, mapPgError(err))
	}

	if applied.IsPositive() {
		updateQuery := `
			UPDATE payments
			SET amount_applied = $3
			WHERE tenant_id = $1 AND payment_id = $2;
		`
		if _, err := tx.Exec(ctx, updateQuery, payment.TenantID, payment.PaymentID, applied); err != nil {
			return nil, nil, fmt.Errorf("failed to update applied amount for payment %s: %w", payment.PaymentID, mapPgError(err))
		}
		payment.AmountApplied = applied
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return &payment, applications, nil
}

// ReverseApplication marks one application reversed and restores the invoice
// and payment balances under lock.
func (r *PgxPaymentRepository) ReverseApplication(ctx context.Context, tenantID, applicationID, actor string, now time.Time) (*domain.PaymentApplication, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT ` + applicationColumns + `
		FROM payment_applications
		WHERE tenant_id = $1 AND application_id = $2
		FOR UPDATE;
	`
	m, err := scanApplication(tx.QueryRow(ctx, lockQuery, tenantID, applicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock application %s: %w", applicationID, mapPgError(err))
	}
	if m.ReversedAt != nil {
		return nil, fmt.Errorf("%w: application %s", apperrors.ErrAlreadyReversed, applicationID)
	}

	stampQuery := `
		UPDATE payment_applications
		SET reversed_at = $3
		WHERE tenant_id = $1 AND application_id = $2;
	`
	if _, err := tx.Exec(ctx, stampQuery, tenantID, applicationID, now); err != nil {
		return nil, fmt.Errorf("failed to stamp application %s reversed: %w", applicationID, mapPgError(err))
	}

	invoiceQuery := `
		UPDATE invoices
		SET amount_paid = amount_paid - $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE tenant_id = $1 AND invoice_id = $2;
	`
	if _, err := tx.Exec(ctx, invoiceQuery, tenantID, m.InvoiceID, m.Amount, now, actor); err != nil {
		return nil, fmt.Errorf("failed to restore invoice %s balance: %w", m.InvoiceID, mapPgError(err))
	}

	paymentQuery := `
		UPDATE payments
		SET amount_applied = amount_applied - $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE tenant_id = $1 AND payment_id = $2;
	`
	if _, err := tx.Exec(ctx, paymentQuery, tenantID, m.PaymentID, m.Amount, now, actor); err != nil {
		return nil, fmt.Errorf("failed to restore payment %s credit: %w", m.PaymentID, mapPgError(err))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	m.ReversedAt = &now
	app := mapping.ToDomainPaymentApplication(m)
	return &app, nil
}

// FindPaymentByID retrieves a payment by its ID within a tenant.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND payment_id = $2;`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, tenantID, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

// ListPayments retrieves a page of payments ordered by payment number
// descending, using the monotonic number as the pagination cursor.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, tenantID string, ownerID *string, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if ownerID != nil {
		args = append(args, *ownerID)
		query += fmt.Sprintf(` AND owner_id = $%d`, len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastNumber, err := pagination.DecodeNumberToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		args = append(args, lastNumber)
		query += fmt.Sprintf(` AND payment_number < $%d`, len(args))
	}
	args = append(args, fetchLimit)
	query += fmt.Sprintf(` ORDER BY payment_number DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query payments for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	modelPayments := make([]models.Payment, 0, fetchLimit)
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		modelPayments = append(modelPayments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating payment rows: %w", err)
	}

	var nextTokenVal *string
	results := modelPayments
	if len(modelPayments) > limit {
		token := pagination.EncodeNumberToken(modelPayments[limit-1].PaymentNumber)
		nextTokenVal = &token
		results = modelPayments[:limit]
	}

	payments := make([]domain.Payment, len(results))
	for i, m := range results {
		payments[i] = mapping.ToDomainPayment(m)
	}
	return payments, nextTokenVal, nil
}

// FindApplicationByID retrieves a payment application.
func (r *PgxPaymentRepository) FindApplicationByID(ctx context.Context, tenantID, applicationID string) (*domain.PaymentApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM payment_applications WHERE tenant_id = $1 AND application_id = $2;`
	m, err := scanApplication(r.Pool.QueryRow(ctx, query, tenantID, applicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find application %s: %w", applicationID, err)
	}
	app := mapping.ToDomainPaymentApplication(m)
	return &app, nil
}

// ListApplicationsByPayment retrieves all applications for a payment, oldest
// first, including reversed ones for the audit trail.
func (r *PgxPaymentRepository) ListApplicationsByPayment(ctx context.Context, tenantID, paymentID string) ([]domain.PaymentApplication, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM payment_applications
		WHERE tenant_id = $1 AND payment_id = $2
		ORDER BY applied_at, application_id;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications for payment %s: %w", paymentID, err)
	}
	defer rows.Close()

	applications := []domain.PaymentApplication{}
	for rows.Next() {
		m, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		applications = append(applications, mapping.ToDomainPaymentApplication(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}
	return applications, nil
}

// ListPaymentsByOwner retrieves all payments for one owner, oldest first.
func (r *PgxPaymentRepository) ListPaymentsByOwner(ctx context.Context, tenantID, ownerID string) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE tenant_id = $1 AND owner_id = $2
		ORDER BY payment_date, payment_number;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}
