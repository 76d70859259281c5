package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoaops/hoa_ledger_app/internal/apperrors"
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaops/hoa_ledger_app/internal/core/ports/repositories"
	"github.com/hoaops/hoa_ledger_app/internal/models"
	"github.com/hoaops/hoa_ledger_app/internal/utils/mapping"
	"github.com/hoaops/hoa_ledger_app/internal/utils/pagination"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `
	invoice_id, tenant_id, invoice_number, owner_id, unit_id, invoice_date, due_date,
	total_amount, amount_paid, entry_id, late_fee_entry_id, is_void,
	created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.TenantID,
		&m.InvoiceNumber,
		&m.OwnerID,
		&m.UnitID,
		&m.InvoiceDate,
		&m.DueDate,
		&m.TotalAmount,
		&m.AmountPaid,
		&m.EntryID,
		&m.LateFeeEntryID,
		&m.IsVoid,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// insertInvoiceLinesTx batch-inserts invoice lines inside a transaction.
func insertInvoiceLinesTx(ctx context.Context, tx pgx.Tx, lines []domain.InvoiceLine) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO invoice_lines (line_id, invoice_id, revenue_account_id, description, amount, is_late_fee)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range lines {
		ml := mapping.ToModelInvoiceLine(line)
		batch.Queue(query, ml.LineID, ml.InvoiceID, ml.RevenueAccountID, ml.Description, ml.Amount, ml.IsLateFee)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert invoice lines: %w", mapPgError(err))
	}
	return nil
}

// SaveInvoiceWithEntry atomically numbers and persists the invoice, its lines,
// and the issuance journal entry.
func (r *PgxInvoiceRepository) SaveInvoiceWithEntry(ctx context.Context, invoice domain.Invoice, entry domain.JournalEntry) (*domain.Invoice, *domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	savedEntry, err := insertEntryTx(ctx, tx, entry)
	if err != nil {
		return nil, nil, err
	}

	number, err := nextSequence(ctx, tx, invoice.TenantID, seqInvoiceNumber)
	if err != nil {
		return nil, nil, err
	}
	invoice.InvoiceNumber = number

	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, query,
		m.InvoiceID,
		m.TenantID,
		m.InvoiceNumber,
		m.OwnerID,
		m.UnitID,
		m.InvoiceDate,
		m.DueDate,
		m.TotalAmount,
		m.AmountPaid,
		m.EntryID,
		m.LateFeeEntryID,
		m.IsVoid,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert invoice %s: %w", m.InvoiceID, mapPgError(err))
	}

	if err := insertInvoiceLinesTx(ctx, tx, invoice.Lines); err != nil {
		return nil, nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return &invoice, savedEntry, nil
}

// VoidInvoice atomically posts the reversing entries, stamps the originals,
// and flags the invoice void. The amount_paid guard is re-checked under lock
// so a payment racing this void cannot slip through.
func (r *PgxInvoiceRepository) VoidInvoice(ctx context.Context, tenantID, invoiceID string, reversals []domain.JournalEntry, actor string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE tenant_id = $1 AND invoice_id = $2
		FOR UPDATE;
	`
	m, err := scanInvoice(tx.QueryRow(ctx, lockQuery, tenantID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock invoice %s: %w", invoiceID, mapPgError(err))
	}
	if m.IsVoid {
		return fmt.Errorf("%w: invoice %d is already void", apperrors.ErrValidation, m.InvoiceNumber)
	}
	if m.AmountPaid.IsPositive() {
		return fmt.Errorf("%w: invoice %d has %s applied", apperrors.ErrInvoiceAlreadyPaid, m.InvoiceNumber, m.AmountPaid)
	}

	for _, reversal := range reversals {
		saved, err := insertEntryTx(ctx, tx, reversal)
		if err != nil {
			return err
		}
		if reversal.ReversesEntryID == nil {
			return fmt.Errorf("%w: reversal entry missing original link", apperrors.ErrValidation)
		}
		if err := stampReversedTx(ctx, tx, tenantID, *reversal.ReversesEntryID, saved.EntryID); err != nil {
			return err
		}
	}

	voidQuery := `
		UPDATE invoices
		SET is_void = TRUE,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE tenant_id = $1 AND invoice_id = $2;
	`
	if _, err := tx.Exec(ctx, voidQuery, tenantID, invoiceID, now, actor); err != nil {
		return fmt.Errorf("failed to flag invoice %s void: %w", invoiceID, mapPgError(err))
	}
	return r.Commit(ctx, tx)
}

// SaveLateFee atomically appends the fee line, bumps the invoice total, stamps
// the late-fee marker, and posts the supplemental entry. The marker guard runs
// under lock, so a concurrent second application fails with ErrDuplicate.
func (r *PgxInvoiceRepository) SaveLateFee(ctx context.Context, tenantID, invoiceID string, feeLine domain.InvoiceLine, entry domain.JournalEntry, actor string, now time.Time) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	savedEntry, err := insertEntryTx(ctx, tx, entry)
	if err != nil {
		return nil, err
	}
	if err := insertInvoiceLinesTx(ctx, tx, []domain.InvoiceLine{feeLine}); err != nil {
		return nil, err
	}

	query := `
		UPDATE invoices
		SET total_amount = total_amount + $3,
		    late_fee_entry_id = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE tenant_id = $1 AND invoice_id = $2
		  AND is_void = FALSE AND late_fee_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, query, tenantID, invoiceID, feeLine.Amount, savedEntry.EntryID, now, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to apply late fee to invoice %s: %w", invoiceID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: late fee already applied to invoice %s", apperrors.ErrDuplicate, invoiceID)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return savedEntry, nil
}

// FindInvoiceByID retrieves an invoice with its lines.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND invoice_id = $2;`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, tenantID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	lineQuery := `
		SELECT line_id, invoice_id, revenue_account_id, description, amount, is_late_fee
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, lineQuery, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	invoice := mapping.ToDomainInvoice(m)
	for rows.Next() {
		var ml models.InvoiceLine
		if err := rows.Scan(&ml.LineID, &ml.InvoiceID, &ml.RevenueAccountID, &ml.Description, &ml.Amount, &ml.IsLateFee); err != nil {
			return nil, fmt.Errorf("failed to scan line row for invoice %s: %w", invoiceID, err)
		}
		invoice.Lines = append(invoice.Lines, mapping.ToDomainInvoiceLine(ml))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for invoice %s: %w", invoiceID, err)
	}
	return &invoice, nil
}

// ListInvoices retrieves a page of invoices ordered by invoice number
// descending, using the monotonic number as the pagination cursor.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, tenantID string, ownerID *string, openOnly bool, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if ownerID != nil {
		args = append(args, *ownerID)
		query += fmt.Sprintf(` AND owner_id = $%d`, len(args))
	}
	if openOnly {
		query += ` AND is_void = FALSE AND total_amount > amount_paid`
	}
	if nextToken != nil && *nextToken != "" {
		lastNumber, err := pagination.DecodeNumberToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		args = append(args, lastNumber)
		query += fmt.Sprintf(` AND invoice_number < $%d`, len(args))
	}
	args = append(args, fetchLimit)
	query += fmt.Sprintf(` ORDER BY invoice_number DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query invoices for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	modelInvoices := make([]models.Invoice, 0, fetchLimit)
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		modelInvoices = append(modelInvoices, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}

	var nextTokenVal *string
	results := modelInvoices
	if len(modelInvoices) > limit {
		token := pagination.EncodeNumberToken(modelInvoices[limit-1].InvoiceNumber)
		nextTokenVal = &token
		results = modelInvoices[:limit]
	}

	invoices := make([]domain.Invoice, len(results))
	for i, m := range results {
		invoices[i] = mapping.ToDomainInvoice(m)
	}
	return invoices, nextTokenVal, nil
}

// ListOverdueInvoices retrieves open invoices past due as of a date that have
// not yet had a late fee applied, oldest first.
func (r *PgxInvoiceRepository) ListOverdueInvoices(ctx context.Context, tenantID string, asOf time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE tenant_id = $1
		  AND is_void = FALSE
		  AND total_amount > amount_paid
		  AND due_date < $2
		  AND late_fee_entry_id IS NULL
		ORDER BY invoice_date, invoice_number;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue invoices for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overdue invoice row: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overdue invoice rows: %w", err)
	}
	return invoices, nil
}
