package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hoaops/hoa_ledger_app/internal/apperrors"
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaops/hoa_ledger_app/internal/core/ports/repositories"
	"github.com/hoaops/hoa_ledger_app/internal/models"
	"github.com/hoaops/hoa_ledger_app/internal/utils/mapping"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for the derived views.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// linesThroughDate derives the set of journal lines whose entry is dated on
// or before the cutoff. The date predicate must live inside this derived set:
// a condition on a LEFT JOIN's right side only NULLs columns, it never drops
// the joined line from an outer aggregate.
const linesThroughDate = `
	SELECT jl.account_id, jl.debit, jl.credit
	FROM journal_lines jl
	JOIN journal_entries e ON e.entry_id = jl.entry_id
	WHERE e.entry_date <= `

const trialBalanceBaseQuery = `
	SELECT a.account_id, a.name, a.account_type, a.fund_id,
	       COALESCE(SUM(l.debit), 0) AS debit,
	       COALESCE(SUM(l.credit), 0) AS credit
	FROM accounts a
	LEFT JOIN (` + linesThroughDate + `$2
	) l ON l.account_id = a.account_id
	WHERE a.tenant_id = $1
`

// GetTrialBalanceRows sums debits and credits per account across all entries
// dated on or before asOf. Reversal entries are regular lines here, so a
// reversed original and its mirror cancel arithmetically.
func (r *PgxReportingRepository) GetTrialBalanceRows(ctx context.Context, tenantID string, fundID *string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := trialBalanceBaseQuery
	args := []interface{}{tenantID, asOf}
	if fundID != nil {
		args = append(args, *fundID)
		query += fmt.Sprintf(` AND a.fund_id = $%d`, len(args))
	}
	query += `
		GROUP BY a.account_id, a.name, a.account_type, a.fund_id
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate trial balance for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string
		if err := rows.Scan(&row.AccountID, &row.AccountName, &accountType, &row.FundID, &row.Debit, &row.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}

// openInvoicesAsOfQuery reconstructs both sides of each invoice balance as of
// the cutoff: amount_paid from the applications in force on that date (applied
// by then, not yet reversed by then), and total_amount without a late fee
// assessed after it.
const openInvoicesAsOfQuery = `
	SELECT i.invoice_id, i.tenant_id, i.invoice_number, i.owner_id, i.unit_id,
	       i.invoice_date, i.due_date,
	       i.total_amount - COALESCE(lf.fee, 0) AS total_amount,
	       COALESCE(pa.paid, 0) AS amount_paid,
	       i.entry_id, i.late_fee_entry_id, i.is_void,
	       i.created_at, i.created_by, i.last_updated_at, i.last_updated_by
	FROM invoices i
	LEFT JOIN (
		SELECT invoice_id, SUM(amount) AS paid
		FROM payment_applications
		WHERE tenant_id = $1
		  AND applied_at::date <= $2
		  AND (reversed_at IS NULL OR reversed_at::date > $2)
		GROUP BY invoice_id
	) pa ON pa.invoice_id = i.invoice_id
	LEFT JOIN (
		SELECT il.invoice_id, SUM(il.amount) AS fee
		FROM invoice_lines il
		JOIN invoices fi ON fi.invoice_id = il.invoice_id
		JOIN journal_entries fe ON fe.entry_id = fi.late_fee_entry_id
		WHERE il.is_late_fee AND fe.entry_date > $2
		GROUP BY il.invoice_id
	) lf ON lf.invoice_id = i.invoice_id
	WHERE i.tenant_id = $1
	  AND i.is_void = FALSE
	  AND i.invoice_date <= $2
	  AND i.total_amount - COALESCE(lf.fee, 0) > COALESCE(pa.paid, 0)
	ORDER BY i.invoice_date, i.invoice_number;
`

// ListOpenInvoicesAsOf retrieves all non-void invoices issued on or before
// asOf that still carried a balance on that date. The balances are historical,
// which keeps the AR subledger on the same date basis as the journal
// aggregates it is reconciled against.
func (r *PgxReportingRepository) ListOpenInvoicesAsOf(ctx context.Context, tenantID string, asOf time.Time) ([]domain.Invoice, error) {
	rows, err := r.Pool.Query(ctx, openInvoicesAsOfQuery, tenantID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query open invoices for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan open invoice row: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating open invoice rows: %w", err)
	}
	return invoices, nil
}

const accountBalanceQuery = `
	SELECT a.account_type,
	       COALESCE(SUM(l.debit), 0) AS debit,
	       COALESCE(SUM(l.credit), 0) AS credit
	FROM accounts a
	LEFT JOIN (` + linesThroughDate + `$3
	) l ON l.account_id = a.account_id
	WHERE a.tenant_id = $1 AND a.account_id = $2
	GROUP BY a.account_type;
`

// GetAccountBalance computes one account's ledger balance as of a date,
// signed per its normal balance.
func (r *PgxReportingRepository) GetAccountBalance(ctx context.Context, tenantID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	query := accountBalanceQuery
	var accountType string
	var debit, credit decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, tenantID, accountID, asOf).Scan(&accountType, &debit, &credit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}

	if domain.AccountType(accountType).NormalBalance() == domain.NormalDebit {
		return debit.Sub(credit), nil
	}
	return credit.Sub(debit), nil
}

// ListOwnerInvoiceActivity retrieves all of an owner's invoices oldest first,
// each paired with its late-fee amount and the date the fee entry was posted.
// The fee is reported separately so the owner ledger can charge it on the day
// it was assessed instead of folding it into the original invoice date.
func (r *PgxReportingRepository) ListOwnerInvoiceActivity(ctx context.Context, tenantID, ownerID string) ([]domain.OwnerInvoiceActivity, error) {
	query := `
		SELECT i.invoice_id, i.tenant_id, i.invoice_number, i.owner_id, i.unit_id,
		       i.invoice_date, i.due_date, i.total_amount, i.amount_paid,
		       i.entry_id, i.late_fee_entry_id, i.is_void,
		       i.created_at, i.created_by, i.last_updated_at, i.last_updated_by,
		       COALESCE(lf.fee, 0) AS late_fee,
		       fe.entry_date AS late_fee_date
		FROM invoices i
		LEFT JOIN journal_entries fe ON fe.entry_id = i.late_fee_entry_id
		LEFT JOIN (
			SELECT invoice_id, SUM(amount) AS fee
			FROM invoice_lines
			WHERE is_late_fee
			GROUP BY invoice_id
		) lf ON lf.invoice_id = i.invoice_id
		WHERE i.tenant_id = $1 AND i.owner_id = $2
		ORDER BY i.invoice_date, i.invoice_number;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	activity := []domain.OwnerInvoiceActivity{}
	for rows.Next() {
		var m models.Invoice
		var fee decimal.Decimal
		var feeDate *time.Time
		err := rows.Scan(
			&m.InvoiceID, &m.TenantID, &m.InvoiceNumber, &m.OwnerID, &m.UnitID,
			&m.InvoiceDate, &m.DueDate, &m.TotalAmount, &m.AmountPaid,
			&m.EntryID, &m.LateFeeEntryID, &m.IsVoid,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
			&fee, &feeDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row for owner %s: %w", ownerID, err)
		}
		activity = append(activity, domain.OwnerInvoiceActivity{
			Invoice:     mapping.ToDomainInvoice(m),
			LateFee:     fee,
			LateFeeDate: feeDate,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows for owner %s: %w", ownerID, err)
	}
	return activity, nil
}
