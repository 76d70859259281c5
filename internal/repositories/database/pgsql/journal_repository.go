package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoaops/hoa_ledger_app/internal/apperrors"
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaops/hoa_ledger_app/internal/core/ports/repositories"
	"github.com/hoaops/hoa_ledger_app/internal/models"
	"github.com/hoaops/hoa_ledger_app/internal/utils/mapping"
	"github.com/hoaops/hoa_ledger_app/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `
	entry_id, tenant_id, entry_number, entry_date, entry_type, description,
	reference_id, reverses_entry_id, reversed_by_entry_id, posted_at, posted_by`

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.EntryType,
		&m.Description,
		&m.ReferenceID,
		&m.ReversesEntryID,
		&m.ReversedByEntryID,
		&m.PostedAt,
		&m.PostedBy,
	)
	return m, err
}

// insertEntryTx allocates the tenant's next entry number and inserts the
// header with its lines inside the caller's transaction. The invoice and
// payment repositories reuse this so every posting path numbers entries the
// same way.
func insertEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	number, err := nextSequence(ctx, tx, entry.TenantID, seqEntryNumber)
	if err != nil {
		return nil, err
	}
	entry.EntryNumber = number

	m := mapping.ToModelJournalEntry(entry)
	headerQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.EntryID,
		m.TenantID,
		m.EntryNumber,
		m.EntryDate,
		m.EntryType,
		m.Description,
		m.ReferenceID,
		m.ReversesEntryID,
		m.ReversedByEntryID,
		m.PostedAt,
		m.PostedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry %s: %w", m.EntryID, mapPgError(err))
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, debit, credit)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range entry.Lines {
		ml := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery, ml.LineID, ml.EntryID, ml.AccountID, ml.Debit, ml.Credit)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("failed to insert lines for entry %s: %w", m.EntryID, mapPgError(err))
	}
	return &entry, nil
}

// SaveEntry atomically numbers and persists one entry with its lines.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	saved, err := insertEntryTx(ctx, tx, entry)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}

// SaveEntryPair persists two entries in one atomic unit. Used by inter-fund
// transfers so either both legs post or neither does.
func (r *PgxJournalRepository) SaveEntryPair(ctx context.Context, first, second domain.JournalEntry) (*domain.JournalEntry, *domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	savedFirst, err := insertEntryTx(ctx, tx, first)
	if err != nil {
		return nil, nil, err
	}
	savedSecond, err := insertEntryTx(ctx, tx, second)
	if err != nil {
		return nil, nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return savedFirst, savedSecond, nil
}

// stampReversedTx marks the original entry as reversed exactly once. The
// guard on reversed_by_entry_id IS NULL makes a second reversal attempt lose
// the race deterministically.
func stampReversedTx(ctx context.Context, tx pgx.Tx, tenantID, originalEntryID, reversalEntryID string) error {
	query := `
		UPDATE journal_entries
		SET reversed_by_entry_id = $3
		WHERE tenant_id = $1 AND entry_id = $2 AND reversed_by_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, query, tenantID, originalEntryID, reversalEntryID)
	if err != nil {
		return fmt.Errorf("failed to stamp entry %s as reversed: %w", originalEntryID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyReversed, originalEntryID)
	}
	return nil
}

// SaveReversal persists the reversing entry and stamps the original in one
// atomic unit.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversal domain.JournalEntry, originalEntryID string) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	saved, err := insertEntryTx(ctx, tx, reversal)
	if err != nil {
		return nil, err
	}
	if err := stampReversedTx(ctx, tx, reversal.TenantID, originalEntryID, saved.EntryID); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}

// FindEntryByID retrieves an entry header by its ID within a tenant.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, tenantID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines for one entry.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit, credit
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.AccountID, &m.Debit, &m.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}
	return lines, nil
}

// FindEntriesByReference retrieves all entries posted against a reference,
// oldest first.
func (r *PgxJournalRepository) FindEntriesByReference(ctx context.Context, tenantID, referenceID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE tenant_id = $1 AND reference_id = $2
		ORDER BY entry_number;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, referenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for reference %s: %w", referenceID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row for reference %s: %w", referenceID, err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows for reference %s: %w", referenceID, err)
	}
	return entries, nil
}

// ListEntries retrieves a page of entries ordered by entry number descending,
// using the monotonic number as the pagination cursor.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if nextToken != nil && *nextToken != "" {
		lastNumber, err := pagination.DecodeNumberToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		query += ` AND entry_number < $2`
		args = append(args, lastNumber)
	}
	query += fmt.Sprintf(` ORDER BY entry_number DESC LIMIT $%d;`, len(args)+1)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		token := pagination.EncodeNumberToken(modelEntries[limit-1].EntryNumber)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nextTokenVal, nil
}
