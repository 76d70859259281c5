package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Sequence names allocated per tenant. Each is gapless and monotonic because
// the upsert runs inside the same transaction that persists the numbered row:
// a rollback releases the number before it ever becomes visible.
const (
	seqEntryNumber   = "entry_number"
	seqInvoiceNumber = "invoice_number"
	seqPaymentNumber = "payment_number"
)

// nextSequence allocates the tenant's next number for one sequence inside the
// caller's transaction. Concurrent allocators serialize on the row lock the
// upsert takes, which is exactly what gapless numbering requires.
func nextSequence(ctx context.Context, tx pgx.Tx, tenantID, name string) (int64, error) {
	query := `
		INSERT INTO tenant_sequences (tenant_id, name, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, name)
		DO UPDATE SET value = tenant_sequences.value + 1
		RETURNING value;
	`
	var value int64
	if err := tx.QueryRow(ctx, query, tenantID, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to allocate %s sequence for tenant %s: %w", name, tenantID, mapPgError(err))
	}
	return value, nil
}
