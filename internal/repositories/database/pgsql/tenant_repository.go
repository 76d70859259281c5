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
)

type PgxTenantRepository struct {
	BaseRepository
}

// newPgxTenantRepository creates a new repository for tenant data.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepositoryFacade {
	return &PgxTenantRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TenantRepositoryFacade = (*PgxTenantRepository)(nil)

const tenantColumns = `
	tenant_id, name, ar_account_id, cash_account_id, late_fee_account_id,
	late_fee_grace_days, late_fee_pct_rate, late_fee_minimum, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTenant(row pgx.Row) (models.Tenant, error) {
	var m models.Tenant
	err := row.Scan(
		&m.TenantID,
		&m.Name,
		&m.ARAccountID,
		&m.CashAccountID,
		&m.LateFeeAccountID,
		&m.LateFeeGraceDays,
		&m.LateFeePctRate,
		&m.LateFeeMinimum,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTenant persists a new tenant.
func (r *PgxTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	m := mapping.ToModelTenant(tenant)
	query := `
		INSERT INTO tenants (` + tenantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TenantID,
		m.Name,
		m.ARAccountID,
		m.CashAccountID,
		m.LateFeeAccountID,
		m.LateFeeGraceDays,
		m.LateFeePctRate,
		m.LateFeeMinimum,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tenant %s: %w", m.TenantID, mapPgError(err))
	}
	return nil
}

// FindTenantByID retrieves a tenant by its ID.
func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE tenant_id = $1;`
	m, err := scanTenant(r.Pool.QueryRow(ctx, query, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	tenant := mapping.ToDomainTenant(m)
	return &tenant, nil
}

// ListTenants retrieves all active tenants, oldest first.
func (r *PgxTenantRepository) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE is_active = TRUE ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	tenants := []domain.Tenant{}
	for rows.Next() {
		m, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		tenants = append(tenants, mapping.ToDomainTenant(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}
	return tenants, nil
}

// UpdateTenantSettings updates a tenant's control accounts and late-fee policy.
func (r *PgxTenantRepository) UpdateTenantSettings(ctx context.Context, tenant domain.Tenant) error {
	m := mapping.ToModelTenant(tenant)
	query := `
		UPDATE tenants
		SET ar_account_id = $2,
		    cash_account_id = $3,
		    late_fee_account_id = $4,
		    late_fee_grace_days = $5,
		    late_fee_pct_rate = $6,
		    late_fee_minimum = $7,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE tenant_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.TenantID,
		m.ARAccountID,
		m.CashAccountID,
		m.LateFeeAccountID,
		m.LateFeeGraceDays,
		m.LateFeePctRate,
		m.LateFeeMinimum,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update tenant %s: %w", m.TenantID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
