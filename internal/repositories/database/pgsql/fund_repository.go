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

type PgxFundRepository struct {
	BaseRepository
}

// newPgxFundRepository creates a new repository for fund data.
func newPgxFundRepository(pool *pgxpool.Pool) portsrepo.FundRepositoryFacade {
	return &PgxFundRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.FundRepositoryFacade = (*PgxFundRepository)(nil)

const fundColumns = `
	fund_id, tenant_id, name, fund_type, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanFund(row pgx.Row) (models.Fund, error) {
	var m models.Fund
	err := row.Scan(
		&m.FundID,
		&m.TenantID,
		&m.Name,
		&m.FundType,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveFund persists a new fund.
func (r *PgxFundRepository) SaveFund(ctx context.Context, fund domain.Fund) error {
	m := mapping.ToModelFund(fund)
	query := `
		INSERT INTO funds (` + fundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.FundID,
		m.TenantID,
		m.Name,
		m.FundType,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fund %s: %w", m.FundID, mapPgError(err))
	}
	return nil
}

// FindFundByID retrieves a fund by its ID within a tenant.
func (r *PgxFundRepository) FindFundByID(ctx context.Context, tenantID, fundID string) (*domain.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM funds WHERE tenant_id = $1 AND fund_id = $2;`
	m, err := scanFund(r.Pool.QueryRow(ctx, query, tenantID, fundID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fund %s: %w", fundID, err)
	}
	fund := mapping.ToDomainFund(m)
	return &fund, nil
}

// ListFunds retrieves all funds for a tenant, oldest first.
func (r *PgxFundRepository) ListFunds(ctx context.Context, tenantID string) ([]domain.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM funds WHERE tenant_id = $1 ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query funds for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	funds := []domain.Fund{}
	for rows.Next() {
		m, err := scanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund row: %w", err)
		}
		funds = append(funds, mapping.ToDomainFund(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund rows: %w", err)
	}
	return funds, nil
}
