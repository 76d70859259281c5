package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hoaops/hoa_ledger_app/internal/apperrors"
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaops/hoa_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
)

// accountService manages the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	fundRepo    portsrepo.FundRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, fundRepo portsrepo.FundRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		fundRepo:    fundRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a new account within a fund.
func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	fund, err := s.fundRepo.FindFundByID(ctx, tenantID, req.FundID)
	if err != nil {
		return nil, fmt.Errorf("%w: fund %s", apperrors.ErrValidation, req.FundID)
	}
	if !fund.IsActive {
		return nil, fmt.Errorf("%w: fund %s is inactive", apperrors.ErrValidation, req.FundID)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    tenantID,
		FundID:      req.FundID,
		Code:        req.Code,
		Name:        req.Name,
		AccountType: domain.AccountType(req.AccountType),
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("tenant_id", tenantID))
	return &account, nil
}

// GetAccountByID retrieves one account.
func (s *accountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID. Accounts missing
// from the result simply aren't present in the map; callers decide whether
// that's an error.
func (s *accountService) GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, tenantID, accountIDs)
}

// ListAccounts retrieves accounts for a tenant, optionally scoped to one fund.
func (s *accountService) ListAccounts(ctx context.Context, tenantID string, fundID *string) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, tenantID, fundID)
}

// UpdateAccount updates an account's descriptive fields. Type, fund, and
// code are fixed at creation because posted history references them.
func (s *accountService) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actor

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount marks an account inactive. The account and its history
// remain readable forever.
func (s *accountService) DeactivateAccount(ctx context.Context, tenantID, accountID, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.DeactivateAccount(ctx, tenantID, accountID, actor, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}
	logger.Info("Account deactivated", slog.String("account_id", accountID), slog.String("tenant_id", tenantID))
	return nil
}
