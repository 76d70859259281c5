package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hoaops/hoa_ledger_app/internal/apperrors"
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaops/hoa_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
	"github.com/hoaops/hoa_ledger_app/internal/utils/accounting"
)

// journalService is the journal engine: the single choke point every
// money-moving operation funnels through.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
}

// NewJournalService creates a new journal engine service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// lineFromRequest converts a proposed line, rejecting anything that does not
// carry exactly one positive side.
func lineFromRequest(req dto.EntryLineRequest) (domain.JournalLine, error) {
	if req.Debit.IsNegative() || req.Credit.IsNegative() {
		return domain.JournalLine{}, fmt.Errorf("%w: account %s", apperrors.ErrNonPositiveAmount, req.AccountID)
	}
	hasDebit := req.Debit.IsPositive()
	hasCredit := req.Credit.IsPositive()
	if hasDebit == hasCredit {
		return domain.JournalLine{}, fmt.Errorf("%w: line for account %s must carry exactly one of debit or credit", apperrors.ErrValidation, req.AccountID)
	}
	return domain.JournalLine{
		LineID:    uuid.NewString(),
		AccountID: req.AccountID,
		Debit:     req.Debit,
		Credit:    req.Credit,
	}, nil
}

// validateEntryAccounts checks every line against the chart of accounts:
// the account must exist in the tenant, be active, and all lines must stay
// within a single fund. Multi-fund movement only happens through the
// transfer operation, which posts one balanced entry per fund.
func validateEntryAccounts(ctx context.Context, accountSvc portssvc.AccountSvcFacade, tenantID string, lines []domain.JournalLine) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; !ok {
			seen[l.AccountID] = struct{}{}
			ids = append(ids, l.AccountID)
		}
	}

	accounts, err := accountSvc.GetAccountsByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	fundID := ""
	for _, id := range ids {
		acc, found := accounts[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s not found in tenant", apperrors.ErrInvalidAccount, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrInvalidAccount, id)
		}
		if fundID == "" {
			fundID = acc.FundID
		} else if acc.FundID != fundID {
			return nil, fmt.Errorf("%w: lines span funds %s and %s outside a transfer", apperrors.ErrInvalidAccount, fundID, acc.FundID)
		}
	}
	return accounts, nil
}

// validateBalance enforces the double-entry invariant with exact decimal
// comparison: sum of debits must equal sum of credits.
func validateBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: entry must have at least two lines", apperrors.ErrValidation)
	}
	debits, credits := accounting.SumLines(lines)
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalancedEntry, debits, credits)
	}
	return nil
}

// prepareEntry assembles and fully validates an entry for posting. Shared by
// the journal engine and the invoice/payment ledgers, which persist the
// prepared entry inside their own atomic repository operations.
func prepareEntry(ctx context.Context, accountSvc portssvc.AccountSvcFacade, tenantID string, entryDate time.Time, entryType domain.EntryType, referenceID *string, description string, lines []domain.JournalLine, actor string) (domain.JournalEntry, error) {
	if err := validateBalance(lines); err != nil {
		return domain.JournalEntry{}, err
	}
	if _, err := validateEntryAccounts(ctx, accountSvc, tenantID, lines); err != nil {
		return domain.JournalEntry{}, err
	}

	entryID := uuid.NewString()
	for i := range lines {
		if lines[i].LineID == "" {
			lines[i].LineID = uuid.NewString()
		}
		lines[i].EntryID = entryID
	}
	return domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    tenantID,
		EntryDate:   accounting.DateOnly(entryDate),
		EntryType:   entryType,
		Description: description,
		ReferenceID: referenceID,
		PostedAt:    time.Now().UTC(),
		PostedBy:    actor,
		Lines:       lines,
	}, nil
}

// PostEntry validates and commits a manual journal entry.
func (s *journalService) PostEntry(ctx context.Context, tenantID string, req dto.PostEntryRequest, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Description == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}

	lines := make([]domain.JournalLine, 0, len(req.Lines))
	for _, lr := range req.Lines {
		line, err := lineFromRequest(lr)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	entry, err := prepareEntry(ctx, s.accountSvc, tenantID, req.EntryDate, domain.EntryManual, req.ReferenceID, req.Description, lines, actor)
	if err != nil {
		return nil, err
	}

	saved, err := s.journalRepo.SaveEntry(ctx, entry)
	if err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", saved.EntryID),
		slog.Int64("entry_number", saved.EntryNumber),
		slog.String("tenant_id", tenantID))
	return saved, nil
}

// buildReversal constructs the mirroring entry for a posted original.
func buildReversal(original domain.JournalEntry, reason, actor string) domain.JournalEntry {
	entryID := uuid.NewString()
	lines := make([]domain.JournalLine, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = l.Mirror()
		lines[i].LineID = uuid.NewString()
		lines[i].EntryID = entryID
	}
	origID := original.EntryID
	return domain.JournalEntry{
		EntryID:         entryID,
		TenantID:        original.TenantID,
		EntryDate:       original.EntryDate,
		EntryType:       domain.EntryReversal,
		Description:     fmt.Sprintf("Reversal of entry %d: %s", original.EntryNumber, reason),
		ReferenceID:     original.ReferenceID,
		ReversesEntryID: &origID,
		PostedAt:        time.Now().UTC(),
		PostedBy:        actor,
		Lines:           lines,
	}
}

// ReverseEntry posts the exact debit/credit mirror of a committed entry and
// links both records. The original's lines are never touched.
func (s *journalService) ReverseEntry(ctx context.Context, tenantID, entryID, reason, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.GetEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if original.Reversed() {
		return nil, fmt.Errorf("%w: entry %d", apperrors.ErrAlreadyReversed, original.EntryNumber)
	}
	if original.EntryType == domain.EntryReversal {
		return nil, fmt.Errorf("%w: cannot reverse a reversal", apperrors.ErrValidation)
	}

	reversal := buildReversal(*original, reason, actor)
	saved, err := s.journalRepo.SaveReversal(ctx, reversal, original.EntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyReversed) {
			logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	logger.Info("Journal entry reversed",
		slog.String("original_entry_id", original.EntryID),
		slog.String("reversal_entry_id", saved.EntryID),
		slog.String("tenant_id", tenantID))
	return saved, nil
}

// TransferFunds posts an inter-fund transfer as two linked entries, one per
// fund, each individually balanced, so funds never commingle inside one entry.
func (s *journalService) TransferFunds(ctx context.Context, tenantID string, req dto.TransferRequest, actor string) ([]domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount", apperrors.ErrNonPositiveAmount)
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, tenantID,
		[]string{req.FromAccountID, req.FromOffsetAccountID, req.ToAccountID, req.ToOffsetAccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transfer accounts: %w", err)
	}
	from, fromOK := accounts[req.FromAccountID]
	fromOffset, fromOffsetOK := accounts[req.FromOffsetAccountID]
	to, toOK := accounts[req.ToAccountID]
	toOffset, toOffsetOK := accounts[req.ToOffsetAccountID]
	if !fromOK || !fromOffsetOK || !toOK || !toOffsetOK {
		return nil, fmt.Errorf("%w: transfer account not found in tenant", apperrors.ErrInvalidAccount)
	}
	if from.FundID != fromOffset.FundID || to.FundID != toOffset.FundID {
		return nil, fmt.Errorf("%w: each transfer leg must stay within one fund", apperrors.ErrInvalidAccount)
	}
	if from.FundID == to.FundID {
		return nil, fmt.Errorf("%w: transfer requires two distinct funds", apperrors.ErrValidation)
	}

	transferGroup := uuid.NewString()
	outLines := []domain.JournalLine{
		{LineID: uuid.NewString(), AccountID: req.FromOffsetAccountID, Debit: req.Amount, Credit: decimal.Zero},
		{LineID: uuid.NewString(), AccountID: req.FromAccountID, Debit: decimal.Zero, Credit: req.Amount},
	}
	inLines := []domain.JournalLine{
		{LineID: uuid.NewString(), AccountID: req.ToAccountID, Debit: req.Amount, Credit: decimal.Zero},
		{LineID: uuid.NewString(), AccountID: req.ToOffsetAccountID, Debit: decimal.Zero, Credit: req.Amount},
	}

	outEntry, err := prepareEntry(ctx, s.accountSvc, tenantID, req.TransferDate, domain.EntryTransfer, &transferGroup,
		fmt.Sprintf("Transfer out: %s", req.Description), outLines, actor)
	if err != nil {
		return nil, err
	}
	inEntry, err := prepareEntry(ctx, s.accountSvc, tenantID, req.TransferDate, domain.EntryTransfer, &transferGroup,
		fmt.Sprintf("Transfer in: %s", req.Description), inLines, actor)
	if err != nil {
		return nil, err
	}

	savedOut, savedIn, err := s.journalRepo.SaveEntryPair(ctx, outEntry, inEntry)
	if err != nil {
		logger.Error("Failed to save transfer entries", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save transfer: %w", err)
	}

	logger.Info("Inter-fund transfer posted",
		slog.String("transfer_group", transferGroup),
		slog.String("from_fund", from.FundID),
		slog.String("to_fund", to.FundID),
		slog.String("amount", req.Amount.String()))
	return []domain.JournalEntry{*savedOut, *savedIn}, nil
}

// GetEntryByID retrieves an entry header with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a page of entries for a tenant.
func (s *journalService) ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	entries, nextToken, err := s.journalRepo.ListEntries(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}
	resp := &dto.ListEntriesResponse{NextToken: nextToken}
	resp.Entries = make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		resp.Entries[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	return resp, nil
}
