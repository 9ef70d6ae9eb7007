package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/middleware"
	"github.com/nonprofit-suite/fund_accounting_app/internal/utils/accounting"
)

// transferService coordinates inter-entity transfers: one balanced journal
// entry per entity, cross-linked by MatchingTransactionID and written in a
// single transaction so neither side is ever visible without the other.
type transferService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	entitySvc   portssvc.EntitySvcFacade
}

// NewTransferService creates a new TransferService.
func NewTransferService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, entitySvc portssvc.EntitySvcFacade) portssvc.TransferSvcFacade {
	return &transferService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		entitySvc:   entitySvc,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

func (s *transferService) CreateTransfer(ctx context.Context, req dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.SourceEntityID == req.TargetEntityID {
		return nil, fmt.Errorf("%w: source and target entity must differ", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}

	for _, entityID := range []string{req.SourceEntityID, req.TargetEntityID} {
		entity, err := s.entitySvc.GetEntityByID(ctx, entityID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve transfer entity: %w", err)
		}
		if entity.Status != domain.StatusActive {
			return nil, fmt.Errorf("%w: entity %s is inactive", apperrors.ErrValidation, entityID)
		}
	}

	sourceCash, err := s.resolveAccount(ctx, req.SourceEntityID, req.SourceCashAccountCode)
	if err != nil {
		return nil, err
	}
	sourceTransfer, err := s.resolveAccount(ctx, req.SourceEntityID, req.SourceTransferAccountCode)
	if err != nil {
		return nil, err
	}
	targetCash, err := s.resolveAccount(ctx, req.TargetEntityID, req.TargetCashAccountCode)
	if err != nil {
		return nil, err
	}
	targetTransfer, err := s.resolveAccount(ctx, req.TargetEntityID, req.TargetTransferAccountCode)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sourceEntryID := uuid.NewString()
	targetEntryID := uuid.NewString()

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Transfer from %s to %s", req.SourceEntityID, req.TargetEntityID)
	}

	audit := domain.AuditFields{CreatedAt: now, LastUpdatedAt: now}

	// Source side: credit cash out, debit the transfer-out account.
	sourceLines := []domain.JournalEntryLine{
		{
			LineID:         uuid.NewString(),
			JournalEntryID: sourceEntryID,
			AccountID:      sourceTransfer.AccountID,
			DebitAmount:    req.Amount,
			CreditAmount:   decimal.Zero,
			Description:    description,
			AuditFields:    audit,
		},
		{
			LineID:         uuid.NewString(),
			JournalEntryID: sourceEntryID,
			AccountID:      sourceCash.AccountID,
			DebitAmount:    decimal.Zero,
			CreditAmount:   req.Amount,
			Description:    description,
			AuditFields:    audit,
		},
	}

	// Target side: debit cash in, credit the transfer-in account.
	targetLines := []domain.JournalEntryLine{
		{
			LineID:         uuid.NewString(),
			JournalEntryID: targetEntryID,
			AccountID:      targetCash.AccountID,
			DebitAmount:    req.Amount,
			CreditAmount:   decimal.Zero,
			Description:    description,
			AuditFields:    audit,
		},
		{
			LineID:         uuid.NewString(),
			JournalEntryID: targetEntryID,
			AccountID:      targetTransfer.AccountID,
			DebitAmount:    decimal.Zero,
			CreditAmount:   req.Amount,
			Description:    description,
			AuditFields:    audit,
		},
	}

	sourceEntry := domain.JournalEntry{
		JournalEntryID:        sourceEntryID,
		EntityID:              req.SourceEntityID,
		EntryDate:             req.EntryDate,
		ReferenceNumber:       fmt.Sprintf("XFER-%s", sourceEntryID[:8]),
		Description:           description,
		TotalAmount:           req.Amount,
		Status:                domain.Posted,
		IsInterEntity:         true,
		TargetEntityID:        &req.TargetEntityID,
		MatchingTransactionID: &targetEntryID,
		AuditFields:           audit,
	}
	targetEntry := domain.JournalEntry{
		JournalEntryID:        targetEntryID,
		EntityID:              req.TargetEntityID,
		EntryDate:             req.EntryDate,
		ReferenceNumber:       fmt.Sprintf("XFER-%s", targetEntryID[:8]),
		Description:           description,
		TotalAmount:           req.Amount,
		Status:                domain.Posted,
		IsInterEntity:         true,
		TargetEntityID:        &req.SourceEntityID,
		MatchingTransactionID: &sourceEntryID,
		AuditFields:           audit,
	}

	accountChanges, fundChanges, err := s.transferBalanceChanges(
		sourceLines, targetLines,
		map[string]domain.AccountType{
			sourceCash.AccountID:     sourceCash.AccountType,
			sourceTransfer.AccountID: sourceTransfer.AccountType,
			targetCash.AccountID:     targetCash.AccountType,
			targetTransfer.AccountID: targetTransfer.AccountType,
		})
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveTransferPair(ctx, sourceEntry, targetEntry, sourceLines, targetLines, accountChanges, fundChanges); err != nil {
		logger.Error("Failed to save transfer pair",
			slog.String("error", err.Error()),
			slog.String("source_entity_id", req.SourceEntityID),
			slog.String("target_entity_id", req.TargetEntityID))
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	sourceEntry.Lines = sourceLines
	targetEntry.Lines = targetLines
	return &dto.TransferResponse{SourceEntry: sourceEntry, TargetEntry: targetEntry}, nil
}

func (s *transferService) resolveAccount(ctx context.Context, entityID, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, entityID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account %q for entity %s: %w", code, entityID, err)
	}
	if account.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: account %q is inactive", apperrors.ErrValidation, code)
	}
	return account, nil
}

func (s *transferService) transferBalanceChanges(sourceLines, targetLines []domain.JournalEntryLine, accountTypes map[string]domain.AccountType) (portsrepo.BalanceChanges, portsrepo.BalanceChanges, error) {
	accountChanges := make(portsrepo.BalanceChanges)
	fundChanges := make(portsrepo.BalanceChanges)
	for _, line := range append(append([]domain.JournalEntryLine{}, sourceLines...), targetLines...) {
		signed, err := accounting.CalculateSignedAmount(line, accountTypes[line.AccountID])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to compute transfer balance change: %w", err)
		}
		accountChanges[line.AccountID] = accountChanges[line.AccountID].Add(signed)
		if line.FundID != nil {
			fundChanges[*line.FundID] = fundChanges[*line.FundID].Add(accounting.CalculateFundSignedAmount(line))
		}
	}
	return accountChanges, fundChanges, nil
}

// GetMatchingEntry returns the paired entry of an inter-entity transfer.
func (s *transferService) GetMatchingEntry(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, journalEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}
	if entry.MatchingTransactionID == nil {
		return nil, fmt.Errorf("%w: journal entry %s is not part of a transfer", apperrors.ErrNotFound, journalEntryID)
	}
	matching, err := s.journalRepo.FindJournalEntryByID(ctx, *entry.MatchingTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matching entry: %w", err)
	}
	lines, err := s.journalRepo.FindLinesByJournalEntryID(ctx, matching.JournalEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matching entry lines: %w", err)
	}
	matching.Lines = lines
	return matching, nil
}
