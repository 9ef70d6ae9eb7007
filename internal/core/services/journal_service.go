package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/middleware"
	"github.com/nonprofit-suite/fund_accounting_app/internal/utils/accounting"
)

// journalService implements double-entry journal operations: create as draft
// or posted, list, edit drafts, and drive the Draft/Posted/Void status machine.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	fundRepo    portsrepo.FundRepositoryFacade
	entitySvc   portssvc.EntitySvcFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, fundRepo portsrepo.FundRepositoryFacade, entitySvc portssvc.EntitySvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		fundRepo:    fundRepo,
		entitySvc:   entitySvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) CreateJournalEntry(ctx context.Context, entityID string, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entity, err := s.entitySvc.GetEntityByID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entity for journal entry: %w", err)
	}
	if entity.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: entity %s is inactive", apperrors.ErrValidation, entityID)
	}

	status := domain.Posted
	if req.Status != "" {
		status = domain.JournalStatus(req.Status)
	}

	now := time.Now().UTC()
	journalEntryID := uuid.NewString()

	lines := make([]domain.JournalEntryLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalEntryLine{
			LineID:         uuid.NewString(),
			JournalEntryID: journalEntryID,
			AccountID:      lineReq.AccountID,
			FundID:         lineReq.FundID,
			DebitAmount:    lineReq.DebitAmount,
			CreditAmount:   lineReq.CreditAmount,
			Description:    lineReq.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
	}

	// Drafts may be saved unbalanced; the balance gate runs on posting.
	if status == domain.Posted {
		if err := accounting.ValidateEntryBalance(lines); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnbalanced, err.Error())
		}
	} else if err := accounting.ValidateLineAmounts(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	accountTypes, err := s.resolveLineAccounts(ctx, entityID, lines)
	if err != nil {
		return nil, err
	}
	if err := s.checkLineFunds(ctx, entityID, lines); err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		JournalEntryID:  journalEntryID,
		EntityID:        entityID,
		EntryDate:       req.EntryDate,
		ReferenceNumber: req.ReferenceNumber,
		Description:     req.Description,
		TotalAmount:     domain.TotalDebits(lines),
		Status:          status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	// Drafts have no balance effect until posted.
	var accountChanges, fundChanges portsrepo.BalanceChanges
	if status == domain.Posted {
		accountChanges, fundChanges, err = s.computeBalanceChanges(lines, accountTypes)
		if err != nil {
			return nil, err
		}
	}

	if err := s.journalRepo.SaveJournalEntry(ctx, entry, lines, accountChanges, fundChanges); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}

	entry.Lines = lines
	return &entry, nil
}

// resolveLineAccounts fetches each referenced account, checks it belongs to the
// entity and is active, and returns a map of account id to account type.
func (s *journalService) resolveLineAccounts(ctx context.Context, entityID string, lines []domain.JournalEntryLine) (map[string]domain.AccountType, error) {
	accountTypes := make(map[string]domain.AccountType)
	for _, line := range lines {
		if _, seen := accountTypes[line.AccountID]; seen {
			continue
		}
		account, err := s.accountRepo.FindAccountByID(ctx, line.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve account %s: %w", line.AccountID, err)
		}
		if account.EntityID != entityID {
			return nil, fmt.Errorf("%w: account %s belongs to a different entity", apperrors.ErrValidation, line.AccountID)
		}
		if account.Status != domain.StatusActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, line.AccountID)
		}
		accountTypes[line.AccountID] = account.AccountType
	}
	return accountTypes, nil
}

// checkLineFunds verifies every referenced fund exists, belongs to the entity
// and is active.
func (s *journalService) checkLineFunds(ctx context.Context, entityID string, lines []domain.JournalEntryLine) error {
	seen := make(map[string]bool)
	for _, line := range lines {
		if line.FundID == nil || seen[*line.FundID] {
			continue
		}
		seen[*line.FundID] = true
		fund, err := s.fundRepo.FindFundByID(ctx, *line.FundID)
		if err != nil {
			return fmt.Errorf("failed to resolve fund %s: %w", *line.FundID, err)
		}
		if fund.EntityID != entityID {
			return fmt.Errorf("%w: fund %s belongs to a different entity", apperrors.ErrValidation, *line.FundID)
		}
		if fund.Status != domain.StatusActive {
			return fmt.Errorf("%w: fund %s is inactive", apperrors.ErrValidation, *line.FundID)
		}
	}
	return nil
}

// computeBalanceChanges aggregates per-account and per-fund signed deltas for
// posting the given lines.
func (s *journalService) computeBalanceChanges(lines []domain.JournalEntryLine, accountTypes map[string]domain.AccountType) (portsrepo.BalanceChanges, portsrepo.BalanceChanges, error) {
	accountChanges := make(portsrepo.BalanceChanges)
	fundChanges := make(portsrepo.BalanceChanges)
	for _, line := range lines {
		signed, err := accounting.CalculateSignedAmount(line, accountTypes[line.AccountID])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to compute balance change: %w", err)
		}
		accountChanges[line.AccountID] = accountChanges[line.AccountID].Add(signed)
		if line.FundID != nil {
			fundChanges[*line.FundID] = fundChanges[*line.FundID].Add(accounting.CalculateFundSignedAmount(line))
		}
	}
	return accountChanges, fundChanges, nil
}

func (s *journalService) GetJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, journalEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}
	lines, err := s.journalRepo.FindLinesByJournalEntryID(ctx, journalEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entry lines: %w", err)
	}
	entry.Lines = lines
	return entry, nil
}

func (s *journalService) ListJournalEntriesByEntity(ctx context.Context, entityID string, status *domain.JournalStatus) ([]domain.JournalEntry, error) {
	entries, err := s.journalRepo.ListJournalEntriesByEntity(ctx, entityID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	if entries == nil {
		return []domain.JournalEntry{}, nil
	}
	return entries, nil
}

func (s *journalService) UpdateDraftJournalEntry(ctx context.Context, journalEntryID string, req dto.UpdateJournalEntryRequest) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, journalEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry for update: %w", err)
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: only draft entries can be edited, entry is %s", apperrors.ErrConflict, entry.Status)
	}

	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
	}
	if req.ReferenceNumber != nil {
		entry.ReferenceNumber = *req.ReferenceNumber
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}

	now := time.Now().UTC()
	lines := entry.Lines
	if req.Lines != nil {
		lines = make([]domain.JournalEntryLine, len(req.Lines))
		for i, lineReq := range req.Lines {
			lines[i] = domain.JournalEntryLine{
				LineID:         uuid.NewString(),
				JournalEntryID: journalEntryID,
				AccountID:      lineReq.AccountID,
				FundID:         lineReq.FundID,
				DebitAmount:    lineReq.DebitAmount,
				CreditAmount:   lineReq.CreditAmount,
				Description:    lineReq.Description,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					LastUpdatedAt: now,
				},
			}
		}
		if err := accounting.ValidateLineAmounts(lines); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		if _, err := s.resolveLineAccounts(ctx, entry.EntityID, lines); err != nil {
			return nil, err
		}
		if err := s.checkLineFunds(ctx, entry.EntityID, lines); err != nil {
			return nil, err
		}
		entry.TotalAmount = domain.TotalDebits(lines)
	} else {
		lines, err = s.journalRepo.FindLinesByJournalEntryID(ctx, journalEntryID)
		if err != nil {
			return nil, fmt.Errorf("failed to load journal entry lines: %w", err)
		}
	}
	entry.LastUpdatedAt = now

	if err := s.journalRepo.UpdateDraftJournalEntry(ctx, *entry, lines); err != nil {
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}
	entry.Lines = lines
	return entry, nil
}

// PostJournalEntry transitions a draft entry to Posted and applies its balance
// effects. The balance gate runs again at posting time: an unbalanced draft
// can be stored but never posted.
func (s *journalService) PostJournalEntry(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetJournalEntryByID(ctx, journalEntryID)
	if err != nil {
		return nil, err
	}
	if !entry.Status.CanTransitionTo(domain.Posted) {
		return nil, fmt.Errorf("%w: cannot post a %s entry", apperrors.ErrConflict, entry.Status)
	}

	if err := accounting.ValidateEntryBalance(entry.Lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnbalanced, err.Error())
	}

	accountTypes, err := s.resolveLineAccounts(ctx, entry.EntityID, entry.Lines)
	if err != nil {
		return nil, err
	}
	accountChanges, fundChanges, err := s.computeBalanceChanges(entry.Lines, accountTypes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.journalRepo.SetJournalEntryStatus(ctx, journalEntryID, domain.Posted, accountChanges, fundChanges, now); err != nil {
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("journal_entry_id", journalEntryID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}

	entry.Status = domain.Posted
	entry.LastUpdatedAt = now
	return entry, nil
}

// VoidJournalEntry transitions an entry to Void. Voiding a posted entry
// reverses its balance effects; voiding a draft has no balance effect.
func (s *journalService) VoidJournalEntry(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetJournalEntryByID(ctx, journalEntryID)
	if err != nil {
		return nil, err
	}
	if !entry.Status.CanTransitionTo(domain.Void) {
		return nil, fmt.Errorf("%w: cannot void a %s entry", apperrors.ErrConflict, entry.Status)
	}

	var accountChanges, fundChanges portsrepo.BalanceChanges
	if entry.Status == domain.Posted {
		accountTypes, err := s.resolveLineAccounts(ctx, entry.EntityID, entry.Lines)
		if err != nil {
			return nil, err
		}
		accountChanges, fundChanges, err = s.computeBalanceChanges(entry.Lines, accountTypes)
		if err != nil {
			return nil, err
		}
		for id, delta := range accountChanges {
			accountChanges[id] = delta.Neg()
		}
		for id, delta := range fundChanges {
			fundChanges[id] = delta.Neg()
		}
	}

	now := time.Now().UTC()
	if err := s.journalRepo.SetJournalEntryStatus(ctx, journalEntryID, domain.Void, accountChanges, fundChanges, now); err != nil {
		logger.Error("Failed to void journal entry", slog.String("error", err.Error()), slog.String("journal_entry_id", journalEntryID))
		return nil, fmt.Errorf("failed to void journal entry: %w", err)
	}

	entry.Status = domain.Void
	entry.LastUpdatedAt = now
	return entry, nil
}

func (s *journalService) DeleteDraftJournalEntry(ctx context.Context, journalEntryID string) error {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, journalEntryID)
	if err != nil {
		return fmt.Errorf("failed to get journal entry for delete: %w", err)
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: only draft entries can be deleted, entry is %s", apperrors.ErrConflict, entry.Status)
	}
	if err := s.journalRepo.DeleteJournalEntry(ctx, journalEntryID); err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	return nil
}
