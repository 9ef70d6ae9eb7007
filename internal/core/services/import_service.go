package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/importer"
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/middleware"
	"github.com/nonprofit-suite/fund_accounting_app/internal/utils/accounting"
)

// importService coordinates the bulk-import pipeline: structural analysis,
// dry-run validation, asynchronous all-or-nothing execution and rollback.
type importService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	fundRepo    portsrepo.FundRepositoryFacade
	jobRepo     portsrepo.ImportJobRepository
	entitySvc   portssvc.EntitySvcFacade
	maxRows     int
}

// NewImportService creates a new ImportService. maxRows caps the data rows
// accepted per import; zero disables the cap.
func NewImportService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, fundRepo portsrepo.FundRepositoryFacade, jobRepo portsrepo.ImportJobRepository, entitySvc portssvc.EntitySvcFacade, maxRows int) portssvc.ImportSvcFacade {
	return &importService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		fundRepo:    fundRepo,
		jobRepo:     jobRepo,
		entitySvc:   entitySvc,
		maxRows:     maxRows,
	}
}

var _ portssvc.ImportSvcFacade = (*importService)(nil)

func (s *importService) AnalyzeSheet(ctx context.Context, sheet importer.Sheet) (*importer.AnalysisReport, error) {
	if len(sheet.Headers) == 0 {
		return nil, fmt.Errorf("%w: sheet has no header row", apperrors.ErrValidation)
	}
	report := importer.Analyze(sheet)
	return &report, nil
}

func (s *importService) ValidateSheet(ctx context.Context, sheet importer.Sheet, cfg importer.Config) (*importer.ValidationReport, error) {
	report, err := importer.Validate(sheet, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to validate sheet: %w", err)
	}
	return report, nil
}

// ProcessImport registers a job and runs the import in the background. The
// returned job is a snapshot in the processing state; callers poll
// GetImportStatus for progress. The batch write is all-or-nothing: any bad row
// fails the whole run and nothing is committed.
func (s *importService) ProcessImport(ctx context.Context, req dto.ProcessImportRequest) (*domain.ImportJob, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entity, err := s.entitySvc.GetEntityByID(ctx, req.EntityID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entity for import: %w", err)
	}
	if entity.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: entity %s is inactive", apperrors.ErrValidation, req.EntityID)
	}

	sheet := importer.Sheet{Headers: req.Headers, Rows: req.Rows}
	if s.maxRows > 0 && len(sheet.Rows) > s.maxRows {
		return nil, fmt.Errorf("%w: sheet has %d rows, limit is %d", apperrors.ErrValidation, len(sheet.Rows), s.maxRows)
	}

	groups, err := importer.Group(sheet, req.Config.ColumnMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to group import rows: %w", err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: sheet contains no data rows", apperrors.ErrValidation)
	}

	job := domain.ImportJob{
		ImportID:     uuid.NewString(),
		EntityID:     req.EntityID,
		Status:       domain.ImportProcessing,
		TotalRecords: len(groups),
		StartedAt:    time.Now().UTC(),
	}
	if err := s.jobRepo.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to register import job: %w", err)
	}

	// The run outlives the HTTP request; it is cancellable only through the
	// job repository's cancel handle.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if err := s.jobRepo.RegisterCancel(ctx, job.ImportID, cancel); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to register cancel handle: %w", err)
	}

	go s.runImport(runCtx, logger, job.ImportID, req.EntityID, req.Config, groups)

	return &job, nil
}

// runImport executes the batch in the background and finalizes the job record.
func (s *importService) runImport(ctx context.Context, logger *slog.Logger, importID, entityID string, cfg importer.Config, groups []importer.TransactionGroup) {
	entries, accountChanges, fundChanges, buildErrs := s.buildEntries(ctx, importID, entityID, cfg, groups)
	if len(buildErrs) > 0 {
		logger.Warn("Import failed during entry construction",
			slog.String("import_id", importID),
			slog.Int("errors", len(buildErrs)))
		if err := s.jobRepo.SetStatus(ctx, importID, domain.ImportFailed, buildErrs); err != nil {
			logger.Error("Failed to finalize import job", slog.String("error", err.Error()), slog.String("import_id", importID))
		}
		return
	}

	onProgress := func(done int) {
		// Progress write failures must not abort the batch.
		if err := s.jobRepo.UpdateProgress(ctx, importID, done); err != nil {
			logger.Warn("Failed to update import progress", slog.String("error", err.Error()), slog.String("import_id", importID))
		}
	}

	if err := s.journalRepo.SaveImportBatch(ctx, entries, accountChanges, fundChanges, onProgress); err != nil {
		status := domain.ImportFailed
		msg := fmt.Sprintf("batch write failed: %v", err)
		if errors.Is(err, context.Canceled) {
			msg = "import cancelled before completion"
		}
		logger.Error("Import batch write failed", slog.String("error", err.Error()), slog.String("import_id", importID))
		if err := s.jobRepo.SetStatus(ctx, importID, status, []string{msg}); err != nil {
			logger.Error("Failed to finalize import job", slog.String("error", err.Error()), slog.String("import_id", importID))
		}
		return
	}

	if err := s.jobRepo.SetStatus(ctx, importID, domain.ImportCompleted, nil); err != nil {
		logger.Error("Failed to finalize import job", slog.String("error", err.Error()), slog.String("import_id", importID))
		return
	}
	logger.Info("Import completed",
		slog.String("import_id", importID),
		slog.Int("entries", len(entries)))
}

// buildEntries turns each transaction group into one posted journal entry
// tagged with the import id, resolving account and fund codes against the
// entity's master records. Every problem is reported anchored to its source
// row; any problem fails the whole batch.
func (s *importService) buildEntries(ctx context.Context, importID, entityID string, cfg importer.Config, groups []importer.TransactionGroup) ([]domain.JournalEntry, portsrepo.BalanceChanges, portsrepo.BalanceChanges, []string) {
	accountsByCode, accountTypes, err := s.loadAccounts(ctx, entityID)
	if err != nil {
		return nil, nil, nil, []string{err.Error()}
	}
	fundsByCode, err := s.loadFunds(ctx, entityID)
	if err != nil {
		return nil, nil, nil, []string{err.Error()}
	}

	now := time.Now().UTC()
	var errs []string
	entries := make([]domain.JournalEntry, 0, len(groups))
	accountChanges := make(portsrepo.BalanceChanges)
	fundChanges := make(portsrepo.BalanceChanges)

	for _, group := range groups {
		if group.TotalDebit.Sub(group.TotalCredit).Abs().GreaterThan(domain.BalanceEpsilon) {
			errs = append(errs, fmt.Sprintf("transaction %q: debits (%s) do not equal credits (%s)",
				group.TransactionID, group.TotalDebit.StringFixed(2), group.TotalCredit.StringFixed(2)))
			continue
		}

		journalEntryID := uuid.NewString()
		var entryDate time.Time
		var description string
		lines := make([]domain.JournalEntryLine, 0, len(group.Lines))

		for _, row := range group.Lines {
			if cfg.ImportSettings.SkipRowsWithMissingData && (row.AccountCode == "" || row.EntryDate == "") {
				continue
			}

			accountID, ok := accountsByCode[row.AccountCode]
			if !ok {
				errs = append(errs, fmt.Sprintf("row %d: unknown account code %q", row.RowNumber, row.AccountCode))
				continue
			}

			var fundID *string
			if row.FundCode != "" {
				id, ok := fundsByCode[row.FundCode]
				if !ok {
					errs = append(errs, fmt.Sprintf("row %d: unknown fund code %q", row.RowNumber, row.FundCode))
					continue
				}
				fundID = &id
			}

			parsed, err := importer.ParseDate(cfg.DateFormat, row.EntryDate)
			if err != nil {
				errs = append(errs, fmt.Sprintf("row %d: unparseable date %q", row.RowNumber, row.EntryDate))
				continue
			}
			if entryDate.IsZero() {
				entryDate = parsed
			}
			if description == "" {
				description = row.Description
			}

			lines = append(lines, domain.JournalEntryLine{
				LineID:         uuid.NewString(),
				JournalEntryID: journalEntryID,
				AccountID:      accountID,
				FundID:         fundID,
				DebitAmount:    row.Debit,
				CreditAmount:   row.Credit,
				Description:    row.Description,
				AuditFields:    domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
			})
		}

		if len(lines) < 2 {
			errs = append(errs, fmt.Sprintf("transaction %q: fewer than two usable lines", group.TransactionID))
			continue
		}
		// Skipped rows can unbalance a group that balanced as a whole, so the
		// surviving lines are checked again before anything is posted.
		if !domain.IsBalanced(lines) {
			errs = append(errs, fmt.Sprintf("transaction %q: usable lines do not balance (debits %s, credits %s)",
				group.TransactionID, domain.TotalDebits(lines).StringFixed(2), domain.TotalCredits(lines).StringFixed(2)))
			continue
		}

		for _, line := range lines {
			signed, err := accounting.CalculateSignedAmount(line, accountTypes[line.AccountID])
			if err != nil {
				errs = append(errs, fmt.Sprintf("transaction %q: %v", group.TransactionID, err))
				continue
			}
			accountChanges[line.AccountID] = accountChanges[line.AccountID].Add(signed)
			if line.FundID != nil {
				fundChanges[*line.FundID] = fundChanges[*line.FundID].Add(accounting.CalculateFundSignedAmount(line))
			}
		}

		if description == "" {
			description = fmt.Sprintf("Imported transaction %s", group.TransactionID)
		}
		entries = append(entries, domain.JournalEntry{
			JournalEntryID:  journalEntryID,
			EntityID:        entityID,
			EntryDate:       entryDate,
			ReferenceNumber: group.TransactionID,
			Description:     description,
			TotalAmount:     domain.TotalDebits(lines),
			Status:          domain.Posted,
			ImportID:        &importID,
			Lines:           lines,
			AuditFields:     domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		})
	}

	if len(errs) > 0 {
		return nil, nil, nil, errs
	}
	return entries, accountChanges, fundChanges, nil
}

func (s *importService) loadAccounts(ctx context.Context, entityID string) (map[string]string, map[string]domain.AccountType, error) {
	accounts, err := s.accountRepo.ListAccountsByEntity(ctx, entityID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load accounts for import: %w", err)
	}
	byCode := make(map[string]string, len(accounts))
	types := make(map[string]domain.AccountType, len(accounts))
	for _, account := range accounts {
		if account.Status != domain.StatusActive {
			continue
		}
		byCode[account.Code] = account.AccountID
		types[account.AccountID] = account.AccountType
	}
	return byCode, types, nil
}

func (s *importService) loadFunds(ctx context.Context, entityID string) (map[string]string, error) {
	funds, err := s.fundRepo.ListFundsByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load funds for import: %w", err)
	}
	byCode := make(map[string]string, len(funds))
	for _, fund := range funds {
		if fund.Status != domain.StatusActive {
			continue
		}
		byCode[fund.Code] = fund.FundID
	}
	return byCode, nil
}

func (s *importService) GetImportStatus(ctx context.Context, importID string) (*domain.ImportJob, error) {
	job, err := s.jobRepo.FindJob(ctx, importID)
	if err != nil {
		return nil, fmt.Errorf("failed to get import job: %w", err)
	}
	return job, nil
}

func (s *importService) ListImports(ctx context.Context) ([]domain.ImportJob, error) {
	jobs, err := s.jobRepo.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list import jobs: %w", err)
	}
	if jobs == nil {
		return []domain.ImportJob{}, nil
	}
	return jobs, nil
}

func (s *importService) CancelImport(ctx context.Context, importID string) error {
	if err := s.jobRepo.Cancel(ctx, importID); err != nil {
		return fmt.Errorf("failed to cancel import: %w", err)
	}
	return nil
}

// RollbackImport deletes every journal entry carrying the import id and marks
// the job rolled back. Completed and failed runs can both be rolled back; a
// failed run wrote nothing, so its rollback deletes zero entries. In-flight
// runs must be cancelled first, and a second rollback of the same run is a
// state error.
func (s *importService) RollbackImport(ctx context.Context, importID string) (*domain.ImportJob, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	job, err := s.jobRepo.FindJob(ctx, importID)
	if err != nil {
		return nil, fmt.Errorf("failed to get import job for rollback: %w", err)
	}
	if job.Status != domain.ImportCompleted && job.Status != domain.ImportFailed {
		return nil, fmt.Errorf("%w: cannot roll back an import in state %q", apperrors.ErrImportState, job.Status)
	}

	deleted, err := s.journalRepo.DeleteJournalEntriesByImportID(ctx, importID)
	if err != nil {
		logger.Error("Failed to roll back import", slog.String("error", err.Error()), slog.String("import_id", importID))
		return nil, fmt.Errorf("failed to roll back import: %w", err)
	}

	if err := s.jobRepo.SetStatus(ctx, importID, domain.ImportRolledBack, nil); err != nil {
		return nil, fmt.Errorf("failed to finalize rollback: %w", err)
	}
	logger.Info("Import rolled back", slog.String("import_id", importID), slog.Int64("entries_deleted", deleted))

	job, err = s.jobRepo.FindJob(ctx, importID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload import job: %w", err)
	}
	return job, nil
}
