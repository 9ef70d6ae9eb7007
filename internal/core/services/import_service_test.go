package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/importer"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/repositories/memory"
)

type ImportServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockFundRepo    *MockFundRepository
	mockEntitySvc   *MockEntityService
	jobRepo         *memory.ImportJobRepository
	service         portssvc.ImportSvcFacade

	entity      domain.Entity
	cashAccount domain.Account
	revAccount  domain.Account
	fund        domain.Fund
}

func (s *ImportServiceTestSuite) SetupTest() {
	s.mockJournalRepo = new(MockJournalRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockFundRepo = new(MockFundRepository)
	s.mockEntitySvc = new(MockEntityService)
	s.jobRepo = memory.NewImportJobRepository()
	s.service = services.NewImportService(s.mockJournalRepo, s.mockAccountRepo, s.mockFundRepo, s.jobRepo, s.mockEntitySvc, 100)

	entityID := uuid.NewString()
	s.entity = domain.Entity{EntityID: entityID, Code: "MAIN", Status: domain.StatusActive}
	s.cashAccount = domain.Account{AccountID: uuid.NewString(), EntityID: entityID, Code: "1000", AccountType: domain.Asset, Status: domain.StatusActive}
	s.revAccount = domain.Account{AccountID: uuid.NewString(), EntityID: entityID, Code: "4000", AccountType: domain.Revenue, Status: domain.StatusActive}
	s.fund = domain.Fund{FundID: uuid.NewString(), EntityID: entityID, Code: "GEN", FundType: domain.Unrestricted, Status: domain.StatusActive}
}

func (s *ImportServiceTestSuite) config() importer.Config {
	return importer.Config{
		SourceFormat: "csv",
		ColumnMapping: importer.ColumnMapping{
			importer.TargetTransactionID: "Txn",
			importer.TargetEntryDate:     "Date",
			importer.TargetDebit:         "Debit",
			importer.TargetCredit:        "Credit",
			importer.TargetAccountCode:   "Account",
			importer.TargetFundCode:      "Fund",
			importer.TargetDescription:   "Memo",
		},
		DateFormat: "YYYY-MM-DD",
	}
}

func (s *ImportServiceTestSuite) processRequest(rows [][]string) dto.ProcessImportRequest {
	return dto.ProcessImportRequest{
		EntityID: s.entity.EntityID,
		Headers:  []string{"Txn", "Date", "Debit", "Credit", "Account", "Fund", "Memo"},
		Rows:     rows,
		Config:   s.config(),
	}
}

func (s *ImportServiceTestSuite) waitForStatus(importID string, want domain.ImportStatus) *domain.ImportJob {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := s.jobRepo.FindJob(context.Background(), importID)
		s.Require().NoError(err)
		if job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	s.FailNowf("timeout", "import %s never reached status %s", importID, want)
	return nil
}

func (s *ImportServiceTestSuite) TestProcessImport_Completes() {
	ctx := context.Background()
	req := s.processRequest([][]string{
		{"T1", "2024-02-01", "100.00", "", "1000", "GEN", "Donation"},
		{"T1", "2024-02-01", "", "100.00", "4000", "GEN", "Donation"},
	})

	s.mockEntitySvc.On("GetEntityByID", mock.Anything, s.entity.EntityID).Return(&s.entity, nil).Once()
	s.mockAccountRepo.On("ListAccountsByEntity", mock.Anything, s.entity.EntityID).Return([]domain.Account{s.cashAccount, s.revAccount}, nil).Once()
	s.mockFundRepo.On("ListFundsByEntity", mock.Anything, s.entity.EntityID).Return([]domain.Fund{s.fund}, nil).Once()

	var savedEntries []domain.JournalEntry
	s.mockJournalRepo.On("SaveImportBatch", mock.Anything, mock.AnythingOfType("[]domain.JournalEntry"), mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(1).([]domain.JournalEntry)
			onProgress := args.Get(4).(func(done int))
			onProgress(len(savedEntries))
		}).Return(nil).Once()

	job, err := s.service.ProcessImport(ctx, req)

	s.Require().NoError(err)
	s.Equal(domain.ImportProcessing, job.Status)
	s.Equal(1, job.TotalRecords)

	done := s.waitForStatus(job.ImportID, domain.ImportCompleted)
	s.Equal(100, done.Progress)
	s.NotNil(done.CompletedAt)

	s.Require().Len(savedEntries, 1)
	entry := savedEntries[0]
	s.Equal(domain.Posted, entry.Status)
	s.Equal("T1", entry.ReferenceNumber)
	s.Require().NotNil(entry.ImportID)
	s.Equal(job.ImportID, *entry.ImportID)
	s.Len(entry.Lines, 2)
	s.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), entry.EntryDate)
}

func (s *ImportServiceTestSuite) TestProcessImport_UnknownAccountFailsWholeRun() {
	ctx := context.Background()
	req := s.processRequest([][]string{
		{"T1", "2024-02-01", "100.00", "", "9999", "GEN", "Donation"},
		{"T1", "2024-02-01", "", "100.00", "4000", "GEN", "Donation"},
	})

	s.mockEntitySvc.On("GetEntityByID", mock.Anything, s.entity.EntityID).Return(&s.entity, nil).Once()
	s.mockAccountRepo.On("ListAccountsByEntity", mock.Anything, s.entity.EntityID).Return([]domain.Account{s.cashAccount, s.revAccount}, nil).Once()
	s.mockFundRepo.On("ListFundsByEntity", mock.Anything, s.entity.EntityID).Return([]domain.Fund{s.fund}, nil).Once()

	job, err := s.service.ProcessImport(ctx, req)
	s.Require().NoError(err)

	failed := s.waitForStatus(job.ImportID, domain.ImportFailed)
	s.Require().NotEmpty(failed.Errors)
	s.Contains(failed.Errors[0], "row 2")
	s.Contains(failed.Errors[0], "9999")

	// Nothing may be written when any row is bad.
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveImportBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ImportServiceTestSuite) TestProcessImport_UnbalancedTransactionFails() {
	ctx := context.Background()
	req := s.processRequest([][]string{
		{"T1", "2024-02-01", "100.00", "", "1000", "GEN", ""},
		{"T1", "2024-02-01", "", "60.00", "4000", "GEN", ""},
	})

	s.mockEntitySvc.On("GetEntityByID", mock.Anything, s.entity.EntityID).Return(&s.entity, nil).Once()
	s.mockAccountRepo.On("ListAccountsByEntity", mock.Anything, s.entity.EntityID).Return([]domain.Account{s.cashAccount, s.revAccount}, nil).Once()
	s.mockFundRepo.On("ListFundsByEntity", mock.Anything, s.entity.EntityID).Return([]domain.Fund{s.fund}, nil).Once()

	job, err := s.service.ProcessImport(ctx, req)
	s.Require().NoError(err)

	failed := s.waitForStatus(job.ImportID, domain.ImportFailed)
	s.Require().NotEmpty(failed.Errors)
	s.Contains(failed.Errors[0], "T1")
}

func (s *ImportServiceTestSuite) TestProcessImport_SkippedRowUnbalancesTransaction() {
	ctx := context.Background()
	// The group balances as a whole (150 debit, 150 credit), but the first row
	// is missing its date and gets skipped, leaving 50 against 150.
	req := s.processRequest([][]string{
		{"T1", "", "100.00", "", "1000", "GEN", ""},
		{"T1", "2024-02-01", "50.00", "", "1000", "GEN", ""},
		{"T1", "2024-02-01", "", "150.00", "4000", "GEN", ""},
	})
	req.Config.ImportSettings.SkipRowsWithMissingData = true

	s.mockEntitySvc.On("GetEntityByID", mock.Anything, s.entity.EntityID).Return(&s.entity, nil).Once()
	s.mockAccountRepo.On("ListAccountsByEntity", mock.Anything, s.entity.EntityID).Return([]domain.Account{s.cashAccount, s.revAccount}, nil).Once()
	s.mockFundRepo.On("ListFundsByEntity", mock.Anything, s.entity.EntityID).Return([]domain.Fund{s.fund}, nil).Once()

	job, err := s.service.ProcessImport(ctx, req)
	s.Require().NoError(err)

	failed := s.waitForStatus(job.ImportID, domain.ImportFailed)
	s.Require().NotEmpty(failed.Errors)
	s.Contains(failed.Errors[0], "T1")
	s.Contains(failed.Errors[0], "do not balance")

	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveImportBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ImportServiceTestSuite) TestProcessImport_RowCapEnforced() {
	s.service = services.NewImportService(s.mockJournalRepo, s.mockAccountRepo, s.mockFundRepo, s.jobRepo, s.mockEntitySvc, 1)
	ctx := context.Background()
	req := s.processRequest([][]string{
		{"T1", "2024-02-01", "100.00", "", "1000", "GEN", ""},
		{"T1", "2024-02-01", "", "100.00", "4000", "GEN", ""},
	})

	s.mockEntitySvc.On("GetEntityByID", mock.Anything, s.entity.EntityID).Return(&s.entity, nil).Once()

	_, err := s.service.ProcessImport(ctx, req)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ImportServiceTestSuite) TestProcessImport_InactiveEntityRejected() {
	ctx := context.Background()
	inactive := s.entity
	inactive.Status = domain.StatusInactive

	s.mockEntitySvc.On("GetEntityByID", mock.Anything, inactive.EntityID).Return(&inactive, nil).Once()

	_, err := s.service.ProcessImport(ctx, s.processRequest([][]string{
		{"T1", "2024-02-01", "100.00", "", "1000", "GEN", ""},
	}))

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ImportServiceTestSuite) TestRollbackImport_CompletedRunDeletesEntries() {
	ctx := context.Background()
	importID := uuid.NewString()

	job := domain.ImportJob{
		ImportID:     importID,
		EntityID:     s.entity.EntityID,
		Status:       domain.ImportProcessing,
		TotalRecords: 4,
		StartedAt:    time.Now().UTC(),
	}
	s.Require().NoError(s.jobRepo.SaveJob(ctx, job))
	s.Require().NoError(s.jobRepo.SetStatus(ctx, importID, domain.ImportCompleted, nil))

	s.mockJournalRepo.On("DeleteJournalEntriesByImportID", ctx, importID).Return(int64(4), nil).Once()

	rolled, err := s.service.RollbackImport(ctx, importID)

	s.Require().NoError(err)
	s.Equal(domain.ImportRolledBack, rolled.Status)

	// A second rollback of the same run is a state error.
	_, err = s.service.RollbackImport(ctx, importID)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrImportState)
}

func (s *ImportServiceTestSuite) TestRollbackImport_FailedRunDeletesNothing() {
	ctx := context.Background()
	importID := uuid.NewString()

	job := domain.ImportJob{
		ImportID:  importID,
		EntityID:  s.entity.EntityID,
		Status:    domain.ImportProcessing,
		StartedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.jobRepo.SaveJob(ctx, job))
	s.Require().NoError(s.jobRepo.SetStatus(ctx, importID, domain.ImportFailed, []string{"row 2: unknown account code"}))

	// A failed run wrote nothing, so its rollback finds no entries to delete.
	s.mockJournalRepo.On("DeleteJournalEntriesByImportID", ctx, importID).Return(int64(0), nil).Once()

	rolled, err := s.service.RollbackImport(ctx, importID)

	s.Require().NoError(err)
	s.Equal(domain.ImportRolledBack, rolled.Status)
}

func (s *ImportServiceTestSuite) TestRollbackImport_InFlightRefused() {
	ctx := context.Background()
	importID := uuid.NewString()

	job := domain.ImportJob{
		ImportID:  importID,
		EntityID:  s.entity.EntityID,
		Status:    domain.ImportProcessing,
		StartedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.jobRepo.SaveJob(ctx, job))

	_, err := s.service.RollbackImport(ctx, importID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrImportState)
	s.mockJournalRepo.AssertNotCalled(s.T(), "DeleteJournalEntriesByImportID", mock.Anything, mock.Anything)
}

func (s *ImportServiceTestSuite) TestAnalyzeSheet_SuggestsMapping() {
	ctx := context.Background()

	report, err := s.service.AnalyzeSheet(ctx, importer.Sheet{
		Headers: []string{"Transaction ID", "Date", "Debit", "Credit", "Account Code"},
		Rows: [][]string{
			{"T1", "2024-02-01", "100.00", "", "1000"},
			{"T1", "2024-02-01", "", "100.00", "4000"},
		},
	})

	s.Require().NoError(err)
	s.Equal(2, report.RowCount)
	s.Equal("Transaction ID", report.SuggestedMapping[importer.TargetTransactionID])
}

func (s *ImportServiceTestSuite) TestAnalyzeSheet_EmptyHeadersRejected() {
	ctx := context.Background()

	_, err := s.service.AnalyzeSheet(ctx, importer.Sheet{})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ImportServiceTestSuite) TestValidateSheet_FlagsUnbalanced() {
	ctx := context.Background()

	report, err := s.service.ValidateSheet(ctx, importer.Sheet{
		Headers: []string{"Txn", "Date", "Debit", "Credit", "Account"},
		Rows: [][]string{
			{"T1", "2024-02-01", "100.00", "", "1000"},
			{"T1", "2024-02-01", "", "60.00", "4000"},
		},
	}, importer.Config{
		ColumnMapping: importer.ColumnMapping{
			importer.TargetTransactionID: "Txn",
			importer.TargetEntryDate:     "Date",
			importer.TargetDebit:         "Debit",
			importer.TargetCredit:        "Credit",
			importer.TargetAccountCode:   "Account",
		},
		DateFormat: "YYYY-MM-DD",
	})

	s.Require().NoError(err)
	s.Require().Len(report.UnbalancedTransactions, 1)
	s.True(report.UnbalancedTransactions[0].Difference.Equal(decimal.NewFromInt(40)))
}

func TestImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}
