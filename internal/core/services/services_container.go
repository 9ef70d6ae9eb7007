package services

import (
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/pkg/config"
)

// NewServiceProvider wires every service with its repository dependencies.
func NewServiceProvider(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceProvider {
	provider := &portssvc.ServiceProvider{}

	// Entity service first; most other services resolve entities through it.
	provider.EntitySvc = NewEntityService(repos.EntityRepo)

	provider.AccountSvc = NewAccountService(repos.AccountRepo, provider.EntitySvc)
	provider.FundSvc = NewFundService(repos.FundRepo, provider.EntitySvc)
	provider.JournalSvc = NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.FundRepo, provider.EntitySvc)
	provider.TransferSvc = NewTransferService(repos.JournalRepo, repos.AccountRepo, provider.EntitySvc)
	provider.ReportingSvc = NewReportingService(repos.ReportingRepo, repos.FundRepo, repos.EntityRepo)
	provider.ImportSvc = NewImportService(repos.JournalRepo, repos.AccountRepo, repos.FundRepo, repos.ImportJobRepo, provider.EntitySvc, cfg.ImportMaxRows)

	return provider
}
