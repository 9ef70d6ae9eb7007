package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
	"github.com/nonprofit-suite/fund_accounting_app/internal/repositories/memory"
)

// NewRepositoryProvider wires every persistence implementation. Import jobs
// live in memory; everything else is PostgreSQL.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		EntityRepo:    newPgxEntityRepository(dbPool),
		AccountRepo:   newPgxAccountRepository(dbPool),
		FundRepo:      newPgxFundRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
		ImportJobRepo: memory.NewImportJobRepository(),
	}
}
