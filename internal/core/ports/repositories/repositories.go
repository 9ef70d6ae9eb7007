package repositories

// RepositoryProvider bundles every repository implementation for injection
// into the service container.
type RepositoryProvider struct {
	EntityRepo    EntityRepositoryFacade
	AccountRepo   AccountRepositoryFacade
	FundRepo      FundRepositoryFacade
	JournalRepo   JournalRepositoryFacade
	ReportingRepo ReportingRepository
	ImportJobRepo ImportJobRepository
}
