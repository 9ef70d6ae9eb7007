package services

// ServiceProvider bundles every service facade handed to the HTTP layer.
type ServiceProvider struct {
	EntitySvc    EntitySvcFacade
	AccountSvc   AccountSvcFacade
	FundSvc      FundSvcFacade
	JournalSvc   JournalSvcFacade
	TransferSvc  TransferSvcFacade
	ReportingSvc ReportingSvcFacade
	ImportSvc    ImportSvcFacade
}
