package services

// ServiceContainer aggregates all service facades for injection into the
// HTTP layer.
type ServiceContainer struct {
	Auth      AuthSvcFacade
	User      UserSvcFacade
	Account   AccountSvcFacade
	Currency  CurrencySvcFacade
	Entry     EntrySvcFacade
	Ledger    LedgerSvcFacade
	Offset    OffsetSvcFacade
	Reporting ReportingSvcFacade
}
