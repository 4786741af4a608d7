package repositories

// RepositoryContainer aggregates all repository facades for injection into
// the service layer.
type RepositoryContainer struct {
	Account   AccountRepositoryFacade
	Currency  CurrencyRepositoryFacade
	Entry     EntryRepositoryFacade
	Offset    OffsetRepositoryFacade
	Reporting ReportingRepositoryFacade
	User      UserRepositoryFacade
}
