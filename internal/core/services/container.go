package services

import (
	"time"

	portsrepo "github.com/openacct/openacct/internal/core/ports/repositories"
	portssvc "github.com/openacct/openacct/internal/core/ports/services"
)

// NewServiceContainer wires all services against the given repositories. The
// user service doubles as the authorizer for every other service.
func NewServiceContainer(repos portsrepo.RepositoryContainer, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) *portssvc.ServiceContainer {
	userSvc := NewUserService(repos.User)

	return &portssvc.ServiceContainer{
		Auth:      NewAuthService(repos.User, jwtSecret, jwtExpiry, jwtIssuer),
		User:      userSvc,
		Account:   NewAccountService(repos.Account, userSvc),
		Currency:  NewCurrencyService(repos.Currency, userSvc),
		Entry:     NewEntryService(repos.Entry, repos.Account, repos.Offset, userSvc),
		Ledger:    NewLedgerService(repos.Reporting, repos.Account, userSvc),
		Offset:    NewOffsetService(repos.Offset, repos.Account, userSvc),
		Reporting: NewReportingService(repos.Reporting, userSvc),
	}
}
