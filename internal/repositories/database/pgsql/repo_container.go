package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/openacct/openacct/internal/core/ports/repositories"
)

// NewRepositoryContainer wires every pgx-backed repository against the pool.
func NewRepositoryContainer(dbPool *pgxpool.Pool) portsrepo.RepositoryContainer {
	return portsrepo.RepositoryContainer{
		Account:   newPgxAccountRepository(dbPool),
		Currency:  newPgxCurrencyRepository(dbPool),
		Entry:     newPgxEntryRepository(dbPool),
		Offset:    newPgxOffsetRepository(dbPool),
		Reporting: newPgxReportingRepository(dbPool),
		User:      newPgxUserRepository(dbPool),
	}
}
