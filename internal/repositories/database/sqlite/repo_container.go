package sqlite

import (
	"database/sql"

	portsrepo "github.com/SscSPs/ledger_posting_service/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the SQLite-backed repositories. db should come from database.OpenSQLite.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: newSQLiteAccountRepository(db),
		JournalRepo: newSQLiteJournalRepository(db),
	}
}
