package pgsql

import (
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	voucherRepo := newPgxVoucherRepository(dbPool, accountRepo, journalRepo)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	partyRepo := newPgxPartyRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		JournalRepo: journalRepo,
		VoucherRepo: voucherRepo,
		LedgerRepo:  ledgerRepo,
		PartyRepo:   partyRepo,
	}
}
