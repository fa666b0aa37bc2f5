package services

import (
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
)

// NewServiceContainer wires every service from the repository provider and
// the resolved control-account configuration.
func NewServiceContainer(repos portsrepo.RepositoryProvider, control ControlAccounts) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo)
	journalSvc := NewJournalService(repos.JournalRepo, repos.AccountRepo)
	voucherSvc := NewVoucherService(repos.VoucherRepo, repos.AccountRepo, repos.JournalRepo, repos.PartyRepo, control)
	ledgerSvc := NewLedgerService(repos.LedgerRepo, repos.AccountRepo)
	partySvc := NewPartyService(repos.PartyRepo)

	return &portssvc.ServiceContainer{
		Account: accountSvc,
		Journal: journalSvc,
		Voucher: voucherSvc,
		Ledger:  ledgerSvc,
		Party:   partySvc,
	}
}
